package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/finsight/finsight/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "checking.csv", "Date,Description,Amount\n2026-06-01,Grocer,50.00\n")
	writeFile(t, dir, "card.CSV", "Date,Description,Amount\n2026-06-02,Netflix,15.99\nbad-row,,\n")
	writeFile(t, dir, "notes.txt", "not a statement")

	var calls int
	res, err := ParseDir(dir, config.DefaultConfig(), func(current, total int) { calls++ })
	if err != nil {
		t.Fatalf("parse dir: %v", err)
	}
	if res.TotalFiles != 2 {
		t.Fatalf("total files = %d, want 2 (txt skipped)", res.TotalFiles)
	}
	if res.ParsedFiles != 2 || res.FileErrors != 0 {
		t.Fatalf("parsed = %d file errors = %d, want 2/0", res.ParsedFiles, res.FileErrors)
	}
	if res.RowErrors != 1 {
		t.Fatalf("row errors = %d, want 1", res.RowErrors)
	}
	if calls != 2 {
		t.Fatalf("progress calls = %d, want 2", calls)
	}

	total := 0
	for _, pr := range res.Results {
		total += len(pr.Transactions)
	}
	if total != 2 {
		t.Fatalf("transactions = %d, want 2", total)
	}
}

func TestParseDir_MissingDirectory(t *testing.T) {
	res, err := ParseDir(filepath.Join(t.TempDir(), "nope"), config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if res.TotalFiles != 0 {
		t.Fatalf("total files = %d, want 0", res.TotalFiles)
	}
}

func TestFileDigest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.csv", "Date,Description,Amount\n")

	d1, err := FileDigest(path)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	d2, _ := FileDigest(path)
	if d1 != d2 || len(d1) != 64 {
		t.Fatalf("digest unstable or wrong length: %q vs %q", d1, d2)
	}
}
