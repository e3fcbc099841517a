package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/finsight/finsight/internal/csvio"
	"github.com/finsight/finsight/internal/store"

	"github.com/spf13/cobra"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import bank statement CSVs (or a legacy JSON export) into the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Re-import files even if unchanged since the last import")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return importLegacyJSON(path)
	}

	cfg := loadCfg()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	tracked, err := st.GetTrackedImports()
	if err != nil {
		return err
	}

	dr, err := csvio.ParseDir(path, cfg, func(current, total int) {
		if !flagQuiet {
			fmt.Printf("\r  Parsing %d/%d", current, total)
		}
	})
	if err != nil {
		return err
	}
	if !flagQuiet && dr.TotalFiles > 0 {
		fmt.Println()
	}
	if dr.TotalFiles == 0 {
		return fmt.Errorf("no CSV statements found at %s", path)
	}

	files := make([]string, 0, len(dr.Results))
	for f := range dr.Results {
		files = append(files, f)
	}
	sort.Strings(files)

	var imported, skipped, failed, newRows int
	for _, f := range files {
		pr := dr.Results[f]
		if pr.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %v\n", filepath.Base(f), pr.Err)
			continue
		}

		info, statErr := os.Stat(f)
		if statErr != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %v\n", filepath.Base(f), statErr)
			continue
		}

		prev, seen := tracked[f]
		if seen && !flagImportForce &&
			prev.SizeBytes == info.Size() && prev.MtimeNs == info.ModTime().UnixNano() {
			skipped++
			continue
		}

		digest, err := csvio.FileDigest(f)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %v\n", filepath.Base(f), err)
			continue
		}
		if seen && !flagImportForce && prev.SHA256 == digest {
			skipped++
			continue
		}

		// Fingerprint dedup makes re-importing overlapping statements safe.
		inserted, err := st.InsertTransactions(pr.Transactions)
		if err != nil {
			return fmt.Errorf("importing %s: %w", filepath.Base(f), err)
		}

		if err := st.SaveImportFile(f, store.ImportFileInfo{
			SHA256:       digest,
			MtimeNs:      info.ModTime().UnixNano(),
			SizeBytes:    info.Size(),
			RowsTotal:    pr.RowsTotal,
			RowsImported: inserted,
		}); err != nil {
			return err
		}

		imported++
		newRows += inserted
		if !flagQuiet {
			fmt.Printf("  %s: %d rows, %d new", filepath.Base(f), pr.RowsTotal, inserted)
			if pr.RowErrors > 0 {
				fmt.Printf(" (%d rows skipped)", pr.RowErrors)
			}
			fmt.Println()
		}
	}

	fmt.Printf("\n  Imported %d file(s), %d new transaction(s)", imported, newRows)
	if skipped > 0 {
		fmt.Printf(", %d unchanged", skipped)
	}
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to import", failed)
	}
	return nil
}

// importLegacyJSON loads subscriptions exported by the old browser app.
func importLegacyJSON(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	subs, dropped, err := csvio.ReadSubscriptionsJSON(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, sub := range subs {
		if err := st.SaveSubscription(sub); err != nil {
			return err
		}
	}

	fmt.Printf("  Imported %d subscription(s)", len(subs))
	if dropped > 0 {
		fmt.Printf(", %d entries skipped", dropped)
	}
	fmt.Println()
	return nil
}
