package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/shopspring/decimal"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSchemaVersionRecorded(t *testing.T) {
	s := openTestStore(t)
	v, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != schemaVersion {
		t.Fatalf("schema version = %d, want %d", v, schemaVersion)
	}
}

func TestInsertTransactions_DedupByFingerprint(t *testing.T) {
	s := openTestStore(t)

	txs := []model.Transaction{
		{ID: "a", Date: mustDate(t, "2026-01-05"), Name: "Netflix", Amount: dec("15.99"), Category: "Entertainment", Source: model.SourceImport},
		{ID: "b", Date: mustDate(t, "2026-01-06"), Name: "Grocer", Amount: dec("82.10"), Category: "Groceries", Source: model.SourceImport},
	}
	n, err := s.InsertTransactions(txs)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}

	// Same rows under new IDs must be ignored.
	txs[0].ID = "c"
	txs[1].ID = "d"
	n, err = s.InsertTransactions(txs)
	if err != nil {
		t.Fatalf("reinsert: %v", err)
	}
	if n != 0 {
		t.Fatalf("reinserted = %d, want 0", n)
	}

	count, err := s.TransactionCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestListTransactions_DateRange(t *testing.T) {
	s := openTestStore(t)

	_, err := s.InsertTransactions([]model.Transaction{
		{ID: "a", Date: mustDate(t, "2026-01-01"), Name: "early", Amount: dec("1"), Category: "Other", Source: model.SourceManual},
		{ID: "b", Date: mustDate(t, "2026-02-01"), Name: "mid", Amount: dec("2"), Category: "Other", Source: model.SourceManual},
		{ID: "c", Date: mustDate(t, "2026-03-01"), Name: "late", Amount: dec("3"), Category: "Other", Source: model.SourceManual},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.ListTransactions(mustDate(t, "2026-01-15"), mustDate(t, "2026-02-15"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "mid" {
		t.Fatalf("got %d rows, want just %q", len(got), "mid")
	}
	if !got[0].Amount.Equal(dec("2")) {
		t.Fatalf("amount round-trip = %s, want 2", got[0].Amount)
	}
}

func TestSubscriptionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	sub := model.Subscription{
		ID:          "sub-1",
		ServiceName: "Netflix",
		Price:       dec("15.99"),
		Frequency:   model.FreqMonthly,
		NextPayment: mustDate(t, "2026-09-01"),
		Active:      true,
		Watchlist:   false,
		Category:    "Entertainment",
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.SaveSubscription(sub); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Replacing under the same ID must not duplicate.
	sub.Price = dec("17.99")
	sub.Watchlist = true
	if err := s.SaveSubscription(sub); err != nil {
		t.Fatalf("resave: %v", err)
	}

	subs, err := s.ListSubscriptions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("len = %d, want 1", len(subs))
	}
	got := subs[0]
	if !got.Price.Equal(dec("17.99")) || !got.Watchlist || got.Frequency != model.FreqMonthly {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestDebtAndPayments(t *testing.T) {
	s := openTestStore(t)

	d := model.DebtAccount{
		ID: "debt-1", Creditor: "Visa", Kind: model.DebtCreditCard,
		Balance: dec("4200.00"), APR: 19.99, MinimumPayment: dec("120.00"),
	}
	if err := s.SaveDebt(d); err != nil {
		t.Fatalf("save debt: %v", err)
	}
	if err := s.SaveDebtPayment(model.DebtPayment{
		ID: "pay-1", DebtID: "debt-1", Creditor: "Visa",
		Amount: dec("120.00"), Date: mustDate(t, "2026-07-01"),
	}); err != nil {
		t.Fatalf("save payment: %v", err)
	}

	debts, err := s.ListDebts()
	if err != nil {
		t.Fatalf("list debts: %v", err)
	}
	if len(debts) != 1 || debts[0].APR != 19.99 {
		t.Fatalf("debt round-trip mismatch: %+v", debts)
	}

	pays, err := s.ListDebtPayments(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(pays) != 1 || !pays[0].Amount.Equal(dec("120.00")) {
		t.Fatalf("payment round-trip mismatch: %+v", pays)
	}
}

func TestReplaceAnomalies(t *testing.T) {
	s := openTestStore(t)

	first := []model.Anomaly{{
		ID: "an-1", TransactionID: "a", Kind: model.AnomalySpike,
		Severity: model.SeverityHigh, ZScore: 3.4,
		ExpectedAmount: dec("40"), Amount: dec("400"),
		Category: "Dining", Name: "Restaurant",
		Date: mustDate(t, "2026-06-01"), DetectedAt: time.Now(),
	}}
	if err := s.ReplaceAnomalies(first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	second := []model.Anomaly{{
		ID: "an-2", TransactionID: "b", Kind: model.AnomalyDuplicate,
		Severity: model.SeverityMedium, ZScore: 0,
		ExpectedAmount: dec("15.99"), Amount: dec("15.99"),
		Category: "Entertainment", Name: "Netflix",
		Date: mustDate(t, "2026-06-10"), DetectedAt: time.Now(),
	}}
	if err := s.ReplaceAnomalies(second); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	got, err := s.ListAnomalies()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "an-2" {
		t.Fatalf("history not replaced, got %+v", got)
	}
}

func TestImportFileTracker(t *testing.T) {
	s := openTestStore(t)

	fi := ImportFileInfo{SHA256: "abc", MtimeNs: 42, SizeBytes: 1024, RowsTotal: 10, RowsImported: 8}
	if err := s.SaveImportFile("/tmp/statement.csv", fi); err != nil {
		t.Fatalf("save: %v", err)
	}

	tracked, err := s.GetTrackedImports()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, ok := tracked["/tmp/statement.csv"]
	if !ok {
		t.Fatal("file not tracked")
	}
	if got.SHA256 != "abc" || got.RowsImported != 8 {
		t.Fatalf("tracker mismatch: %+v", got)
	}
}
