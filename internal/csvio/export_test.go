package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/model"
)

func TestTransactionsCSVRoundTrip(t *testing.T) {
	txs := []model.Transaction{
		{
			ID: "a", Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			Name: "Grocer, Downtown", Amount: dec("82.10"),
			Category: "Groceries", Source: model.SourceManual,
		},
	}

	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, txs); err != nil {
		t.Fatalf("export: %v", err)
	}

	pr := Parse(&buf, config.DefaultConfig())
	if pr.Err != nil {
		t.Fatalf("reimport: %v", pr.Err)
	}
	if len(pr.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(pr.Transactions))
	}
	got := pr.Transactions[0]
	if got.Name != "Grocer, Downtown" || !got.Amount.Equal(dec("82.10")) || got.Category != "Groceries" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestWriteSubscriptionsCSV(t *testing.T) {
	subs := []model.Subscription{{
		ServiceName: "Netflix", Price: dec("15.99"), Frequency: model.FreqMonthly,
		NextPayment: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Active:      true, Category: "Entertainment",
	}}

	var buf bytes.Buffer
	if err := WriteSubscriptionsCSV(&buf, subs); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Netflix,15.99,monthly,2026-09-01,true,false,Entertainment") {
		t.Fatalf("unexpected csv:\n%s", out)
	}
}

func TestReadSubscriptionsJSON_LegacyFields(t *testing.T) {
	// Old exports used cost and billingCycle.
	input := `[
		{"name": "Netflix", "cost": 15.99, "billingCycle": "monthly", "nextPayment": "2026-09-01"},
		{"serviceName": "iCloud", "price": "2.99", "frequency": "monthly", "active": false},
		{"name": "No Price At All"}
	]`

	subs, skipped, err := ReadSubscriptionsJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(subs) != 2 {
		t.Fatalf("subs = %d, want 2", len(subs))
	}

	if subs[0].ServiceName != "Netflix" || !subs[0].Price.Equal(dec("15.99")) {
		t.Fatalf("legacy cost not migrated: %+v", subs[0])
	}
	if subs[0].Frequency != model.FreqMonthly {
		t.Fatalf("legacy billingCycle not migrated: %+v", subs[0])
	}
	if !subs[0].Active {
		t.Fatal("active should default true")
	}
	if subs[1].Active {
		t.Fatal("explicit active false lost")
	}
	if subs[0].NextPayment.Format("2006-01-02") != "2026-09-01" {
		t.Fatalf("next payment = %s", subs[0].NextPayment.Format("2006-01-02"))
	}
}

func TestReadSubscriptionsJSON_BadInput(t *testing.T) {
	if _, _, err := ReadSubscriptionsJSON(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error for malformed input")
	}
}
