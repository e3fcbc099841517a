package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/finsight/finsight/internal/model"
)

func byKind(anomalies []model.Anomaly, kind string) []model.Anomaly {
	var out []model.Anomaly
	for _, a := range anomalies {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func TestDetectAnomalies_Spike(t *testing.T) {
	// Five routine charges and one outlier in the same category.
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Cafe A", "10", "Dining"),
		tx(t, "2026-06-05", "Cafe B", "10", "Dining"),
		tx(t, "2026-06-09", "Cafe C", "10", "Dining"),
		tx(t, "2026-06-13", "Cafe D", "10", "Dining"),
		tx(t, "2026-06-17", "Cafe E", "10", "Dining"),
		tx(t, "2026-06-21", "Banquet Hall", "200", "Dining"),
	}

	spikes := byKind(DetectAnomalies(txs, time.Time{}, time.Time{}, AnomalyOptions{}), model.AnomalySpike)
	if len(spikes) != 1 {
		t.Fatalf("spikes = %d, want 1", len(spikes))
	}
	got := spikes[0]
	if got.Name != "Banquet Hall" {
		t.Fatalf("flagged %q, want Banquet Hall", got.Name)
	}
	// mean 41.67, stddev 70.80 => z ~= 2.24
	if math.Abs(got.ZScore-2.236) > 0.01 {
		t.Fatalf("z = %.3f, want ~2.236", got.ZScore)
	}
	if got.Severity != model.SeverityLow {
		t.Fatalf("severity = %s, want low", got.Severity)
	}
}

func TestDetectAnomalies_SpikeSkipsSmallCategories(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Cafe A", "10", "Dining"),
		tx(t, "2026-06-05", "Banquet Hall", "500", "Dining"),
	}
	spikes := byKind(DetectAnomalies(txs, time.Time{}, time.Time{}, AnomalyOptions{}), model.AnomalySpike)
	if len(spikes) != 0 {
		t.Fatalf("spikes = %d, want 0 for thin history", len(spikes))
	}
}

func TestDetectAnomalies_DuplicateCharge(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Netflix", "15.99", "Entertainment"),
		tx(t, "2026-06-03", "Netflix", "15.99", "Entertainment"),
	}

	dups := byKind(DetectAnomalies(txs, time.Time{}, time.Time{}, AnomalyOptions{}), model.AnomalyDuplicate)
	if len(dups) != 1 {
		t.Fatalf("duplicates = %d, want 1", len(dups))
	}
	if dups[0].Severity != model.SeverityMedium {
		t.Fatalf("severity = %s, want medium", dups[0].Severity)
	}
	// The later of the pair is the suspect.
	if !dups[0].Date.Equal(mustDate(t, "2026-06-03")) {
		t.Fatalf("flagged date = %s, want the later charge", dups[0].Date.Format("2006-01-02"))
	}
}

func TestDetectAnomalies_DuplicateOutsideWindow(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Netflix", "15.99", "Entertainment"),
		tx(t, "2026-06-10", "Netflix", "15.99", "Entertainment"),
	}
	dups := byKind(DetectAnomalies(txs, time.Time{}, time.Time{}, AnomalyOptions{}), model.AnomalyDuplicate)
	if len(dups) != 0 {
		t.Fatalf("duplicates = %d, want 0 for charges 9 days apart", len(dups))
	}
}

func TestDetectAnomalies_RecurringNotDuplicate(t *testing.T) {
	a := tx(t, "2026-06-01", "Gym", "40", "Health")
	b := tx(t, "2026-06-02", "Gym", "40", "Health")
	a.Recurring = true
	b.Recurring = true
	dups := byKind(DetectAnomalies([]model.Transaction{a, b}, time.Time{}, time.Time{}, AnomalyOptions{}), model.AnomalyDuplicate)
	if len(dups) != 0 {
		t.Fatalf("duplicates = %d, want 0 for recurring charges", len(dups))
	}
}

func TestDetectAnomalies_NewMerchant(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Grocer", "50", "Groceries"),
		tx(t, "2026-06-08", "Grocer", "55", "Groceries"),
		tx(t, "2026-06-10", "Mystery Shop", "80", "Shopping"),
	}

	fresh := byKind(DetectAnomalies(txs, time.Time{}, time.Time{}, AnomalyOptions{}), model.AnomalyNewMerchant)
	if len(fresh) != 1 {
		t.Fatalf("new merchants = %d, want 1", len(fresh))
	}
	if fresh[0].Name != "Mystery Shop" {
		t.Fatalf("flagged %q, want Mystery Shop", fresh[0].Name)
	}
}

func TestDetectAnomalies_SortedBySeverity(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Netflix", "15.99", "Entertainment"),
		tx(t, "2026-06-02", "Netflix", "15.99", "Entertainment"),
		tx(t, "2026-06-10", "Mystery Shop", "80", "Shopping"),
	}
	all := DetectAnomalies(txs, time.Time{}, time.Time{}, AnomalyOptions{})
	for i := 1; i < len(all); i++ {
		if model.SeverityRank(all[i-1].Severity) > model.SeverityRank(all[i].Severity) {
			t.Fatalf("anomalies not sorted by severity: %s before %s", all[i-1].Severity, all[i].Severity)
		}
	}
}

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NETFLIX.COM", "netflix.com"},
		{"  Whole Foods  #1042", "whole foods"},
		{"UBER   TRIP 83711", "uber trip"},
	}
	for _, tt := range tests {
		if got := NormalizeMerchant(tt.in); got != tt.want {
			t.Fatalf("NormalizeMerchant(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
