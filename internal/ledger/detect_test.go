package ledger

import (
	"fmt"
	"testing"

	"github.com/finsight/finsight/internal/model"
)

func TestDetectSubscriptions_Monthly(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-01-05", "Netflix", "15.99", "Entertainment"),
		tx(t, "2026-02-05", "Netflix", "15.99", "Entertainment"),
		tx(t, "2026-03-05", "Netflix", "15.99", "Entertainment"),
		tx(t, "2026-04-05", "Netflix", "15.99", "Entertainment"),
	}

	got := DetectSubscriptions(txs, nil)
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	c := got[0]
	if c.Frequency != model.FreqMonthly {
		t.Fatalf("frequency = %s, want monthly", c.Frequency)
	}
	if c.Confidence < 0.99 {
		t.Fatalf("confidence = %.2f, want ~1.0 for a flat monthly charge", c.Confidence)
	}
	if !c.AverageAmount.Equal(dec("15.99")) {
		t.Fatalf("average = %s, want 15.99", c.AverageAmount)
	}
	if c.Occurrences != 4 {
		t.Fatalf("occurrences = %d, want 4", c.Occurrences)
	}
	if !c.ExpectedNext.Equal(mustDate(t, "2026-05-05")) {
		t.Fatalf("expected next = %s, want 2026-05-05", c.ExpectedNext.Format("2006-01-02"))
	}
}

func TestDetectSubscriptions_WeeklyAndTrackedFlag(t *testing.T) {
	var txs []model.Transaction
	day := mustDate(t, "2026-05-01")
	for i := 0; i < 5; i++ {
		txs = append(txs, tx(t, day.Format("2006-01-02"), "Gym Pass", "12.50", "Health"))
		day = day.AddDate(0, 0, 7)
	}

	tracked := []model.Subscription{{ServiceName: "Gym Pass", Active: true}}
	got := DetectSubscriptions(txs, tracked)
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	if got[0].Frequency != model.FreqWeekly {
		t.Fatalf("frequency = %s, want weekly", got[0].Frequency)
	}
	if !got[0].AlreadyTracked {
		t.Fatal("AlreadyTracked not set for a tracked merchant")
	}
}

func TestDetectSubscriptions_IrregularDiscarded(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-01-03", "Corner Shop", "8.00", "Groceries"),
		tx(t, "2026-01-06", "Corner Shop", "23.50", "Groceries"),
		tx(t, "2026-02-20", "Corner Shop", "4.10", "Groceries"),
	}
	if got := DetectSubscriptions(txs, nil); len(got) != 0 {
		t.Fatalf("candidates = %d, want 0 for irregular spend", len(got))
	}
}

func TestAdvanceDue(t *testing.T) {
	now := mustDate(t, "2026-08-20")
	n := 0
	newID := func() string { n++; return fmt.Sprintf("id-%d", n) }

	subs := []model.Subscription{
		{
			ID: "s1", ServiceName: "Netflix", Price: dec("15.99"),
			Frequency: model.FreqMonthly, NextPayment: mustDate(t, "2026-07-01"),
			Active: true, Category: "Entertainment",
		},
		{
			ID: "s2", ServiceName: "Watched Only", Price: dec("9.99"),
			Frequency: model.FreqMonthly, NextPayment: mustDate(t, "2026-07-01"),
			Active: true, Watchlist: true,
		},
		{
			ID: "s3", ServiceName: "Future", Price: dec("5.00"),
			Frequency: model.FreqMonthly, NextPayment: mustDate(t, "2026-09-01"),
			Active: true,
		},
	}

	charges, updated := AdvanceDue(subs, now, newID)

	// July 1 and August 1 were due.
	if len(charges) != 2 {
		t.Fatalf("charges = %d, want 2", len(charges))
	}
	for _, c := range charges {
		if c.Source != model.SourceRecurring || !c.Recurring {
			t.Fatalf("charge not marked recurring: %+v", c)
		}
		if c.Name != "Netflix" {
			t.Fatalf("charged %q, want Netflix only", c.Name)
		}
	}
	if len(updated) != 1 || updated[0].ID != "s1" {
		t.Fatalf("updated = %+v, want only s1", updated)
	}
	if !updated[0].NextPayment.Equal(mustDate(t, "2026-09-01")) {
		t.Fatalf("next payment = %s, want 2026-09-01", updated[0].NextPayment.Format("2006-01-02"))
	}
}

func TestUpcomingPayments(t *testing.T) {
	now := mustDate(t, "2026-06-29")

	subs := []model.Subscription{
		{ServiceName: "Netflix", Price: dec("15.99"), Active: true, NextPayment: mustDate(t, "2026-06-30")},
		{ServiceName: "Annual Later", Price: dec("99"), Active: true, NextPayment: mustDate(t, "2026-12-01")},
		{ServiceName: "Cancelled", Price: dec("5"), Active: false, NextPayment: mustDate(t, "2026-06-30")},
	}
	debts := []model.DebtAccount{
		{Creditor: "Visa", Balance: dec("4200"), MinimumPayment: dec("120")},
	}

	got := UpcomingPayments(subs, debts, now, 3)
	if len(got) != 2 {
		t.Fatalf("upcoming = %d, want 2", len(got))
	}
	if got[0].Name != "Netflix" || got[0].Kind != "subscription" {
		t.Fatalf("first = %+v, want Netflix subscription", got[0])
	}
	if got[1].Name != "Visa" || !got[1].Due.Equal(mustDate(t, "2026-07-01")) {
		t.Fatalf("second = %+v, want Visa due 2026-07-01", got[1])
	}
}
