package ledger

import (
	"testing"
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/shopspring/decimal"
)

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

func tx(t *testing.T, date, name, amount, category string) model.Transaction {
	t.Helper()
	return model.Transaction{
		ID:       name + "-" + date,
		Date:     mustDate(t, date),
		Name:     name,
		Amount:   dec(amount),
		Category: category,
		Source:   model.SourceManual,
	}
}

func TestSummarize(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Payroll", "4000", model.CategoryIncome),
		tx(t, "2026-06-03", "Grocer", "200", "Groceries"),
		tx(t, "2026-06-10", "Netflix", "16", "Entertainment"),
		tx(t, "2026-06-10", "Rent", "1500", "Housing"),
	}
	txs[2].Recurring = true

	payments := []model.DebtPayment{
		{ID: "p1", Amount: dec("300"), Date: mustDate(t, "2026-06-15")},
	}

	sum := Summarize(txs, payments, mustDate(t, "2026-06-01"), mustDate(t, "2026-06-30"))

	if !sum.Income.Equal(dec("4000")) {
		t.Fatalf("Income = %s, want 4000", sum.Income)
	}
	if !sum.Expenses.Equal(dec("1716")) {
		t.Fatalf("Expenses = %s, want 1716", sum.Expenses)
	}
	if !sum.SubscriptionSpend.Equal(dec("16")) {
		t.Fatalf("SubscriptionSpend = %s, want 16", sum.SubscriptionSpend)
	}
	if !sum.NetCashFlow.Equal(dec("1984")) {
		t.Fatalf("NetCashFlow = %s, want 1984", sum.NetCashFlow)
	}
	if sum.ActiveDays != 3 {
		t.Fatalf("ActiveDays = %d, want 3", sum.ActiveDays)
	}
	if sum.SavingsRate < 49.5 || sum.SavingsRate > 49.7 {
		t.Fatalf("SavingsRate = %.2f, want ~49.6", sum.SavingsRate)
	}
}

func TestSummarize_ZeroIncome(t *testing.T) {
	txs := []model.Transaction{tx(t, "2026-06-03", "Grocer", "200", "Groceries")}
	sum := Summarize(txs, nil, time.Time{}, time.Time{})
	if sum.SavingsRate != 0 {
		t.Fatalf("SavingsRate with zero income = %.2f, want 0", sum.SavingsRate)
	}
}

func TestAggregateCategories(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Payroll", "4000", model.CategoryIncome),
		tx(t, "2026-06-03", "Grocer", "300", "Groceries"),
		tx(t, "2026-06-05", "Grocer", "100", "Groceries"),
		tx(t, "2026-06-10", "Netflix", "100", "Entertainment"),
	}

	cats := AggregateCategories(txs, time.Time{}, time.Time{})
	if len(cats) != 2 {
		t.Fatalf("len = %d, want 2 (income excluded)", len(cats))
	}
	if cats[0].Category != "Groceries" || !cats[0].Total.Equal(dec("400")) {
		t.Fatalf("top category = %+v, want Groceries 400", cats[0])
	}
	if cats[0].Count != 2 {
		t.Fatalf("Groceries count = %d, want 2", cats[0].Count)
	}
	if cats[0].SharePercent < 79.9 || cats[0].SharePercent > 80.1 {
		t.Fatalf("Groceries share = %.1f, want 80", cats[0].SharePercent)
	}
	if cats[1].SharePercent < 19.9 || cats[1].SharePercent > 20.1 {
		t.Fatalf("Entertainment share = %.1f, want 20", cats[1].SharePercent)
	}
}

func TestAggregateCategories_Empty(t *testing.T) {
	if cats := AggregateCategories(nil, time.Time{}, time.Time{}); len(cats) != 0 {
		t.Fatalf("expected empty result, got %d", len(cats))
	}
}

func TestAggregateDays_FillsGaps(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-02", "Grocer", "50", "Groceries"),
	}
	days := AggregateDays(txs, mustDate(t, "2026-06-01"), mustDate(t, "2026-06-05"))
	if len(days) != 5 {
		t.Fatalf("len = %d, want 5", len(days))
	}
	// Most recent first; June 2 carries the spend.
	if !days[0].Date.Equal(mustDate(t, "2026-06-05")) {
		t.Fatalf("first day = %s, want 2026-06-05", days[0].Date.Format("2006-01-02"))
	}
	if !days[3].Expenses.Equal(dec("50")) {
		t.Fatalf("June 2 expenses = %s, want 50", days[3].Expenses)
	}
	if !days[4].Expenses.IsZero() {
		t.Fatalf("June 1 expenses = %s, want 0", days[4].Expenses)
	}
}

func TestAggregateMonths(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-04-10", "Payroll", "4000", model.CategoryIncome),
		tx(t, "2026-04-12", "Rent", "1500", "Housing"),
		tx(t, "2026-06-12", "Rent", "1500", "Housing"),
	}
	months := AggregateMonths(txs, mustDate(t, "2026-04-01"), mustDate(t, "2026-06-30"))
	if len(months) != 3 {
		t.Fatalf("len = %d, want 3 (May filled)", len(months))
	}
	if !months[0].Net.Equal(dec("2500")) {
		t.Fatalf("April net = %s, want 2500", months[0].Net)
	}
	if months[1].Count != 0 {
		t.Fatalf("May count = %d, want 0", months[1].Count)
	}
}

func TestFilters(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2026-06-01", "Netflix", "16", "Entertainment"),
		tx(t, "2026-06-02", "Grocer", "50", "Groceries"),
	}

	if got := FilterByCategory(txs, "enter"); len(got) != 1 || got[0].Name != "Netflix" {
		t.Fatalf("FilterByCategory = %+v", got)
	}
	if got := FilterByName(txs, "GROC"); len(got) != 1 || got[0].Name != "Grocer" {
		t.Fatalf("FilterByName = %+v", got)
	}
	if got := FilterByTime(txs, mustDate(t, "2026-06-02"), time.Time{}); len(got) != 1 {
		t.Fatalf("FilterByTime = %+v", got)
	}
}
