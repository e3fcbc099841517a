// Package ledger computes aggregates, detections, and projections over
// transaction history. All functions are pure over value slices.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/shopspring/decimal"
)

// Summarize computes the top-level summary for transactions within
// [since, until].
func Summarize(txs []model.Transaction, debtPayments []model.DebtPayment, since, until time.Time) model.MonthlySummary {
	filtered := FilterByTime(txs, since, until)

	var sum model.MonthlySummary
	activeDays := make(map[string]struct{})

	for _, t := range filtered {
		sum.Transactions++
		if t.IsIncome() {
			sum.Income = sum.Income.Add(t.Amount)
		} else {
			sum.Expenses = sum.Expenses.Add(t.Amount)
			if t.Recurring {
				sum.SubscriptionSpend = sum.SubscriptionSpend.Add(t.Amount)
			}
		}
		activeDays[t.Date.Format("2006-01-02")] = struct{}{}
	}

	for _, p := range debtPayments {
		if !since.IsZero() && p.Date.Before(since) {
			continue
		}
		if !until.IsZero() && p.Date.After(until) {
			continue
		}
		sum.DebtPayments = sum.DebtPayments.Add(p.Amount)
	}

	sum.ActiveDays = len(activeDays)
	sum.NetCashFlow = sum.Income.Sub(sum.Expenses).Sub(sum.DebtPayments)

	if sum.Income.IsPositive() {
		net, _ := sum.NetCashFlow.Float64()
		income, _ := sum.Income.Float64()
		sum.SavingsRate = net / income * 100
	}
	if sum.ActiveDays > 0 {
		sum.ExpensesPerDay = sum.Expenses.Div(decimal.NewFromInt(int64(sum.ActiveDays)))
	}

	return sum
}

// AggregateCategories computes per-category spend, sorted descending by
// total. Income transactions are excluded.
func AggregateCategories(txs []model.Transaction, since, until time.Time) []model.CategoryStat {
	filtered := FilterByTime(txs, since, until)

	catMap := make(map[string]*model.CategoryStat)
	total := decimal.Zero

	for _, t := range filtered {
		if t.IsIncome() {
			continue
		}
		cs, ok := catMap[t.Category]
		if !ok {
			cs = &model.CategoryStat{Category: t.Category}
			catMap[t.Category] = cs
		}
		cs.Total = cs.Total.Add(t.Amount)
		cs.Count++
		total = total.Add(t.Amount)
	}

	cats := make([]model.CategoryStat, 0, len(catMap))
	for _, cs := range catMap {
		if total.IsPositive() {
			share, _ := cs.Total.Div(total).Float64()
			cs.SharePercent = share * 100
		}
		cats = append(cats, *cs)
	}
	sort.Slice(cats, func(i, j int) bool {
		if !cats[i].Total.Equal(cats[j].Total) {
			return cats[i].Total.GreaterThan(cats[j].Total)
		}
		return cats[i].Category < cats[j].Category
	})

	return cats
}

// AggregateDays computes per-day income and spend. Every day in the
// range gets a row so charts show gaps as zeros. Most recent first.
func AggregateDays(txs []model.Transaction, since, until time.Time) []model.DailyStat {
	filtered := FilterByTime(txs, since, until)

	dayMap := make(map[string]*model.DailyStat)

	for _, t := range filtered {
		key := t.Date.Format("2006-01-02")
		ds, ok := dayMap[key]
		if !ok {
			d, _ := time.Parse("2006-01-02", key)
			ds = &model.DailyStat{Date: d}
			dayMap[key] = ds
		}
		if t.IsIncome() {
			ds.Income = ds.Income.Add(t.Amount)
		} else {
			ds.Expenses = ds.Expenses.Add(t.Amount)
		}
		ds.Count++
	}

	if !since.IsZero() && !until.IsZero() {
		day := since.Truncate(24 * time.Hour)
		end := until.Truncate(24 * time.Hour)
		for !day.After(end) {
			key := day.Format("2006-01-02")
			if _, ok := dayMap[key]; !ok {
				dayMap[key] = &model.DailyStat{Date: day}
			}
			day = day.AddDate(0, 0, 1)
		}
	}

	days := make([]model.DailyStat, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})

	return days
}

// AggregateMonths computes per-month income, spend, and net. Every
// month in the range gets a row. Oldest first.
func AggregateMonths(txs []model.Transaction, since, until time.Time) []model.MonthStat {
	filtered := FilterByTime(txs, since, until)

	monthMap := make(map[string]*model.MonthStat)

	for _, t := range filtered {
		key := t.Date.Format("2006-01")
		ms, ok := monthMap[key]
		if !ok {
			m, _ := time.Parse("2006-01", key)
			ms = &model.MonthStat{Month: m}
			monthMap[key] = ms
		}
		if t.IsIncome() {
			ms.Income = ms.Income.Add(t.Amount)
		} else {
			ms.Expenses = ms.Expenses.Add(t.Amount)
		}
		ms.Count++
	}

	if !since.IsZero() && !until.IsZero() {
		m := time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(until.Year(), until.Month(), 1, 0, 0, 0, 0, time.UTC)
		for !m.After(end) {
			key := m.Format("2006-01")
			if _, ok := monthMap[key]; !ok {
				monthMap[key] = &model.MonthStat{Month: m}
			}
			m = m.AddDate(0, 1, 0)
		}
	}

	months := make([]model.MonthStat, 0, len(monthMap))
	for _, ms := range monthMap {
		ms.Net = ms.Income.Sub(ms.Expenses)
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})

	return months
}

// FilterByTime returns transactions dated within [since, until].
func FilterByTime(txs []model.Transaction, since, until time.Time) []model.Transaction {
	if since.IsZero() && until.IsZero() {
		return txs
	}

	var result []model.Transaction
	for _, t := range txs {
		if !since.IsZero() && t.Date.Before(since) {
			continue
		}
		if !until.IsZero() && t.Date.After(until) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// FilterByCategory returns transactions matching the category substring.
func FilterByCategory(txs []model.Transaction, category string) []model.Transaction {
	if category == "" {
		return txs
	}
	var result []model.Transaction
	for _, t := range txs {
		if containsIgnoreCase(t.Category, category) {
			result = append(result, t)
		}
	}
	return result
}

// FilterByName returns transactions matching the merchant substring.
func FilterByName(txs []model.Transaction, name string) []model.Transaction {
	if name == "" {
		return txs
	}
	var result []model.Transaction
	for _, t := range txs {
		if containsIgnoreCase(t.Name, name) {
			result = append(result, t)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
