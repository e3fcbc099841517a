package ledger

import (
	"math"
	"time"

	"github.com/finsight/finsight/internal/model"
)

// forecastZ is the 90% confidence multiplier.
const forecastZ = 1.645

// Forecast projects daily cash flow for horizonDays past now, from the
// trailing 90 days of history. Known subscription renewals replace the
// statistical expense mean on their due days. Bounds are mean ± 1.645σ,
// clamped at zero.
func Forecast(txs []model.Transaction, subs []model.Subscription, now time.Time, horizonDays int) []model.ForecastDay {
	since := now.AddDate(0, 0, -90)
	days := AggregateDays(txs, since, now)

	incomes := make([]float64, 0, len(days))
	expenses := make([]float64, 0, len(days))
	for _, d := range days {
		in, _ := d.Income.Float64()
		ex, _ := d.Expenses.Float64()
		incomes = append(incomes, in)
		expenses = append(expenses, ex)
	}
	incomeMean, _ := meanStddev(incomes)
	expenseMean, expenseStddev := meanStddev(expenses)

	renewals := renewalsByDay(subs, now, horizonDays)

	out := make([]model.ForecastDay, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		date := now.AddDate(0, 0, i)
		key := date.Format("2006-01-02")

		fd := model.ForecastDay{
			Date:     date,
			Income:   incomeMean,
			Expenses: expenseMean,
		}
		if known, ok := renewals[key]; ok {
			fd.KnownRenewals = known
			fd.Expenses = known
		}
		fd.ExpensesLow = math.Max(0, fd.Expenses-forecastZ*expenseStddev)
		fd.ExpensesHigh = fd.Expenses + forecastZ*expenseStddev
		fd.Net = fd.Income - fd.Expenses
		out = append(out, fd)
	}
	return out
}

func renewalsByDay(subs []model.Subscription, now time.Time, horizonDays int) map[string]float64 {
	horizon := now.AddDate(0, 0, horizonDays)
	byDay := make(map[string]float64)

	for _, s := range subs {
		if !s.Active || s.Watchlist || s.NextPayment.IsZero() {
			continue
		}
		due := s.NextPayment
		for !due.After(horizon) {
			if due.After(now) {
				price, _ := s.Price.Float64()
				byDay[due.Format("2006-01-02")] += price
			}
			due = s.Frequency.Next(due)
		}
	}
	return byDay
}

// LinearTrend fits a least-squares line through the series, index as x.
// R² is zero for flat or degenerate input.
func LinearTrend(values []float64) model.TrendLine {
	n := float64(len(values))
	if n < 2 {
		return model.TrendLine{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return model.TrendLine{}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, v := range values {
		pred := slope*float64(i) + intercept
		ssTot += (v - meanY) * (v - meanY)
		ssRes += (v - pred) * (v - pred)
	}

	tl := model.TrendLine{Slope: slope, Increase: slope > 0}
	if ssTot > 0 {
		tl.R2 = 1 - ssRes/ssTot
	}
	return tl
}
