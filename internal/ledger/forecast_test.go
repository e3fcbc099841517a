package ledger

import (
	"math"
	"testing"

	"github.com/finsight/finsight/internal/model"
)

func TestForecast_KnownRenewalOverridesQuietHistory(t *testing.T) {
	now := mustDate(t, "2026-08-01")
	subs := []model.Subscription{{
		ServiceName: "Netflix", Price: dec("20"), Active: true,
		Frequency: model.FreqMonthly, NextPayment: mustDate(t, "2026-08-06"),
	}}

	days := Forecast(nil, subs, now, 14)
	if len(days) != 14 {
		t.Fatalf("len = %d, want 14", len(days))
	}

	renewal := days[4] // Aug 6 is day 5 out
	if !renewal.Date.Equal(mustDate(t, "2026-08-06")) {
		t.Fatalf("day 5 = %s, want 2026-08-06", renewal.Date.Format("2006-01-02"))
	}
	if renewal.KnownRenewals != 20 {
		t.Fatalf("KnownRenewals = %.2f, want 20", renewal.KnownRenewals)
	}
	if renewal.Expenses != 20 {
		t.Fatalf("Expenses = %.2f, want 20 with no spend history", renewal.Expenses)
	}
	if renewal.Net != -20 {
		t.Fatalf("Net = %.2f, want -20", renewal.Net)
	}

	quiet := days[0]
	if quiet.Expenses != 0 || quiet.KnownRenewals != 0 {
		t.Fatalf("quiet day has expenses: %+v", quiet)
	}
}

func TestForecast_SmallRenewalStillOverridesMean(t *testing.T) {
	now := mustDate(t, "2026-08-01")

	// Heavy daily history so the expense mean far exceeds the renewal.
	var txs []model.Transaction
	day := mustDate(t, "2026-05-10")
	for i := 0; i < 80; i++ {
		txs = append(txs, tx(t, day.Format("2006-01-02"), "Grocer", "150", "Groceries"))
		day = day.AddDate(0, 0, 1)
	}
	subs := []model.Subscription{{
		ServiceName: "Spotify", Price: dec("11"), Active: true,
		Frequency: model.FreqMonthly, NextPayment: mustDate(t, "2026-08-06"),
	}}

	days := Forecast(txs, subs, now, 10)

	quiet := days[0]
	if quiet.Expenses <= 11 {
		t.Fatalf("mean = %.2f, want well above the renewal price", quiet.Expenses)
	}
	renewal := days[4]
	if renewal.KnownRenewals != 11 {
		t.Fatalf("KnownRenewals = %.2f, want 11", renewal.KnownRenewals)
	}
	if renewal.Expenses != 11 {
		t.Fatalf("Expenses = %.2f, want the renewal to replace the mean", renewal.Expenses)
	}
}

func TestForecast_BoundsClampedAtZero(t *testing.T) {
	now := mustDate(t, "2026-08-01")

	// Bursty history: spend on some days only, so stddev > mean.
	var txs []model.Transaction
	txs = append(txs, tx(t, "2026-07-10", "Grocer", "300", "Groceries"))
	txs = append(txs, tx(t, "2026-07-20", "Grocer", "300", "Groceries"))

	days := Forecast(txs, nil, now, 5)
	for _, d := range days {
		if d.ExpensesLow < 0 {
			t.Fatalf("lower bound negative: %+v", d)
		}
		if d.ExpensesHigh < d.Expenses {
			t.Fatalf("upper bound below mean: %+v", d)
		}
	}
}

func TestForecast_WatchlistNeverCharged(t *testing.T) {
	now := mustDate(t, "2026-08-01")
	subs := []model.Subscription{{
		ServiceName: "Watched", Price: dec("50"), Active: true, Watchlist: true,
		Frequency: model.FreqMonthly, NextPayment: mustDate(t, "2026-08-06"),
	}}
	for _, d := range Forecast(nil, subs, now, 10) {
		if d.KnownRenewals != 0 {
			t.Fatalf("watchlist renewal leaked into forecast: %+v", d)
		}
	}
}

func TestLinearTrend(t *testing.T) {
	tl := LinearTrend([]float64{1, 2, 3, 4, 5})
	if math.Abs(tl.Slope-1) > 1e-9 {
		t.Fatalf("slope = %.4f, want 1", tl.Slope)
	}
	if math.Abs(tl.R2-1) > 1e-9 {
		t.Fatalf("R2 = %.4f, want 1", tl.R2)
	}
	if !tl.Increase {
		t.Fatal("Increase not set for rising series")
	}
}

func TestLinearTrend_Degenerate(t *testing.T) {
	if tl := LinearTrend([]float64{5}); tl.Slope != 0 || tl.R2 != 0 {
		t.Fatalf("single point trend = %+v, want zero", tl)
	}
	tl := LinearTrend([]float64{3, 3, 3, 3})
	if tl.Slope != 0 {
		t.Fatalf("flat slope = %.4f, want 0", tl.Slope)
	}
	if tl.R2 != 0 {
		t.Fatalf("flat R2 = %.4f, want 0", tl.R2)
	}
}
