package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary holds the top-level aggregate for a time window.
type MonthlySummary struct {
	Income            decimal.Decimal
	Expenses          decimal.Decimal
	SubscriptionSpend decimal.Decimal
	DebtPayments      decimal.Decimal
	NetCashFlow       decimal.Decimal
	SavingsRate       float64 // percent of income kept, 0 when income is zero
	ExpensesPerDay    decimal.Decimal
	Transactions      int
	ActiveDays        int
}

// CategoryStat holds aggregated spend for one category.
type CategoryStat struct {
	Category     string
	Total        decimal.Decimal
	Count        int
	SharePercent float64
}

// DailyStat holds spend for a single calendar day.
type DailyStat struct {
	Date     time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Count    int
}

// MonthStat holds spend for one calendar month.
type MonthStat struct {
	Month    time.Time // first of the month
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
	Count    int
}

// UpcomingPayment is a renewal or minimum payment due soon.
type UpcomingPayment struct {
	Due    time.Time
	Name   string
	Amount decimal.Decimal
	Kind   string // "subscription" or "debt"
}

// ForecastDay is one projected day of cash flow.
type ForecastDay struct {
	Date          time.Time
	Income        float64
	Expenses      float64
	Net           float64
	ExpensesLow   float64
	ExpensesHigh  float64
	KnownRenewals float64
}

// TrendLine is a least-squares fit over a daily series.
type TrendLine struct {
	Slope    float64 // units per day
	R2       float64
	Increase bool
}
