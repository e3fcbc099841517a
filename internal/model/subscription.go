package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is a recurring payment cadence.
type Frequency string

const (
	FreqWeekly      Frequency = "weekly"
	FreqFortnightly Frequency = "fortnightly"
	FreqMonthly     Frequency = "monthly"
	FreqQuarterly   Frequency = "quarterly"
	FreqAnnual      Frequency = "annual"
)

// Valid reports whether f is a known cadence.
func (f Frequency) Valid() bool {
	switch f {
	case FreqWeekly, FreqFortnightly, FreqMonthly, FreqQuarterly, FreqAnnual:
		return true
	}
	return false
}

// Next advances t by one period of f.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FreqWeekly:
		return t.AddDate(0, 0, 7)
	case FreqFortnightly:
		return t.AddDate(0, 0, 14)
	case FreqQuarterly:
		return t.AddDate(0, 3, 0)
	case FreqAnnual:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// PerYear returns how many periods of f fit in a year.
func (f Frequency) PerYear() decimal.Decimal {
	switch f {
	case FreqWeekly:
		return decimal.NewFromInt(52)
	case FreqFortnightly:
		return decimal.NewFromInt(26)
	case FreqQuarterly:
		return decimal.NewFromInt(4)
	case FreqAnnual:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(12)
	}
}

// Subscription is a tracked recurring payment. Watchlist entries are
// monitored for price changes but never charged to the ledger.
type Subscription struct {
	ID          string
	ServiceName string
	Price       decimal.Decimal
	Frequency   Frequency
	NextPayment time.Time
	Active      bool
	Watchlist   bool
	Category    string
	PaymentCard string
	CreatedAt   time.Time
}

// MonthlyPrice normalizes the price to a per-month figure.
func (s Subscription) MonthlyPrice() decimal.Decimal {
	return s.Price.Mul(s.Frequency.PerYear()).Div(decimal.NewFromInt(12))
}

// DetectedSubscription is a recurring-merchant candidate found in
// transaction history, before the user promotes it to a Subscription.
type DetectedSubscription struct {
	Merchant       string
	AverageAmount  decimal.Decimal
	Frequency      Frequency
	Confidence     float64
	Occurrences    int
	LastSeen       time.Time
	ExpectedNext   time.Time
	AlreadyTracked bool
}
