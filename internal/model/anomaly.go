package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Anomaly kinds.
const (
	AnomalySpike       = "amount_spike"
	AnomalyDuplicate   = "duplicate_charge"
	AnomalyNewMerchant = "new_merchant"
)

// Anomaly severities, ordered.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// SeverityRank orders severities for sorting (high first).
func SeverityRank(s string) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Anomaly is a transaction flagged by the detection pass.
type Anomaly struct {
	ID             string
	TransactionID  string
	Kind           string
	Severity       string
	ZScore         float64
	ExpectedAmount decimal.Decimal
	Amount         decimal.Decimal
	Category       string
	Name           string
	Date           time.Time
	DetectedAt     time.Time
}
