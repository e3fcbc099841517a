// Package model defines domain types for the finsight ledger.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction sources.
const (
	SourceManual    = "manual"
	SourceImport    = "import"
	SourceRecurring = "recurring"
	SourceSeed      = "seed"
)

// Transaction represents one ledger entry. Amount is positive for
// expenses and income alike; Category "Income" marks inflows.
type Transaction struct {
	ID         string
	Date       time.Time
	Name       string
	Amount     decimal.Decimal
	Category   string
	Recurring  bool
	Source     string
	ImportFile string
}

// Fingerprint identifies a transaction for import deduplication.
// Two rows with the same date, name, and amount are the same charge.
func (t Transaction) Fingerprint() string {
	return t.Date.Format("2006-01-02") + "|" + t.Name + "|" + t.Amount.String()
}

// IsIncome reports whether the transaction is an inflow.
func (t Transaction) IsIncome() bool {
	return t.Category == CategoryIncome
}

// CategoryIncome is the reserved category for inflows.
const CategoryIncome = "Income"

// IncomeSource is a regular inflow (salary, rent, dividends).
type IncomeSource struct {
	ID        string
	Name      string
	Amount    decimal.Decimal
	Frequency Frequency
}
