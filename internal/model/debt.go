package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt kinds.
const (
	DebtCreditCard = "credit_card"
	DebtLoan       = "loan"
	DebtMortgage   = "mortgage"
	DebtOther      = "other"
)

// DebtAccount is an outstanding liability. APR is the annual rate in
// percent (19.99 means 19.99%).
type DebtAccount struct {
	ID             string
	Creditor       string
	Kind           string
	Balance        decimal.Decimal
	APR            float64
	MinimumPayment decimal.Decimal
}

// DebtPayment records one payment against a debt account.
type DebtPayment struct {
	ID       string
	DebtID   string
	Creditor string
	Amount   decimal.Decimal
	Date     time.Time
}

// PayoffProjection is the result of simulating fixed monthly payments
// against a debt balance.
type PayoffProjection struct {
	Months        int
	TotalInterest decimal.Decimal
	TotalPaid     decimal.Decimal
	PayoffDate    time.Time
	// NeverPays is set when the payment does not cover monthly interest.
	NeverPays bool
}
