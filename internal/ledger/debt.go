package ledger

import (
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/shopspring/decimal"
)

// maxPayoffMonths caps the simulation; anything longer reports as
// never paying off.
const maxPayoffMonths = 1200

// PayoffProjection simulates fixed monthly payments against a debt
// with monthly compounding at APR/12.
func PayoffProjection(debt model.DebtAccount, monthlyPayment decimal.Decimal, from time.Time) model.PayoffProjection {
	if debt.Balance.LessThanOrEqual(decimal.Zero) {
		return model.PayoffProjection{PayoffDate: from}
	}
	if monthlyPayment.LessThanOrEqual(decimal.Zero) {
		return model.PayoffProjection{NeverPays: true}
	}

	monthlyRate := decimal.NewFromFloat(debt.APR / 100 / 12)
	balance := debt.Balance
	totalInterest := decimal.Zero
	totalPaid := decimal.Zero

	for month := 1; month <= maxPayoffMonths; month++ {
		interest := balance.Mul(monthlyRate).Round(2)
		if monthlyPayment.LessThanOrEqual(interest) {
			return model.PayoffProjection{NeverPays: true}
		}

		balance = balance.Add(interest)
		totalInterest = totalInterest.Add(interest)

		payment := monthlyPayment
		if payment.GreaterThan(balance) {
			payment = balance
		}
		balance = balance.Sub(payment)
		totalPaid = totalPaid.Add(payment)

		if balance.LessThanOrEqual(decimal.Zero) {
			return model.PayoffProjection{
				Months:        month,
				TotalInterest: totalInterest,
				TotalPaid:     totalPaid,
				PayoffDate:    from.AddDate(0, month, 0),
			}
		}
	}
	return model.PayoffProjection{NeverPays: true}
}

// TotalDebt sums outstanding balances.
func TotalDebt(debts []model.DebtAccount) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Balance)
	}
	return total
}

// TotalMinimums sums minimum monthly payments.
func TotalMinimums(debts []model.DebtAccount) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.MinimumPayment)
	}
	return total
}
