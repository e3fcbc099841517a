package ledger

import (
	"testing"

	"github.com/finsight/finsight/internal/model"
)

func TestPayoffProjection_NoInterest(t *testing.T) {
	debt := model.DebtAccount{Balance: dec("1000"), APR: 0}
	p := PayoffProjection(debt, dec("100"), mustDate(t, "2026-01-01"))

	if p.NeverPays {
		t.Fatal("NeverPays set for payable debt")
	}
	if p.Months != 10 {
		t.Fatalf("months = %d, want 10", p.Months)
	}
	if !p.TotalInterest.IsZero() {
		t.Fatalf("interest = %s, want 0", p.TotalInterest)
	}
	if !p.TotalPaid.Equal(dec("1000")) {
		t.Fatalf("total paid = %s, want 1000", p.TotalPaid)
	}
	if !p.PayoffDate.Equal(mustDate(t, "2026-11-01")) {
		t.Fatalf("payoff date = %s, want 2026-11-01", p.PayoffDate.Format("2006-01-02"))
	}
}

func TestPayoffProjection_WithInterest(t *testing.T) {
	// 12% APR = 1% monthly. 1000 at 100/month pays off in 11 months.
	debt := model.DebtAccount{Balance: dec("1000"), APR: 12}
	p := PayoffProjection(debt, dec("100"), mustDate(t, "2026-01-01"))

	if p.NeverPays {
		t.Fatal("NeverPays set for payable debt")
	}
	if p.Months != 11 {
		t.Fatalf("months = %d, want 11", p.Months)
	}
	if p.TotalInterest.IsZero() || p.TotalInterest.GreaterThan(dec("100")) {
		t.Fatalf("interest = %s, want between 0 and 100", p.TotalInterest)
	}
}

func TestPayoffProjection_PaymentBelowInterest(t *testing.T) {
	// 120% APR means 100/month interest on a 1000 balance.
	debt := model.DebtAccount{Balance: dec("1000"), APR: 120}
	p := PayoffProjection(debt, dec("50"), mustDate(t, "2026-01-01"))
	if !p.NeverPays {
		t.Fatal("NeverPays not set when payment does not cover interest")
	}
}

func TestPayoffProjection_EdgeCases(t *testing.T) {
	if p := PayoffProjection(model.DebtAccount{Balance: dec("0")}, dec("100"), mustDate(t, "2026-01-01")); p.Months != 0 || p.NeverPays {
		t.Fatalf("zero balance projection = %+v", p)
	}
	if p := PayoffProjection(model.DebtAccount{Balance: dec("100")}, dec("0"), mustDate(t, "2026-01-01")); !p.NeverPays {
		t.Fatal("zero payment must never pay off")
	}
}

func TestTotals(t *testing.T) {
	debts := []model.DebtAccount{
		{Balance: dec("4200"), MinimumPayment: dec("120")},
		{Balance: dec("800"), MinimumPayment: dec("25")},
	}
	if got := TotalDebt(debts); !got.Equal(dec("5000")) {
		t.Fatalf("TotalDebt = %s, want 5000", got)
	}
	if got := TotalMinimums(debts); !got.Equal(dec("145")) {
		t.Fatalf("TotalMinimums = %s, want 145", got)
	}
}
