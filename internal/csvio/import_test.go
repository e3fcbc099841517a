package csvio

import (
	"strings"
	"testing"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/model"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParse_CanonicalHeader(t *testing.T) {
	input := `Date,Description,Amount,Category
2026-06-01,Netflix,15.99,Entertainment
2026-06-02,"Grocer, Downtown",82.10,Groceries
`
	pr := Parse(strings.NewReader(input), config.DefaultConfig())
	if pr.Err != nil {
		t.Fatalf("parse: %v", pr.Err)
	}
	if pr.RowsTotal != 2 || pr.RowErrors != 0 {
		t.Fatalf("rows = %d errors = %d, want 2/0", pr.RowsTotal, pr.RowErrors)
	}
	if len(pr.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2", len(pr.Transactions))
	}
	// Quoted field with embedded comma survives.
	if pr.Transactions[1].Name != "Grocer, Downtown" {
		t.Fatalf("name = %q, want embedded comma preserved", pr.Transactions[1].Name)
	}
	if !pr.Transactions[0].Amount.Equal(dec("15.99")) {
		t.Fatalf("amount = %s, want 15.99", pr.Transactions[0].Amount)
	}
	if pr.Transactions[0].Source != model.SourceImport {
		t.Fatalf("source = %q, want import", pr.Transactions[0].Source)
	}
}

func TestParse_FuzzyHeaderAliases(t *testing.T) {
	input := `Transaction Date,Payee Name,Debit Amount
03/15/2026,NETFLIX.COM,"$1,234.56"
`
	pr := Parse(strings.NewReader(input), config.DefaultConfig())
	if pr.Err != nil {
		t.Fatalf("parse: %v", pr.Err)
	}
	if len(pr.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(pr.Transactions))
	}
	got := pr.Transactions[0]
	if got.Date.Format("2006-01-02") != "2026-03-15" {
		t.Fatalf("date = %s, want 2026-03-15", got.Date.Format("2006-01-02"))
	}
	if !got.Amount.Equal(dec("1234.56")) {
		t.Fatalf("amount = %s, want 1234.56", got.Amount)
	}
	// No category column: keyword rules fill it in.
	if got.Category != "Entertainment" {
		t.Fatalf("category = %q, want Entertainment from keyword rules", got.Category)
	}
}

func TestParse_BadRowsCountedNotFatal(t *testing.T) {
	input := `Date,Description,Amount
2026-06-01,Good Row,10.00
not-a-date,Bad Date,10.00
2026-06-03,Bad Amount,abc
2026-06-04,,10.00
`
	pr := Parse(strings.NewReader(input), config.DefaultConfig())
	if pr.Err != nil {
		t.Fatalf("parse: %v", pr.Err)
	}
	if pr.RowsTotal != 4 {
		t.Fatalf("rows = %d, want 4", pr.RowsTotal)
	}
	if pr.RowErrors != 3 {
		t.Fatalf("row errors = %d, want 3", pr.RowErrors)
	}
	if len(pr.Transactions) != 1 || pr.Transactions[0].Name != "Good Row" {
		t.Fatalf("transactions = %+v, want only the good row", pr.Transactions)
	}
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	input := `Description,Category
Netflix,Entertainment
`
	pr := Parse(strings.NewReader(input), config.DefaultConfig())
	if pr.Err == nil {
		t.Fatal("expected error for header without date or amount")
	}
}

func TestParse_NegativeAmountsBecomeMagnitudes(t *testing.T) {
	input := `Date,Description,Amount
2026-06-01,Refunded Charge,-42.00
2026-06-02,Parenthesized,(7.50)
`
	pr := Parse(strings.NewReader(input), config.DefaultConfig())
	if pr.Err != nil {
		t.Fatalf("parse: %v", pr.Err)
	}
	if !pr.Transactions[0].Amount.Equal(dec("42.00")) {
		t.Fatalf("amount = %s, want 42.00", pr.Transactions[0].Amount)
	}
	if !pr.Transactions[1].Amount.Equal(dec("7.50")) {
		t.Fatalf("amount = %s, want 7.50", pr.Transactions[1].Amount)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"15.99", "15.99", false},
		{"$1,234.56", "1234.56", false},
		{"€ 99", "99", false},
		{"-42", "-42", false},
		{"(7.50)", "-7.5", false},
		{"", "", true},
		{"abc", "", true},
		{"12.3.4", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %s, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.in, err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func FuzzParseAmount(f *testing.F) {
	f.Add("15.99")
	f.Add("$1,234.56")
	f.Add("(7.50)")
	f.Add("-0.01")
	f.Add("€€€")
	f.Add("((((")
	f.Add("1e309")

	f.Fuzz(func(t *testing.T, s string) {
		d, err := ParseAmount(s)
		if err != nil {
			return
		}
		// A parsed amount must survive its own string form.
		if _, err := decimal.NewFromString(d.String()); err != nil {
			t.Fatalf("ParseAmount(%q) produced unparseable %q", s, d.String())
		}
	})
}
