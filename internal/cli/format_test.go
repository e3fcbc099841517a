package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"0", "USD", "$0.00"},
		{"15.99", "USD", "$15.99"},
		{"1234.5", "USD", "$1,234.50"},
		{"-42", "USD", "-$42.00"},
		{"99", "EUR", "€99.00"},
		{"10", "XYZ", "XYZ 10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatMoney(dec(tt.amount), tt.currency); got != tt.want {
				t.Fatalf("FormatMoney(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestFormatMoneyShort(t *testing.T) {
	if got := FormatMoneyShort(dec("1234.56"), "USD"); got != "$1,235" {
		t.Fatalf("got %q, want $1,235", got)
	}
	if got := FormatMoneyShort(dec("-9.2"), "USD"); got != "-$9" {
		t.Fatalf("got %q, want -$9", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(dec("120"), dec("100"), "USD"); got != "+$20.00" {
		t.Fatalf("got %q, want +$20.00", got)
	}
	if got := FormatDelta(dec("80"), dec("100"), "USD"); got != "-$20.00" {
		t.Fatalf("got %q, want -$20.00", got)
	}
}

func TestFormatRelativeDays(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		to   time.Time
		want string
	}{
		{now, "today"},
		{now.AddDate(0, 0, 1), "tomorrow"},
		{now.AddDate(0, 0, 5), "in 5d"},
		{now.AddDate(0, 0, -2), "2d overdue"},
	}
	for _, tt := range tests {
		if got := FormatRelativeDays(now, tt.to); got != tt.want {
			t.Fatalf("FormatRelativeDays = %q, want %q", got, tt.want)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Fatalf("empty series = %q, want empty", got)
	}
	got := RenderSparkline([]float64{0, 4, 8})
	if len([]rune(got)) != 3 {
		t.Fatalf("sparkline runes = %d, want 3", len([]rune(got)))
	}
}

func TestFormatSignedMoney(t *testing.T) {
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(orig)

	gain := FormatSignedMoney(dec("250.10"), "USD")
	if !strings.Contains(gain, "$250.10") {
		t.Fatalf("gain = %q, want it to contain $250.10", gain)
	}
	if gain == "$250.10" {
		t.Fatal("gain rendered without color")
	}

	loss := FormatSignedMoney(dec("-80"), "USD")
	if !strings.Contains(loss, "-$80.00") {
		t.Fatalf("loss = %q, want it to contain -$80.00", loss)
	}
	if loss == "-$80.00" {
		t.Fatal("loss rendered without color")
	}
}

func TestRenderTable_StyledCellsAlign(t *testing.T) {
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(orig)

	out := RenderTable(Table{
		Headers: []string{"Month", "Net"},
		Rows: [][]string{
			{"Jun 2026", FormatSignedMoney(dec("1250.40"), "USD")},
			{"Jul 2026", FormatSignedMoney(dec("-310.75"), "USD")},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 5 {
		t.Fatalf("table lines = %d, want at least 5", len(lines))
	}
	w := lipgloss.Width(lines[0])
	for i, ln := range lines {
		if lipgloss.Width(ln) != w {
			t.Fatalf("line %d width = %d, want %d:\n%s", i, lipgloss.Width(ln), w, out)
		}
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	out := RenderHorizontalBar("Groceries", 50, 100, 10)
	if !strings.Contains(out, "Groceries") {
		t.Fatalf("label dropped: %q", out)
	}
	if !strings.Contains(out, strings.Repeat("█", 5)) {
		t.Fatalf("bar missing: %q", out)
	}
	if out := RenderHorizontalBar("Empty", 5, 0, 10); out != "Empty" {
		t.Fatalf("zero max = %q, want bare label", out)
	}
}

func TestRenderTable_Smoke(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Categories",
		Headers: []string{"Category", "Total"},
		Rows:    [][]string{{"Groceries", "$400.00"}, {"---"}, {"Total", "$400.00"}},
	})
	if out == "" {
		t.Fatal("empty render")
	}
}
