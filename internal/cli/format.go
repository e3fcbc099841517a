// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencySymbols maps ISO codes to display symbols. Unknown codes
// render as "CODE " prefix.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"AUD": "A$",
	"CAD": "C$",
	"JPY": "¥",
}

// Symbol returns the display symbol for a currency code.
func Symbol(currency string) string {
	if s, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return s
	}
	return currency + " "
}

// FormatMoney renders an amount with its currency symbol and comma
// separators. e.g. 1234.5 USD -> "$1,234.50"
func FormatMoney(amount decimal.Decimal, currency string) string {
	sym := Symbol(currency)
	neg := amount.IsNegative()
	abs := amount.Abs().StringFixed(2)

	parts := strings.SplitN(abs, ".", 2)
	whole := parts[0]
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = FormatNumber(n)
	}
	out := sym + whole + "." + parts[1]
	if neg {
		return "-" + out
	}
	return out
}

// FormatMoneyShort renders an amount without cents for dense tables.
func FormatMoneyShort(amount decimal.Decimal, currency string) string {
	sym := Symbol(currency)
	neg := amount.IsNegative()
	whole := amount.Abs().Round(0).IntPart()
	out := sym + FormatNumber(whole)
	if neg {
		return "-" + out
	}
	return out
}

// FormatSignedMoney renders an amount colored by sign: gains green,
// losses red.
func FormatSignedMoney(amount decimal.Decimal, currency string) string {
	s := FormatMoney(amount, currency)
	if amount.IsNegative() {
		return LossStyle.Render(s)
	}
	return GainStyle.Render(s)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a percentage value with one decimal.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a change between two amounts with a sign.
func FormatDelta(current, previous decimal.Decimal, currency string) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return "-" + FormatMoney(delta.Neg(), currency)
	}
	return "+" + FormatMoney(delta, currency)
}

// FormatDate renders a date compactly, e.g. "Jun 02".
func FormatDate(t time.Time) string {
	return t.Format("Jan 02")
}

// FormatRelativeDays describes how far away a date is in days.
func FormatRelativeDays(from, to time.Time) string {
	days := int(to.Sub(from).Hours() / 24)
	switch {
	case days < 0:
		return fmt.Sprintf("%dd overdue", -days)
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %dd", days)
	}
}

// FormatConfidence renders a detection confidence as a percent.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.0f%%", c*100)
}
