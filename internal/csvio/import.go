// Package csvio parses bank statement CSVs into ledger transactions
// and exports ledger data back out as CSV or JSON.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Column roles matched in the header row.
const (
	colDate = iota
	colName
	colAmount
	colCategory
	colCount
)

// headerAliases are matched as substrings, case-insensitive.
var headerAliases = [colCount][]string{
	colDate:     {"date", "posted"},
	colName:     {"description", "name", "payee", "merchant", "memo"},
	colAmount:   {"amount", "debit", "value"},
	colCategory: {"category"},
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// ParseResult holds the outcome of parsing one statement file.
type ParseResult struct {
	Transactions []model.Transaction
	RowsTotal    int
	RowErrors    int
	Err          error
}

// ParseFile reads one CSV statement. Date, name, and amount columns are
// required; rows missing a parseable date or amount count as row errors
// rather than failing the file. When the statement has no category
// column the merchant name is categorized by keyword rules.
func ParseFile(path string, cfg config.Config) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	pr := Parse(f, cfg)
	if pr.Err != nil {
		pr.Err = fmt.Errorf("parsing %s: %w", path, pr.Err)
		return pr
	}
	for i := range pr.Transactions {
		pr.Transactions[i].ImportFile = path
	}
	return pr
}

// Parse reads CSV statement rows from r.
func Parse(r io.Reader, cfg config.Config) ParseResult {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return ParseResult{Err: fmt.Errorf("empty statement")}
		}
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}

	cols, err := matchHeader(header)
	if err != nil {
		return ParseResult{Err: err}
	}

	var pr ParseResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			pr.RowsTotal++
			pr.RowErrors++
			continue
		}
		pr.RowsTotal++

		t, ok := parseRow(record, cols, cfg)
		if !ok {
			pr.RowErrors++
			continue
		}
		pr.Transactions = append(pr.Transactions, t)
	}
	return pr
}

// matchHeader maps column roles to field indexes by substring match.
func matchHeader(header []string) ([colCount]int, error) {
	var cols [colCount]int
	for i := range cols {
		cols[i] = -1
	}

	for idx, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			if cols[role] != -1 {
				continue
			}
			for _, alias := range aliases {
				if strings.Contains(name, alias) {
					cols[role] = idx
					break
				}
			}
		}
	}

	if cols[colDate] == -1 || cols[colName] == -1 || cols[colAmount] == -1 {
		return cols, fmt.Errorf("header %v missing date, description, or amount column", header)
	}
	return cols, nil
}

func parseRow(record []string, cols [colCount]int, cfg config.Config) (model.Transaction, bool) {
	get := func(role int) string {
		idx := cols[role]
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, ok := parseDate(get(colDate))
	if !ok {
		return model.Transaction{}, false
	}
	name := get(colName)
	if name == "" {
		return model.Transaction{}, false
	}
	amount, err := ParseAmount(get(colAmount))
	if err != nil {
		return model.Transaction{}, false
	}

	category := get(colCategory)
	if category == "" {
		category = config.Categorize(cfg, name)
	}

	// Ledger amounts are stored as magnitudes; bank exports mark
	// charges with a sign we drop here.
	if amount.IsNegative() {
		amount = amount.Neg()
	}

	return model.Transaction{
		ID:       uuid.NewString(),
		Date:     date,
		Name:     name,
		Amount:   amount,
		Category: category,
		Source:   model.SourceImport,
	}, true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a statement amount, tolerating currency symbols,
// thousands separators, surrounding whitespace, and accounting-style
// parentheses for negatives.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',', r == '$', r == '€', r == '£', r == ' ':
			// separators and currency markers
		default:
			return decimal.Zero, fmt.Errorf("unexpected character %q in amount %q", r, s)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
