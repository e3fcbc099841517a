package csvio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/finsight/finsight/internal/model"
)

// transactionHeader is the canonical export header. Imports of our own
// exports round-trip through the same fuzzy matcher.
var transactionHeader = []string{"Date", "Description", "Amount", "Category"}

// WriteTransactionsCSV writes transactions in the canonical layout.
func WriteTransactionsCSV(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, t := range txs {
		row := []string{
			t.Date.Format("2006-01-02"),
			t.Name,
			t.Amount.StringFixed(2),
			t.Category,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSubscriptionsCSV writes subscriptions with renewal dates.
func WriteSubscriptionsCSV(w io.Writer, subs []model.Subscription) error {
	cw := csv.NewWriter(w)
	header := []string{"Service", "Price", "Frequency", "Next Payment", "Active", "Watchlist", "Category"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, s := range subs {
		row := []string{
			s.ServiceName,
			s.Price.StringFixed(2),
			string(s.Frequency),
			s.NextPayment.Format("2006-01-02"),
			fmt.Sprintf("%t", s.Active),
			fmt.Sprintf("%t", s.Watchlist),
			s.Category,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Snapshot is the full-ledger JSON export.
type Snapshot struct {
	Transactions  []model.Transaction  `json:"transactions"`
	Subscriptions []model.Subscription `json:"subscriptions"`
	Debts         []model.DebtAccount  `json:"debts,omitempty"`
	Incomes       []model.IncomeSource `json:"incomes,omitempty"`
}

// WriteJSON writes the ledger snapshot as indented JSON.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
