package cmd

import (
	"fmt"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/ledger"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, expenses, and cash flow for the current window",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	if len(ds.Transactions) == 0 {
		fmt.Println("\n  The ledger is empty.")
		fmt.Println("  Import a bank CSV with `finsight import <file.csv>` or try `finsight seed`.")
		return nil
	}

	cur := currencyCode()
	months := monthsWindow()
	txs := applyFilters(ds.Transactions)

	sum := ledger.Summarize(txs, ds.DebtPayments, ds.Since, ds.Until)
	if sum.Transactions == 0 {
		fmt.Println("\n  No transactions in the selected window.")
		return nil
	}

	// Previous window of the same length for comparison
	prevSince := ds.Since.AddDate(0, -months, 0)
	prev := ledger.Summarize(txs, ds.DebtPayments, prevSince, ds.Since)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASH FLOW  Last %dmo", months)))
	fmt.Println()

	rows := [][]string{
		{"Income", cli.FormatMoney(sum.Income, cur)},
		{"Expenses", cli.FormatMoney(sum.Expenses, cur)},
		{"Net Cash Flow", cli.FormatSignedMoney(sum.NetCashFlow, cur)},
		{"Savings Rate", cli.FormatPercent(sum.SavingsRate)},
		{"---"},
		{"Subscription Spend", cli.FormatMoney(sum.SubscriptionSpend, cur)},
		{"Debt Payments", cli.FormatMoney(sum.DebtPayments, cur)},
		{"---"},
	}

	spendDay := fmt.Sprintf("%s/day", cli.FormatMoney(sum.ExpensesPerDay, cur))
	if prev.Expenses.IsPositive() {
		spendDay += fmt.Sprintf("  (%s vs prev %dmo)", cli.FormatDelta(sum.Expenses, prev.Expenses, cur), months)
	}
	rows = append(rows, []string{"Spend/day", spendDay})
	rows = append(rows, []string{"Transactions", cli.FormatNumber(int64(sum.Transactions))})
	rows = append(rows, []string{"Active Days", cli.FormatNumber(int64(sum.ActiveDays))})

	table := cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}
	fmt.Print(cli.RenderTable(table))

	// Category breakdown under the headline numbers
	cats := ledger.AggregateCategories(txs, ds.Since, ds.Until)
	if len(cats) > 0 {
		fmt.Println()
		fmt.Println(cli.RenderTitle("TOP CATEGORIES"))
		fmt.Println()
		limit := 6
		if len(cats) < limit {
			limit = len(cats)
		}
		for _, cs := range cats[:limit] {
			fmt.Printf("  %s\n", cli.RenderHorizontalBar(
				fmt.Sprintf("%-16s %10s", cs.Category, cli.FormatMoney(cs.Total, cur)),
				cs.SharePercent, 100, 30))
		}
	}

	return nil
}
