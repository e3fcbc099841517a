package cmd

import (
	"fmt"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/ledger"

	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Month-by-month history for the last year",
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	now := time.Now()
	txs := applyFilters(ds.Transactions)
	months := ledger.AggregateMonths(txs, now.AddDate(-1, 0, 0), now)
	if len(months) == 0 {
		fmt.Println("\n  No history yet.")
		return nil
	}

	cur := currencyCode()

	spend := make([]float64, len(months))
	rows := make([][]string, 0, len(months))
	for i, m := range months {
		spend[i] = m.Expenses.InexactFloat64()
		rows = append(rows, []string{
			m.Month.Format("Jan 2006"),
			cli.FormatMoney(m.Income, cur),
			cli.FormatMoney(m.Expenses, cur),
			cli.FormatSignedMoney(m.Net, cur),
			cli.FormatNumber(int64(m.Count)),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MONTHLY OVERVIEW  Last 12mo"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Income", "Expenses", "Net", "Txns"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Spending: %s\n", cli.RenderSparkline(spend))

	// Full category breakdown over the display window
	cats := ledger.AggregateCategories(txs, ds.Since, ds.Until)
	if len(cats) > 0 {
		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("CATEGORIES  Last %dmo", monthsWindow())))
		fmt.Println()
		catRows := make([][]string, 0, len(cats))
		for _, cs := range cats {
			catRows = append(catRows, []string{
				cs.Category,
				cli.FormatMoney(cs.Total, cur),
				fmt.Sprintf("%.1f%%", cs.SharePercent),
				cli.FormatNumber(int64(cs.Count)),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Category", "Total", "Share", "Txns"},
			Rows:    catRows,
		}))
	}

	return nil
}
