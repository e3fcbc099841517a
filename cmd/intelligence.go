package cmd

import (
	"fmt"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/ledger"
	"github.com/finsight/finsight/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagIntelSensitivity float64
	flagIntelSave        bool
)

var intelligenceCmd = &cobra.Command{
	Use:     "intelligence",
	Aliases: []string{"intel"},
	Short:   "Unusual charges and spending trend",
	RunE:    runIntelligence,
}

func init() {
	intelligenceCmd.Flags().Float64Var(&flagIntelSensitivity, "sensitivity", 0.5, "Detection sensitivity in [0, 1]; higher flags more")
	intelligenceCmd.Flags().BoolVar(&flagIntelSave, "save", false, "Persist the findings to the ledger")
	rootCmd.AddCommand(intelligenceCmd)
}

func runIntelligence(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	now := time.Now()
	txs := applyFilters(ds.Transactions)
	anomalies := ledger.DetectAnomalies(txs, ds.Since, ds.Until, ledger.AnomalyOptions{
		Sensitivity: flagIntelSensitivity,
		Now:         now,
	})

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("INTELLIGENCE  Last %dmo", monthsWindow())))
	fmt.Println()

	if len(anomalies) == 0 {
		fmt.Println("  Nothing unusual in the window.")
	} else {
		cur := currencyCode()
		rows := make([][]string, 0, len(anomalies))
		for _, a := range anomalies {
			detail := "-"
			if a.Kind == model.AnomalySpike {
				detail = fmt.Sprintf("%.1fσ vs %s typical",
					a.ZScore, cli.FormatMoneyShort(a.ExpectedAmount, cur))
			}
			rows = append(rows, []string{
				a.Date.Format("Jan 02"),
				a.Name,
				cli.FormatMoney(a.Amount, cur),
				anomalyKind(a.Kind),
				a.Severity,
				detail,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Merchant", "Amount", "Kind", "Severity", "Detail"},
			Rows:    rows,
		}))
	}

	// Trend over the full rolling year of daily spend.
	days := ledger.AggregateDays(ds.Transactions, now.AddDate(-1, 0, 0), now)
	series := make([]float64, len(days))
	for i, d := range days {
		series[len(days)-1-i] = d.Expenses.InexactFloat64()
	}
	trend := ledger.LinearTrend(series)

	fmt.Println()
	switch {
	case trend.R2 < 0.1:
		fmt.Println("  Spend trend: no clear direction over the last year.")
	case trend.Increase:
		fmt.Printf("  Spend trend: rising %+.2f/day (R² %.2f).\n", trend.Slope, trend.R2)
	default:
		fmt.Printf("  Spend trend: falling %+.2f/day (R² %.2f).\n", trend.Slope, trend.R2)
	}

	if flagIntelSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.ReplaceAnomalies(anomalies); err != nil {
			return err
		}
		fmt.Printf("  Saved %d findings.\n", len(anomalies))
	}

	return nil
}

func anomalyKind(kind string) string {
	switch kind {
	case model.AnomalySpike:
		return "spike"
	case model.AnomalyDuplicate:
		return "duplicate"
	case model.AnomalyNewMerchant:
		return "new merchant"
	default:
		return kind
	}
}
