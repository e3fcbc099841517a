package cmd

import (
	"fmt"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagPlanDays int

var planningCmd = &cobra.Command{
	Use:   "planning",
	Short: "Project cash flow over the coming weeks",
	RunE:  runPlanning,
}

func init() {
	planningCmd.Flags().IntVar(&flagPlanDays, "horizon", 30, "Projection horizon in days")
	rootCmd.AddCommand(planningCmd)
}

func runPlanning(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	now := time.Now()
	forecast := ledger.Forecast(ds.Transactions, ds.Subscriptions, now, flagPlanDays)
	if len(forecast) == 0 {
		fmt.Println("\n  Not enough history to project cash flow yet.")
		return nil
	}

	cur := currencyCode()

	var expenses, income, low, high, renewals float64
	daily := make([]float64, len(forecast))
	for i, fd := range forecast {
		expenses += fd.Expenses
		income += fd.Income
		low += fd.ExpensesLow
		high += fd.ExpensesHigh
		renewals += fd.KnownRenewals
		daily[i] = fd.Expenses
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASH FLOW PROJECTION  Next %dd", flagPlanDays)))
	fmt.Println()

	rows := [][]string{
		{"Projected Spend", cli.FormatMoney(decimal.NewFromFloat(expenses), cur)},
		{"Likely Range", fmt.Sprintf("%s – %s",
			cli.FormatMoneyShort(decimal.NewFromFloat(low), cur),
			cli.FormatMoneyShort(decimal.NewFromFloat(high), cur))},
		{"Projected Income", cli.FormatMoney(decimal.NewFromFloat(income), cur)},
		{"Projected Net", cli.FormatMoney(decimal.NewFromFloat(income-expenses), cur)},
		{"Known Renewals", cli.FormatMoney(decimal.NewFromFloat(renewals), cur)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Daily spend: %s\n", cli.RenderSparkline(daily))

	// Renewal schedule inside the horizon
	printed := false
	for _, fd := range forecast {
		if fd.KnownRenewals <= 0 {
			continue
		}
		if !printed {
			fmt.Println()
			fmt.Println(cli.RenderTitle("RENEWALS IN WINDOW"))
			fmt.Println()
			printed = true
		}
		fmt.Printf("  %s  %s\n",
			fd.Date.Format("Mon Jan 02"),
			cli.FormatMoney(decimal.NewFromFloat(fd.KnownRenewals), cur))
	}

	return nil
}
