package cmd

import (
	"fmt"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/ledger"

	"github.com/spf13/cobra"
)

var flagCalendarLead int

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Upcoming renewals and minimum payments",
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().IntVar(&flagCalendarLead, "lead", 0, "Days of lead time (0 = config default)")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	lead := flagCalendarLead
	if lead <= 0 {
		lead = loadCfg().Notify.LeadDays
	}
	if lead <= 0 {
		lead = 3
	}

	now := time.Now()
	upcoming := ledger.UpcomingPayments(ds.Subscriptions, ds.Debts, now, lead)
	if len(upcoming) == 0 {
		fmt.Printf("\n  Nothing due in the next %d days.\n", lead)
		return nil
	}

	cur := currencyCode()
	rows := make([][]string, 0, len(upcoming))
	for _, up := range upcoming {
		rows = append(rows, []string{
			up.Due.Format("Mon Jan 02"),
			up.Name,
			cli.FormatMoney(up.Amount, cur),
			up.Kind,
			cli.FormatRelativeDays(now, up.Due),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("UPCOMING  Next %dd", lead)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Due", "Name", "Amount", "Kind", "When"},
		Rows:    rows,
	}))
	return nil
}
