package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/ledger"
	"github.com/finsight/finsight/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagSubFrequency string
	flagSubCategory  string
	flagSubNext      string
	flagSubWatchlist bool
	flagSubCard      string
)

var subsCmd = &cobra.Command{
	Use:   "subs",
	Short: "Tracked subscriptions and detected recurring charges",
	RunE:  runSubsList,
}

var subsAddCmd = &cobra.Command{
	Use:   "add <name> <price>",
	Short: "Track a subscription",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubsAdd,
}

var subsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Stop tracking a subscription",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubsRm,
}

var subsDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Find recurring merchants in transaction history",
	RunE:  runSubsDetect,
}

func init() {
	subsAddCmd.Flags().StringVar(&flagSubFrequency, "frequency", "monthly", "Billing cadence: weekly, fortnightly, monthly, quarterly, annual")
	subsAddCmd.Flags().StringVar(&flagSubCategory, "category", "", "Category (defaults to keyword rules)")
	subsAddCmd.Flags().StringVar(&flagSubNext, "next", "", "Next payment date (YYYY-MM-DD, default: one period from today)")
	subsAddCmd.Flags().BoolVar(&flagSubWatchlist, "watchlist", false, "Monitor for price changes without charging the ledger")
	subsAddCmd.Flags().StringVar(&flagSubCard, "card", "", "Payment card label")

	subsCmd.AddCommand(subsAddCmd)
	subsCmd.AddCommand(subsRmCmd)
	subsCmd.AddCommand(subsDetectCmd)
	rootCmd.AddCommand(subsCmd)
}

func runSubsList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	subs, err := st.ListSubscriptions()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions tracked.")
		fmt.Println("  Add one with `finsight subs add <name> <price>` or run `finsight subs detect`.")
		return nil
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].NextPayment.Before(subs[j].NextPayment)
	})

	cur := currencyCode()
	now := time.Now()
	monthly := decimal.Zero

	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		status := string(s.Frequency)
		next := cli.FormatRelativeDays(now, s.NextPayment)
		switch {
		case !s.Active:
			status = "inactive"
			next = "-"
		case s.Watchlist:
			status = "watchlist"
			next = "-"
		default:
			monthly = monthly.Add(s.MonthlyPrice())
		}
		rows = append(rows, []string{
			s.ServiceName,
			cli.FormatMoney(s.Price, cur),
			status,
			s.Category,
			next,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SUBSCRIPTIONS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Service", "Price", "Cadence", "Category", "Next"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Monthly total: %s   Annual: %s\n",
		cli.FormatMoney(monthly, cur),
		cli.FormatMoney(monthly.Mul(decimal.NewFromInt(12)), cur))
	return nil
}

func runSubsAdd(_ *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("subscription name is empty")
	}

	price, err := decimal.NewFromString(args[1])
	if err != nil || !price.IsPositive() {
		return fmt.Errorf("invalid price %q", args[1])
	}

	freq := model.Frequency(flagSubFrequency)
	if !freq.Valid() {
		return fmt.Errorf("invalid frequency %q", flagSubFrequency)
	}

	now := time.Now()
	next := freq.Next(now)
	if flagSubNext != "" {
		next, err = time.Parse("2006-01-02", flagSubNext)
		if err != nil {
			return fmt.Errorf("invalid --next date %q (want YYYY-MM-DD)", flagSubNext)
		}
	}

	category := flagSubCategory
	if category == "" {
		category = config.Categorize(loadCfg(), name)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	sub := model.Subscription{
		ID:          uuid.NewString(),
		ServiceName: name,
		Price:       price,
		Frequency:   freq,
		NextPayment: next,
		Active:      true,
		Watchlist:   flagSubWatchlist,
		Category:    category,
		PaymentCard: flagSubCard,
		CreatedAt:   now,
	}
	if err := st.SaveSubscription(sub); err != nil {
		return err
	}

	mode := "tracked"
	if sub.Watchlist {
		mode = "on watchlist"
	}
	fmt.Printf("  %s %s (%s %s, next %s)\n",
		name, mode, cli.FormatMoney(price, currencyCode()), freq, next.Format("2006-01-02"))
	return nil
}

func runSubsRm(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	subs, err := st.ListSubscriptions()
	if err != nil {
		return err
	}

	needle := strings.ToLower(strings.TrimSpace(args[0]))
	for _, s := range subs {
		if strings.ToLower(s.ServiceName) == needle || s.ID == args[0] {
			if err := st.DeleteSubscription(s.ID); err != nil {
				return err
			}
			fmt.Printf("  Removed %s\n", s.ServiceName)
			return nil
		}
	}
	return fmt.Errorf("no subscription matching %q", args[0])
}

func runSubsDetect(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	detected := ledger.DetectSubscriptions(ds.Transactions, ds.Subscriptions)
	if len(detected) == 0 {
		fmt.Println("\n  No recurring merchants found. Import more history and try again.")
		return nil
	}

	cur := currencyCode()
	rows := make([][]string, 0, len(detected))
	for _, d := range detected {
		tracked := ""
		if d.AlreadyTracked {
			tracked = "yes"
		}
		rows = append(rows, []string{
			d.Merchant,
			cli.FormatMoney(d.AverageAmount, cur),
			string(d.Frequency),
			cli.FormatConfidence(d.Confidence),
			fmt.Sprintf("%d", d.Occurrences),
			d.ExpectedNext.Format("2006-01-02"),
			tracked,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DETECTED RECURRING CHARGES"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Merchant", "Avg Amount", "Cadence", "Confidence", "Seen", "Expected", "Tracked"},
		Rows:    rows,
	}))
	fmt.Println("\n  Track one with `finsight subs add <name> <price> --frequency <cadence>`.")
	return nil
}
