package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/ledger"
	"github.com/finsight/finsight/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDebtKind    string
	flagDebtAPR     float64
	flagDebtMinimum string
	flagDebtPayment string
)

var debtCmd = &cobra.Command{
	Use:   "debt",
	Short: "Debt accounts and payoff projections",
	RunE:  runDebtList,
}

var debtAddCmd = &cobra.Command{
	Use:   "add <creditor> <balance>",
	Short: "Track a debt account",
	Args:  cobra.ExactArgs(2),
	RunE:  runDebtAdd,
}

var debtRmCmd = &cobra.Command{
	Use:   "rm <creditor>",
	Short: "Stop tracking a debt account",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtRm,
}

var debtPayoffCmd = &cobra.Command{
	Use:   "payoff <creditor>",
	Short: "Simulate payoff at a fixed monthly payment",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtPayoff,
}

func init() {
	debtAddCmd.Flags().StringVar(&flagDebtKind, "kind", model.DebtCreditCard, "Account kind: credit_card, loan, mortgage, other")
	debtAddCmd.Flags().Float64Var(&flagDebtAPR, "apr", 0, "Annual percentage rate (19.99 means 19.99%)")
	debtAddCmd.Flags().StringVar(&flagDebtMinimum, "minimum", "0", "Minimum monthly payment")

	debtPayoffCmd.Flags().StringVar(&flagDebtPayment, "payment", "", "Monthly payment (default: the account minimum)")

	debtCmd.AddCommand(debtAddCmd)
	debtCmd.AddCommand(debtRmCmd)
	debtCmd.AddCommand(debtPayoffCmd)
	rootCmd.AddCommand(debtCmd)
}

func runDebtList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	debts, err := st.ListDebts()
	if err != nil {
		return err
	}
	if len(debts) == 0 {
		fmt.Println("\n  No debt accounts tracked.")
		fmt.Println("  Add one with `finsight debt add <creditor> <balance> --apr <rate> --minimum <payment>`.")
		return nil
	}

	cur := currencyCode()
	now := time.Now()

	rows := make([][]string, 0, len(debts))
	for _, d := range debts {
		proj := ledger.PayoffProjection(d, d.MinimumPayment, now)
		payoff := proj.PayoffDate.Format("Jan 2006")
		if proj.NeverPays {
			payoff = "never (minimum too low)"
		}
		rows = append(rows, []string{
			d.Creditor,
			d.Kind,
			cli.FormatMoney(d.Balance, cur),
			fmt.Sprintf("%.2f%%", d.APR),
			cli.FormatMoney(d.MinimumPayment, cur),
			payoff,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DEBT ACCOUNTS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Creditor", "Kind", "Balance", "APR", "Minimum", "Paid Off"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Total debt: %s   Monthly minimums: %s\n",
		cli.FormatMoney(ledger.TotalDebt(debts), cur),
		cli.FormatMoney(ledger.TotalMinimums(debts), cur))
	return nil
}

func runDebtAdd(_ *cobra.Command, args []string) error {
	creditor := strings.TrimSpace(args[0])
	if creditor == "" {
		return fmt.Errorf("creditor name is empty")
	}

	balance, err := decimal.NewFromString(args[1])
	if err != nil || balance.IsNegative() {
		return fmt.Errorf("invalid balance %q", args[1])
	}

	minimum, err := decimal.NewFromString(flagDebtMinimum)
	if err != nil || minimum.IsNegative() {
		return fmt.Errorf("invalid minimum payment %q", flagDebtMinimum)
	}

	switch flagDebtKind {
	case model.DebtCreditCard, model.DebtLoan, model.DebtMortgage, model.DebtOther:
	default:
		return fmt.Errorf("invalid kind %q", flagDebtKind)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	d := model.DebtAccount{
		ID:             uuid.NewString(),
		Creditor:       creditor,
		Kind:           flagDebtKind,
		Balance:        balance,
		APR:            flagDebtAPR,
		MinimumPayment: minimum,
	}
	if err := st.SaveDebt(d); err != nil {
		return err
	}

	fmt.Printf("  Tracking %s: %s at %.2f%% APR\n",
		creditor, cli.FormatMoney(balance, currencyCode()), flagDebtAPR)
	return nil
}

func runDebtRm(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	d, err := findDebt(st.ListDebts, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteDebt(d.ID); err != nil {
		return err
	}
	fmt.Printf("  Removed %s\n", d.Creditor)
	return nil
}

func runDebtPayoff(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	d, err := findDebt(st.ListDebts, args[0])
	if err != nil {
		return err
	}

	payment := d.MinimumPayment
	if flagDebtPayment != "" {
		payment, err = decimal.NewFromString(flagDebtPayment)
		if err != nil || !payment.IsPositive() {
			return fmt.Errorf("invalid --payment %q", flagDebtPayment)
		}
	}

	cur := currencyCode()
	proj := ledger.PayoffProjection(d, payment, time.Now())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PAYOFF  %s", strings.ToUpper(d.Creditor))))
	fmt.Println()

	if proj.NeverPays {
		fmt.Printf("  %s/month does not cover interest on %s at %.2f%% APR.\n",
			cli.FormatMoney(payment, cur), cli.FormatMoney(d.Balance, cur), d.APR)
		fmt.Println("  The balance grows every month at this payment level.")
		return nil
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Monthly Payment", cli.FormatMoney(payment, cur)},
			{"Months to Payoff", cli.FormatNumber(int64(proj.Months))},
			{"Payoff Date", proj.PayoffDate.Format("January 2006")},
			{"Total Interest", cli.FormatMoney(proj.TotalInterest, cur)},
			{"Total Paid", cli.FormatMoney(proj.TotalPaid, cur)},
		},
	}))
	return nil
}

// findDebt matches a debt account by creditor name (case-insensitive)
// or by ID.
func findDebt(list func() ([]model.DebtAccount, error), needle string) (model.DebtAccount, error) {
	debts, err := list()
	if err != nil {
		return model.DebtAccount{}, err
	}
	lower := strings.ToLower(strings.TrimSpace(needle))
	for _, d := range debts {
		if strings.ToLower(d.Creditor) == lower || d.ID == needle {
			return d, nil
		}
	}
	return model.DebtAccount{}, fmt.Errorf("no debt account matching %q", needle)
}
