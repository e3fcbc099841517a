package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/finsight/finsight/internal/csvio"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOut    string
	flagExportKind   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger as CSV or a JSON snapshot",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&flagExportKind, "kind", "transactions", "CSV content: transactions or subscriptions")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var w io.Writer = os.Stdout
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	now := time.Now()
	switch flagExportFormat {
	case "csv":
		switch flagExportKind {
		case "transactions":
			txs, err := st.ListTransactions(time.Time{}, now)
			if err != nil {
				return err
			}
			if err := csvio.WriteTransactionsCSV(w, txs); err != nil {
				return err
			}
		case "subscriptions":
			subs, err := st.ListSubscriptions()
			if err != nil {
				return err
			}
			if err := csvio.WriteSubscriptionsCSV(w, subs); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid --kind %q (want transactions or subscriptions)", flagExportKind)
		}

	case "json":
		txs, err := st.ListTransactions(time.Time{}, now)
		if err != nil {
			return err
		}
		subs, err := st.ListSubscriptions()
		if err != nil {
			return err
		}
		debts, err := st.ListDebts()
		if err != nil {
			return err
		}
		incomes, err := st.ListIncomes()
		if err != nil {
			return err
		}
		if err := csvio.WriteJSON(w, csvio.Snapshot{
			Transactions:  txs,
			Subscriptions: subs,
			Debts:         debts,
			Incomes:       incomes,
		}); err != nil {
			return err
		}

	default:
		return fmt.Errorf("invalid --format %q (want csv or json)", flagExportFormat)
	}

	if flagExportOut != "" && !flagQuiet {
		fmt.Printf("  Wrote %s\n", flagExportOut)
	}
	return nil
}
