// Package cmd implements the finsight CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/ledger"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagMonths   int
	flagCategory string
	flagDataDir  string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "Personal finance dashboard CLI",
	Long:  "Track spending, subscriptions, and debt from your terminal: import bank CSVs, detect recurring charges, flag unusual transactions, and project cash flow.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "n", 0, "Time window in months (0 = config default)")
	rootCmd.PersistentFlags().StringVar(&flagCategory, "category", "", "Filter to category (substring match)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Ledger data directory (default: config, then XDG data home)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadCfg returns the config, falling back to defaults on parse errors
// so read-only commands still work with a broken config file.
func loadCfg() config.Config {
	cfg, err := config.Load()
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Warning: %v (using defaults)\n", err)
		}
		return config.DefaultConfig()
	}
	return cfg
}

// dataDir resolves the ledger directory: flag wins, then config,
// then the XDG data home.
func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return config.DataDir(loadCfg())
}

func monthsWindow() int {
	if flagMonths > 0 {
		return flagMonths
	}
	if m := loadCfg().General.DefaultMonths; m > 0 {
		return m
	}
	return 3
}

func currencyCode() string {
	if c := loadCfg().General.Currency; c != "" {
		return c
	}
	return "USD"
}

func openStore() (*store.Store, error) {
	return store.Open(store.DBPath(dataDir()))
}

// dataSet is the shared loading result used by the reporting commands.
type dataSet struct {
	Transactions  []model.Transaction
	Subscriptions []model.Subscription
	Debts         []model.DebtAccount
	DebtPayments  []model.DebtPayment
	Since         time.Time
	Until         time.Time
}

// loadData reads everything the reporting commands need in one pass.
// The transaction range covers two years so detection and overview
// always have enough history; Since/Until carry the display window.
func loadData() (*dataSet, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	now := time.Now()
	txs, err := st.ListTransactions(now.AddDate(-2, 0, 0), now)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	subs, err := st.ListSubscriptions()
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	debts, err := st.ListDebts()
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	payments, err := st.ListDebtPayments(now.AddDate(-2, 0, 0), now)
	if err != nil {
		return nil, fmt.Errorf("list debt payments: %w", err)
	}

	return &dataSet{
		Transactions:  txs,
		Subscriptions: subs,
		Debts:         debts,
		DebtPayments:  payments,
		Since:         now.AddDate(0, -monthsWindow(), 0),
		Until:         now,
	}, nil
}

// applyFilters narrows transactions to the active category filter.
// Time filtering happens per command against ds.Since/Until.
func applyFilters(txs []model.Transaction) []model.Transaction {
	if flagCategory != "" {
		return ledger.FilterByCategory(txs, flagCategory)
	}
	return txs
}
