package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/finsight/finsight/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagSeedMonths int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the ledger with demo data",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&flagSeedMonths, "months", 6, "Months of history to generate")
	rootCmd.AddCommand(seedCmd)
}

type seedMerchant struct {
	name      string
	category  string
	base      float64
	jitter    float64
	perMonth  int
	recurring bool
}

var seedMerchants = []seedMerchant{
	{"Whole Harvest Market", "Groceries", 84, 35, 5, false},
	{"Corner Espresso", "Dining", 6.5, 2, 12, false},
	{"Nori & Vine", "Dining", 42, 18, 3, false},
	{"City Transit", "Transport", 3.2, 0, 16, false},
	{"Petro Stop", "Transport", 48, 12, 2, false},
	{"Luma Energy", "Utilities", 112, 20, 1, true},
	{"Clearwave Internet", "Utilities", 69.99, 0, 1, true},
	{"Netflix", "Entertainment", 15.49, 0, 1, true},
	{"Spotify", "Entertainment", 10.99, 0, 1, true},
	{"Pine & Main Pharmacy", "Health", 22, 10, 1, false},
	{"Atlas Fitness", "Health", 39, 0, 1, true},
	{"Harbor Lane Apartments", "Housing", 1650, 0, 1, true},
}

func runSeed(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	months := flagSeedMonths
	if months < 1 {
		months = 1
	}

	rng := rand.New(rand.NewSource(7313))
	now := time.Now()
	var txs []model.Transaction

	for m := 0; m < months; m++ {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -m, 0)

		// Salary on the 1st.
		txs = append(txs, model.Transaction{
			ID:       uuid.NewString(),
			Date:     monthStart,
			Name:     "Brightline Studio Payroll",
			Amount:   decimal.NewFromFloat(4200),
			Category: model.CategoryIncome,
			Source:   model.SourceSeed,
		})

		for _, sm := range seedMerchants {
			for i := 0; i < sm.perMonth; i++ {
				day := 1 + rng.Intn(28)
				if sm.recurring {
					day = 1 + (i * 3) // fixed billing days
				}
				date := monthStart.AddDate(0, 0, day-1)
				if date.After(now) {
					continue
				}
				amount := sm.base
				if sm.jitter > 0 {
					amount += (rng.Float64()*2 - 1) * sm.jitter
				}
				txs = append(txs, model.Transaction{
					ID:        uuid.NewString(),
					Date:      date,
					Name:      sm.name,
					Amount:    decimal.NewFromFloat(amount).Round(2),
					Category:  sm.category,
					Recurring: sm.recurring,
					Source:    model.SourceSeed,
				})
			}
		}
	}

	// One clear outlier so the intelligence view has something to flag.
	txs = append(txs, model.Transaction{
		ID:       uuid.NewString(),
		Date:     now.AddDate(0, 0, -4),
		Name:     "Whole Harvest Market",
		Amount:   decimal.NewFromFloat(412.88),
		Category: "Groceries",
		Source:   model.SourceSeed,
	})

	inserted, err := st.InsertTransactions(txs)
	if err != nil {
		return err
	}

	subs := []model.Subscription{
		{
			ID: uuid.NewString(), ServiceName: "Netflix",
			Price: decimal.NewFromFloat(15.49), Frequency: model.FreqMonthly,
			NextPayment: now.AddDate(0, 0, 9), Active: true,
			Category: "Entertainment", CreatedAt: now,
		},
		{
			ID: uuid.NewString(), ServiceName: "Spotify",
			Price: decimal.NewFromFloat(10.99), Frequency: model.FreqMonthly,
			NextPayment: now.AddDate(0, 0, 17), Active: true,
			Category: "Entertainment", CreatedAt: now,
		},
		{
			ID: uuid.NewString(), ServiceName: "Atlas Fitness",
			Price: decimal.NewFromFloat(39), Frequency: model.FreqMonthly,
			NextPayment: now.AddDate(0, 0, 3), Active: true,
			Category: "Health", CreatedAt: now,
		},
	}
	for _, sub := range subs {
		if err := st.SaveSubscription(sub); err != nil {
			return err
		}
	}

	debts := []model.DebtAccount{
		{
			ID: uuid.NewString(), Creditor: "Meridian Visa",
			Kind: model.DebtCreditCard, Balance: decimal.NewFromFloat(2840.55),
			APR: 21.99, MinimumPayment: decimal.NewFromFloat(85),
		},
		{
			ID: uuid.NewString(), Creditor: "Campus Loan Servicing",
			Kind: model.DebtLoan, Balance: decimal.NewFromFloat(11200),
			APR: 4.5, MinimumPayment: decimal.NewFromFloat(160),
		},
	}
	for _, d := range debts {
		if err := st.SaveDebt(d); err != nil {
			return err
		}
	}

	fmt.Printf("  Seeded %d transactions, %d subscriptions, %d debt accounts over %d months.\n",
		inserted, len(subs), len(debts), months)
	fmt.Println("  Run `finsight` or `finsight tui` to explore.")
	return nil
}
