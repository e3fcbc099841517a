package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues collects first-run choices from the huh form.
type setupValues struct {
	currency string
	months   string
	theme    string
	budget   string
}

// newSetupForm builds the first-run setup form. txCount and dataDir are
// shown in the form description so the user can confirm the right ledger
// was found.
func newSetupForm(txCount int, dataDir string, vals *setupValues) *huh.Form {
	vals.currency = "USD"
	vals.months = "3"
	vals.theme = theme.Active.Name

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to finsight").
				Description(fmt.Sprintf("Found %d transactions in %s.\nA few questions to get set up.", txCount, dataDir)),

			huh.NewSelect[string]().
				Title("Currency").
				Options(
					huh.NewOption("USD ($)", "USD"),
					huh.NewOption("EUR (€)", "EUR"),
					huh.NewOption("GBP (£)", "GBP"),
					huh.NewOption("AUD (A$)", "AUD"),
					huh.NewOption("CAD (C$)", "CAD"),
					huh.NewOption("JPY (¥)", "JPY"),
				).
				Value(&vals.currency),

			huh.NewSelect[string]().
				Title("Default window").
				Description("How far back the dashboard looks by default.").
				Options(
					huh.NewOption("1 month", "1"),
					huh.NewOption("3 months", "3"),
					huh.NewOption("6 months", "6"),
					huh.NewOption("12 months", "12"),
				).
				Value(&vals.months),

			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&vals.theme),

			huh.NewInput().
				Title("Monthly budget").
				Description("Spending limit per month. Leave blank for none.").
				Placeholder("1500").
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}
					v, err := strconv.ParseFloat(s, 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("enter a positive number or leave blank")
					}
					return nil
				}).
				Value(&vals.budget),
		),
	)
}

// saveSetupConfig persists the setup form choices and applies them to
// the running app.
func (a *App) saveSetupConfig() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	if a.setupVals.currency != "" {
		cfg.General.Currency = a.setupVals.currency
		a.currency = cfg.General.Currency
	}

	if m, err := strconv.Atoi(a.setupVals.months); err == nil && m > 0 {
		cfg.General.DefaultMonths = m
		a.months = m
	}

	if a.setupVals.theme != "" {
		cfg.Appearance.Theme = a.setupVals.theme
		theme.SetActive(a.setupVals.theme)
	}

	budget := strings.TrimSpace(a.setupVals.budget)
	if budget != "" {
		if v, err := strconv.ParseFloat(budget, 64); err == nil && v > 0 {
			cfg.Budget.MonthlyLimit = &v
			a.monthlyLimit = &v
		}
	}

	return config.Save(cfg)
}
