package cmd

import (
	"fmt"
	"sort"

	"github.com/finsight/finsight/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default window: %d months\n", cfg.General.DefaultMonths)
	fmt.Printf("    Currency:       %s\n", cfg.General.Currency)
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.MonthlyLimit != nil {
		fmt.Printf("    Monthly limit: %.0f\n", *cfg.Budget.MonthlyLimit)
	} else {
		fmt.Println("    Monthly limit: not set")
	}
	if len(cfg.Budget.CategoryLimits) > 0 {
		cats := make([]string, 0, len(cfg.Budget.CategoryLimits))
		for c := range cfg.Budget.CategoryLimits {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Printf("    %-14s %.0f\n", c+":", cfg.Budget.CategoryLimits[c])
		}
	}
	fmt.Println()

	fmt.Println("  [Notify]")
	fmt.Printf("    Lead days:     %d\n", cfg.Notify.LeadDays)
	fmt.Printf("    Listen addr:   %s\n", cfg.Notify.ListenAddr)
	fmt.Printf("    Poll interval: %s\n", cfg.Notify.PollDuration())
	fmt.Println()

	if len(cfg.Categories) > 0 {
		fmt.Println("  [Categories]")
		keys := make([]string, 0, len(cfg.Categories))
		for k := range cfg.Categories {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    %-20s -> %s\n", k, cfg.Categories[k])
		}
		fmt.Println()
	}

	fmt.Println("  Edit the file directly or reconfigure from the TUI settings tab.")
	return nil
}
