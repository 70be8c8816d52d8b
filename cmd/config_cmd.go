package cmd

import (
	"fmt"

	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/model"

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
	c, err := requireConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if path := csvPath(); path != "" {
		fmt.Printf("    CSV path:       %s\n", path)
	} else {
		fmt.Println("    CSV path:       not configured")
	}
	if c.General.HistoryMonths > 0 {
		fmt.Printf("    History months: %d\n", c.General.HistoryMonths)
	} else {
		fmt.Println("    History months: all")
	}
	if c.General.Card != "" {
		fmt.Printf("    Card:           %s\n", c.General.Card)
	}
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Total:         %s\n", cli.FormatMoney(config.TotalBudget(c)))
	fmt.Printf("    Auto-allocate: %v\n", c.Budget.AutoAllocate)
	budgets := config.Budgets(c)
	model.SortByRank(budgets)
	for _, b := range budgets {
		fmt.Printf("    %-16s %10s  %s\n", b.Category, cli.FormatMoney(b.Budget), cli.FormatPriority(b.Priority))
	}
	fmt.Println()

	fmt.Println("  [Reallocation]")
	fmt.Printf("    Mode:    %s\n", config.Mode(c))
	fmt.Printf("    Max cut: %s of a donor's budget\n", cli.FormatPercent(config.MaxCut(c).InexactFloat64()))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", c.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", config.GetLogLevel(c))
	fmt.Printf("    Format: %s\n", c.Logging.Format)
	fmt.Println()

	fmt.Println("  Run `pbudget setup` to reconfigure.")
	return nil
}
