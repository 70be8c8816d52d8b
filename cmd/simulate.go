package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/source"

	"github.com/spf13/cobra"
)

var (
	flagOut     string
	flagMonths  int
	flagSeed    uint64
	flagCards   string
	flagThrough string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate a synthetic transactions CSV from the configured budgets",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&flagOut, "out", "o", "-", "Output file (- for stdout)")
	simulateCmd.Flags().IntVar(&flagMonths, "months", 3, "Complete months of history to generate")
	simulateCmd.Flags().Uint64Var(&flagSeed, "seed", 42, "Random seed")
	simulateCmd.Flags().StringVar(&flagCards, "cards", "", "Comma-separated card IDs to assign at random")
	simulateCmd.Flags().StringVar(&flagThrough, "through", "", "Last generated date (YYYY-MM-DD, default: today)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, _ []string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	budgets := config.Budgets(c)
	if len(budgets) == 0 {
		return errors.New("no categories configured")
	}
	if flagMonths < 0 {
		return fmt.Errorf("--months must be >= 0, got %d", flagMonths)
	}

	through := time.Now().UTC()
	if flagThrough != "" {
		through, err = source.ParseDate(flagThrough)
		if err != nil {
			return fmt.Errorf("--through: %w", err)
		}
	}

	opts := source.DefaultSimulateOptions(budgets, through)
	opts.Months = flagMonths
	opts.Seed = flagSeed
	for _, card := range strings.Split(flagCards, ",") {
		if card = strings.TrimSpace(card); card != "" {
			opts.Cards = append(opts.Cards, card)
		}
	}

	txns := source.Simulate(opts)
	log.WithField("rows", len(txns)).WithField("seed", flagSeed).Debug("simulated")

	if flagOut == "-" {
		return source.Write(os.Stdout, txns)
	}
	if err := source.WriteFile(flagOut, txns); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d transactions to %s\n", len(txns), flagOut)
	}
	return nil
}
