package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// A broken config file is replaced, so start from whatever loaded.
	vals := tui.DefaultSetupValues(cfg)
	if flagCSV != "" {
		vals.CSVPath = flagCSV
	}

	fmt.Println()
	fmt.Println("  Welcome to pbudget!")
	fmt.Println()

	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		return err
	}

	saved, err := tui.SaveSetup(cfg, vals)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cfg, cfgErr = saved, nil

	fmt.Printf("\n  Saved to %s\n", config.Path())
	fmt.Println("  Edit categories and priorities in the dashboard's Settings tab, or in the file directly.")
	fmt.Println("  Run `pbudget` to open the dashboard.")
	fmt.Println()
	return nil
}
