package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/pbudget/internal/logging"
	"github.com/theirongolddev/pbudget/internal/pipeline"
	"github.com/theirongolddev/pbudget/internal/tui"
	"github.com/theirongolddev/pbudget/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	asOf, err := asOfDate()
	if err != nil {
		return err
	}

	// Logs would corrupt the alt screen; send them to a file instead.
	if f, err := logging.OpenFile(pipeline.LogPath()); err == nil {
		defer func() { _ = f.Close() }()
		logging.Configure(logLevel(), cfg.Logging.Format, f)
	} else {
		logging.Configure("error", cfg.Logging.Format, io.Discard)
	}

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		CSVPath: flagCSV,
		AsOf:    asOf,
		Card:    cardFilter(),
		NoCache: flagNoCache,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
