package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/pbudget/internal/budget"
	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/source"
	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// SetupValues holds the first-run answers.
type SetupValues struct {
	CSVPath      string
	Total        string
	AutoAllocate bool
	Theme        string
}

func defaultSetupValues(cfg config.Config, csvPath string) SetupValues {
	return SetupValues{
		CSVPath:      csvPath,
		Total:        formatAmount(cfg.Budget.Total),
		AutoAllocate: cfg.Budget.AutoAllocate,
		Theme:        cfg.Appearance.Theme,
	}
}

// DefaultSetupValues seeds the setup form from the current config.
func DefaultSetupValues(cfg config.Config) SetupValues {
	return defaultSetupValues(cfg, config.GetCSVPath(cfg))
}

// NewSetupForm builds the first-run form. Answers are written into vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to pbudget").
				Description("pbudget forecasts month-end spend per category and suggests budget transfers.\nA few answers get you started; everything can be changed later on the Settings tab."),
			huh.NewInput().
				Title("Transactions CSV").
				Description("A file or a directory of CSVs with date, category, amount columns.").
				Placeholder("~/finance/statements.csv").
				Value(&vals.CSVPath).
				Validate(validateCSVPath),
			huh.NewInput().
				Title("Total monthly budget").
				Placeholder("1600").
				Value(&vals.Total).
				Validate(func(s string) error {
					_, err := parseAmount(strings.TrimSpace(s))
					return err
				}),
			huh.NewConfirm().
				Title("Scale category budgets to the total?").
				Description("Keeps category allocations proportional whenever the total changes.").
				Affirmative("Yes").
				Negative("No").
				Value(&vals.AutoAllocate),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(true)
}

func validateCSVPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("a CSV path is required")
	}
	_, err := source.Discover(expandHome(s))
	return err
}

// SaveSetup merges the answers into cfg and writes the config file.
func SaveSetup(cfg config.Config, vals SetupValues) (config.Config, error) {
	total, err := parseAmount(strings.TrimSpace(vals.Total))
	if err != nil {
		return cfg, err
	}

	cfg.General.CSVPath = expandHome(strings.TrimSpace(vals.CSVPath))
	cfg.Budget.Total = total
	cfg.Budget.AutoAllocate = vals.AutoAllocate
	if vals.Theme != "" {
		cfg.Appearance.Theme = vals.Theme
	}
	if cfg.Budget.AutoAllocate {
		scaled, err := budget.Rescale(config.Budgets(cfg), decimal.NewFromFloat(total))
		if err != nil {
			return cfg, err
		}
		config.SetBudgets(&cfg, scaled)
	}

	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	if err := config.Save(cfg); err != nil {
		return cfg, err
	}
	theme.SetActive(cfg.Appearance.Theme)
	return cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
