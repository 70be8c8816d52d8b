package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/pbudget/internal/forecast"
	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Environment overrides.
const (
	EnvCSVPath  = "PBUDGET_CSV"
	EnvLogLevel = "PBUDGET_LOG_LEVEL"
)

// Config holds all pbudget configuration.
type Config struct {
	General      GeneralConfig      `toml:"general"`
	Budget       BudgetConfig       `toml:"budget"`
	Reallocation ReallocationConfig `toml:"reallocation"`
	Appearance   AppearanceConfig   `toml:"appearance"`
	Logging      LoggingConfig      `toml:"logging"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	CSVPath       string `toml:"csv_path,omitempty"`
	HistoryMonths int    `toml:"history_months"` // 0 = all complete months
	Card          string `toml:"card,omitempty"`
}

// BudgetConfig holds the total budget and per-category allocations.
type BudgetConfig struct {
	Total        float64          `toml:"total"`
	AutoAllocate bool             `toml:"auto_allocate"`
	Categories   []CategoryConfig `toml:"categories"`
}

// CategoryConfig is one category allocation in the config file.
type CategoryConfig struct {
	Name     string  `toml:"name"`
	Budget   float64 `toml:"budget"`
	Priority int     `toml:"priority"`
}

// ReallocationConfig tunes the reallocation pass.
type ReallocationConfig struct {
	Mode          string  `toml:"mode"`            // "category" or "buffer"
	MaxCutPercent float64 `toml:"max_cut_percent"` // per-donor cap, percent of its budget
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig holds logrus settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			HistoryMonths: 6,
		},
		Budget: BudgetConfig{
			Total: 1600,
			Categories: []CategoryConfig{
				{Name: "Groceries", Budget: 350, Priority: 5},
				{Name: "Eating out", Budget: 250, Priority: 3},
				{Name: "Leisure", Budget: 200, Priority: 2},
				{Name: "Transport", Budget: 100, Priority: 4},
			},
		},
		Reallocation: ReallocationConfig{
			Mode:          string(model.ModeCategory),
			MaxCutPercent: forecast.DefaultMaxCut.Shift(2).InexactFloat64(),
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pbudget")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// Decode over a copy without default categories so a file that lists
	// categories replaces the defaults instead of merging by index.
	parsed := cfg
	parsed.Budget.Categories = nil
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if parsed.Budget.Categories == nil {
		parsed.Budget.Categories = cfg.Budget.Categories
	}

	if err := Validate(parsed); err != nil {
		return cfg, err
	}
	return parsed, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// LoadEnv loads a .env file from the working directory if present.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// GetCSVPath returns the CSV path from env var or config, in that order.
func GetCSVPath(cfg Config) string {
	if p := os.Getenv(EnvCSVPath); p != "" {
		return p
	}
	return cfg.General.CSVPath
}

// GetLogLevel returns the log level from env var or config, in that order.
func GetLogLevel(cfg Config) string {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		return lvl
	}
	return cfg.Logging.Level
}

// Validate checks category names, priorities, and amounts.
func Validate(cfg Config) error {
	if cfg.Budget.Total < 0 {
		return fmt.Errorf("budget total must not be negative (got %.2f)", cfg.Budget.Total)
	}
	seen := make(map[string]struct{}, len(cfg.Budget.Categories))
	for i, c := range cfg.Budget.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("category %d: name cannot be empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("category %q listed twice", name)
		}
		seen[name] = struct{}{}
		if c.Budget < 0 {
			return fmt.Errorf("category %q: budget must not be negative", name)
		}
		if c.Priority < model.MinPriority || c.Priority > model.MaxPriority {
			return fmt.Errorf("category %q: priority %d outside %d..%d",
				name, c.Priority, model.MinPriority, model.MaxPriority)
		}
	}
	switch model.ReallocationMode(cfg.Reallocation.Mode) {
	case model.ModeCategory, model.ModeBuffer, "":
	default:
		return fmt.Errorf("unknown reallocation mode %q", cfg.Reallocation.Mode)
	}
	if cfg.Reallocation.MaxCutPercent < 0 || cfg.Reallocation.MaxCutPercent > 100 {
		return fmt.Errorf("max_cut_percent must be within 0..100 (got %.1f)", cfg.Reallocation.MaxCutPercent)
	}
	return nil
}

// Budgets converts the configured categories to model budgets.
func Budgets(cfg Config) []model.CategoryBudget {
	out := make([]model.CategoryBudget, 0, len(cfg.Budget.Categories))
	for _, c := range cfg.Budget.Categories {
		out = append(out, model.CategoryBudget{
			Category: strings.TrimSpace(c.Name),
			Priority: c.Priority,
			Budget:   decimal.NewFromFloat(c.Budget).Round(2),
		})
	}
	return out
}

// SetBudgets writes model budgets back into the config, keeping order.
func SetBudgets(cfg *Config, budgets []model.CategoryBudget) {
	cats := make([]CategoryConfig, 0, len(budgets))
	for _, b := range budgets {
		cats = append(cats, CategoryConfig{
			Name:     b.Category,
			Budget:   b.Budget.InexactFloat64(),
			Priority: b.Priority,
		})
	}
	cfg.Budget.Categories = cats
}

// TotalBudget returns the configured total as a decimal.
func TotalBudget(cfg Config) decimal.Decimal {
	return decimal.NewFromFloat(cfg.Budget.Total).Round(2)
}

// Mode returns the configured reallocation mode, defaulting to category mode.
func Mode(cfg Config) model.ReallocationMode {
	if cfg.Reallocation.Mode == "" {
		return model.ModeCategory
	}
	return model.ReallocationMode(cfg.Reallocation.Mode)
}

// MaxCut returns the per-donor cap as a fraction of the donor's budget.
// Zero is kept as zero and turns reallocation off.
func MaxCut(cfg Config) decimal.Decimal {
	return decimal.NewFromFloat(cfg.Reallocation.MaxCutPercent).Div(decimal.NewFromInt(100))
}
