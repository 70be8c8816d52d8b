// Package cmd implements the pbudget CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/pbudget/internal/analysis"
	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/logging"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/pipeline"
	"github.com/theirongolddev/pbudget/internal/source"
	"github.com/theirongolddev/pbudget/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagCSV      string
	flagAsOf     string
	flagCard     string
	flagNoCache  bool
	flagQuiet    bool
	flagLogLevel string
)

// Loaded once per invocation by initRuntime.
var (
	cfg    = config.DefaultConfig()
	cfgErr error
)

var log = logging.Get()

var errNoCSV = errors.New("no transactions CSV: pass --csv, set " + config.EnvCSVPath + ", or run `pbudget setup`")

var rootCmd = &cobra.Command{
	Use:   "pbudget",
	Short: "Monthly budget forecaster and reallocator",
	Long: "Forecast month-end spend per category from your transaction history, " +
		"flag categories heading over budget, and suggest transfers from lower-priority categories.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCSV, "csv", "", "Transactions CSV file or directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Forecast as of this date (YYYY-MM-DD, default: latest transaction)")
	rootCmd.PersistentFlags().StringVar(&flagCard, "card", "", "Only include transactions from this card")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// initRuntime loads .env and the config file and configures logging.
// A broken config is remembered rather than fatal so the dashboard can
// still start on defaults.
func initRuntime(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, cfgErr = config.Load()
	logging.Configure(logLevel(), cfg.Logging.Format, os.Stderr)
	if cfgErr != nil {
		log.WithError(cfgErr).Debug("config not loaded")
	}
	return nil
}

func logLevel() string {
	if flagLogLevel != "" {
		return flagLogLevel
	}
	return config.GetLogLevel(cfg)
}

// requireConfig returns the loaded config, or the error that prevented loading it.
func requireConfig() (config.Config, error) {
	if cfgErr != nil {
		return cfg, fmt.Errorf("%s: %w", config.Path(), cfgErr)
	}
	return cfg, nil
}

func csvPath() string {
	if flagCSV != "" {
		return flagCSV
	}
	return config.GetCSVPath(cfg)
}

func cardFilter() string {
	if flagCard != "" {
		return flagCard
	}
	return cfg.General.Card
}

func asOfDate() (time.Time, error) {
	if flagAsOf == "" {
		return time.Time{}, nil
	}
	t, err := source.ParseDate(flagAsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of: %w", err)
	}
	return t, nil
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	path := csvPath()
	if path == "" {
		return nil, errNoCSV
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %s...\n", path)
	}

	progressFn := func(current, total int) {
		if flagQuiet || total < 2 {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
	}

	// Try cached load unless --no-cache
	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			log.WithError(err).Debug("cache unavailable")
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(path, cache, progressFn)
			switch {
			case err == nil:
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "\r  Loaded %s transactions (%d cached, %d reparsed files)    \n",
						cli.FormatNumber(int64(len(cr.Transactions))), cr.CacheHits, cr.Reparsed)
				}
				return &cr.LoadResult, nil
			case isDataError(err):
				// The cache can't fix a bad file; report it as is.
				return nil, err
			default:
				log.WithError(err).Debug("cached load failed")
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "\n  Cache error, falling back to full parse\n")
				}
			}
		}
	}

	// Uncached path
	result, err := pipeline.Load(path, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s transactions from %d files    \n",
			cli.FormatNumber(int64(len(result.Transactions))), result.ParsedFiles)
	}
	return result, nil
}

// isDataError reports whether err comes from the input files themselves.
func isDataError(err error) bool {
	for _, target := range []error{
		source.ErrMissingFile,
		source.ErrMissingColumn,
		source.ErrMalformedRow,
		source.ErrEmptyCategory,
		source.ErrNoTransactions,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// runAnalysis loads data and computes the forecast report.
func runAnalysis(mode model.ReallocationMode) (*analysis.Report, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	asOf, err := asOfDate()
	if err != nil {
		return nil, err
	}
	result, err := loadData()
	if err != nil {
		return nil, err
	}
	return analysis.Run(analysis.Input{
		Transactions: result.Transactions,
		Config:       c,
		AsOf:         asOf,
		Card:         cardFilter(),
		Mode:         mode,
	})
}

// printTitle prints the standard report title with the as-of context.
func printTitle(name string, r *analysis.Report) {
	p := r.Period
	title := fmt.Sprintf("%s  %s (day %d/%d)", name, cli.FormatDate(p.AsOf), p.Day, p.DaysInMonth)
	if card := cardFilter(); card != "" {
		title += "  card " + card
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
}

// printWarnings prints data-quality notes shared by the report commands.
func printWarnings(r *analysis.Report) {
	if len(r.Unbudgeted) > 0 {
		fmt.Fprintln(os.Stderr, cli.Warn(fmt.Sprintf("spend in unbudgeted categories: %v", r.Unbudgeted)))
	}
	if !r.HasHistory() {
		fmt.Fprintln(os.Stderr, cli.Warn("no complete history months; projections use a flat daily rate"))
	}
	if r.Check.Status != model.AllocationExact {
		fmt.Fprintln(os.Stderr, cli.Warn("budgets are "+cli.FormatStatus(r.Check)))
	}
}
