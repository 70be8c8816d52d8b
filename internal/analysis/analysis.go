// Package analysis runs the full forecast pass over loaded transactions:
// period split, spending curve, per-category projections, overall pace,
// and the reallocation plan.
package analysis

import (
	"fmt"
	"time"

	"github.com/theirongolddev/pbudget/internal/budget"
	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/forecast"
	"github.com/theirongolddev/pbudget/internal/logging"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/pipeline"
	"github.com/theirongolddev/pbudget/internal/source"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logging.Get()

// Input selects what to analyze.
type Input struct {
	Transactions []model.Transaction
	Config       config.Config

	AsOf time.Time // zero means the latest transaction date
	Card string    // empty means all cards
	Day  int       // overrides AsOf's day of month when > 0
	Mode model.ReallocationMode
}

// Report is everything the dashboard and the subcommands render.
type Report struct {
	Period       pipeline.Period
	Curve        model.Curve
	Budgets      []model.CategoryBudget // effective, after auto-allocation
	Total        decimal.Decimal
	Check        model.AllocationCheck
	Pace         model.PaceStats
	MonthToDate  map[string]decimal.Decimal
	Forecasts    []model.Forecast
	Plan         model.Plan
	Applied      []model.CategoryBudget // budgets with the plan applied
	Unbudgeted   []string
	Transactions []model.Transaction // after the card filter
}

// Run computes a Report.
func Run(in Input) (*Report, error) {
	txns := pipeline.FilterByCard(in.Transactions, in.Card)
	if len(txns) == 0 {
		if in.Card != "" {
			return nil, fmt.Errorf("card %q: %w", in.Card, source.ErrNoTransactions)
		}
		return nil, source.ErrNoTransactions
	}

	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = pipeline.LatestDate(txns)
	}
	if in.Day > 0 {
		day := min(in.Day, model.DaysInMonth(asOf))
		asOf = time.Date(asOf.Year(), asOf.Month(), day, 0, 0, 0, 0, time.UTC)
	}

	cfg := in.Config
	r := &Report{
		Period:       pipeline.Split(txns, asOf, cfg.General.HistoryMonths),
		Total:        config.TotalBudget(cfg),
		Budgets:      config.Budgets(cfg),
		Transactions: txns,
	}

	if cfg.Budget.AutoAllocate {
		scaled, err := budget.Rescale(r.Budgets, r.Total)
		if err != nil {
			return nil, err
		}
		r.Budgets = scaled
	}
	r.Check = budget.Check(r.Total, r.Budgets)

	day, dim := r.Period.Day, r.Period.DaysInMonth
	r.Curve = pipeline.BuildCurve(r.Period.History, dim)
	r.MonthToDate = pipeline.SpendByCategory(r.Period.Current)

	pace, err := budget.Pace(pipeline.TotalSpend(r.Period.Current), day, dim, r.Total)
	if err != nil {
		return nil, err
	}
	r.Pace = pace

	r.Forecasts, err = forecast.Forecasts(r.Budgets, r.MonthToDate, day, dim, r.Curve)
	if err != nil {
		return nil, err
	}
	r.Unbudgeted = forecast.Unbudgeted(r.Budgets, r.MonthToDate)

	mode := in.Mode
	if mode == "" {
		mode = config.Mode(cfg)
	}
	r.Plan, err = forecast.Reallocate(r.Forecasts, forecast.Options{
		Mode:        mode,
		MaxCut:      config.MaxCut(cfg),
		TotalBudget: r.Total,
		Day:         day,
		DaysInMonth: dim,
	})
	if err != nil {
		return nil, err
	}
	r.Applied, err = forecast.Apply(r.Budgets, r.Plan)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"as_of":     r.Period.AsOf.Format("2006-01-02"),
		"history":   len(r.Period.History),
		"current":   len(r.Period.Current),
		"transfers": len(r.Plan.Transfers),
		"mode":      mode,
	}).Debug("analysis complete")

	return r, nil
}

// HasHistory reports whether any category has a spending curve.
func (r *Report) HasHistory() bool {
	return len(r.Curve) > 0
}

// Over returns the forecasts projected to exceed their budget.
func (r *Report) Over() []model.Forecast {
	var out []model.Forecast
	for _, f := range r.Forecasts {
		if f.IsOver() {
			out = append(out, f)
		}
	}
	return out
}
