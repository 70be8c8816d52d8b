// Package forecast projects month-end spend per category and plans budget
// transfers toward categories projected to overspend.
package forecast

import (
	"errors"
	"fmt"
	"sort"

	"github.com/theirongolddev/pbudget/internal/logging"
	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
)

var log = logging.Get()

// ErrDayOutOfRange is returned when the as-of day is not within the month.
var ErrDayOutOfRange = errors.New("day outside month")

// Projection is the month-end estimate for one category.
type Projection struct {
	Projected decimal.Decimal
	Fraction  float64 // curve value used; zero for the flat-rate fallback
	FlatRate  bool
}

// Project extrapolates month-to-date spend to month end. With a curve value
// for the category and day, projected = spent / fraction; otherwise the
// flat daily rate is used. Non-positive spend is returned unchanged.
func Project(spent decimal.Decimal, day, daysInMonth int, curve model.Curve, category string) (Projection, error) {
	if daysInMonth < 1 || day < 1 || day > daysInMonth {
		return Projection{}, fmt.Errorf("%w: day %d, month of %d days", ErrDayOutOfRange, day, daysInMonth)
	}

	frac, ok := curve.At(category, day)
	if ok && frac > 0 {
		p := Projection{Projected: spent, Fraction: frac}
		if spent.IsPositive() {
			p.Projected = spent.Div(decimal.NewFromFloat(frac)).Round(2)
		}
		return p, nil
	}

	p := Projection{Projected: spent, FlatRate: true}
	if spent.IsPositive() {
		p.Projected = spent.Mul(decimal.NewFromInt(int64(daysInMonth))).
			Div(decimal.NewFromInt(int64(day))).Round(2)
	}
	return p, nil
}

// Forecasts builds one forecast per budgeted category, in budget order.
// Categories without month-to-date spend have Spent zero.
func Forecasts(budgets []model.CategoryBudget, mtd map[string]decimal.Decimal, day, daysInMonth int, curve model.Curve) ([]model.Forecast, error) {
	out := make([]model.Forecast, 0, len(budgets))
	for _, b := range budgets {
		spent := mtd[b.Category]
		p, err := Project(spent, day, daysInMonth, curve, b.Category)
		if err != nil {
			return nil, err
		}
		if p.FlatRate {
			log.WithField("category", b.Category).Debug("no history, using flat rate")
		}
		out = append(out, model.Forecast{
			Category:  b.Category,
			Priority:  b.Priority,
			Budget:    b.Budget,
			Spent:     spent,
			Projected: p.Projected,
			Fraction:  p.Fraction,
			FlatRate:  p.FlatRate,
		})
	}
	return out, nil
}

// Unbudgeted returns categories with month-to-date spend but no budget,
// sorted by name.
func Unbudgeted(budgets []model.CategoryBudget, mtd map[string]decimal.Decimal) []string {
	var out []string
	for cat, amt := range mtd {
		if _, ok := model.FindBudget(budgets, cat); !ok && !amt.IsZero() {
			out = append(out, cat)
		}
	}
	sort.Strings(out)
	return out
}

// Totals sums budget, spend, and projection across forecasts.
func Totals(forecasts []model.Forecast) (budget, spent, projected decimal.Decimal) {
	for _, f := range forecasts {
		budget = budget.Add(f.Budget)
		spent = spent.Add(f.Spent)
		projected = projected.Add(f.Projected)
	}
	return budget, spent, projected
}
