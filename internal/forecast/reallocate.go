package forecast

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/pbudget/internal/budget"
	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultMaxCut is the usual cap on how much of its budget a single donor
// can give up.
var DefaultMaxCut = decimal.NewFromFloat(0.30)

// Options tunes a reallocation pass.
type Options struct {
	Mode   model.ReallocationMode
	MaxCut decimal.Decimal // fraction of a donor's budget; zero disables transfers

	// Buffer mode sizes the need from the overall pace.
	TotalBudget decimal.Decimal
	Day         int
	DaysInMonth int
}

func (o Options) maxCut() decimal.Decimal {
	return decimal.Max(o.MaxCut, decimal.Zero)
}

// Reallocate proposes transfers from under-spending, lower-priority
// categories to those projected to overspend.
func Reallocate(forecasts []model.Forecast, opts Options) (model.Plan, error) {
	switch opts.Mode {
	case model.ModeBuffer:
		return reallocateBuffer(forecasts, opts)
	case model.ModeCategory, "":
		return reallocateCategories(forecasts, opts), nil
	default:
		return model.Plan{}, fmt.Errorf("unknown reallocation mode %q", opts.Mode)
	}
}

// reallocateCategories serves recipients from highest priority down. A donor
// must rank strictly lower in priority than the recipient and gives at most
// min(budget - projected, maxCut * budget) across all recipients.
func reallocateCategories(forecasts []model.Forecast, opts Options) model.Plan {
	plan := model.Plan{Mode: model.ModeCategory, Needed: make(map[string]decimal.Decimal)}
	cut := opts.maxCut()

	var recipients, donors []model.Forecast
	capacity := make(map[string]decimal.Decimal)
	for _, f := range forecasts {
		switch {
		case f.IsOver():
			recipients = append(recipients, f)
		case f.Projected.LessThan(f.Budget):
			c := decimal.Min(f.Budget.Sub(f.Projected), f.Budget.Mul(cut)).RoundDown(2)
			if c.IsPositive() {
				capacity[f.Category] = c
				donors = append(donors, f)
			}
		}
	}

	sort.SliceStable(recipients, func(i, j int) bool {
		a, b := recipients[i], recipients[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.OverUnder().Equal(b.OverUnder()) {
			return a.OverUnder().GreaterThan(b.OverUnder())
		}
		return a.Category < b.Category
	})
	sortDonors(donors, func(f model.Forecast) decimal.Decimal { return f.Budget.Sub(f.Projected) })

	for _, r := range recipients {
		need := r.OverUnder().Round(2)
		plan.Needed[r.Category] = need
		for _, d := range donors {
			if need.IsZero() {
				break
			}
			if d.Priority >= r.Priority {
				continue
			}
			avail := capacity[d.Category]
			if !avail.IsPositive() {
				continue
			}
			give := decimal.Min(avail, need)
			capacity[d.Category] = avail.Sub(give)
			need = need.Sub(give)
			plan.Transfers = append(plan.Transfers, model.Transfer{
				From: d.Category, FromPriority: d.Priority, To: r.Category, Amount: give,
			})
			plan.Covered = plan.Covered.Add(give)
		}
		plan.Uncovered = plan.Uncovered.Add(need)
	}

	log.WithField("transfers", len(plan.Transfers)).
		WithField("uncovered", plan.Uncovered.StringFixed(2)).Debug("category reallocation")
	return plan
}

// reallocateBuffer sizes the need as the pace-projected total minus the total
// budget and fills a shared buffer from any category with budget left,
// lowest priority first, each capped at maxCut of its budget.
func reallocateBuffer(forecasts []model.Forecast, opts Options) (model.Plan, error) {
	plan := model.Plan{Mode: model.ModeBuffer, Needed: make(map[string]decimal.Decimal)}
	cut := opts.maxCut()

	_, spent, _ := Totals(forecasts)
	pace, err := budget.Pace(spent, opts.Day, opts.DaysInMonth, opts.TotalBudget)
	if err != nil {
		return model.Plan{}, fmt.Errorf("%w: %w", ErrDayOutOfRange, err)
	}
	need := pace.OverBy.Round(2)
	if !need.IsPositive() {
		return plan, nil
	}
	plan.Needed[model.BufferCategory] = need

	var donors []model.Forecast
	for _, f := range forecasts {
		if f.Remaining().IsPositive() {
			donors = append(donors, f)
		}
	}
	sortDonors(donors, model.Forecast.Remaining)

	for _, d := range donors {
		if need.IsZero() {
			break
		}
		give := decimal.Min(d.Budget.Mul(cut), d.Remaining(), need).RoundDown(2)
		if !give.IsPositive() {
			continue
		}
		need = need.Sub(give)
		plan.Transfers = append(plan.Transfers, model.Transfer{
			From: d.Category, FromPriority: d.Priority, To: model.BufferCategory, Amount: give,
		})
		plan.Covered = plan.Covered.Add(give)
	}
	plan.Uncovered = need

	log.WithField("need", plan.Needed[model.BufferCategory].StringFixed(2)).
		WithField("transfers", len(plan.Transfers)).Debug("buffer reallocation")
	return plan, nil
}

// sortDonors orders donors priority ascending, then by room descending,
// then budget descending, then name.
func sortDonors(donors []model.Forecast, room func(model.Forecast) decimal.Decimal) {
	sort.SliceStable(donors, func(i, j int) bool {
		a, b := donors[i], donors[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if ra, rb := room(a), room(b); !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		if !a.Budget.Equal(b.Budget) {
			return a.Budget.GreaterThan(b.Budget)
		}
		return a.Category < b.Category
	})
}
