package model

import "github.com/shopspring/decimal"

// Forecast is the month-end projection for one category.
type Forecast struct {
	Category  string
	Priority  int
	Budget    decimal.Decimal
	Spent     decimal.Decimal // month-to-date actual
	Projected decimal.Decimal
	// Fraction is the historical cumulative fraction used for the projection.
	// Zero when FlatRate is set.
	Fraction float64
	FlatRate bool
}

// OverUnder returns projected minus budget; positive means overspend.
func (f Forecast) OverUnder() decimal.Decimal {
	return f.Projected.Sub(f.Budget)
}

// IsOver reports whether the category is projected to exceed its budget.
func (f Forecast) IsOver() bool {
	return f.Projected.GreaterThan(f.Budget)
}

// Remaining returns budget minus month-to-date spend.
func (f Forecast) Remaining() decimal.Decimal {
	return f.Budget.Sub(f.Spent)
}

// Curve maps category -> day-of-month (1-based index) -> average cumulative
// fraction of monthly spend reached by the end of that day.
type Curve map[string][]float64

// At returns the curve value for category on day, if the category has history.
func (c Curve) At(category string, day int) (float64, bool) {
	days, ok := c[category]
	if !ok || day < 1 || day > len(days) {
		return 0, false
	}
	return days[day-1], true
}

// ReallocationMode selects how a plan is built.
type ReallocationMode string

const (
	// ModeCategory moves budget into each category projected to overspend.
	ModeCategory ReallocationMode = "category"
	// ModeBuffer moves budget into a shared overspend buffer sized by the
	// projected total overrun.
	ModeBuffer ReallocationMode = "buffer"
)

// Transfer is one suggested budget move.
type Transfer struct {
	From         string
	FromPriority int
	To           string
	Amount       decimal.Decimal
}

// Plan is the result of a reallocation pass.
type Plan struct {
	Mode      ReallocationMode
	Transfers []Transfer
	Needed    map[string]decimal.Decimal // recipient -> amount it needed
	Covered   decimal.Decimal
	Uncovered decimal.Decimal
}

// TotalMoved returns the sum of all transfer amounts.
func (p Plan) TotalMoved() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.Transfers {
		total = total.Add(t.Amount)
	}
	return total
}

// Empty reports whether the plan moves nothing.
func (p Plan) Empty() bool {
	return len(p.Transfers) == 0
}
