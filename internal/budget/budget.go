// Package budget checks and rescales category allocations against a total
// and computes the overall spending pace.
package budget

import (
	"errors"
	"fmt"
	"sort"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
)

// ErrNegativeTotal is returned when a rescale target is below zero.
var ErrNegativeTotal = errors.New("total budget must not be negative")

var hundred = decimal.NewFromInt(100)

// Check compares the sum of category budgets with the total budget.
func Check(total decimal.Decimal, budgets []model.CategoryBudget) model.AllocationCheck {
	allocated := model.SumBudgets(budgets)
	gap := total.Sub(allocated)

	status := model.AllocationExact
	switch {
	case gap.IsPositive():
		status = model.AllocationUnder
	case gap.IsNegative():
		status = model.AllocationOver
	}

	return model.AllocationCheck{
		Total:     total,
		Allocated: allocated,
		Gap:       gap,
		Status:    status,
	}
}

// Rescale distributes newTotal across budgets in proportion to their current
// allocations. Work is done in whole cents and leftover cents go to the
// categories with the largest remainders, so the result sums exactly to
// newTotal rounded to cents. If every budget is zero the total is split
// evenly. Order, names, and priorities are preserved.
func Rescale(budgets []model.CategoryBudget, newTotal decimal.Decimal) ([]model.CategoryBudget, error) {
	if newTotal.IsNegative() {
		return nil, fmt.Errorf("%w (got %s)", ErrNegativeTotal, newTotal.StringFixed(2))
	}
	out := make([]model.CategoryBudget, len(budgets))
	copy(out, budgets)
	if len(out) == 0 {
		return out, nil
	}

	totalCents := newTotal.Mul(hundred).Round(0)
	weights := make([]decimal.Decimal, len(out))
	weightSum := decimal.Zero
	for i, b := range out {
		w := b.Budget.Mul(hundred).Round(0)
		if w.IsNegative() {
			w = decimal.Zero
		}
		weights[i] = w
		weightSum = weightSum.Add(w)
	}
	if weightSum.IsZero() {
		for i := range weights {
			weights[i] = decimal.NewFromInt(1)
		}
		weightSum = decimal.NewFromInt(int64(len(weights)))
	}

	type share struct {
		idx int
		rem decimal.Decimal
	}
	shares := make([]share, len(out))
	assigned := decimal.Zero
	cents := make([]decimal.Decimal, len(out))
	for i, w := range weights {
		q, r := totalCents.Mul(w).QuoRem(weightSum, 0)
		cents[i] = q
		assigned = assigned.Add(q)
		shares[i] = share{idx: i, rem: r}
	}

	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].rem.GreaterThan(shares[b].rem)
	})
	left := totalCents.Sub(assigned).IntPart()
	for k := int64(0); k < left; k++ {
		i := shares[k%int64(len(shares))].idx
		cents[i] = cents[i].Add(decimal.NewFromInt(1))
	}

	for i := range out {
		out[i].Budget = cents[i].Div(hundred)
	}
	return out, nil
}

// Pace projects total month-end spend at the month-to-date daily rate.
func Pace(totalSpent decimal.Decimal, day, daysInMonth int, total decimal.Decimal) (model.PaceStats, error) {
	if daysInMonth < 1 || day < 1 || day > daysInMonth {
		return model.PaceStats{}, fmt.Errorf("day %d outside 1..%d", day, daysInMonth)
	}

	rate := totalSpent.Div(decimal.NewFromInt(int64(day)))
	projected := rate.Mul(decimal.NewFromInt(int64(daysInMonth))).Round(2)

	stats := model.PaceStats{
		Day:         day,
		DaysInMonth: daysInMonth,
		TotalSpent:  totalSpent,
		Projected:   projected,
		TotalBudget: total,
		OverBy:      projected.Sub(total),
		DailyRate:   rate.Round(2),
		DaysLeft:    daysInMonth - day,
	}
	if total.IsPositive() {
		stats.UsedFraction = totalSpent.Div(total).InexactFloat64()
	}
	return stats, nil
}
