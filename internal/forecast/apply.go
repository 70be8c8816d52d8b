package forecast

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/pbudget/internal/model"
)

// ErrNegativeBudget is returned when a plan would drive a budget below zero.
var ErrNegativeBudget = errors.New("transfer exceeds donor budget")

// Apply returns budgets with the plan's transfers applied. The total is
// conserved. A recipient missing from budgets (the overspend buffer) is
// appended at the highest priority.
func Apply(budgets []model.CategoryBudget, plan model.Plan) ([]model.CategoryBudget, error) {
	out := make([]model.CategoryBudget, len(budgets))
	copy(out, budgets)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.Category] = i
	}

	for _, t := range plan.Transfers {
		if t.Amount.IsNegative() {
			return nil, fmt.Errorf("transfer %s -> %s: negative amount", t.From, t.To)
		}
		fi, ok := index[t.From]
		if !ok {
			return nil, fmt.Errorf("transfer from unknown category %q", t.From)
		}
		left := out[fi].Budget.Sub(t.Amount)
		if left.IsNegative() {
			return nil, fmt.Errorf("%w: %s has %s, moving %s",
				ErrNegativeBudget, t.From, out[fi].Budget.StringFixed(2), t.Amount.StringFixed(2))
		}
		out[fi].Budget = left

		ti, ok := index[t.To]
		if !ok {
			out = append(out, model.CategoryBudget{Category: t.To, Priority: model.MaxPriority})
			ti = len(out) - 1
			index[t.To] = ti
		}
		out[ti].Budget = out[ti].Budget.Add(t.Amount)
	}
	return out, nil
}
