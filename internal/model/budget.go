package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Priority bounds: 1 is the lowest priority, 5 the highest.
const (
	MinPriority = 1
	MaxPriority = 5
)

// BufferCategory is the synthetic category that receives transfers in buffer mode.
const BufferCategory = "Overspend buffer"

// CategoryBudget is the monthly allocation for one spending category.
type CategoryBudget struct {
	Category string
	Priority int
	Budget   decimal.Decimal
}

// RanksBelow reports whether c sorts strictly below o in the total priority
// order: lower priority first, then category name.
func (c CategoryBudget) RanksBelow(o CategoryBudget) bool {
	if c.Priority != o.Priority {
		return c.Priority < o.Priority
	}
	return c.Category < o.Category
}

// SumBudgets returns the total of all category allocations.
func SumBudgets(budgets []CategoryBudget) decimal.Decimal {
	total := decimal.Zero
	for _, b := range budgets {
		total = total.Add(b.Budget)
	}
	return total
}

// SortByRank orders budgets from highest to lowest rank in place.
func SortByRank(budgets []CategoryBudget) {
	sort.SliceStable(budgets, func(i, j int) bool {
		return budgets[j].RanksBelow(budgets[i])
	})
}

// FindBudget returns the budget for the named category.
func FindBudget(budgets []CategoryBudget, category string) (CategoryBudget, bool) {
	for _, b := range budgets {
		if b.Category == category {
			return b, true
		}
	}
	return CategoryBudget{}, false
}

// AllocationStatus classifies how category budgets relate to the total.
type AllocationStatus int

const (
	AllocationExact AllocationStatus = iota
	AllocationUnder                  // money left to allocate
	AllocationOver                   // categories exceed the total
)

// AllocationCheck summarizes category allocations against the total budget.
type AllocationCheck struct {
	Total     decimal.Decimal
	Allocated decimal.Decimal
	Gap       decimal.Decimal // positive = unallocated, negative = over-allocated
	Status    AllocationStatus
}

// PaceStats holds the overall month-end projection at a flat daily rate.
type PaceStats struct {
	Day          int
	DaysInMonth  int
	TotalSpent   decimal.Decimal
	Projected    decimal.Decimal
	TotalBudget  decimal.Decimal
	OverBy       decimal.Decimal // positive when the projection exceeds the budget
	DailyRate    decimal.Decimal
	DaysLeft     int
	UsedFraction float64
}
