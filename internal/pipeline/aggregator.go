// Package pipeline orchestrates transaction loading, caching, and aggregation.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
)

// FilterByCard returns transactions for the given card id (case-insensitive).
// An empty card returns all transactions.
func FilterByCard(txns []model.Transaction, card string) []model.Transaction {
	if card == "" {
		return txns
	}
	var out []model.Transaction
	for _, t := range txns {
		if strings.EqualFold(t.CardID, card) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByTime returns transactions dated within [since, until].
func FilterByTime(txns []model.Transaction, since, until time.Time) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if !t.Date.Before(since) && !t.Date.After(until) {
			out = append(out, t)
		}
	}
	return out
}

// LatestDate returns the most recent transaction date, or the zero time.
func LatestDate(txns []model.Transaction) time.Time {
	var latest time.Time
	for _, t := range txns {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	return latest
}

// Period is the split of transactions around an as-of date.
type Period struct {
	AsOf        time.Time
	Day         int // day of month of AsOf, 1-based
	DaysInMonth int
	History     []model.Transaction // complete months before the current one
	Current     []model.Transaction // current month up to and including AsOf
	HistoryFrom time.Time           // first day included in History
}

// Split partitions transactions into history and month-to-date around asOf.
// historyMonths limits history to that many complete months; 0 keeps all.
// Transactions after asOf are ignored.
func Split(txns []model.Transaction, asOf time.Time, historyMonths int) Period {
	asOf = time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := model.MonthStart(asOf)

	p := Period{
		AsOf:        asOf,
		Day:         asOf.Day(),
		DaysInMonth: model.DaysInMonth(asOf),
	}
	if historyMonths > 0 {
		p.HistoryFrom = monthStart.AddDate(0, -historyMonths, 0)
	}

	for _, t := range txns {
		switch {
		case t.Date.After(asOf):
		case !t.Date.Before(monthStart):
			p.Current = append(p.Current, t)
		case !t.Date.Before(p.HistoryFrom):
			p.History = append(p.History, t)
		}
	}
	return p
}

// SpendByCategory sums amounts per category.
func SpendByCategory(txns []model.Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range txns {
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// TotalSpend sums all transaction amounts.
func TotalSpend(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

// AggregateCategories returns per-category totals, largest first.
func AggregateCategories(txns []model.Transaction) []model.CategorySpend {
	catMap := make(map[string]*model.CategorySpend)
	for _, t := range txns {
		cs, ok := catMap[t.Category]
		if !ok {
			cs = &model.CategorySpend{Category: t.Category}
			catMap[t.Category] = cs
		}
		cs.Amount = cs.Amount.Add(t.Amount)
		cs.Transactions++
	}

	result := make([]model.CategorySpend, 0, len(catMap))
	for _, cs := range catMap {
		result = append(result, *cs)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Amount.Equal(result[j].Amount) {
			return result[i].Amount.GreaterThan(result[j].Amount)
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// AggregateDays computes per-day spend between since and until, inclusive.
// Every day in the range is present so charts show gaps as zeros; the result
// is in chronological order.
func AggregateDays(txns []model.Transaction, since, until time.Time) []model.DailySpend {
	dayMap := make(map[string]decimal.Decimal)
	for _, t := range FilterByTime(txns, since, until) {
		key := t.Date.Format("2006-01-02")
		dayMap[key] = dayMap[key].Add(t.Amount)
	}

	var days []model.DailySpend
	for day := since; !day.After(until); day = day.AddDate(0, 0, 1) {
		days = append(days, model.DailySpend{
			Date:   day,
			Amount: dayMap[day.Format("2006-01-02")],
		})
	}
	return days
}

// AggregateMonths computes per-month totals in chronological order.
func AggregateMonths(txns []model.Transaction) []model.MonthlySpend {
	monthMap := make(map[string]*model.MonthlySpend)
	for _, t := range txns {
		key := t.MonthKey()
		ms, ok := monthMap[key]
		if !ok {
			ms = &model.MonthlySpend{
				Month:      model.MonthStart(t.Date),
				ByCategory: make(map[string]decimal.Decimal),
			}
			monthMap[key] = ms
		}
		ms.Total = ms.Total.Add(t.Amount)
		ms.ByCategory[t.Category] = ms.ByCategory[t.Category].Add(t.Amount)
	}

	months := make([]model.MonthlySpend, 0, len(monthMap))
	for _, ms := range monthMap {
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})
	return months
}

// Categories returns the distinct categories seen, sorted by name.
func Categories(txns []model.Transaction) []string {
	seen := make(map[string]struct{})
	for _, t := range txns {
		seen[t.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
