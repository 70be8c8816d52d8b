package pipeline

import (
	"sort"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
)

// Curve bounds keep projections finite early in the month and stop a
// nearly-complete curve from masking late spend.
const (
	CurveMin = 0.01
	CurveMax = 0.99
)

type monthCategory struct {
	month    string
	category string
}

// BuildCurve computes, per category, the average cumulative fraction of a
// month's spend reached by the end of each day 1..daysInMonth.
//
// Each historical month contributes its own cumulative/total ratio for every
// day of the target length; days beyond a shorter month count as fully spent.
// A month whose total for a category is not positive is skipped for that
// category, so it neither counts toward the average nor drags it toward
// zero as a plain per-month mean would. Averages are clipped to
// [CurveMin, CurveMax]. Categories with no usable month are absent from the
// curve.
func BuildCurve(history []model.Transaction, daysInMonth int) model.Curve {
	curve := make(model.Curve)
	if daysInMonth <= 0 || len(history) == 0 {
		return curve
	}

	type monthly struct {
		length int
		daily  []decimal.Decimal
	}
	groups := make(map[monthCategory]*monthly)
	for _, t := range history {
		key := monthCategory{month: t.MonthKey(), category: t.Category}
		g, ok := groups[key]
		if !ok {
			n := model.DaysInMonth(t.Date)
			g = &monthly{length: n, daily: make([]decimal.Decimal, n)}
			groups[key] = g
		}
		g.daily[t.Date.Day()-1] = g.daily[t.Date.Day()-1].Add(t.Amount)
	}

	sums := make(map[string][]float64)
	counts := make(map[string]int)
	keys := make([]monthCategory, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].category != keys[j].category {
			return keys[i].category < keys[j].category
		}
		return keys[i].month < keys[j].month
	})

	for _, k := range keys {
		g := groups[k]
		total := decimal.Zero
		for _, d := range g.daily {
			total = total.Add(d)
		}
		if !total.IsPositive() {
			continue // refunds-only or empty month: no shape to learn
		}

		acc, ok := sums[k.category]
		if !ok {
			acc = make([]float64, daysInMonth)
			sums[k.category] = acc
		}
		counts[k.category]++

		cum := decimal.Zero
		for day := 1; day <= daysInMonth; day++ {
			if day > g.length {
				acc[day-1]++
				continue
			}
			cum = cum.Add(g.daily[day-1])
			acc[day-1] += cum.Div(total).InexactFloat64()
		}
	}

	for cat, acc := range sums {
		n := float64(counts[cat])
		days := make([]float64, daysInMonth)
		for i, v := range acc {
			days[i] = clip(v / n)
		}
		curve[cat] = days
	}
	return curve
}

func clip(v float64) float64 {
	switch {
	case v < CurveMin:
		return CurveMin
	case v > CurveMax:
		return CurveMax
	default:
		return v
	}
}
