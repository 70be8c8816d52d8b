// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as dollars with thousands separators and
// cents, e.g. 1234.5 -> "$1,234.50", -3 -> "-$3.00".
func FormatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg())
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("$%s.%02d", FormatNumber(whole.IntPart()), cents)
}

// FormatMoneyShort formats an amount without cents once it reaches $100,
// for compact cards and chart labels.
func FormatMoneyShort(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(10_000)):
		return fmt.Sprintf("%s$%.1fK", sign(d), abs.Div(decimal.NewFromInt(1000)).InexactFloat64())
	case abs.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return sign(d) + "$" + FormatNumber(abs.Round(0).IntPart())
	default:
		return FormatMoney(d)
	}
}

// FormatSigned formats an over/under amount with an explicit sign.
func FormatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatMoney(d)
	}
	return "+" + FormatMoney(d)
}

func sign(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return ""
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatPriority renders a priority as "P4".
func FormatPriority(p int) string {
	return "P" + strconv.Itoa(p)
}

// FormatDate formats a day as "Mon Jan 2".
func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// FormatMonth formats a month as "Jan 2006".
func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}

// FormatStatus describes an allocation check for humans.
func FormatStatus(c model.AllocationCheck) string {
	switch c.Status {
	case model.AllocationUnder:
		return FormatMoney(c.Gap) + " unallocated"
	case model.AllocationOver:
		return FormatMoney(c.Gap.Neg()) + " over-allocated"
	default:
		return "fully allocated"
	}
}

// DescribeTransfer renders one transfer as a sentence.
func DescribeTransfer(t model.Transfer) string {
	return fmt.Sprintf("Move %s from %s (%s) to %s",
		FormatMoney(t.Amount), t.From, FormatPriority(t.FromPriority), t.To)
}

// PlanDriver names what puts the month at risk. A category already spent
// past its budget comes first, then the largest projected overspend, then
// the overall pace when no single category is over.
func PlanDriver(forecasts []model.Forecast, pace model.PaceStats) string {
	var spentOver, projOver *model.Forecast
	for i := range forecasts {
		f := &forecasts[i]
		if d := f.Spent.Sub(f.Budget); d.IsPositive() && (spentOver == nil || d.GreaterThan(spentOver.Spent.Sub(spentOver.Budget))) {
			spentOver = f
		}
		if f.IsOver() && (projOver == nil || f.OverUnder().GreaterThan(projOver.OverUnder())) {
			projOver = f
		}
	}

	switch {
	case spentOver != nil:
		return fmt.Sprintf("%s is already above its budget by %s.",
			spentOver.Category, FormatMoney(spentOver.Spent.Sub(spentOver.Budget)))
	case projOver != nil:
		return fmt.Sprintf("%s is projected %s over its budget at the current pace.",
			projOver.Category, FormatMoney(projOver.OverUnder()))
	case pace.OverBy.IsPositive():
		return fmt.Sprintf("The risk comes from the overall pace: the month is on track to end %s over the total budget, though no category is over yet.",
			FormatMoney(pace.OverBy))
	default:
		return "Nothing is projected over budget."
	}
}

// TransferReason explains why the donor of t can give up budget.
func TransferReason(t model.Transfer, forecasts []model.Forecast) string {
	for _, f := range forecasts {
		if f.Category != t.From {
			continue
		}
		return fmt.Sprintf("Why: %s has priority %s and still has %s remaining (budget %s, spent %s, projected %s).",
			f.Category, FormatPriority(f.Priority), FormatMoney(f.Remaining()),
			FormatMoney(f.Budget), FormatMoney(f.Spent), FormatMoney(f.Projected))
	}
	return fmt.Sprintf("Why: %s has priority %s.", t.From, FormatPriority(t.FromPriority))
}
