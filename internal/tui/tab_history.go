package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/pipeline"
	"github.com/theirongolddev/pbudget/internal/tui/components"
	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderHistoryTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: Daily spend chart
	if len(a.daily) > 0 {
		vals := make([]float64, len(a.daily))
		for i, d := range a.daily {
			vals[i] = d.Amount.InexactFloat64()
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		// Days above the even daily share of the total are drawn red.
		p := a.report.Period
		daily := a.report.Total.Div(decimal.NewFromInt(int64(p.DaysInMonth))).InexactFloat64()
		chart := components.Chart(vals, chartDateLabels(a.daily), components.CardInnerWidth(cw), chartH, components.ChartOptions{
			Color:     t.Blue,
			Target:    daily,
			Highlight: -1,
		})
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Daily spend (%dd) · budget %s/day", len(a.daily), cli.FormatMoney(decimal.NewFromFloat(daily).Round(2))),
			chart,
			cw,
		))
		b.WriteString("\n")
	}

	// Row 2: Monthly totals + history averages
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Monthly totals", a.renderMonthlyTotals(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Average month vs budget", a.renderHistoryAverages(), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Monthly totals", a.renderMonthlyTotals(components.CardInnerWidth(halves[0])), halves[0]),
			components.ContentCard("Average month vs budget", a.renderHistoryAverages(), halves[1]),
		}))
	}
	return b.String()
}

func (a App) renderMonthlyTotals(innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	months := a.monthly
	if len(months) == 0 {
		return muted.Render("No spend recorded.")
	}

	totals := make([]float64, len(months))
	for i, m := range months {
		totals[i] = m.Total.InexactFloat64()
	}

	var b strings.Builder
	b.WriteString(components.Sparkline(totals, t.Accent))
	b.WriteString("\n\n")

	// Newest first, capped to what fits comfortably.
	shown := 0
	for i := len(months) - 1; i >= 0 && shown < 12; i-- {
		m := months[i]
		top, topAmt := topCategory(m)
		line := fmt.Sprintf("%-9s %12s", cli.FormatMonth(m.Month), cli.FormatMoney(m.Total))
		b.WriteString(row.Render(line))
		if top != "" && innerW > 40 {
			b.WriteString(dim.Render(fmt.Sprintf("  top %s %s", truncStr(top, innerW-40), cli.FormatMoneyShort(topAmt))))
		}
		b.WriteString("\n")
		shown++
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderHistoryAverages compares each budgeted category's average complete
// month in the history window with its budget.
func (a App) renderHistoryAverages() string {
	t := theme.Active
	r := a.report
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	over := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	months := pipeline.AggregateMonths(r.Period.History)
	if len(months) == 0 {
		return muted.Render("No complete months before " + cli.FormatMonth(r.Period.AsOf) + ".")
	}
	n := decimal.NewFromInt(int64(len(months)))

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-18s %11s %11s", "Category", "Average", "Budget")))
	for _, cb := range r.Budgets {
		sum := decimal.Zero
		for _, m := range months {
			sum = sum.Add(m.ByCategory[cb.Category])
		}
		avg := sum.Div(n).Round(2)
		line := fmt.Sprintf("%-18s %11s %11s", truncStr(cb.Category, 18), cli.FormatMoney(avg), cli.FormatMoney(cb.Budget))
		b.WriteString("\n")
		if avg.GreaterThan(cb.Budget) {
			b.WriteString(over.Render(line))
		} else {
			b.WriteString(row.Render(line))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(muted.Render(fmt.Sprintf("%d months since %s", len(months), cli.FormatMonth(months[0].Month))))
	return b.String()
}

func topCategory(m model.MonthlySpend) (string, decimal.Decimal) {
	names := make([]string, 0, len(m.ByCategory))
	for name := range m.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	var top string
	best := decimal.Zero
	for _, name := range names {
		if amt := m.ByCategory[name]; amt.GreaterThan(best) {
			top, best = name, amt
		}
	}
	return top, best
}
