package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/pipeline"
	"github.com/theirongolddev/pbudget/internal/tui/components"
	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	pace := r.Pace
	var b strings.Builder

	// Row 1: Metric cards
	projTone := components.ToneGood
	if pace.OverBy.IsPositive() {
		projTone = components.ToneBad
	}
	allocTone := components.ToneGood
	switch r.Check.Status {
	case model.AllocationOver:
		allocTone = components.ToneBad
	case model.AllocationUnder:
		allocTone = components.ToneWarn
	}

	cards := []components.Metric{
		{
			Label: "Spent this month",
			Value: cli.FormatMoney(pace.TotalSpent),
			Delta: fmt.Sprintf("%s of %s", cli.FormatPercent(pace.UsedFraction), cli.FormatMoneyShort(pace.TotalBudget)),
		},
		{
			Label: "Projected at pace",
			Value: cli.FormatMoney(pace.Projected),
			Delta: cli.FormatSigned(pace.OverBy) + " vs budget",
			Tone:  projTone,
		},
		{
			Label: "Daily rate",
			Value: cli.FormatMoney(pace.DailyRate) + "/day",
			Delta: fmt.Sprintf("%d days left", pace.DaysLeft),
		},
		{
			Label: "Allocation",
			Value: cli.FormatMoneyShort(r.Check.Allocated) + " / " + cli.FormatMoneyShort(r.Check.Total),
			Delta: cli.FormatStatus(r.Check),
			Tone:  allocTone,
		},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Per-category budget bars
	innerW := components.CardInnerWidth(cw)
	labelW := 14
	amountW := 22
	barW := innerW - labelW - amountW - 16
	if barW < 10 {
		barW = 10
	}
	amountStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var bars strings.Builder
	for i, f := range r.Forecasts {
		if i > 0 {
			bars.WriteString("\n")
		}
		bars.WriteString(components.BudgetBar(f.Category, ratio(f.Spent, f.Budget), ratio(f.Projected, f.Budget), labelW, barW))
		bars.WriteString(amountStyle.Render(fmt.Sprintf("  %s / %s", cli.FormatMoneyShort(f.Spent), cli.FormatMoneyShort(f.Budget))))
	}
	if len(r.Forecasts) == 0 {
		bars.WriteString(amountStyle.Render("No categories configured."))
	}
	b.WriteString(components.ContentCard("Spent / projected vs budget", bars.String(), cw))
	b.WriteString("\n")

	// Row 3: Alerts and this month's categories
	alerts := a.renderAlerts()
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Alerts", alerts, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("This month", a.renderMonthCategories(innerW), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Alerts", alerts, halves[0]),
			components.ContentCard("This month", a.renderMonthCategories(components.CardInnerWidth(halves[1])), halves[1]),
		}))
	}

	return b.String()
}

// renderAlerts lists overspend, allocation, and data-quality warnings.
func (a App) renderAlerts() string {
	t := theme.Active
	r := a.report
	bad := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	good := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var lines []string
	for _, f := range r.Over() {
		lines = append(lines, bad.Render(fmt.Sprintf("▲ %s projected %s over", f.Category, cli.FormatMoney(f.OverUnder()))))
	}
	if r.Check.Status != model.AllocationExact {
		lines = append(lines, warn.Render("● Budgets are "+cli.FormatStatus(r.Check)))
	}
	if len(r.Unbudgeted) > 0 {
		lines = append(lines, warn.Render("● Spend in unbudgeted categories: "+strings.Join(r.Unbudgeted, ", ")))
	}
	if !r.HasHistory() {
		lines = append(lines, muted.Render("● No complete history months; projecting at a flat daily rate"))
	}
	if !r.Plan.Empty() {
		lines = append(lines, muted.Render(fmt.Sprintf("● Plan suggests %d transfers [p]", len(r.Plan.Transfers))))
	}
	if len(lines) == 0 {
		lines = append(lines, good.Render("✓ Every category is on track"))
	}
	return strings.Join(lines, "\n")
}

// renderMonthCategories lists month-to-date spend per category, largest first.
func (a App) renderMonthCategories(innerW int) string {
	t := theme.Active
	cats := pipeline.AggregateCategories(a.report.Period.Current)
	if len(cats) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No spend yet this month.")
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	nameW := innerW - 26
	if nameW < 10 {
		nameW = 10
	}

	var b strings.Builder
	for i, c := range cats {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(c.Category, nameW))))
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%12s", cli.FormatMoney(c.Amount))))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %3d txns", c.Transactions)))
	}
	return b.String()
}

// ratio returns part/whole as a float. A zero whole with positive part
// reports as far over budget.
func ratio(part, whole decimal.Decimal) float64 {
	if whole.IsPositive() {
		return part.Div(whole).InexactFloat64()
	}
	if part.IsPositive() {
		return 9.99
	}
	return 0
}
