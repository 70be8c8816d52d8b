package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/tui/components"
	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderPlanTab(cw int) string {
	t := theme.Active
	plan := a.report.Plan
	var b strings.Builder

	uncoveredTone := components.ToneGood
	if plan.Uncovered.IsPositive() {
		uncoveredTone = components.ToneBad
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Mode", Value: string(plan.Mode), Delta: "[m] to switch"},
		{Label: "Transfers", Value: fmt.Sprintf("%d", len(plan.Transfers)), Delta: cli.FormatMoney(plan.TotalMoved()) + " moved"},
		{Label: "Covered", Value: cli.FormatMoney(plan.Covered), Tone: components.ToneGood},
		{Label: "Uncovered", Value: cli.FormatMoney(plan.Uncovered), Tone: uncoveredTone, Delta: "still over after the plan"},
	}, cw))
	b.WriteString("\n")

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	budgetsTitle := "Current budgets"
	if a.planPreview {
		budgetsTitle = "Budgets with the plan applied"
	}
	budgets := a.renderPlanBudgets()
	budgets += "\n\n" + dim.Render("[a] toggle preview  [w] write to config")

	if a.isCompactLayout() {
		transfers := a.renderTransfers(components.CardInnerWidth(cw))
		b.WriteString(components.ContentCard("Suggested transfers", transfers, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard(budgetsTitle, budgets, cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		transfers := a.renderTransfers(components.CardInnerWidth(halves[0]))
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Suggested transfers", transfers, halves[0]),
			components.ContentCard(budgetsTitle, budgets, halves[1]),
		}))
	}
	return b.String()
}

// renderTransfers explains the plan: what drives the risk, then each
// transfer with the donor's situation, then what each recipient received.
func (a App) renderTransfers(width int) string {
	t := theme.Active
	r := a.report
	plan := r.Plan

	wrap := lipgloss.NewStyle().Width(width).Background(t.Surface)
	driver := wrap.Foreground(t.TextPrimary).Bold(true)
	muted := wrap.Foreground(t.TextMuted)
	why := lipgloss.NewStyle().Width(width).PaddingLeft(4).Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(driver.Render(cli.PlanDriver(r.Forecasts, r.Pace)))
	b.WriteString("\n\n")

	if plan.Empty() {
		msg := "No transfers needed."
		if plan.Uncovered.IsPositive() {
			msg = "No lower-priority category has room to give."
		}
		b.WriteString(muted.Render(msg))
		return b.String()
	}

	for i, tr := range plan.Transfers {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(accent.Render(fmt.Sprintf("%2d. ", i+1)))
		b.WriteString(text.Render(cli.DescribeTransfer(tr)))
		b.WriteString("\n")
		b.WriteString(why.Render(cli.TransferReason(tr, r.Forecasts)))
	}
	if needs := a.renderNeeds(); needs != "" {
		b.WriteString("\n\n")
		b.WriteString(needs)
	}
	return b.String()
}

// renderNeeds shows how much each recipient needed and how much it received.
func (a App) renderNeeds() string {
	t := theme.Active
	plan := a.report.Plan
	if len(plan.Needed) == 0 {
		return ""
	}

	received := make(map[string]decimal.Decimal)
	for _, tr := range plan.Transfers {
		received[tr.To] = received[tr.To].Add(tr.Amount)
	}
	names := make([]string, 0, len(plan.Needed))
	for name := range plan.Needed {
		names = append(names, name)
	}
	sort.Strings(names)

	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	short := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-18s %11s %11s", "Recipient", "Needed", "Received")))
	for _, name := range names {
		need := plan.Needed[name]
		got := received[name]
		line := fmt.Sprintf("%-18s %11s %11s", truncStr(name, 18), cli.FormatMoney(need), cli.FormatMoney(got))
		b.WriteString("\n")
		if got.LessThan(need) {
			b.WriteString(short.Render(line))
		} else {
			b.WriteString(row.Render(line))
		}
	}
	return b.String()
}

// renderPlanBudgets lists budgets, with the plan's changes when previewing.
func (a App) renderPlanBudgets() string {
	t := theme.Active
	r := a.report

	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	up := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	down := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	shown := r.Budgets
	if a.planPreview {
		shown = r.Applied
	}
	shown = append([]model.CategoryBudget(nil), shown...)
	model.SortByRank(shown)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-18s %3s %11s %11s", "Category", "Pri", "Budget", "Change")))
	for _, cb := range shown {
		before := decimal.Zero
		if orig, ok := model.FindBudget(r.Budgets, cb.Category); ok {
			before = orig.Budget
		}
		change := cb.Budget.Sub(before)

		b.WriteString("\n")
		b.WriteString(row.Render(fmt.Sprintf("%-18s %3s %11s ", truncStr(cb.Category, 18), cli.FormatPriority(cb.Priority), cli.FormatMoney(cb.Budget))))
		switch {
		case change.IsPositive():
			b.WriteString(up.Render(fmt.Sprintf("%11s", cli.FormatSigned(change))))
		case change.IsNegative():
			b.WriteString(down.Render(fmt.Sprintf("%11s", cli.FormatSigned(change))))
		default:
			b.WriteString(row.Render(fmt.Sprintf("%11s", "")))
		}
	}
	b.WriteString("\n")
	b.WriteString(head.Render(fmt.Sprintf("%-18s %3s %11s", "Total", "", cli.FormatMoney(model.SumBudgets(shown)))))
	return b.String()
}
