package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/forecast"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/tui/components"
	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderForecastTab(cw int) string {
	var b strings.Builder
	b.WriteString(components.ContentCard("Month-end forecast", a.renderForecastTable(cw), cw))
	b.WriteString("\n")

	if len(a.report.Forecasts) > 0 {
		f := a.report.Forecasts[a.curveCursor]
		title := fmt.Sprintf("Cumulative spending curve · %s", f.Category)
		b.WriteString(components.ContentCard(title, a.renderCurveChart(f, components.CardInnerWidth(cw)), cw))
	}
	return b.String()
}

func (a App) renderForecastTable(cw int) string {
	t := theme.Active
	r := a.report
	innerW := components.CardInnerWidth(cw)

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	overStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	underStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	compact := a.isCompactLayout()
	nameW := innerW - 62
	if compact {
		nameW = innerW - 50
	}
	if nameW < 10 {
		nameW = 10
	}

	header := fmt.Sprintf("%-*s %3s %11s %11s %11s %12s", nameW, "Category", "Pri", "Budget", "Spent", "Projected", "Over/Under")
	if !compact {
		header += fmt.Sprintf(" %11s", "Basis")
	}

	var b strings.Builder
	b.WriteString(headStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", min(lipgloss.Width(header), innerW))))
	b.WriteString("\n")

	for i, f := range r.Forecasts {
		style := rowStyle
		if i == a.curveCursor {
			style = selStyle
		}
		row := fmt.Sprintf("%-*s %3s %11s %11s %11s ",
			nameW, truncStr(f.Category, nameW), cli.FormatPriority(f.Priority),
			cli.FormatMoney(f.Budget), cli.FormatMoney(f.Spent), cli.FormatMoney(f.Projected))
		b.WriteString(style.Render(row))

		delta := fmt.Sprintf("%12s", cli.FormatSigned(f.OverUnder()))
		if f.IsOver() {
			b.WriteString(overStyle.Render(delta))
		} else {
			b.WriteString(underStyle.Render(delta))
		}
		if !compact {
			basis := "flat rate"
			if !f.FlatRate {
				basis = "curve " + cli.FormatPercent(f.Fraction)
			}
			b.WriteString(dimStyle.Render(fmt.Sprintf(" %11s", basis)))
		}
		b.WriteString("\n")
	}

	budget, spent, projected := forecast.Totals(r.Forecasts)
	b.WriteString(dimStyle.Render(strings.Repeat("─", min(lipgloss.Width(header), innerW))))
	b.WriteString("\n")
	b.WriteString(headStyle.Render(fmt.Sprintf("%-*s %3s %11s %11s %11s %12s",
		nameW, "Total", "", cli.FormatMoney(budget), cli.FormatMoney(spent), cli.FormatMoney(projected),
		cli.FormatSigned(projected.Sub(budget)))))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("[j/k] select category  [ ] move day  [m] mode"))
	return b.String()
}

// renderCurveChart plots the selected category's historical cumulative
// fraction by day. Without history it plots the flat-rate line instead.
func (a App) renderCurveChart(f model.Forecast, innerW int) string {
	t := theme.Active
	p := a.report.Period
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	values := make([]float64, p.DaysInMonth)
	labels := make([]string, p.DaysInMonth)
	curve, ok := a.report.Curve[f.Category]
	for d := 1; d <= p.DaysInMonth; d++ {
		if ok {
			values[d-1] = curve[d-1] * 100
		} else {
			values[d-1] = float64(d) / float64(p.DaysInMonth) * 100
		}
		labels[d-1] = strconv.Itoa(d)
	}

	height := 8
	if a.isCompactLayout() {
		height = 6
	}

	color := t.Blue
	if f.IsOver() {
		color = t.Orange
	}

	var b strings.Builder
	b.WriteString(components.Chart(values, labels, innerW, height, components.ChartOptions{
		Color:     color,
		Label:     components.PercentLabel,
		Highlight: p.Day - 1,
	}))
	b.WriteString("\n")
	if ok {
		b.WriteString(dimStyle.Render(fmt.Sprintf("By day %d, past months reached %s of their %s spend.",
			p.Day, cli.FormatPercent(curve[p.Day-1]), f.Category)))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("No history for %s; showing the flat daily rate.", f.Category)))
	}
	return b.String()
}
