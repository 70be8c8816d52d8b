package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	require.Less(t, shortLines, tallLines)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	assert.Len(t, lines, tallLines)

	// Padding below the short card must still carry background styling.
	for i := shortLines; i < len(lines); i++ {
		assert.Contains(t, lines[i], "\x1b[", "line %d has no ANSI styling", i)
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	require.NotEmpty(t, lines)

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		assert.Equal(t, want, lipgloss.Width(line), "line %d", i)
	}
}

func TestLayoutRowSumsExactly(t *testing.T) {
	widths := LayoutRow(101, 4)
	assert.Equal(t, []int{26, 25, 25, 25}, widths)
	assert.Nil(t, LayoutRow(10, 0))
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Spent", Value: "$260.00"},
		{Label: "Projected", Value: "$780.00", Delta: "+$100.00", Tone: ToneBad},
		{Label: "Budget", Value: "$900.00"},
	}, 90)
	for _, line := range strings.Split(row, "\n") {
		assert.Equal(t, 90, lipgloss.Width(line))
	}
}

func TestTabVisualWidth(t *testing.T) {
	assert.Equal(t, len("Plan")+2, TabVisualWidth(Tabs[2], false))
	assert.Equal(t, len("Settings")+5, TabVisualWidth(Tabs[4], false))
	assert.Equal(t, len("Settings")+2, TabVisualWidth(Tabs[4], true))
}

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, 0, TabIdxByKey('o'))
	assert.Equal(t, 4, TabIdxByKey('x'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestChartLabels(t *testing.T) {
	assert.Equal(t, "$2k", MoneyLabel(2000))
	assert.Equal(t, "$1.5k", MoneyLabel(1500))
	assert.Equal(t, "$40", MoneyLabel(40))
	assert.Equal(t, "60%", PercentLabel(60))
}

func TestBudgetBarWidthIsStable(t *testing.T) {
	theme.SetActive("flexoki-dark")
	under := BudgetBar("Groceries", 0.4, 0.9, 12, 20)
	over := BudgetBar("A very long category name", 1.4, 2.1, 12, 20)
	assert.Equal(t, lipgloss.Width(under), lipgloss.Width(over))
	assert.Contains(t, over, "…")
}

func TestColorForPct(t *testing.T) {
	theme.SetActive("flexoki-dark")
	assert.Equal(t, string(theme.Active.Green), ColorForPct(0.2))
	assert.Equal(t, string(theme.Active.Red), ColorForPct(1.01))
}

func TestChartTargetLine(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := Chart([]float64{10, 50, 20}, []string{"1", "2", "3"}, 40, 8, ChartOptions{
		Color:     theme.Active.Blue,
		Target:    30,
		Highlight: -1,
	})
	assert.Contains(t, out, "┄")
	assert.Contains(t, out, "└")

	plain := Chart([]float64{10, 50, 20}, nil, 40, 8, ChartOptions{Color: theme.Active.Blue, Highlight: -1})
	assert.NotContains(t, plain, "┄")
}

func TestChartEdgeCases(t *testing.T) {
	theme.SetActive("flexoki-dark")

	assert.Empty(t, Chart(nil, nil, 40, 8, ChartOptions{Highlight: -1}))

	// All-zero data still renders an axis instead of dividing by zero.
	zeros := Chart([]float64{0, 0, 0}, nil, 40, 8, ChartOptions{Highlight: -1})
	assert.Contains(t, zeros, "└")

	// Too narrow for an axis: falls back to a sparkline.
	narrow := Chart([]float64{1, 2, 3}, nil, 10, 8, ChartOptions{Highlight: -1})
	assert.NotContains(t, narrow, "└")
	assert.Contains(t, narrow, "█")
}

func TestFitBarsSamplesDown(t *testing.T) {
	values := make([]float64, 60)
	labels := make([]string, 60)
	for i := range values {
		values[i] = float64(i)
		labels[i] = strings.Repeat("x", 1)
	}
	got, gotLabels, highlight, barW := fitBars(values, labels, 59, 40)
	assert.Equal(t, 2, barW)
	require.Len(t, got, 13)
	assert.Len(t, gotLabels, 13)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 59.0, got[len(got)-1])
	assert.Equal(t, 12, highlight)
}
