package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTableAlignsUnicode(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Forecast",
		Headers: []string{"Category", "Projected"},
		Rows: [][]string{
			{"Café", "$10.00"},
			{"---"},
			{"Groceries", "+$1,000.00"},
		},
		Footer: "as of Mar 10",
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 9) // title, top, header, sep, 2 rows + sep, bottom, footer
	width := lipgloss.Width(lines[1])
	for _, l := range lines[1:8] {
		assert.Equal(t, width, lipgloss.Width(l), l)
	}
	assert.Contains(t, out, "as of Mar 10")
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderBudgetBar(t *testing.T) {
	bar := RenderBudgetBar(dec("50"), dec("100"), 10)
	assert.Contains(t, bar, strings.Repeat("█", 5)+strings.Repeat("░", 5))
	assert.Contains(t, bar, "$50.00/$100")

	over := RenderBudgetBar(dec("150"), dec("100"), 10)
	assert.Contains(t, over, strings.Repeat("█", 10))

	assert.Empty(t, RenderBudgetBar(dec("1"), dec("0"), 10))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "▁▄█", RenderSparkline([]float64{0, 5, 10}))
	assert.Equal(t, "▁▁", RenderSparkline([]float64{0, 0}))
	assert.Empty(t, RenderSparkline(nil))
}
