package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var (
	sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	barBlocks   = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := maxOf(values)
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// LabelFunc formats a y-axis tick value.
type LabelFunc func(float64) string

// ChartOptions controls a bar chart.
type ChartOptions struct {
	Color lipgloss.Color
	Label LabelFunc // nil means MoneyLabel

	// Target draws a dotted reference line when positive. Bars that reach
	// past it are drawn in the theme's red.
	Target float64

	// Highlight is the index of a bar drawn in the bright accent, or -1.
	Highlight int
}

// yAxis holds the tick layout of a chart.
type yAxis struct {
	ceiling float64
	rows    int
	ticks   map[int]string // row -> label
	labelW  int
}

func newYAxis(peak float64, height int, label LabelFunc) yAxis {
	step := chartTickStep(peak)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(peak/step)) > maxIntervals {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	intervals := max(int(math.Round(ceiling/step)), 1)
	rowsPerTick := max(height/intervals, 2)

	ax := yAxis{
		ceiling: ceiling,
		rows:    rowsPerTick * intervals,
		ticks:   make(map[int]string, intervals),
		labelW:  max(len(label(ceiling))+1, 4),
	}
	for i := 1; i <= intervals; i++ {
		ax.ticks[i*rowsPerTick] = label(step * float64(i))
	}
	return ax
}

// valueAt returns the value at the top edge of row.
func (ax yAxis) valueAt(row int) float64 {
	return ax.ceiling * float64(row) / float64(ax.rows)
}

// fitBars picks a bar width for n bars in chartW columns. When even 2-wide
// bars do not fit, values are sampled down evenly (keeping first and last).
func fitBars(values []float64, labels []string, highlight, chartW int) ([]float64, []string, int, int) {
	n := len(values)
	if n == 1 {
		return values, labels, highlight, min(chartW, 6)
	}
	barW := (chartW - (n - 1)) / n
	if barW >= 2 {
		return values, labels, highlight, min(barW, 6)
	}

	keep := max((chartW+1)/3, 2)
	sampled := make([]float64, keep)
	var sampledLabels []string
	if len(labels) == n {
		sampledLabels = make([]string, keep)
	}
	newHighlight := -1
	if highlight >= 0 && highlight < n {
		newHighlight = int(math.Round(float64(highlight*(keep-1)) / float64(n-1)))
	}
	for i := range sampled {
		src := i * (n - 1) / (keep - 1)
		sampled[i] = values[src]
		if sampledLabels != nil {
			sampledLabels[i] = labels[src]
		}
	}
	return sampled, sampledLabels, newHighlight, 2
}

// Chart renders a vertical bar chart with a y-axis and optional x labels.
// Narrow or short areas degrade to a sparkline.
func Chart(values []float64, labels []string, width, height int, opts ChartOptions) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, opts.Color)
	}
	label := opts.Label
	if label == nil {
		label = MoneyLabel
	}

	t := theme.Active
	surface := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	targetStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	peak := math.Max(maxOf(values), opts.Target)
	if peak <= 0 {
		peak = 1
	}
	ax := newYAxis(peak, height, label)
	chartW := max(width-ax.labelW-1, 5)
	values, labels, highlight, barW := fitBars(values, labels, opts.Highlight, chartW)
	n := len(values)
	gap := 1
	if n == 1 {
		gap = 0
	}
	axisLen := n*barW + max(0, n-1)*gap

	// The target sits on the row whose span contains it.
	targetRow := -1
	if opts.Target > 0 {
		targetRow = int(math.Ceil(opts.Target / ax.ceiling * float64(ax.rows)))
	}

	var b strings.Builder
	for row := ax.rows; row >= 1; row-- {
		top, bottom := ax.valueAt(row), ax.valueAt(row-1)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", ax.labelW, ax.ticks[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(barGap(row == targetRow, gap, surface, targetStyle))
			}
			color := opts.Color
			switch {
			case i == highlight:
				color = t.AccentBright
			case opts.Target > 0 && v > opts.Target:
				color = t.Red
			}
			style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

			switch {
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := min(max(int((v-bottom)/(top-bottom)*8), 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(barBlocks[idx]), barW)))
			default:
				b.WriteString(barGap(row == targetRow, barW, surface, targetStyle))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", ax.labelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(surface.Render(strings.Repeat(" ", ax.labelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(xLabels(labels, barW, gap, axisLen), " ")))
	}
	return b.String()
}

// barGap renders empty chart cells, dotted where the target line crosses.
func barGap(onTarget bool, w int, surface, target lipgloss.Style) string {
	if onTarget {
		return target.Render(strings.Repeat("┄", w))
	}
	return surface.Render(strings.Repeat(" ", w))
}

// xLabels spaces bar labels along the axis without overlap, always keeping
// the last one.
func xLabels(labels []string, barW, gap, axisLen int) string {
	n := len(labels)
	buf := []byte(strings.Repeat(" ", axisLen))

	step := max(1, (n*8)/(axisLen+1))
	lastEnd := -1
	for i := 0; i < n; i += step {
		pos := i * (barW + gap)
		lbl := labels[i]
		end := pos + len(lbl)
		if pos <= lastEnd {
			continue
		}
		if end > axisLen {
			end = axisLen
			if end-pos < 3 {
				continue
			}
			lbl = lbl[:end-pos]
		}
		copy(buf[pos:end], lbl)
		lastEnd = end + 1
	}

	if n > 1 {
		lbl := labels[n-1]
		pos := (n - 1) * (barW + gap)
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos >= 0 && pos > lastEnd {
			copy(buf[pos:pos+len(lbl)], lbl)
		}
	}
	return string(buf)
}

func maxOf(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	return peak
}

// chartTickStep computes a round tick interval giving about five ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))

	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// MoneyLabel formats a currency tick as "$1.2k".
func MoneyLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("$%.0fM", v/1e6)
		}
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("$%.0fk", v/1e3)
		}
		return fmt.Sprintf("$%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// PercentLabel formats a 0..100 tick as "40%".
func PercentLabel(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}
