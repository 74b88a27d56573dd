package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/fsplan/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one column of a BarChart or one row of a ShareList.
type Bar struct {
	Label string
	Value float64
	Color lipgloss.Color
	// Detail is right-aligned text for ShareList rows, e.g. "$12.00B  8.1%".
	Detail string
	// Share is the row's fraction of the whole, for ShareList.
	Share float64
}

// BarChart renders vertical bars, each in its own color, with a y-axis
// labelled in the caller's units.
func BarChart(bars []Bar, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active
	surface := lipgloss.NewStyle().Background(t.Surface)

	maxVal := 0.0
	for _, b := range bars {
		maxVal = math.Max(maxVal, b.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(height/numIntervals, 2)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	n := len(bars)
	chartW := max(width-yLabelW-1, 5)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := (chartW - (n-1)*gap) / n
	barW = min(max(barW, 1), 8)
	axisLen := n*barW + (n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, bar := range bars {
			if i > 0 && gap > 0 {
				b.WriteString(surface.Render(strings.Repeat(" ", gap)))
			}
			style := lipgloss.NewStyle().Foreground(bar.Color).Background(t.Surface)
			switch {
			case bar.Value >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case bar.Value > rowBottom:
				idx := int((bar.Value - rowBottom) / (rowTop - rowBottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(surface.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	// One label per bar, truncated to the bar width.
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString("\n")
	b.WriteString(surface.Render(strings.Repeat(" ", yLabelW+1)))
	for i, bar := range bars {
		if i > 0 && gap > 0 {
			b.WriteString(surface.Render(strings.Repeat(" ", gap)))
		}
		b.WriteString(labelStyle.Render(fitLabel(bar.Label, barW)))
	}
	return b.String()
}

// ShareList renders one row per entry: a color swatch, the label, a bar
// proportional to Share and the Detail text.
func ShareList(rows []Bar, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	detailStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	surface := lipgloss.NewStyle().Background(t.Surface)

	labelW := 0
	detailW := 0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		detailW = max(detailW, lipgloss.Width(r.Detail))
	}
	labelW = min(labelW, 24)
	barMax := max(width-labelW-detailW-6, 4)

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		swatch := lipgloss.NewStyle().Foreground(r.Color).Background(t.Surface).Render("■")
		share := math.Min(math.Max(r.Share, 0), 1)
		n := int(math.Round(share * float64(barMax)))
		bar := lipgloss.NewStyle().Foreground(r.Color).Background(t.Surface).Render(strings.Repeat("█", n))

		b.WriteString(swatch)
		b.WriteString(surface.Render(" "))
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, fitLabel(r.Label, labelW))))
		b.WriteString(surface.Render(" "))
		b.WriteString(bar)
		b.WriteString(surface.Render(strings.Repeat(" ", barMax-n+1)))
		b.WriteString(detailStyle.Render(fmt.Sprintf("%*s", detailW, r.Detail)))
	}
	return b.String()
}

func fitLabel(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s + strings.Repeat(" ", w-len(runes))
	}
	if w <= 1 {
		return string(runes[:w])
	}
	return string(runes[:w-1]) + "…"
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
