package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/tui/theme"
)

// styles are resolved from theme.Active on every render.
type styles struct {
	title, header, value, muted, good, info, warn, rule lipgloss.Style
	border                                               lipgloss.Color
}

func current() styles {
	t := theme.Active
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		title:  fg(t.TextPrimary).Bold(true).Align(lipgloss.Center),
		header: fg(t.Accent).Bold(true),
		value:  fg(t.TextPrimary),
		muted:  fg(t.TextMuted),
		good:   fg(t.Green),
		info:   fg(t.Blue),
		warn:   fg(t.Orange),
		rule:   fg(t.TextDim),
		border: t.Border,
	}
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string // a row of exactly {"---"} draws a separator
	Widths  []int      // optional column widths, auto-calculated if nil
	// Align sets per-column alignment. Missing entries default to left for
	// the first column and right for the rest.
	Align []lipgloss.Position
}

func (t Table) columns() int {
	if len(t.Headers) > 0 {
		return len(t.Headers)
	}
	n := 0
	for _, row := range t.Rows {
		if !isSeparator(row) {
			n = max(n, len(row))
		}
	}
	return n
}

func (t Table) align(i int) lipgloss.Position {
	if i < len(t.Align) {
		return t.Align[i]
	}
	if i == 0 {
		return lipgloss.Left
	}
	return lipgloss.Right
}

// widths measures display width, so styled cells line up.
func (t Table) widths(n int) []int {
	w := make([]int, n)
	if t.Widths != nil {
		copy(w, t.Widths)
		return w
	}
	for i, h := range t.Headers {
		w[i] = max(w[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			continue
		}
		for i := 0; i < n && i < len(row); i++ {
			w[i] = max(w[i], lipgloss.Width(row[i]))
		}
	}
	return w
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == "---"
}

func pad(s string, width int, pos lipgloss.Position) string {
	gap := max(0, width-lipgloss.Width(s))
	if pos == lipgloss.Right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	st := current()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.border).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(st.title.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	n := t.columns()
	if n == 0 {
		return ""
	}
	st := current()
	widths := t.widths(n)

	var b strings.Builder
	rule := func(left, mid, right string) {
		segs := make([]string, n)
		for i, w := range widths {
			segs[i] = strings.Repeat("─", w+2)
		}
		b.WriteString(st.rule.Render(left + strings.Join(segs, mid) + right))
		b.WriteByte('\n')
	}
	line := func(cells []string, cellStyle lipgloss.Style) {
		bar := st.rule.Render("│")
		b.WriteString(bar)
		for i := 0; i < n; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(cellStyle.Render(" " + pad(cell, widths[i], t.align(i)) + " "))
			b.WriteString(bar)
		}
		b.WriteByte('\n')
	}

	if t.Title != "" {
		b.WriteString("  " + st.header.Render(t.Title) + "\n")
	}
	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, st.header)
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			rule("├", "┼", "┤")
			continue
		}
		line(row, st.value)
	}
	rule("╰", "┴", "╯")
	return b.String()
}

// RenderUtilizationBar renders allocated/limit as a text bar. Past 100%
// the bar is drawn full in the warning color.
func RenderUtilizationBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	st := current()
	filled := int(min(max(fraction, 0), 1) * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := st.good
	if fraction > 1 {
		style = st.warn
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar), FormatPercent(fraction))
}

// RenderHorizontalBar renders a horizontal bar chart entry in the given
// color, scaled against maxValue.
func RenderHorizontalBar(value, maxValue decimal.Decimal, maxWidth int, color string) string {
	if !maxValue.IsPositive() || maxWidth <= 0 {
		return ""
	}
	ratio, _ := value.Div(maxValue).Float64()
	barLen := max(0, min(int(ratio*float64(maxWidth)), maxWidth))
	if barLen == 0 && value.IsPositive() {
		barLen = 1
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", barLen))
}

// RenderWarning renders an advisory line.
func RenderWarning(msg string) string {
	return current().warn.Render("! " + msg)
}

// RenderMuted renders secondary text.
func RenderMuted(msg string) string {
	return current().muted.Render(msg)
}

// RenderKeyValue renders "label  value" with the label dimmed.
func RenderKeyValue(label, value string) string {
	st := current()
	return fmt.Sprintf("  %s %s", st.muted.Render(fmt.Sprintf("%-12s", label)), st.info.Render(value))
}
