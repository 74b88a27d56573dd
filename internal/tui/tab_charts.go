package tui

import (
	"github.com/theirongolddev/fsplan/internal/cli"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/tui/components"
	"github.com/theirongolddev/fsplan/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// chartBars converts slices to chart entries in the session's scale.
func chartBars(slices []view.Slice, sc money.Scale) []components.Bar {
	bars := make([]components.Bar, len(slices))
	for i, s := range slices {
		v, _ := money.ToScaled(s.Value, sc).Float64()
		share, _ := s.Share.Div(decimal.NewFromInt(100)).Float64()
		bars[i] = components.Bar{
			Label:  s.Name,
			Value:  v,
			Color:  lipgloss.Color(s.Color),
			Share:  share,
			Detail: cli.FormatAmount(s.Value, sc) + "  " + cli.FormatShare(s.Share),
		}
	}
	return bars
}

func (a App) renderChartsTab(cw, h int) string {
	sc := a.sess.Scale()
	b := a.breakdown
	pieTitle := "Allocation Share"
	barTitle := "Budget by Group (" + sc.String() + ")"

	if a.isCompactLayout() {
		pie := components.ContentCard(pieTitle,
			components.ShareList(chartBars(b.Pie, sc), components.CardInnerWidth(cw)), cw)
		barH := max(h-lipgloss.Height(pie)-4, 6)
		bars := components.ContentCard(barTitle,
			components.BarChart(chartBars(b.Bars, sc), components.CardInnerWidth(cw), barH), cw)
		return pie + "\n" + bars
	}

	// Side by side when there is room.
	widths := components.LayoutRow(cw, 2)
	pie := components.ContentCard(pieTitle,
		components.ShareList(chartBars(b.Pie, sc), components.CardInnerWidth(widths[0])), widths[0])
	bars := components.ContentCard(barTitle,
		components.BarChart(chartBars(b.Bars, sc), components.CardInnerWidth(widths[1]), max(h-4, 6)), widths[1])
	return components.CardRow([]string{pie, bars})
}
