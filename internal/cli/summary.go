package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/view"
)

// WriteSummary renders a breakdown as the title, header line, group table,
// optional item tables and the utilization bar.
func WriteSummary(w io.Writer, title string, b view.Breakdown, sc money.Scale, items bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderTitle(fmt.Sprintf("FORCE STRUCTURE  %s", title)))
	fmt.Fprintln(w)

	remaining, over := FormatRemaining(b.Remaining, sc)
	if over {
		remaining = RenderWarning(remaining)
	}
	fmt.Fprintln(w, RenderKeyValue("Total Budget", FormatAmount(b.Limit, sc)))
	fmt.Fprintln(w, RenderKeyValue("Allocated", FormatAmount(b.Total, sc)))
	fmt.Fprintln(w, RenderKeyValue("Remaining", remaining))
	fmt.Fprintln(w, RenderKeyValue("Scale", sc.String()))
	fmt.Fprintln(w)

	maxSub := decimal.Zero
	for _, g := range b.Groups {
		if g.Subtotal.GreaterThan(maxSub) {
			maxSub = g.Subtotal
		}
	}

	rows := make([][]string, 0, len(b.Groups)+2)
	for i, g := range b.Groups {
		rows = append(rows, []string{
			g.ID,
			g.Name,
			FormatAmount(g.Subtotal, sc),
			FormatShare(b.Bars[i].Share),
			RenderHorizontalBar(g.Subtotal, maxSub, 20, g.Color),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"", "Total", FormatAmount(b.Total, sc), "", ""})

	fmt.Fprint(w, RenderTable(Table{
		Headers: []string{"ID", "Group", "Subtotal", "Share", ""},
		Rows:    rows,
		Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Left, lipgloss.Right, lipgloss.Right, lipgloss.Left},
	}))

	if items {
		for _, g := range b.Groups {
			if len(g.Items) == 0 {
				continue
			}
			rows := make([][]string, 0, len(g.Items))
			for _, it := range g.Items {
				rows = append(rows, []string{
					it.Key.String(),
					it.Name,
					FormatAmount(it.Budget, sc),
					FormatQuantity(it.Quantity),
					FormatAmount(it.UnitCost, money.Standard),
				})
			}
			fmt.Fprintln(w)
			fmt.Fprint(w, RenderTable(Table{
				Title:   g.Name,
				Headers: []string{"Key", "Item", "Budget", "Qty", "Unit Cost"},
				Rows:    rows,
				Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Left},
			}))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", RenderUtilizationBar(view.Utilization(b), 40))
	if b.OverLimit {
		fmt.Fprintf(w, "  %s\n", RenderWarning(ledger.WarningText))
	}
}
