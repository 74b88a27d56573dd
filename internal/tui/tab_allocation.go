package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fsplan/internal/cli"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/session"
	"github.com/theirongolddev/fsplan/internal/tui/components"
	"github.com/theirongolddev/fsplan/internal/tui/theme"
	"github.com/theirongolddev/fsplan/internal/view"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

type rowKind int

const (
	rowGroup rowKind = iota
	rowItem
)

// allocRow is one line of the allocation table: a group header or one of
// its visible items. Indices point into the current breakdown.
type allocRow struct {
	kind  rowKind
	group int
	item  int
}

// editTarget is the command an in-progress edit will issue.
type editTarget struct {
	op      session.Op
	groupID string
	item    string
	label   string
}

type allocState struct {
	cursor  int
	editing bool
	input   textinput.Model
	target  editTarget
}

func (s *allocState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *allocState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (a App) rows() []allocRow {
	var rows []allocRow
	for gi, g := range a.breakdown.Groups {
		rows = append(rows, allocRow{kind: rowGroup, group: gi})
		if !g.Expanded {
			continue
		}
		for ii := range g.Items {
			rows = append(rows, allocRow{kind: rowItem, group: gi, item: ii})
		}
	}
	return rows
}

// current returns the row under the cursor.
func (a App) current() (allocRow, view.GroupView, bool) {
	rows := a.rows()
	if a.alloc.cursor < 0 || a.alloc.cursor >= len(rows) {
		return allocRow{}, view.GroupView{}, false
	}
	r := rows[a.alloc.cursor]
	return r, a.breakdown.Groups[r.group], true
}

func (a App) updateAllocKeys(key string) (tea.Model, tea.Cmd, bool) {
	n := len(a.rows())
	row, g, ok := a.current()

	switch key {
	case "j", "down":
		a.alloc.move(1, n)
		return a, nil, true
	case "k", "up":
		a.alloc.move(-1, n)
		return a, nil, true
	case "g", "home":
		a.alloc.cursor = 0
		return a, nil, true
	case "G", "end":
		a.alloc.cursor = n - 1
		a.alloc.clamp(n)
		return a, nil, true
	case "+", "=":
		a.apply(session.Command{Op: session.OpCreate})
		return a, nil, true
	case "L":
		scaled := money.ToScaled(a.breakdown.Limit, a.sess.Scale())
		cmd := a.startAllocEdit(editTarget{op: session.OpScaledLimit, label: "Budget limit (" + a.sess.Scale().String() + ")"}, trimAmount(scaled))
		return a, cmd, true
	}
	if !ok {
		return a, nil, false
	}

	switch key {
	case "enter":
		if row.kind == rowGroup {
			a.apply(session.Command{Op: session.OpToggle, GroupID: g.ID})
			return a, nil, true
		}
		it := g.Items[row.item]
		scaled := money.ToScaled(it.Budget, a.sess.Scale())
		cmd := a.startAllocEdit(editTarget{
			op: session.OpScaledBudget, groupID: g.ID, item: it.Key.String(),
			label: it.Name + " budget (" + a.sess.Scale().String() + ")",
		}, trimAmount(scaled))
		return a, cmd, true
	case " ", "space":
		a.apply(session.Command{Op: session.OpToggle, GroupID: g.ID})
		// Keep the cursor on the group header after collapsing.
		if row.kind == rowItem && !a.breakdown.Groups[row.group].Expanded {
			a.alloc.cursor = a.groupRow(row.group)
		}
		return a, nil, true
	case "n", "u":
		if row.kind != rowItem {
			return a, nil, true
		}
		it := g.Items[row.item]
		t := editTarget{op: session.OpQuantity, groupID: g.ID, item: it.Key.String(), label: it.Name + " quantity"}
		initial := it.Quantity.String()
		if key == "u" {
			t.op, t.label = session.OpUnitCost, it.Name+" unit cost"
			initial = it.UnitCost.StringFixed(2)
		}
		return a, a.startAllocEdit(t, initial), true
	case "r":
		if !g.Custom {
			a.status = "only custom groups and their items can be renamed"
			a.statusErr = true
			return a, nil, true
		}
		if row.kind == rowGroup {
			return a, a.startAllocEdit(editTarget{op: session.OpRenameGroup, groupID: g.ID, label: "Group name"}, g.Name), true
		}
		it := g.Items[row.item]
		return a, a.startAllocEdit(editTarget{
			op: session.OpRenameItem, groupID: g.ID, item: strconv.Itoa(row.item), label: "Item name",
		}, it.Name), true
	case "d", "delete":
		gi := row.group
		if a.apply(session.Command{Op: session.OpDelete, GroupID: g.ID}) {
			a.alloc.cursor = a.groupRow(min(gi, len(a.breakdown.Groups)-1))
			a.alloc.clamp(len(a.rows()))
		}
		return a, nil, true
	case "]", "[":
		next := g.NumItems + 1
		if key == "[" {
			next = g.NumItems - 1
		}
		a.apply(session.Command{Op: session.OpResize, GroupID: g.ID, Value: session.Input(strconv.Itoa(next))})
		return a, nil, true
	}
	return a, nil, false
}

// groupRow returns the row index of group gi's header.
func (a App) groupRow(gi int) int {
	for i, r := range a.rows() {
		if r.kind == rowGroup && r.group == gi {
			return i
		}
	}
	return 0
}

func (a *App) startAllocEdit(t editTarget, initial string) tea.Cmd {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30
	ti.Prompt = "› "
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	a.alloc.editing = true
	a.alloc.target = t
	a.alloc.input = ti
	return ti.Cursor.BlinkCmd()
}

func (a App) updateAllocInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		t := a.alloc.target
		a.alloc.editing = false
		a.apply(session.Command{
			Op:      t.op,
			GroupID: t.groupID,
			Item:    t.item,
			Value:   session.Input(strings.TrimSpace(a.alloc.input.Value())),
		})
		return a, nil
	case "esc":
		a.alloc.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.alloc.input, cmd = a.alloc.input.Update(msg)
	return a, cmd
}

// trimAmount renders a scaled amount for editing without float noise.
func trimAmount(d decimal.Decimal) string {
	return d.Round(6).String()
}

func (a App) summaryMetrics() []components.Metric {
	b := a.breakdown
	sc := a.sess.Scale()
	remaining, over := cli.FormatRemaining(b.Remaining, sc)
	return []components.Metric{
		{Label: "Total Budget", Value: cli.FormatAmount(b.Limit, sc)},
		{Label: "Allocated", Value: cli.FormatAmount(b.Total, sc), Alert: over},
		{Label: "Remaining", Value: remaining, Alert: over},
		{Label: "Custom Groups", Value: fmt.Sprintf("%d / %d", a.sess.Ledger().CustomGroupCount(), model.MaxCustomGroups)},
	}
}

func (a App) renderAllocationTab(cw, h int) string {
	t := theme.Active
	sc := a.sess.Scale()

	metrics := components.MetricCardRow(a.summaryMetrics(), cw)
	util := components.UtilizationBar("Utilization", view.Utilization(a.breakdown), 12, max(cw-30, 10))

	base := lipgloss.NewStyle().Background(t.Surface)
	headStyle := base.Foreground(t.TextMuted).Bold(true)
	groupStyle := base.Foreground(t.TextPrimary).Bold(true)
	itemStyle := base.Foreground(t.TextPrimary)
	dimStyle := base.Foreground(t.TextDim)
	selStyle := lipgloss.NewStyle().Background(t.SurfaceBright).Foreground(t.TextPrimary).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	inner := components.CardInnerWidth(cw)
	amtW, qtyW, costW, shareW := 16, 12, 14, 8
	if a.isCompactLayout() {
		amtW, qtyW, costW, shareW = 13, 8, 11, 7
	}
	nameW := max(inner-2-amtW-qtyW-costW-shareW, 12)

	var body strings.Builder
	body.WriteString(headStyle.Render(fmt.Sprintf("  %-*s%*s%*s%*s%*s",
		nameW, "Name", amtW, "Budget", qtyW, "Qty", costW, "Unit Cost", shareW, "Share")))

	rows := a.rows()
	// Metric cards (4-5 lines), utilization, card chrome, header, edit line.
	avail := max(h-lipgloss.Height(metrics)-1-4-2, 3)
	offset := 0
	if a.alloc.cursor >= avail {
		offset = a.alloc.cursor - avail + 1
	}
	end := min(offset+avail, len(rows))

	shares := make(map[string]string, len(a.breakdown.Pie))
	for _, s := range a.breakdown.Pie {
		shares[s.ID] = cli.FormatShare(s.Share)
	}

	for i := offset; i < end; i++ {
		r := rows[i]
		g := a.breakdown.Groups[r.group]
		selected := i == a.alloc.cursor

		var line string
		style := itemStyle
		if r.kind == rowGroup {
			glyph := "▸"
			if g.Expanded {
				glyph = "▾"
			}
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(g.Color)).Background(t.Surface).Render("■")
			if selected {
				swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(g.Color)).Background(t.SurfaceBright).Render("■")
			}
			label := fmt.Sprintf("%s %s", glyph, g.Name)
			if g.Custom {
				label += fmt.Sprintf(" (%d)", g.NumItems)
			}
			text := fmt.Sprintf(" %-*s%*s%*s%*s%*s", nameW-2, truncate(label, nameW-2),
				amtW, cli.FormatAmount(g.Subtotal, sc), qtyW, "", costW, "", shareW, shares[g.ID])
			style = groupStyle
			if selected {
				style = selStyle
			}
			line = swatch + style.Render(text)
		} else {
			it := g.Items[r.item]
			text := fmt.Sprintf("    %-*s%*s%*s%*s%*s", nameW-4, truncate(it.Name, nameW-4),
				amtW, cli.FormatAmount(it.Budget, sc), qtyW, cli.FormatQuantity(it.Quantity),
				costW, cli.FormatAmount(it.UnitCost, money.Standard), shareW, "")
			if selected {
				style = selStyle
			}
			line = style.Render(text)
		}

		if selected {
			line = markerStyle.Render("▸") + line
		} else {
			line = base.Render(" ") + line
		}
		if pad := inner - lipgloss.Width(line); pad > 0 {
			bg := t.Surface
			if selected {
				bg = t.SurfaceBright
			}
			line += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", pad))
		}
		body.WriteString("\n")
		body.WriteString(line)
	}
	if len(rows) > end || offset > 0 {
		body.WriteString("\n")
		body.WriteString(dimStyle.Render(fmt.Sprintf("  rows %d-%d of %d", offset+1, end, len(rows))))
	}

	body.WriteString("\n")
	if a.alloc.editing {
		labelStyle := base.Foreground(t.AccentBright).Bold(true)
		body.WriteString(labelStyle.Render(a.alloc.target.label + " "))
		body.WriteString(a.alloc.input.View())
		body.WriteString(dimStyle.Render("  [Enter] apply  [Esc] cancel"))
	} else {
		body.WriteString(dimStyle.Render("[Enter] edit/expand  [n/u] qty/cost  [+/d] add/delete group  [ ] ] resize  [L] limit"))
	}

	var b strings.Builder
	b.WriteString(metrics)
	b.WriteString("\n")
	b.WriteString(util)
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Groups & Items", body.String(), cw))
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
