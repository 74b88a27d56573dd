package components

import (
	"github.com/theirongolddev/fsplan/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left, the
// last command message in the middle and the scale on the right. isErr
// colors the message as a rejection.
func RenderStatusBar(width int, message string, isErr bool, scale string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := base.Foreground(t.TextMuted)
	msgStyle := base.Foreground(t.TextPrimary)
	if isErr {
		msgStyle = base.Foreground(t.Orange)
	}
	scaleStyle := base.Foreground(t.Accent).Bold(true)

	left := hintStyle.Render(" [?]help  [s]cale  [q]uit  ")
	right := scaleStyle.Render(" " + scale + " ")

	room := width - lipgloss.Width(left) - lipgloss.Width(right)
	mid := ""
	if room > 0 && message != "" {
		runes := []rune(message)
		if len(runes) > room {
			runes = append(runes[:max(room-1, 0)], '…')
		}
		mid = msgStyle.Render(string(runes))
	}

	pad := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}
	return left + mid + base.Width(pad).Render("") + right
}

// RenderBanner renders a full-width warning line.
func RenderBanner(width int, text string) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.WarningBg).
		Bold(true).
		Width(width).
		Padding(0, 1).
		Render("⚠ " + text)
}
