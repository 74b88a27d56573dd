// Package tui provides the interactive Bubble Tea planner for fsplan.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/theirongolddev/fsplan/internal/config"
	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/session"
	"github.com/theirongolddev/fsplan/internal/tui/components"
	"github.com/theirongolddev/fsplan/internal/tui/theme"
	"github.com/theirongolddev/fsplan/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures NewApp.
type Options struct {
	// TemplateName is shown in the settings tab.
	TemplateName string
	Config       config.Config
	Logger       *slog.Logger
	// NeedSetup shows the first-run form before the planner.
	NeedSetup bool
}

// App is the root Bubble Tea model.
type App struct {
	sess      *session.Session
	breakdown view.Breakdown
	cfg       config.Config
	template  string
	logger    *slog.Logger

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// warning is the over-limit banner text; cleared on the return under
	// the limit.
	warning   string
	status    string
	statusErr bool

	// Per-tab state
	alloc    allocState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5

	tabAllocation = 0
	tabCharts     = 1
	tabSettings   = 2
)

// NewApp creates the planner model around sess. The app owns sess from
// here on; nothing else may touch it while the program runs.
func NewApp(sess *session.Session, opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	a := App{
		sess:      sess,
		cfg:       opts.Config,
		template:  opts.TemplateName,
		logger:    log.WithComponent(logger, log.ComponentTUI),
		needSetup: opts.NeedSetup,
		status:    "Ready",
	}
	a.refresh()
	if a.needSetup {
		a.setupVals = setupValuesFrom(a.cfg, sess)
		a.setupForm = newSetupForm(&a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// refresh rebuilds the derived view after any change to the ledger.
func (a *App) refresh() {
	a.breakdown = view.Build(a.sess.Ledger())
	a.alloc.clamp(len(a.rows()))
}

// apply runs one command against the session and records its outcome.
func (a *App) apply(cmd session.Command) bool {
	out, err := a.sess.Apply(cmd)
	if err != nil {
		a.status = err.Error()
		a.statusErr = true
		a.logger.Debug("command rejected", log.FieldOperation, string(cmd.Op), log.FieldError, err)
		return false
	}

	a.status = out.Message
	a.statusErr = false
	switch out.Result.Signal {
	case ledger.SignalOverLimit:
		a.warning = ledger.WarningText
	case ledger.SignalUnderLimit:
		a.warning = ""
	}
	a.refresh()
	return true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Text inputs own the keyboard while editing
		if a.activeTab == tabAllocation && a.alloc.editing {
			return a.updateAllocInput(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if key == "q" {
			return a, tea.Quit
		}

		if key == "s" {
			sc := a.sess.CycleScale()
			a.status = "scale: " + sc.String()
			a.statusErr = false
			return a, nil
		}

		switch a.activeTab {
		case tabAllocation:
			if m, cmd, ok := a.updateAllocKeys(key); ok {
				return m, cmd
			}
		case tabSettings:
			if m, cmd, ok := a.updateSettingsKeys(key); ok {
				return m, cmd
			}
		}

		// Tab navigation
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
				return a, nil
			}
		}
		switch key {
		case "tab", "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		case "shift+tab", "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.alloc.editing {
		var cmd tea.Cmd
		a.alloc.input, cmd = a.alloc.input.Update(msg)
		return a, cmd
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabAllocation && !a.alloc.editing {
			a.alloc.move(-1, len(a.rows()))
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabAllocation && !a.alloc.editing {
			a.alloc.move(1, len(a.rows()))
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		// Tab bar is the first line.
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
				a.alloc.editing = false
				a.settings.editing = false
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			a.status = "could not save config: " + err.Error()
			a.statusErr = true
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fsplan needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"a c x", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move between rows"},
			{"g G", "First / last row"},
		}},
		{"Allocation", []struct{ key, desc string }{
			{"Enter", "Edit budget (item) / expand (group)"},
			{"n u", "Edit quantity / unit cost"},
			{"r", "Rename item or custom group"},
			{"space", "Expand / collapse group"},
			{"+ d", "Create / delete custom group"},
			{"] [", "More / fewer items in custom group"},
			{"L", "Edit budget limit"},
			{"s", "Cycle display scale"},
		}},
		{"General", []struct{ key, desc string }{
			{"Esc", "Cancel edit"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar, header line, optional warning banner
	headerLineStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(w)
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		headerLineStyle.Render(" "+view.Header(a.breakdown, a.sess.Scale()))
	if a.warning != "" {
		header += "\n" + components.RenderBanner(w, a.warning)
	}

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, a.status, a.statusErr, a.sess.Scale().String())

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabAllocation:
		content = a.renderAllocationTab(cw, contentH)
	case tabCharts:
		content = a.renderChartsTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
