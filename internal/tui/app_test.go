package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/config"
	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/session"
	"github.com/theirongolddev/fsplan/internal/tui/theme"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	tanks := model.NewDefaultItem("Tanks")
	tanks.UnitCost = decimal.NewFromInt(100)
	l, err := ledger.New([]model.Group{
		{ID: "army", Name: "Army", Items: model.NewKeyedStore(tanks)},
	}, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("ledger.New: %v", err)
	}
	sess := session.New(l, session.WithScale(money.Standard))
	a := NewApp(sess, Options{Config: config.DefaultConfig()})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func press(t *testing.T, a App, key string) App {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ := a.Update(msg)
	return m.(App)
}

func TestTabKeys(t *testing.T) {
	a := newTestApp(t)
	for _, tc := range []struct {
		key  string
		want int
	}{
		{"c", tabCharts},
		{"x", tabSettings},
		{"a", tabAllocation},
	} {
		a = press(t, a, tc.key)
		if a.activeTab != tc.want {
			t.Fatalf("after %q activeTab = %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}
}

func TestOverLimitBannerSetAndCleared(t *testing.T) {
	a := newTestApp(t)

	a.apply(session.Command{Op: session.OpQuantity, GroupID: "army", Item: "Tanks", Value: "20"})
	if a.warning != ledger.WarningText {
		t.Fatalf("warning = %q, want %q", a.warning, ledger.WarningText)
	}
	if !strings.Contains(a.View(), "Cannot allocate budget") {
		t.Fatal("banner missing from view")
	}

	// Raising the limit through the edit field clears the banner.
	a = press(t, a, "L")
	if !a.alloc.editing {
		t.Fatal("L did not start editing the limit")
	}
	a.alloc.input.SetValue("5000")
	a = press(t, a, "enter")
	if a.alloc.editing {
		t.Fatal("still editing after enter")
	}
	if a.warning != "" {
		t.Fatalf("warning = %q after raising limit, want empty", a.warning)
	}
	if !a.sess.Ledger().Limit().Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("limit = %s, want 5000", a.sess.Ledger().Limit())
	}
}

func TestEditCancelLeavesLedgerUntouched(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "L")
	a.alloc.input.SetValue("1")
	a = press(t, a, "esc")
	if a.alloc.editing {
		t.Fatal("esc did not cancel")
	}
	if !a.sess.Ledger().Limit().Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("limit changed to %s", a.sess.Ledger().Limit())
	}
}

func TestCreateAndDeleteCustomGroup(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, "+")
	if got := len(a.breakdown.Groups); got != 2 {
		t.Fatalf("groups = %d after create, want 2", got)
	}
	custom := a.breakdown.Groups[1]
	if !custom.Custom || custom.NumItems != model.DefaultItemsPerGroup {
		t.Fatalf("created group = %+v", custom)
	}

	a = press(t, a, "G")
	a = press(t, a, "]")
	if got := a.breakdown.Groups[1].NumItems; got != model.DefaultItemsPerGroup+1 {
		t.Fatalf("NumItems = %d after ], want %d", got, model.DefaultItemsPerGroup+1)
	}

	a = press(t, a, "d")
	if got := len(a.breakdown.Groups); got != 1 {
		t.Fatalf("groups = %d after delete, want 1", got)
	}
	if a.alloc.cursor != 0 {
		t.Fatalf("cursor = %d after delete, want 0", a.alloc.cursor)
	}
}

func TestDeleteBuiltinGroupReportsError(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "d")
	if !a.statusErr {
		t.Fatalf("status = %q, want an error", a.status)
	}
	if len(a.breakdown.Groups) != 1 {
		t.Fatal("built-in group was deleted")
	}
}

func TestScaleCycle(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "s")
	if got := a.sess.Scale(); got != money.Thousands {
		t.Fatalf("scale = %s, want Thousands", got)
	}
	if !strings.Contains(a.status, "Thousands") {
		t.Fatalf("status = %q", a.status)
	}
}

func TestSettingsThemeEdit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(func() { theme.Active = theme.FlexokiDark })

	a := newTestApp(t)
	a = press(t, a, "x")
	a = press(t, a, "enter")
	if !a.settings.editing {
		t.Fatal("enter did not start editing")
	}

	a.settings.input.SetValue("no-such-theme")
	a = press(t, a, "enter")
	if a.settings.saveErr == nil {
		t.Fatal("unknown theme accepted")
	}

	a = press(t, a, "enter")
	a.settings.input.SetValue("terminal")
	a = press(t, a, "enter")
	if a.settings.saveErr != nil {
		t.Fatalf("save: %v", a.settings.saveErr)
	}
	if theme.Active.Name != "terminal" || a.cfg.Appearance.Theme != "terminal" {
		t.Fatalf("theme not applied: active=%s cfg=%s", theme.Active.Name, a.cfg.Appearance.Theme)
	}
	saved, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if saved.Appearance.Theme != "terminal" {
		t.Fatalf("saved theme = %q", saved.Appearance.Theme)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	a := newTestApp(t)
	for _, key := range []string{"a", "c", "x"} {
		a = press(t, a, key)
		out := a.View()
		if out == "" {
			t.Fatalf("empty view on tab %q", key)
		}
		if !strings.Contains(out, "Allocation") {
			t.Fatalf("tab bar missing on tab %q", key)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if out := m.(App).View(); !strings.Contains(out, "too narrow") {
		t.Fatalf("view = %q", out)
	}
}
