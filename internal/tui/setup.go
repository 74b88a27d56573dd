package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fsplan/internal/config"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/session"
	"github.com/theirongolddev/fsplan/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues are bound to the first-run form fields.
type setupValues struct {
	Theme string
	Scale string
	Limit string
}

func setupValuesFrom(cfg config.Config, sess *session.Session) setupValues {
	v := setupValues{
		Theme: cfg.Appearance.Theme,
		Scale: sess.Scale().String(),
		Limit: cfg.General.BudgetLimit,
	}
	if _, ok := theme.Lookup(v.Theme); !ok {
		v.Theme = theme.FlexokiDark.Name
	}
	return v
}

func newSetupForm(v *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}
	scaleOpts := make([]huh.Option[string], 0, len(money.Scales))
	for _, sc := range money.Scales {
		scaleOpts = append(scaleOpts, huh.NewOption(sc.String(), sc.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fsplan").
				Description("A few defaults before you start planning.\nRun `fsplan setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Display scale").
				Options(scaleOpts...).
				Value(&v.Scale),
			huh.NewInput().
				Title("Default budget limit").
				Description("Raw amount, e.g. 143000000000. Leave empty to use the template's limit.").
				Value(&v.Limit).
				Validate(validateLimit),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
	).WithShowHelp(true)
}

func validateLimit(s string) error {
	d, err := money.ParseStrict(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

// saveSetupConfig applies the form to the running session and persists it.
func (a *App) saveSetupConfig() error {
	v := a.setupVals

	a.cfg.Appearance.Theme = v.Theme
	theme.SetActive(v.Theme)

	if sc, err := money.ParseScale(v.Scale); err == nil {
		a.cfg.General.DefaultScale = sc.String()
		a.sess.SetScale(sc)
	}

	a.cfg.General.BudgetLimit = strings.TrimSpace(v.Limit)
	if a.cfg.General.BudgetLimit != "" {
		a.apply(session.Command{Op: session.OpLimit, Value: session.Input(a.cfg.General.BudgetLimit)})
	}

	return config.Save(a.cfg)
}
