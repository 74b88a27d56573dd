package cmd

import (
	"fmt"

	"github.com/theirongolddev/fsplan/internal/config"
	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/tui"
	"github.com/theirongolddev/fsplan/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive planner",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// The dashboard owns the terminal, so logs go to a file.
	logFile, err := log.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger, err := newLogger(cfg, logFile)
	if err != nil {
		return err
	}

	sess, name, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(sess, tui.Options{
		TemplateName: name,
		Config:       cfg,
		Logger:       logger,
		NeedSetup:    !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
