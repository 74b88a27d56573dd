package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/fsplan/internal/config"
	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/session"
	"github.com/theirongolddev/fsplan/internal/store"
	"github.com/theirongolddev/fsplan/internal/template"
	"github.com/theirongolddev/fsplan/internal/tui/theme"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagTemplate  string
	flagLimit     string
	flagScale     string
	flagQuiet     bool
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "fsplan",
	Short: "Force-structure budget planner",
	Long: "Allocate a defense budget across force groups and items, watch the\n" +
		"running total against a soft limit, and explore the result as tables,\n" +
		"an interactive dashboard or an HTTP API.",
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagTemplate, "template", "t", "", "Template file path or catalog name (default: built-in)")
	rootCmd.PersistentFlags().StringVarP(&flagLimit, "limit", "l", "", "Budget limit as a raw amount, e.g. 143000000000")
	rootCmd.PersistentFlags().StringVarP(&flagScale, "scale", "s", "", "Display scale: Standard, Thousands, Millions, Billions, Trillions")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
}

// loadConfig returns the effective configuration: flags over environment
// over the config file over defaults.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagTemplate != "" {
		cfg.General.Template = flagTemplate
	}
	if flagLimit != "" {
		cfg.General.BudgetLimit = flagLimit
	}
	if flagScale != "" {
		cfg.General.DefaultScale = flagScale
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	theme.SetActive(cfg.Appearance.Theme)
	return cfg, nil
}

// newLogger builds the command logger writing to w.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(log.Config{Level: lvl, Format: cfg.Log.Format, Writer: w}), nil
}

// loadTemplate resolves cfg.General.Template: empty means the built-in
// template, an existing file is parsed directly, anything else is looked up
// in the catalog.
func loadTemplate(cfg config.Config) (*template.Document, error) {
	ref := strings.TrimSpace(cfg.General.Template)
	if ref == "" || ref == template.DefaultName {
		return template.Default(), nil
	}
	if _, err := os.Stat(ref); err == nil {
		return template.Load(ref)
	}

	cat, err := store.Open(cfg.CatalogPath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = cat.Close() }()

	doc, err := cat.Load(ref)
	if errors.Is(err, store.ErrTemplateNotFound) {
		return nil, fmt.Errorf("template %q is neither a file nor a catalog entry (see `fsplan template list`)", ref)
	}
	return doc, err
}

// resolveLimit picks the starting limit: configured value, then the
// template's own limit, then the default.
func resolveLimit(cfg config.Config, doc *template.Document) (decimal.Decimal, error) {
	if v := strings.TrimSpace(cfg.General.BudgetLimit); v != "" {
		d, err := money.ParseStrict(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("budget limit: %w", err)
		}
		return d, nil
	}
	if d, ok := doc.Limit(); ok {
		return d, nil
	}
	return model.DefaultBudgetLimit, nil
}

// newSession builds a planning session from the effective configuration.
// It returns the session and the name of the template it was seeded from.
func newSession(cfg config.Config, logger *slog.Logger) (*session.Session, string, error) {
	doc, err := loadTemplate(cfg)
	if err != nil {
		return nil, "", err
	}
	limit, err := resolveLimit(cfg, doc)
	if err != nil {
		return nil, "", err
	}
	sc, err := money.ParseScale(cfg.General.DefaultScale)
	if err != nil {
		return nil, "", err
	}

	l, err := ledger.New(doc.ModelGroups(), limit, ledger.WithLogger(logger))
	if err != nil {
		return nil, "", fmt.Errorf("building ledger from template %q: %w", doc.Name, err)
	}
	sess := session.New(l, session.WithScale(sc), session.WithLogger(logger))
	logger.Debug("session started",
		log.FieldSessionID, sess.ID(),
		log.FieldTemplate, doc.Name,
		log.FieldLimit, l.Limit().String())
	return sess, doc.Name, nil
}

// setup loads config, a stderr logger and a fresh session for one command.
func setup() (config.Config, *slog.Logger, *session.Session, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, nil, "", err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return cfg, nil, nil, "", err
	}
	sess, name, err := newSession(cfg, logger)
	if err != nil {
		return cfg, logger, nil, "", err
	}
	return cfg, logger, sess, name, nil
}
