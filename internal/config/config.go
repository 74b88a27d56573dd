// Package config loads fsplan's TOML configuration and FSPLAN_ environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all fsplan configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds planning preferences.
type GeneralConfig struct {
	DefaultScale string `toml:"default_scale"`
	// BudgetLimit overrides the template's limit when set.
	BudgetLimit string `toml:"budget_limit,omitempty"`
	// Template is a file path or a catalog name. Empty means the built-in
	// template.
	Template    string `toml:"template,omitempty"`
	CatalogPath string `toml:"catalog_path,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
	// RateLimit caps mutating requests per client per minute. Zero disables.
	RateLimit int `toml:"rate_limit"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file,omitempty"`
}

// env mirrors the overridable settings; envconfig reads FSPLAN_<NAME>.
type env struct {
	Scale       string `envconfig:"SCALE"`
	BudgetLimit string `envconfig:"BUDGET_LIMIT"`
	Template    string `envconfig:"TEMPLATE"`
	Catalog     string `envconfig:"CATALOG"`
	Theme       string `envconfig:"THEME"`
	Addr        string `envconfig:"ADDR"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogFormat   string `envconfig:"LOG_FORMAT"`
}

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "fsplan"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultScale: "Billions",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
			RateLimit:    120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fsplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fsplan")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory for the catalog and logs.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fsplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fsplan")
}

// CatalogPath returns the template catalog database path.
func (c Config) CatalogPath() string {
	if c.General.CatalogPath != "" {
		return c.General.CatalogPath
	}
	return filepath.Join(DataDir(), "catalog.db")
}

// LogPath returns the log file used when the terminal is not available for
// logs, as in the TUI.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(DataDir(), "fsplan.log")
}

// Load reads the config file, returning defaults if it doesn't exist, and
// applies environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays FSPLAN_ environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.General.DefaultScale, e.Scale)
	set(&cfg.General.BudgetLimit, e.BudgetLimit)
	set(&cfg.General.Template, e.Template)
	set(&cfg.General.CatalogPath, e.Catalog)
	set(&cfg.Appearance.Theme, e.Theme)
	set(&cfg.Server.Addr, e.Addr)
	set(&cfg.Log.Level, e.LogLevel)
	set(&cfg.Log.Format, e.LogFormat)
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
