// Package cmd implements the fsplan CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/fsplan/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	orNotSet := func(s string) string {
		if s == "" {
			return "not set"
		}
		return s
	}

	fmt.Println("  [General]")
	fmt.Printf("    Default scale:  %s\n", cfg.General.DefaultScale)
	fmt.Printf("    Budget limit:   %s\n", orNotSet(cfg.General.BudgetLimit))
	fmt.Printf("    Template:       %s\n", orNotSet(cfg.General.Template))
	fmt.Printf("    Catalog:        %s\n", cfg.CatalogPath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	if cfg.Server.RateLimit > 0 {
		fmt.Printf("    Rate limit:    %d/min per client\n", cfg.Server.RateLimit)
	} else {
		fmt.Println("    Rate limit:    off")
	}
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Printf("    File:   %s (tui only)\n", cfg.LogPath())
	fmt.Println()

	fmt.Printf("  Environment overrides use the %s_ prefix.\n", "FSPLAN")
	fmt.Println("  Run `fsplan setup` to reconfigure.")
	return nil
}
