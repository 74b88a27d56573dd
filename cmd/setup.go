package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/fsplan/internal/cli"
	"github.com/theirongolddev/fsplan/internal/config"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/tui/theme"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to fsplan!")
	fmt.Println()

	// 1. Budget limit
	fmt.Println("  1. Default budget limit")
	fmt.Println("     Raw amount; leave empty to use each template's own limit.")
	if cfg.General.BudgetLimit != "" {
		fmt.Printf("     Current: %s\n", cfg.General.BudgetLimit)
	} else {
		fmt.Printf("     Fallback: %s\n", cli.FormatAmount(model.DefaultBudgetLimit, money.Billions))
	}
	for {
		fmt.Print("     > ")
		limit, _ := reader.ReadString('\n')
		limit = strings.TrimSpace(limit)
		if limit == "" {
			break
		}
		d, err := money.ParseStrict(limit)
		if err != nil || d.IsNegative() {
			fmt.Println("     Enter a non-negative amount, e.g. 143000000000")
			continue
		}
		cfg.General.BudgetLimit = d.String()
		break
	}
	fmt.Println()

	// 2. Display scale
	fmt.Println("  2. Display scale")
	for i, sc := range money.Scales {
		suffix := ""
		if sc == money.DefaultScale {
			suffix = " [default]"
		}
		fmt.Printf("     (%d) %s%s\n", i+1, sc, suffix)
	}
	fmt.Print("     > ")
	scaleChoice, _ := reader.ReadString('\n')
	cfg.General.DefaultScale = money.DefaultScale.String()
	if n, err := strconv.Atoi(strings.TrimSpace(scaleChoice)); err == nil && n >= 1 && n <= len(money.Scales) {
		cfg.General.DefaultScale = money.Scales[n-1].String()
	}
	fmt.Println()

	// 3. Theme
	fmt.Println("  3. Color theme")
	for i, name := range theme.Names() {
		suffix := ""
		if i == 0 {
			suffix = " [default]"
		}
		fmt.Printf("     (%d) %s%s\n", i+1, name, suffix)
	}
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	names := theme.Names()
	cfg.Appearance.Theme = names[0]
	if n, err := strconv.Atoi(strings.TrimSpace(themeChoice)); err == nil && n >= 1 && n <= len(names) {
		cfg.Appearance.Theme = names[n-1]
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fsplan setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
