package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/fsplan/internal/cli"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/pipeline"
	"github.com/theirongolddev/fsplan/internal/store"
	"github.com/theirongolddev/fsplan/internal/template"

	"github.com/spf13/cobra"
)

var (
	flagTemplateName   string
	flagTemplateFormat string
	flagTemplateSource bool
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"templates"},
	Short:   "Manage the template catalog",
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file|dir>...",
	Short: "Validate template files and store them in the catalog",
	Long: "Imports YAML, JSON and TOML templates. Directories are searched\n" +
		"recursively. Files identical to their stored entry are skipped.",
	Args: cobra.MinimumNArgs(1),
	RunE:  runTemplateImport,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a stored template's groups (or the built-in one)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplateShow,
}

var templateRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Remove a stored template",
	Args:    cobra.ExactArgs(1),
	RunE:    runTemplateRm,
}

func init() {
	templateImportCmd.Flags().StringVar(&flagTemplateName, "name", "", "Catalog name for a single file (default: document name or file name)")
	templateShowCmd.Flags().BoolVar(&flagTemplateSource, "source", false, "Print the document instead of the group table")
	templateShowCmd.Flags().StringVar(&flagTemplateFormat, "format", "", "With --source, re-encode as toml")

	templateCmd.AddCommand(templateImportCmd, templateListCmd, templateShowCmd, templateRmCmd)
	rootCmd.AddCommand(templateCmd)
}

func openCatalog() (*store.Catalog, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.CatalogPath())
}

func runTemplateImport(_ *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	progressFn := func(current, total int) {
		if flagQuiet || total < 10 {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	res, importErr := pipeline.Import(cat, args, flagTemplateName, progressFn)
	if res == nil {
		return importErr
	}
	if !flagQuiet && res.TotalFiles >= 10 {
		fmt.Fprintln(os.Stderr)
	}

	if !flagQuiet {
		for _, e := range res.Imported {
			fmt.Printf("  Imported %q: %d groups, %d items, allocated %s\n",
				e.Name, e.GroupCount, e.ItemCount, cli.FormatAmount(e.Total, money.Billions))
		}
		for _, name := range res.Unchanged {
			fmt.Printf("  Unchanged %q\n", name)
		}
		if len(res.Imported) == 1 {
			fmt.Printf("  Use it with: fsplan --template %s\n", res.Imported[0].Name)
		}
	}
	if importErr != nil {
		fmt.Fprintf(os.Stderr, "\n  %d of %d files could not be imported\n", res.TotalFiles-len(res.Imported)-len(res.Unchanged), res.TotalFiles)
	}
	return importErr
}

func runTemplateList(_ *cobra.Command, _ []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	entries, err := cat.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("\n  No stored templates.")
		fmt.Println("  Import one with `fsplan template import <file>`.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		limit := "-"
		if e.BudgetLimit != nil {
			limit = cli.FormatAmount(*e.BudgetLimit, money.Billions)
		}
		rows = append(rows, []string{
			e.Name,
			string(e.Format),
			cli.FormatNumber(int64(e.GroupCount)),
			cli.FormatNumber(int64(e.ItemCount)),
			cli.FormatAmount(e.Total, money.Billions),
			limit,
			e.ImportedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Templates",
		Headers: []string{"Name", "Format", "Groups", "Items", "Allocated", "Limit", "Imported"},
		Rows:    rows,
	}))
	return nil
}

func runTemplateShow(_ *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == template.DefaultName {
		return showDocument(template.DefaultName, template.Default(), template.DefaultSource())
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	name := args[0]
	if flagTemplateSource {
		doc, err := cat.Load(name)
		if err != nil {
			return err
		}
		src, _, err := cat.Source(name)
		if err != nil {
			return err
		}
		return showDocument(name, doc, src)
	}

	groups, err := cat.Groups(name)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		kind := "ordered"
		if g.Keyed {
			kind = "keyed"
		}
		rows = append(rows, []string{
			g.ID, g.Name, kind,
			cli.FormatNumber(int64(g.ItemCount)),
			cli.FormatAmount(g.Subtotal, money.Billions),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   name,
		Headers: []string{"ID", "Group", "Items", "Count", "Subtotal"},
		Rows:    rows,
	}))
	return nil
}

// showDocument prints a document either as its source or as a group table.
func showDocument(name string, doc *template.Document, src []byte) error {
	if flagTemplateSource {
		if strings.EqualFold(flagTemplateFormat, string(template.FormatTOML)) {
			out, err := template.EncodeTOML(doc)
			if err != nil {
				return err
			}
			src = out
		}
		_, err := os.Stdout.Write(src)
		return err
	}

	rows := make([][]string, 0, len(doc.Groups))
	for _, g := range doc.ModelGroups() {
		kind := "ordered"
		if !g.Items.Ordered() {
			kind = "keyed"
		}
		rows = append(rows, []string{
			g.ID, g.Name, kind,
			cli.FormatNumber(int64(g.Items.Len())),
			cli.FormatAmount(g.Subtotal(), money.Billions),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   name,
		Headers: []string{"ID", "Group", "Items", "Count", "Subtotal"},
		Rows:    rows,
	}))
	return nil
}

func runTemplateRm(_ *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	if err := cat.Delete(args[0]); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Printf("  Removed %q\n", args[0])
	}
	return nil
}
