package cmd

import (
	"os"

	"github.com/theirongolddev/fsplan/internal/cli"
	"github.com/theirongolddev/fsplan/internal/view"

	"github.com/spf13/cobra"
)

var flagSummaryItems bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Allocation summary: groups, subtotals, shares and remaining budget",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVarP(&flagSummaryItems, "items", "i", false, "List the visible items of every group")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	_, _, sess, name, err := setup()
	if err != nil {
		return err
	}
	cli.WriteSummary(os.Stdout, name, view.Build(sess.Ledger()), sess.Scale(), flagSummaryItems)
	return nil
}
