package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/fsplan/internal/cli"
	"github.com/theirongolddev/fsplan/internal/session"
	"github.com/theirongolddev/fsplan/internal/view"

	"github.com/spf13/cobra"
)

var (
	flagSimStopOnError bool
	flagSimNoSummary   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <script|->",
	Short: "Apply a script of edit commands and print the resulting allocation",
	Long: "Each line of the script is one command, e.g.\n\n" +
		"  limit 150000000000\n" +
		"  create\n" +
		"  rename-group custom_group_1 \"Space Force\"\n" +
		"  budget custom_group_1 0 2500000000\n\n" +
		"Blank lines and lines starting with # are ignored. Use - to read stdin.",
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&flagSimStopOnError, "stop-on-error", false, "Stop at the first failing line")
	simulateCmd.Flags().BoolVar(&flagSimNoSummary, "no-summary", false, "Skip the final summary")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, args []string) error {
	_, _, sess, name, err := setup()
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if args[0] != "-" {
		//nolint:gosec // script path is supplied by the local user
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	runErr := sess.Run(r, flagSimStopOnError, func(lineNo int, out session.Outcome, err error) {
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "  %4d  %s\n", lineNo, cli.RenderWarning(err.Error()))
		case !flagQuiet:
			fmt.Printf("  %4d  %s\n", lineNo, out.Message)
			if w := out.Warning(); w != "" {
				fmt.Printf("        %s\n", cli.RenderWarning(w))
			}
		}
	})

	if !flagSimNoSummary {
		cli.WriteSummary(os.Stdout, name, view.Build(sess.Ledger()), sess.Scale(), false)
	}
	return runErr
}
