package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/theirongolddev/fsplan/internal/config"
	"github.com/theirongolddev/fsplan/internal/repl"

	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive command shell over one planning session",
	RunE:  runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(_ *cobra.Command, _ []string) error {
	_, _, sess, name, err := setup()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(config.DataDir(), 0o750); err != nil {
		return err
	}

	r, err := repl.New(repl.Config{
		Session:     sess,
		Title:       name,
		HistoryFile: filepath.Join(config.DataDir(), "repl_history"),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return r.Run(ctx)
}
