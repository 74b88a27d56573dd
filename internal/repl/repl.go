// Package repl is the interactive command shell over one planning session.
// Every line is either a shell built-in or a session command.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/theirongolddev/fsplan/internal/cli"
	"github.com/theirongolddev/fsplan/internal/session"
	"github.com/theirongolddev/fsplan/internal/view"
)

// errExit ends the loop.
var errExit = errors.New("exit")

// REPL represents the interactive shell
type REPL struct {
	sess     *session.Session
	title    string
	history  string
	out      io.Writer
	commands map[string]CommandHandler
}

// CommandHandler handles a built-in command.
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Session *session.Session
	// Title names the session in the summary, usually the template name.
	Title string
	// HistoryFile persists input history; empty keeps it in memory.
	HistoryFile string
	Out         io.Writer
}

// New creates a new REPL instance
func New(cfg Config) (*REPL, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	r := &REPL{
		sess:     cfg.Session,
		title:    cfg.Title,
		history:  cfg.HistoryFile,
		out:      out,
		commands: make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r, nil
}

// Run starts the REPL loop. It returns when input ends, on exit, or when
// ctx is canceled between lines.
func (r *REPL) Run(ctx context.Context) error {
	cyan := color.New(color.FgCyan).SprintFunc()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("fsplan> "),
		HistoryFile:       r.history,
		AutoComplete:      r.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            r.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r.printWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				// Ctrl+C - just show prompt again
				continue
			} else if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		if err := r.ProcessInput(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(r.out, "%s %v\n", red("Error:"), err)
		}
	}
}

// ProcessInput handles one line. Errors are command failures to report;
// the shell keeps running after them.
func (r *REPL) ProcessInput(line string) error {
	words, err := session.Split(line)
	if err != nil {
		return err
	}
	if len(words) == 0 || strings.HasPrefix(words[0], "#") {
		return nil
	}

	if handler, ok := r.commands[strings.ToLower(words[0])]; ok {
		return handler(words[1:])
	}

	out, ok, err := r.sess.Exec(line)
	if err != nil || !ok {
		return err
	}
	r.printOutcome(out)
	return nil
}

func (r *REPL) printOutcome(out session.Outcome) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "%s %s\n", green("ok"), out.Message)
	if w := out.Warning(); w != "" {
		yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
		fmt.Fprintf(r.out, "%s %s\n", yellow("Warning:"), w)
	}
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
	r.commands["show"] = r.cmdShow
	r.commands["header"] = r.cmdHeader
	r.commands["groups"] = r.cmdGroups
}

func (r *REPL) completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		items = append(items, readline.PcItem(name))
	}
	for _, op := range session.Ops() {
		items = append(items, readline.PcItem(string(op)))
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n", cyan("fsplan interactive shell"))
	fmt.Fprintln(r.out, view.Header(view.Build(r.sess.Ledger()), r.sess.Scale()))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Type 'help' for available commands, 'exit' to quit")
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdHelp(_ []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintf(r.out, "\n%s\n", cyan("Shell:"))
	shell := []struct{ name, desc string }{
		{"help, ?", "Show this help message"},
		{"show [items]", "Print the allocation summary"},
		{"header", "Print the budget header line"},
		{"groups", "List group ids and item keys"},
		{"exit, quit", "Exit the shell"},
	}
	for _, c := range shell {
		fmt.Fprintf(r.out, "  %-28s %s\n", green(c.name), c.desc)
	}

	fmt.Fprintf(r.out, "\n%s\n", cyan("Edits:"))
	edits := []struct{ name, desc string }{
		{"budget <group> <item> <amount>", "Set an item budget"},
		{"scaled-budget <group> <item> <n>", "Set a budget in the current scale"},
		{"quantity <group> <item> <n>", "Set a quantity"},
		{"unit-cost <group> <item> <amount>", "Set a unit cost"},
		{"bounds <group> <item> <min> <max>", "Set an item's bounds"},
		{"rename-item <group> <index> <name>", "Rename a custom group item"},
		{"limit <amount>", "Set the budget limit"},
		{"scaled-limit <n>", "Set the limit in the current scale"},
		{"create", "Create a custom group"},
		{"delete <group>", "Delete a custom group"},
		{"resize <group> <n>", "Set a custom group's item count"},
		{"rename-group <group> <name>", "Rename a custom group"},
		{"toggle <group>", "Expand or collapse a group"},
		{"scale <name>", "Switch the display scale"},
	}
	for _, c := range edits {
		fmt.Fprintf(r.out, "  %-36s %s\n", green(c.name), c.desc)
	}
	fmt.Fprintln(r.out)
	return nil
}

func (r *REPL) cmdExit(_ []string) error {
	fmt.Fprintln(r.out, "Goodbye!")
	return errExit
}

func (r *REPL) cmdShow(args []string) error {
	items := len(args) > 0 && strings.EqualFold(args[0], "items")
	cli.WriteSummary(r.out, r.title, view.Build(r.sess.Ledger()), r.sess.Scale(), items)
	return nil
}

func (r *REPL) cmdHeader(_ []string) error {
	fmt.Fprintln(r.out, view.Header(view.Build(r.sess.Ledger()), r.sess.Scale()))
	return nil
}

func (r *REPL) cmdGroups(_ []string) error {
	gray := color.New(color.FgHiBlack).SprintFunc()
	b := view.Build(r.sess.Ledger())
	for _, g := range b.Groups {
		fmt.Fprintf(r.out, "%s  %s\n", g.ID, gray(g.Name))
		for _, it := range g.Items {
			fmt.Fprintf(r.out, "  %-4s %s\n", it.Key.String(), gray(it.Name))
		}
	}
	return nil
}
