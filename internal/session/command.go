// Package session defines the edit-command vocabulary shared by every front
// end (scripts, the REPL, the TUI and the HTTP API) and applies commands to
// a ledger together with the session's display scale.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Op names a command.
type Op string

const (
	OpBudget       Op = "budget"        // group item amount
	OpScaledBudget Op = "scaled-budget" // group item amount-in-current-scale
	OpQuantity     Op = "quantity"      // group item count
	OpUnitCost     Op = "unit-cost"     // group item amount
	OpBounds       Op = "bounds"        // group item min max
	OpRenameItem   Op = "rename-item"   // group index name
	OpLimit        Op = "limit"         // amount
	OpScaledLimit  Op = "scaled-limit"  // amount-in-current-scale
	OpCreate       Op = "create"
	OpDelete       Op = "delete"       // group
	OpResize       Op = "resize"       // group n
	OpRenameGroup  Op = "rename-group" // group name
	OpToggle       Op = "toggle"       // group
	OpScale        Op = "scale"        // name
)

var (
	ErrUnknownOp   = errors.New("unknown command")
	ErrMissingArgs = errors.New("missing arguments")
)

// arity is the number of positional arguments after the op.
var arity = map[Op]int{
	OpBudget:       3,
	OpScaledBudget: 3,
	OpQuantity:     3,
	OpUnitCost:     3,
	OpBounds:       4,
	OpRenameItem:   3,
	OpLimit:        1,
	OpScaledLimit:  1,
	OpCreate:       0,
	OpDelete:       1,
	OpResize:       2,
	OpRenameGroup:  2,
	OpToggle:       1,
	OpScale:        1,
}

// Ops lists every known op in a stable order.
func Ops() []Op {
	return []Op{
		OpBudget, OpScaledBudget, OpQuantity, OpUnitCost, OpBounds, OpRenameItem,
		OpLimit, OpScaledLimit, OpCreate, OpDelete, OpResize, OpRenameGroup,
		OpToggle, OpScale,
	}
}

// Input is raw user input for an amount or name. It decodes from JSON
// strings and numbers alike, keeping the literal text so no precision is
// lost to float64.
type Input string

func (in *Input) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*in = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*in = Input(s)
		return nil
	}
	*in = Input(b)
	return nil
}

// Command is one edit request.
type Command struct {
	Op      Op     `json:"op" validate:"required"`
	GroupID string `json:"group,omitempty"`
	Item    string `json:"item,omitempty"`
	Value   Input  `json:"value,omitempty"`
	// Value2 carries the max bound for OpBounds.
	Value2 Input `json:"value2,omitempty"`
}

func (c Command) String() string {
	parts := []string{string(c.Op)}
	for _, p := range c.args() {
		parts = append(parts, quote(p))
	}
	return strings.Join(parts, " ")
}

func (c Command) args() []string {
	switch c.Op {
	case OpBudget, OpScaledBudget, OpQuantity, OpUnitCost, OpRenameItem:
		return []string{c.GroupID, c.Item, string(c.Value)}
	case OpBounds:
		return []string{c.GroupID, c.Item, string(c.Value), string(c.Value2)}
	case OpLimit, OpScaledLimit, OpScale:
		return []string{string(c.Value)}
	case OpDelete, OpToggle:
		return []string{c.GroupID}
	case OpResize, OpRenameGroup:
		return []string{c.GroupID, string(c.Value)}
	default:
		return nil
	}
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'#") {
		return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
	}
	return s
}

// Validate checks the op and that the arguments it needs are present.
func (c Command) Validate() error {
	n, ok := arity[c.Op]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOp, c.Op)
	}
	needGroup := n >= 1 && c.Op != OpLimit && c.Op != OpScaledLimit && c.Op != OpScale
	if needGroup && strings.TrimSpace(c.GroupID) == "" {
		return fmt.Errorf("%s: %w: group", c.Op, ErrMissingArgs)
	}
	if n >= 3 && strings.TrimSpace(c.Item) == "" {
		return fmt.Errorf("%s: %w: item", c.Op, ErrMissingArgs)
	}
	if c.Op == OpScale && strings.TrimSpace(string(c.Value)) == "" {
		return fmt.Errorf("%s: %w: scale", c.Op, ErrMissingArgs)
	}
	return nil
}

// Parse reads one script line. Blank lines and lines starting with '#'
// yield ok=false. Amount arguments are kept verbatim; malformed amounts
// are not an error and apply as zero.
func Parse(line string) (cmd Command, ok bool, err error) {
	fields, err := Split(line)
	if err != nil {
		return Command{}, false, err
	}
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return Command{}, false, nil
	}

	op := Op(strings.ToLower(fields[0]))
	n, known := arity[op]
	if !known {
		return Command{}, false, fmt.Errorf("%w: %q", ErrUnknownOp, fields[0])
	}
	args := fields[1:]
	if len(args) < n {
		return Command{}, false, fmt.Errorf("%s: %w: want %d, got %d", op, ErrMissingArgs, n, len(args))
	}
	if len(args) > n {
		if op != OpRenameItem && op != OpRenameGroup {
			return Command{}, false, fmt.Errorf("%s: too many arguments: want %d, got %d", op, n, len(args))
		}
		// Unquoted new names may span several words.
		last := strings.Join(args[n-1:], " ")
		args = append(args[:n-1:n-1], last)
	}

	cmd.Op = op
	switch op {
	case OpBudget, OpScaledBudget, OpQuantity, OpUnitCost, OpRenameItem:
		cmd.GroupID, cmd.Item, cmd.Value = args[0], args[1], Input(args[2])
	case OpBounds:
		cmd.GroupID, cmd.Item, cmd.Value, cmd.Value2 = args[0], args[1], Input(args[2]), Input(args[3])
	case OpLimit, OpScaledLimit, OpScale:
		cmd.Value = Input(args[0])
	case OpDelete, OpToggle:
		cmd.GroupID = args[0]
	case OpResize, OpRenameGroup:
		cmd.GroupID, cmd.Value = args[0], Input(args[1])
	}
	return cmd, true, nil
}

// Split breaks a line into words. Single or double quotes group words,
// backslash escapes the next character inside double quotes and outside
// quotes, and an unquoted '#' at the start of a word begins a comment.
func Split(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		q       rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && q != '\'':
			escaped = true
			inWord = true
		case q != 0:
			if r == q {
				q = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			q = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		case r == '#' && !inWord:
			if len(words) == 0 {
				return []string{"#"}, nil
			}
			return words, nil
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if q != 0 {
		return nil, fmt.Errorf("unterminated %c quote", q)
	}
	if escaped {
		cur.WriteRune('\\')
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
