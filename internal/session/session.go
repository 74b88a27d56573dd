package session

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
)

// Session pairs a ledger with presentation state that front ends share.
type Session struct {
	ledger *ledger.Ledger
	scale  money.Scale
	logger *slog.Logger
	id     string
}

// Option configures a Session.
type Option func(*Session)

// WithScale sets the initial display scale.
func WithScale(sc money.Scale) Option {
	return func(s *Session) { s.scale = sc }
}

// WithLogger sets the session logger. A session id is attached to it.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps l.
func New(l *ledger.Ledger, opts ...Option) *Session {
	s := &Session{
		ledger: l,
		scale:  money.DefaultScale,
		logger: log.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger, s.id = log.WithSession(log.WithComponent(s.logger, log.ComponentSession))
	return s
}

func (s *Session) Ledger() *ledger.Ledger { return s.ledger }
func (s *Session) Scale() money.Scale     { return s.scale }
func (s *Session) ID() string             { return s.id }

// SetScale changes the display scale.
func (s *Session) SetScale(sc money.Scale) { s.scale = sc }

// CycleScale advances to the next scale and returns it.
func (s *Session) CycleScale() money.Scale {
	s.scale = s.scale.Next()
	return s.scale
}

// Outcome is the effect of one applied command.
type Outcome struct {
	Command  Command
	Result   ledger.Result
	Expanded bool
	Message  string
}

// Warning returns the text to show for an over-limit signal, or "".
func (o Outcome) Warning() string {
	if o.Result.Signal == ledger.SignalOverLimit {
		return ledger.WarningText
	}
	return ""
}

// Apply runs cmd against the ledger.
func (s *Session) Apply(cmd Command) (Outcome, error) {
	if err := cmd.Validate(); err != nil {
		return Outcome{}, err
	}
	out := Outcome{Command: cmd}
	l := s.ledger
	key := model.ParseItemKey(cmd.Item)

	var err error
	switch cmd.Op {
	case OpBudget:
		out.Result, err = l.SetItemBudget(cmd.GroupID, key, string(cmd.Value))
	case OpScaledBudget:
		out.Result, err = l.SetItemBudget(cmd.GroupID, key, s.raw(cmd.Value))
	case OpQuantity:
		out.Result, err = l.SetItemQuantity(cmd.GroupID, key, string(cmd.Value))
	case OpUnitCost:
		out.Result, err = l.SetItemUnitCost(cmd.GroupID, key, string(cmd.Value))
	case OpBounds:
		out.Result, err = l.SetItemBounds(cmd.GroupID, key, string(cmd.Value), string(cmd.Value2))
	case OpRenameItem:
		idx, convErr := strconv.Atoi(cmd.Item)
		if convErr != nil {
			return Outcome{}, fmt.Errorf("%s: item index %q: %w", cmd.Op, cmd.Item, ledger.ErrItemNotFound)
		}
		out.Result, err = l.RenameItem(cmd.GroupID, idx, string(cmd.Value))
	case OpLimit:
		out.Result = l.SetBudgetLimit(string(cmd.Value))
	case OpScaledLimit:
		out.Result = l.SetBudgetLimit(s.raw(cmd.Value))
	case OpCreate:
		out.Result, err = l.CreateCustomGroup()
	case OpDelete:
		out.Result, err = l.DeleteCustomGroup(cmd.GroupID)
	case OpResize:
		n, clamped := itemCount(string(cmd.Value))
		out.Result, err = l.ResizeGroup(cmd.GroupID, n)
		out.Result.Clamped = out.Result.Clamped || clamped
	case OpRenameGroup:
		out.Result, err = l.RenameGroup(cmd.GroupID, string(cmd.Value))
	case OpToggle:
		out.Expanded, err = l.ToggleExpanded(cmd.GroupID)
		out.Result = ledger.Result{Total: l.Total(), Limit: l.Limit()}
	case OpScale:
		var sc money.Scale
		sc, err = money.ParseScale(string(cmd.Value))
		if err == nil {
			s.scale = sc
		}
		out.Result = ledger.Result{Total: l.Total(), Limit: l.Limit()}
	}
	if err != nil {
		s.logger.Debug("command rejected", log.FieldOperation, string(cmd.Op), log.FieldError, err)
		return Outcome{}, fmt.Errorf("%s: %w", cmd.Op, err)
	}

	out.Message = s.describe(out)
	s.logger.Debug("command applied",
		log.FieldOperation, string(cmd.Op),
		log.FieldGroupID, cmd.GroupID,
		log.FieldSignal, out.Result.Signal.String())
	return out, nil
}

// itemCount bounds a requested item count before it narrows to int, so
// counts beyond int64 clamp instead of wrapping.
func itemCount(v string) (int, bool) {
	want := money.Parse(v).Floor()
	n := money.Clamp(want,
		decimal.NewFromInt(model.MinItemsPerGroup),
		decimal.NewFromInt(model.MaxItemsPerGroup))
	return int(n.IntPart()), !n.Equal(want)
}

func (s *Session) raw(v Input) any {
	return money.ToRaw(money.Parse(string(v)), s.scale)
}

func (s *Session) describe(o Outcome) string {
	c := o.Command
	switch c.Op {
	case OpCreate:
		return "created " + o.Result.GroupID
	case OpDelete:
		return "deleted " + c.GroupID
	case OpToggle:
		if o.Expanded {
			return "expanded " + c.GroupID
		}
		return "collapsed " + c.GroupID
	case OpScale:
		return "scale " + s.scale.String()
	case OpRenameGroup, OpRenameItem, OpBounds:
		return c.String()
	case OpResize:
		msg := "resized " + c.GroupID
		if o.Result.Clamped {
			msg += fmt.Sprintf(" (clamped to %d..%d)", model.MinItemsPerGroup, model.MaxItemsPerGroup)
		}
		return msg
	default:
		return fmt.Sprintf("%s: allocated %s of %s", c.Op,
			money.Format(o.Result.Total, s.scale), money.Format(o.Result.Limit, s.scale))
	}
}

// Exec parses and applies one line. ok is false for blank and comment lines.
func (s *Session) Exec(line string) (out Outcome, ok bool, err error) {
	cmd, ok, err := Parse(line)
	if err != nil || !ok {
		return Outcome{}, ok, err
	}
	out, err = s.Apply(cmd)
	return out, true, err
}

// LineFunc observes each executed script line.
type LineFunc func(lineNo int, out Outcome, err error)

// Run executes a script. Failing lines are reported to fn and collected;
// with stopOnError the first failure ends the run.
func (s *Session) Run(r io.Reader, stopOnError bool, fn LineFunc) error {
	var result *multierror.Error
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		out, ok, err := s.Exec(sc.Text())
		if !ok && err == nil {
			continue
		}
		if fn != nil {
			fn(lineNo, out, err)
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", lineNo, err))
			if stopOnError {
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		result = multierror.Append(result, fmt.Errorf("reading script: %w", err))
	}
	return result.ErrorOrNil()
}
