// Package ledger is the allocation engine. A Ledger owns every group, the
// global budget limit and the derived allocated total, and exposes the only
// operations allowed to change them.
//
// A Ledger is not safe for concurrent use. Callers that share one across
// goroutines must serialize access (see internal/server).
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
)

var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrGroupLimitReached = errors.New("group limit reached")
	ErrNotCustomGroup    = errors.New("not a custom group")
	ErrNotOrderedGroup   = errors.New("group items are not ordered")
	ErrEmptyName         = errors.New("name is empty")
	ErrDuplicateGroup    = errors.New("duplicate group id")
)

// Ledger holds the allocation state of one planning session.
type Ledger struct {
	groups []model.Group
	limit  decimal.Decimal
	total  decimal.Decimal

	customCount int
	nextSeq     int
	warned      bool

	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for mutation records.
func WithLogger(l *slog.Logger) Option {
	return func(lg *Ledger) {
		if l != nil {
			lg.logger = l
		}
	}
}

// New builds a ledger from template groups. Groups are deep-copied, the
// limit is clamped to [0, MaxTotalBudget] and the total is derived.
// Groups carrying the custom prefix are adopted as custom groups. A ledger
// that starts over its limit is not yet warned.
func New(groups []model.Group, limit decimal.Decimal, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		limit:   clampLimit(limit),
		nextSeq: 1,
		logger:  log.Discard(),
	}
	for _, o := range opts {
		o(l)
	}

	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, g.ID)
		}
		seen[g.ID] = true

		g = g.Clone()
		if g.Items == nil {
			g.Items = model.NewKeyedStore()
		}
		if g.IsCustom() {
			l.customCount++
			if n, ok := model.CustomGroupSeq(g.ID); ok && n >= l.nextSeq {
				l.nextSeq = n + 1
			}
			g.NumItems = g.Items.Len()
		}
		l.groups = append(l.groups, g)
	}
	l.recompute()
	return l, nil
}

func clampLimit(v decimal.Decimal) decimal.Decimal {
	return money.Clamp(v, decimal.Zero, model.MaxTotalBudget)
}

// Total is the allocated total: the sum of every stored item budget.
func (l *Ledger) Total() decimal.Decimal { return l.total }

// Limit is the global budget ceiling.
func (l *Ledger) Limit() decimal.Decimal { return l.limit }

// Remaining is limit minus total. It is negative while over the limit.
func (l *Ledger) Remaining() decimal.Decimal { return l.limit.Sub(l.total) }

// OverLimit reports whether the total currently exceeds the limit.
func (l *Ledger) OverLimit() bool { return l.total.GreaterThan(l.limit) }

// Warned reports whether the current over-limit episode has been signalled.
func (l *Ledger) Warned() bool { return l.warned }

// CustomGroupCount is the number of live custom groups.
func (l *Ledger) CustomGroupCount() int { return l.customCount }

// Len is the number of groups.
func (l *Ledger) Len() int { return len(l.groups) }

// Groups returns a deep copy of every group in order.
func (l *Ledger) Groups() []model.Group {
	out := make([]model.Group, len(l.groups))
	for i, g := range l.groups {
		out[i] = g.Clone()
	}
	return out
}

// Group returns a deep copy of one group.
func (l *Ledger) Group(id string) (model.Group, error) {
	i, err := l.find(id)
	if err != nil {
		return model.Group{}, err
	}
	return l.groups[i].Clone(), nil
}

// Item returns one item by group id and key.
func (l *Ledger) Item(groupID string, key model.ItemKey) (model.Item, error) {
	i, err := l.find(groupID)
	if err != nil {
		return model.Item{}, err
	}
	it, ok := l.groups[i].Items.Get(key)
	if !ok {
		return model.Item{}, fmt.Errorf("%w: %s/%s", ErrItemNotFound, groupID, key)
	}
	return it, nil
}

func (l *Ledger) find(id string) (int, error) {
	for i := range l.groups {
		if l.groups[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrGroupNotFound, id)
}

// recompute derives the total from scratch.
func (l *Ledger) recompute() {
	total := decimal.Zero
	for i := range l.groups {
		total = total.Add(l.groups[i].Subtotal())
	}
	l.total = total
}

// settle recomputes the total and advances the warning state machine.
// Only item edits may raise the over-limit signal; any mutation may clear it.
func (l *Ledger) settle(op string, mayWarn bool) Result {
	l.recompute()
	r := Result{Total: l.total, Limit: l.limit}

	switch {
	case l.total.GreaterThan(l.limit):
		if mayWarn && !l.warned {
			l.warned = true
			r.Signal = SignalOverLimit
			l.logger.Warn("allocation exceeds budget limit",
				log.FieldOperation, op,
				log.FieldTotal, l.total.String(),
				log.FieldLimit, l.limit.String())
		}
	case l.warned:
		l.warned = false
		r.Signal = SignalUnderLimit
		l.logger.Info("allocation back within budget limit",
			log.FieldOperation, op,
			log.FieldTotal, l.total.String(),
			log.FieldLimit, l.limit.String())
	}
	return r
}

func trimName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ErrEmptyName
	}
	return n, nil
}
