package ledger

import "github.com/shopspring/decimal"

// Signal is the over-limit state transition produced by a mutation.
type Signal int

const (
	// SignalNone means the warning state did not change.
	SignalNone Signal = iota
	// SignalOverLimit is raised once when an item edit first pushes the
	// total above the limit.
	SignalOverLimit
	// SignalUnderLimit is raised when the total returns to or below the
	// limit after a warning.
	SignalUnderLimit
)

func (s Signal) String() string {
	switch s {
	case SignalOverLimit:
		return "over_limit"
	case SignalUnderLimit:
		return "under_limit"
	default:
		return "none"
	}
}

// WarningText is the message collaborators show for SignalOverLimit.
const WarningText = "Cannot allocate budget. Exceeds total budget limit."

// Result describes the outcome of an applied mutation.
type Result struct {
	Signal Signal
	// Clamped is set when a resize request was moved into range.
	Clamped bool
	// GroupID names the group created by CreateCustomGroup.
	GroupID string
	Total   decimal.Decimal
	Limit   decimal.Decimal
}
