package server

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/session"
	"github.com/theirongolddev/fsplan/internal/view"
)

// State is the JSON view of a session served at /v1/state. Amounts are
// decimal strings.
type State struct {
	SessionID    string          `json:"session_id"`
	Scale        string          `json:"scale"`
	Total        decimal.Decimal `json:"total"`
	Limit        decimal.Decimal `json:"limit"`
	Remaining    decimal.Decimal `json:"remaining"`
	OverLimit    bool            `json:"over_limit"`
	Warned       bool            `json:"warned"`
	Header       string          `json:"header"`
	CustomGroups int             `json:"custom_groups"`
	Groups       []GroupState    `json:"groups"`
	Pie          []SliceState    `json:"pie"`
	Bars         []SliceState    `json:"bars"`
}

// GroupState is one group with its visible items.
type GroupState struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Custom   bool            `json:"custom"`
	Expanded bool            `json:"expanded"`
	NumItems int             `json:"num_items,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Color    string          `json:"color"`
	Items    []ItemState     `json:"items"`
}

// ItemState is one item and the key that addresses it in item routes.
type ItemState struct {
	Key      string          `json:"key"`
	Name     string          `json:"name"`
	Budget   decimal.Decimal `json:"budget"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// SliceState is one chart entry.
type SliceState struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Share decimal.Decimal `json:"share"`
	Color string          `json:"color"`
}

func buildState(sess *session.Session) State {
	l := sess.Ledger()
	b := view.Build(l)

	st := State{
		SessionID:    sess.ID(),
		Scale:        sess.Scale().String(),
		Total:        b.Total,
		Limit:        b.Limit,
		Remaining:    b.Remaining,
		OverLimit:    b.OverLimit,
		Warned:       l.Warned(),
		Header:       view.Header(b, sess.Scale()),
		CustomGroups: l.CustomGroupCount(),
		Groups:       make([]GroupState, 0, len(b.Groups)),
		Pie:          slices(b.Pie),
		Bars:         slices(b.Bars),
	}
	for _, g := range b.Groups {
		gs := GroupState{
			ID:       g.ID,
			Name:     g.Name,
			Custom:   g.Custom,
			Expanded: g.Expanded,
			NumItems: g.NumItems,
			Subtotal: g.Subtotal,
			Color:    g.Color,
			Items:    make([]ItemState, 0, len(g.Items)),
		}
		for _, it := range g.Items {
			gs.Items = append(gs.Items, ItemState{
				Key:      it.Key.String(),
				Name:     it.Name,
				Budget:   it.Budget,
				Min:      it.Min,
				Max:      it.Max,
				Quantity: it.Quantity,
				UnitCost: it.UnitCost,
			})
		}
		st.Groups = append(st.Groups, gs)
	}
	return st
}

func slices(in []view.Slice) []SliceState {
	out := make([]SliceState, len(in))
	for i, s := range in {
		out[i] = SliceState{ID: s.ID, Name: s.Name, Value: s.Value, Share: s.Share, Color: s.Color}
	}
	return out
}

// CommandResult is the response to an applied command.
type CommandResult struct {
	Message string `json:"message"`
	Signal  string `json:"signal"`
	Warning string `json:"warning,omitempty"`
	Clamped bool   `json:"clamped,omitempty"`
	GroupID string `json:"group_id,omitempty"`
	State   State  `json:"state"`
}

func commandResult(out session.Outcome, st State) CommandResult {
	return CommandResult{
		Message: out.Message,
		Signal:  out.Result.Signal.String(),
		Warning: out.Warning(),
		Clamped: out.Result.Clamped,
		GroupID: out.Result.GroupID,
		State:   st,
	}
}
