// Package view projects ledger state into presentation data: chart
// breakdowns, per-group rows and the header line. Everything here is
// derived on demand and never stored.
package view

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
)

// RemainingID and RemainingName label the synthetic pie entry.
const (
	RemainingID   = "remaining"
	RemainingName = "Remaining Budget"
)

// Source is the read side of a ledger.
type Source interface {
	Groups() []model.Group
	Total() decimal.Decimal
	Limit() decimal.Decimal
}

// Slice is one chart entry.
type Slice struct {
	ID    string
	Name  string
	Value decimal.Decimal // rounded to cents
	// Share is Value as a percentage of the chart's sum, two decimals.
	Share decimal.Decimal
	Color string
}

// Breakdown is a consistent snapshot of the derived figures.
type Breakdown struct {
	Total     decimal.Decimal
	Limit     decimal.Decimal
	Remaining decimal.Decimal // limit - total; negative when over
	OverLimit bool
	// Pie holds one slice per group plus the remaining budget, floored at zero.
	Pie []Slice
	// Bars holds one slice per group.
	Bars   []Slice
	Groups []GroupView
}

// GroupView is a group with its subtotal and visible items.
type GroupView struct {
	ID       string
	Name     string
	Custom   bool
	Expanded bool
	NumItems int
	Subtotal decimal.Decimal
	Color    string
	Items    []ItemView
}

// ItemView is a visible item with the key that addresses it.
type ItemView struct {
	Key model.ItemKey
	model.Item
}

// Build projects src.
func Build(src Source) Breakdown {
	groups := src.Groups()
	total := src.Total()
	limit := src.Limit()

	b := Breakdown{
		Total:     total,
		Limit:     limit,
		Remaining: limit.Sub(total),
		OverLimit: total.GreaterThan(limit),
		Pie:       make([]Slice, 0, len(groups)+1),
		Bars:      make([]Slice, 0, len(groups)),
		Groups:    make([]GroupView, 0, len(groups)),
	}

	for i := range groups {
		g := &groups[i]
		sub := g.Subtotal()
		color := Color(i)

		s := Slice{ID: g.ID, Name: g.Name, Value: money.RoundCurrency(sub), Color: color}
		b.Pie = append(b.Pie, s)
		b.Bars = append(b.Bars, s)

		gv := GroupView{
			ID:       g.ID,
			Name:     g.Name,
			Custom:   g.IsCustom(),
			Expanded: g.Expanded,
			NumItems: g.NumItems,
			Subtotal: sub,
			Color:    color,
		}
		for _, k := range g.VisibleKeys() {
			it, _ := g.Items.Get(k)
			gv.Items = append(gv.Items, ItemView{Key: k, Item: it})
		}
		b.Groups = append(b.Groups, gv)
	}

	b.Pie = append(b.Pie, Slice{
		ID:    RemainingID,
		Name:  RemainingName,
		Value: money.RoundCurrency(money.NonNegative(b.Remaining)),
		Color: RemainingColor,
	})

	fillShares(b.Pie)
	fillShares(b.Bars)
	return b
}

func fillShares(slices []Slice) {
	sum := decimal.Zero
	for _, s := range slices {
		sum = sum.Add(s.Value)
	}
	if sum.IsZero() {
		for i := range slices {
			slices[i].Share = decimal.Zero
		}
		return
	}
	hundred := decimal.NewFromInt(100)
	for i := range slices {
		slices[i].Share = slices[i].Value.Mul(hundred).Div(sum).Round(2)
	}
}

// Header renders "Total Budget: … | Allocated: … | Remaining: …".
func Header(b Breakdown, s money.Scale) string {
	return "Total Budget: " + money.Format(b.Limit, s) +
		" | Allocated: " + money.Format(b.Total, s) +
		" | Remaining: " + money.Format(b.Remaining, s)
}

// Utilization is total/limit as a fraction for progress bars. A zero limit
// yields 1 when anything is allocated.
func Utilization(b Breakdown) float64 {
	if b.Limit.IsZero() {
		if b.Total.IsPositive() {
			return 1
		}
		return 0
	}
	f, _ := b.Total.Div(b.Limit).Float64()
	return f
}
