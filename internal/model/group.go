package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Group is a named partition of items.
type Group struct {
	ID       string
	Name     string
	Expanded bool
	// NumItems is the active item count of a custom group. Template groups
	// leave it zero.
	NumItems int
	Items    ItemStore
}

// IsCustom reports whether the group is user-created.
func (g *Group) IsCustom() bool { return IsCustomID(g.ID) }

// Subtotal sums the budget of every stored item.
func (g *Group) Subtotal() decimal.Decimal {
	total := decimal.Zero
	if g.Items == nil {
		return total
	}
	g.Items.Each(func(_ ItemKey, it Item) {
		total = total.Add(it.Budget)
	})
	return total
}

// VisibleKeys returns the keys a view should render: the first NumItems
// items of a custom group, every item otherwise.
func (g *Group) VisibleKeys() []ItemKey {
	if g.Items == nil {
		return nil
	}
	keys := g.Items.Keys()
	if g.IsCustom() && g.NumItems < len(keys) {
		keys = keys[:max(g.NumItems, 0)]
	}
	return keys
}

// Clone returns a deep copy.
func (g Group) Clone() Group {
	if g.Items != nil {
		g.Items = g.Items.Clone()
	}
	return g
}

// CustomGroupID returns the id of the custom group with sequence number n.
func CustomGroupID(n int) string {
	return CustomGroupPrefix + strconv.Itoa(n)
}

// CustomGroupSeq extracts the sequence number from a custom group id.
func CustomGroupSeq(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, CustomGroupPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NewCustomGroup builds an expanded custom group with the default item set.
func NewCustomGroup(n int) Group {
	items := make([]Item, DefaultItemsPerGroup)
	for i := range items {
		items[i] = NewDefaultItem(CustomItemName(i))
	}
	return Group{
		ID:       CustomGroupID(n),
		Name:     fmt.Sprintf("Custom Group %d", n),
		Expanded: true,
		NumItems: DefaultItemsPerGroup,
		Items:    NewListStore(items...),
	}
}
