package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomGroup(t *testing.T) {
	g := NewCustomGroup(3)
	assert.Equal(t, "custom_group_3", g.ID)
	assert.Equal(t, "Custom Group 3", g.Name)
	assert.True(t, g.IsCustom())
	assert.True(t, g.Expanded)
	assert.Equal(t, DefaultItemsPerGroup, g.NumItems)
	require.Equal(t, DefaultItemsPerGroup, g.Items.Len())

	it, ok := g.Items.Get(IndexKey(0))
	require.True(t, ok)
	assert.Equal(t, "Custom Item 1", it.Name)
	assert.True(t, it.UnitCost.Equal(decimal.NewFromInt(1_000_000)))
	assert.True(t, it.Max.Equal(decimal.NewFromInt(100_000_000_000)))
	assert.True(t, it.Budget.IsZero())
	assert.True(t, g.Subtotal().IsZero())
}

func TestCustomGroupSeq(t *testing.T) {
	n, ok := CustomGroupSeq("custom_group_12")
	require.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = CustomGroupSeq("army")
	assert.False(t, ok)
	_, ok = CustomGroupSeq("custom_group_x")
	assert.False(t, ok)
}

func TestSubtotalSumsAllItems(t *testing.T) {
	a := NewDefaultItem("a")
	a.Budget = decimal.RequireFromString("10.25")
	b := NewDefaultItem("b")
	b.Budget = decimal.RequireFromString("0.75")
	g := Group{ID: "navy", Items: NewKeyedStore(a, b)}
	assert.Equal(t, "11", g.Subtotal().String())
	assert.False(t, g.IsCustom())
	assert.Len(t, g.VisibleKeys(), 2)
}

func TestVisibleKeysRespectsNumItems(t *testing.T) {
	g := NewCustomGroup(1)
	g.NumItems = 4
	assert.Len(t, g.VisibleKeys(), 4)
}

func TestCloneIsDeep(t *testing.T) {
	g := NewCustomGroup(1)
	c := g.Clone()
	it := NewDefaultItem("x")
	it.Budget = decimal.NewFromInt(1)
	g.Items.Set(IndexKey(0), it)
	assert.True(t, c.Subtotal().IsZero())
}
