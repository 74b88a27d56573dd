package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemKey(t *testing.T) {
	k := ParseItemKey("3")
	i, ok := k.Index()
	require.True(t, ok)
	assert.Equal(t, 3, i)

	k = ParseItemKey(" Tanks ")
	name, ok := k.Name()
	require.True(t, ok)
	assert.Equal(t, "Tanks", name)

	k = ParseItemKey("-1")
	_, ok = k.Name()
	assert.True(t, ok, "negative numbers are names")
}

func TestListStore(t *testing.T) {
	s := NewListStore(NewDefaultItem("a"), NewDefaultItem("b"))
	assert.True(t, s.Ordered())
	assert.Equal(t, 2, s.Len())

	it, ok := s.Get(IndexKey(1))
	require.True(t, ok)
	assert.Equal(t, "b", it.Name)

	_, ok = s.Get(IndexKey(2))
	assert.False(t, ok)
	_, ok = s.Get(NameKey("a"))
	assert.False(t, ok, "list stores are positional only")

	it.Budget = decimal.NewFromInt(5)
	require.True(t, s.Set(IndexKey(1), it))
	assert.False(t, s.Set(IndexKey(9), it))

	var names []string
	s.Each(func(k ItemKey, it Item) { names = append(names, k.String()+":"+it.Name) })
	assert.Equal(t, []string{"0:a", "1:b"}, names)
}

func TestListStoreResize(t *testing.T) {
	s := NewListStore(NewDefaultItem("a"), NewDefaultItem("b"), NewDefaultItem("c"))
	s.Resize(1, nil)
	assert.Equal(t, 1, s.Len())

	s.Resize(3, func(i int) Item { return NewDefaultItem(CustomItemName(i)) })
	require.Equal(t, 3, s.Len())
	it, _ := s.Get(IndexKey(2))
	assert.Equal(t, "Custom Item 3", it.Name)
}

func TestListStoreCloneIsIndependent(t *testing.T) {
	s := NewListStore(NewDefaultItem("a"))
	c := s.Clone()
	s.Set(IndexKey(0), NewDefaultItem("changed"))
	it, _ := c.Get(IndexKey(0))
	assert.Equal(t, "a", it.Name)
}

func TestKeyedStore(t *testing.T) {
	s := NewKeyedStore(NewDefaultItem("Tanks"), NewDefaultItem("Artillery"))
	assert.False(t, s.Ordered())
	assert.Equal(t, []ItemKey{NameKey("Tanks"), NameKey("Artillery")}, s.Keys())

	it, ok := s.Get(NameKey("Artillery"))
	require.True(t, ok)
	assert.Equal(t, "Artillery", it.Name)

	it, ok = s.Get(IndexKey(0))
	require.True(t, ok, "keyed stores resolve positions in template order")
	assert.Equal(t, "Tanks", it.Name)

	_, ok = s.Get(NameKey("Submarines"))
	assert.False(t, ok)
	assert.False(t, s.Set(NameKey("Submarines"), it), "keyed stores never grow")

	c := s.Clone()
	it.Budget = decimal.NewFromInt(9)
	s.Set(NameKey("Tanks"), it)
	orig, _ := c.Get(NameKey("Tanks"))
	assert.True(t, orig.Budget.IsZero())
}

func TestKeyedStoreDuplicateNames(t *testing.T) {
	a := NewDefaultItem("x")
	b := NewDefaultItem("x")
	b.Budget = decimal.NewFromInt(7)
	s := NewKeyedStore(a, b)
	assert.Equal(t, 1, s.Len())
	it, _ := s.Get(NameKey("x"))
	assert.True(t, it.Budget.Equal(decimal.NewFromInt(7)))
}

func TestKeyedStoreNumericNames(t *testing.T) {
	s := NewKeyedStore(NewDefaultItem("Tanks"), NewDefaultItem("2024"), NewDefaultItem("Ships"))

	it, ok := s.Get(ParseItemKey("2024"))
	require.True(t, ok)
	assert.Equal(t, "2024", it.Name, "numeric text matching a name addresses the name")

	it, ok = s.Get(ParseItemKey("2"))
	require.True(t, ok)
	assert.Equal(t, "Ships", it.Name, "numeric text without a matching name stays positional")

	it, ok = s.Get(ParseItemKey("name:2024"))
	require.True(t, ok)
	assert.Equal(t, "2024", it.Name)

	_, ok = s.Get(ParseItemKey("name:2"))
	assert.False(t, ok, "name: prefix never falls back to a position")

	_, ok = NewListStore(NewDefaultItem("a")).Get(ParseItemKey("name:a"))
	assert.False(t, ok, "list stores are positional only")
}
