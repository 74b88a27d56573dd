package model

import (
	"strconv"
	"strings"
)

// ItemKey addresses an item inside a group, either by position or by name.
type ItemKey struct {
	index int
	name  string
	named bool
	// text is the digits a positional key was parsed from. Keyed stores
	// try it as a name first.
	text string
}

// IndexKey addresses the i-th item (0-based).
func IndexKey(i int) ItemKey { return ItemKey{index: i} }

// NameKey addresses an item by its name.
func NameKey(name string) ItemKey { return ItemKey{name: name, named: true} }

// ParseItemKey treats a non-negative integer as a position and anything
// else as a name. A "name:" prefix forces a name key. On keyed stores a
// numeric key that matches an item name addresses that item, not the
// position.
func ParseItemKey(s string) ItemKey {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutPrefix(s, "name:"); ok {
		return NameKey(name)
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		k := IndexKey(i)
		k.text = s
		return k
	}
	return NameKey(s)
}

// Index returns the position and whether the key is positional.
func (k ItemKey) Index() (int, bool) { return k.index, !k.named }

// Name returns the name and whether the key is a name key.
func (k ItemKey) Name() (string, bool) { return k.name, k.named }

func (k ItemKey) String() string {
	if k.named {
		return k.name
	}
	return strconv.Itoa(k.index)
}

// ItemStore is the capability shared by both item layouts.
type ItemStore interface {
	Len() int
	Get(k ItemKey) (Item, bool)
	// Set replaces an existing item. It never adds one and reports false
	// when the key does not resolve.
	Set(k ItemKey, it Item) bool
	// Keys returns the keys in display order.
	Keys() []ItemKey
	Each(fn func(k ItemKey, it Item))
	Ordered() bool
	Clone() ItemStore
}

// ListStore is an ordered, resizable item sequence. Keys are positions.
type ListStore struct {
	items []Item
}

// NewListStore returns a store holding a copy of items.
func NewListStore(items ...Item) *ListStore {
	return &ListStore{items: append([]Item(nil), items...)}
}

func (s *ListStore) Len() int { return len(s.items) }

func (s *ListStore) resolve(k ItemKey) (int, bool) {
	i, ok := k.Index()
	if !ok || i < 0 || i >= len(s.items) {
		return 0, false
	}
	return i, true
}

func (s *ListStore) Get(k ItemKey) (Item, bool) {
	i, ok := s.resolve(k)
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

func (s *ListStore) Set(k ItemKey, it Item) bool {
	i, ok := s.resolve(k)
	if !ok {
		return false
	}
	s.items[i] = it
	return true
}

func (s *ListStore) Keys() []ItemKey {
	keys := make([]ItemKey, len(s.items))
	for i := range s.items {
		keys[i] = IndexKey(i)
	}
	return keys
}

func (s *ListStore) Each(fn func(k ItemKey, it Item)) {
	for i, it := range s.items {
		fn(IndexKey(i), it)
	}
}

func (s *ListStore) Ordered() bool { return true }

func (s *ListStore) Clone() ItemStore { return NewListStore(s.items...) }

// Resize truncates or extends the list to n items. New items come from
// fill, called with each new position.
func (s *ListStore) Resize(n int, fill func(i int) Item) {
	if n < 0 {
		n = 0
	}
	if n <= len(s.items) {
		clear(s.items[n:])
		s.items = s.items[:n]
		return
	}
	for i := len(s.items); i < n; i++ {
		s.items = append(s.items, fill(i))
	}
}

// KeyedStore is a fixed set of named items in template order. Items cannot
// be added or removed after construction.
type KeyedStore struct {
	names []string
	items map[string]Item
}

// NewKeyedStore builds a store keyed by item name. A repeated name keeps
// its first position and the last value.
func NewKeyedStore(items ...Item) *KeyedStore {
	s := &KeyedStore{items: make(map[string]Item, len(items))}
	for _, it := range items {
		if _, dup := s.items[it.Name]; !dup {
			s.names = append(s.names, it.Name)
		}
		s.items[it.Name] = it
	}
	return s
}

func (s *KeyedStore) Len() int { return len(s.names) }

// resolve maps positional keys onto names so list-style callers can walk a
// keyed group too. A parsed numeric key that is also an item name wins as
// the name.
func (s *KeyedStore) resolve(k ItemKey) (string, bool) {
	if name, ok := k.Name(); ok {
		_, found := s.items[name]
		return name, found
	}
	if _, found := s.items[k.text]; found && k.text != "" {
		return k.text, true
	}
	i, _ := k.Index()
	if i < 0 || i >= len(s.names) {
		return "", false
	}
	return s.names[i], true
}

func (s *KeyedStore) Get(k ItemKey) (Item, bool) {
	name, ok := s.resolve(k)
	if !ok {
		return Item{}, false
	}
	return s.items[name], true
}

// Set replaces the value under the key. The item's Name field is not a key:
// the slot keeps its template name even if it.Name differs.
func (s *KeyedStore) Set(k ItemKey, it Item) bool {
	name, ok := s.resolve(k)
	if !ok {
		return false
	}
	s.items[name] = it
	return true
}

func (s *KeyedStore) Keys() []ItemKey {
	keys := make([]ItemKey, len(s.names))
	for i, n := range s.names {
		keys[i] = NameKey(n)
	}
	return keys
}

func (s *KeyedStore) Each(fn func(k ItemKey, it Item)) {
	for _, n := range s.names {
		fn(NameKey(n), s.items[n])
	}
}

func (s *KeyedStore) Ordered() bool { return false }

func (s *KeyedStore) Clone() ItemStore {
	c := &KeyedStore{
		names: append([]string(nil), s.names...),
		items: make(map[string]Item, len(s.items)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}
