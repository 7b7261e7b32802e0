// Package param provides the string-keyed parameter bag carried by
// controller events.
//
// A [Bag] is a plain mutable map with insertion-ordered iteration. Events own
// their bag exclusively and expose it through their own accessors, so a bag is
// never shared between two executions and performs no locking.
package param

import (
	"maps"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Bag is a string-keyed parameter store. The zero value is ready to use.
type Bag struct {
	entries *orderedmap.OrderedMap[string, any]
}

// New returns an empty bag.
func New() *Bag {
	return &Bag{entries: orderedmap.New[string, any]()}
}

func (b *Bag) store() *orderedmap.OrderedMap[string, any] {
	if b.entries == nil {
		b.entries = orderedmap.New[string, any]()
	}
	return b.entries
}

// Set stores value under key, overwriting any previous value. An overwritten
// key keeps its original position.
func (b *Bag) Set(key string, value any) {
	b.store().Set(key, value)
}

// Get returns the value stored under key, or nil when the key is absent.
func (b *Bag) Get(key string) any {
	v, _ := b.Lookup(key)
	return v
}

// Lookup returns the value stored under key and whether the key is present.
func (b *Bag) Lookup(key string) (any, bool) {
	if b.entries == nil {
		return nil, false
	}
	return b.entries.Get(key)
}

// Has reports whether key is stored. A key holding nil is present.
func (b *Bag) Has(key string) bool {
	_, ok := b.Lookup(key)
	return ok
}

// SetAll replaces the whole content of the bag with params. Entries are
// inserted in ascending key order.
func (b *Bag) SetAll(params map[string]any) {
	b.entries = orderedmap.New[string, any](len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		b.entries.Set(k, params[k])
	}
}

// All returns a snapshot of every stored parameter.
func (b *Bag) All() map[string]any {
	out := make(map[string]any, b.Len())
	b.Range(func(k string, v any) bool {
		out[k] = v
		return true
	})
	return out
}

// Keys returns the stored keys in insertion order.
func (b *Bag) Keys() []string {
	keys := make([]string, 0, b.Len())
	b.Range(func(k string, _ any) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Len returns the number of stored parameters.
func (b *Bag) Len() int {
	if b.entries == nil {
		return 0
	}
	return b.entries.Len()
}

// Range calls fn for each parameter in insertion order until fn returns false.
func (b *Bag) Range(fn func(key string, value any) bool) {
	if b.entries == nil {
		return
	}
	for pair := b.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}
