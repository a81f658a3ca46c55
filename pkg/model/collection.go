package model

import (
	"encoding/json"
	"iter"
	"slices"

	"github.com/zeusync/modelkit/pkg/sequence"
)

// Collection is an ordered list of items bound to a kind. The kind decides
// what Resolve, Invoke and Pluck broadcast; it does not constrain the items.
// Every structural operation returns a collection bound to the same kind.
//
// Collection is not safe for concurrent mutation.
type Collection[T any] struct {
	kind  *Kind
	items []T
}

// NewCollection returns a collection of kind holding a copy of items.
func NewCollection[T any](kind *Kind, items ...T) *Collection[T] {
	c := &Collection[T]{kind: kind, items: make([]T, len(items))}
	copy(c.items, items)
	return c
}

// NewCollectionSize returns a collection of n zero values.
func NewCollectionSize[T any](kind *Kind, n int) *Collection[T] {
	return &Collection[T]{kind: kind, items: make([]T, max(n, 0))}
}

// CollectionFrom drains seq into a new collection.
func CollectionFrom[T any](kind *Kind, seq iter.Seq[T]) *Collection[T] {
	return &Collection[T]{kind: kind, items: sequence.FromSeq(seq).Collect()}
}

func (c *Collection[T]) derive(items []T) *Collection[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &Collection[T]{kind: c.kind, items: items}
}

// Kind returns the bound kind, nil for an unbound collection.
func (c *Collection[T]) Kind() *Kind { return c.kind }

func (c *Collection[T]) Len() int { return len(c.items) }

// At returns the item at i. Negative indices count from the end.
func (c *Collection[T]) At(i int) (T, bool) {
	if i < 0 {
		i += len(c.items)
	}
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Items returns a copy of the items.
func (c *Collection[T]) Items() []T { return slices.Clone(c.items) }

// All iterates over index/item pairs.
func (c *Collection[T]) All() iter.Seq2[int, T] { return slices.All(c.items) }

// Push appends items and returns the new length.
func (c *Collection[T]) Push(items ...T) int {
	c.items = append(c.items, items...)
	return len(c.items)
}

// Pop removes and returns the last item.
func (c *Collection[T]) Pop() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	last := c.items[len(c.items)-1]
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
	return last, true
}

// Shift removes and returns the first item.
func (c *Collection[T]) Shift() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	first := c.items[0]
	c.items = slices.Delete(c.items, 0, 1)
	return first, true
}

// Unshift prepends items and returns the new length.
func (c *Collection[T]) Unshift(items ...T) int {
	c.items = slices.Insert(c.items, 0, items...)
	return len(c.items)
}

// Splice removes deleteCount items at start, inserts items in their place
// and returns the removed items. A negative start counts from the end.
func (c *Collection[T]) Splice(start, deleteCount int, items ...T) *Collection[T] {
	n := len(c.items)
	start = relativeIndex(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := slices.Clone(c.items[start : start+deleteCount])
	c.items = slices.Replace(c.items, start, start+deleteCount, items...)
	return c.derive(removed)
}

// Slice returns the items from start up to, not including, end (the length
// when omitted). Negative bounds count from the end.
func (c *Collection[T]) Slice(start int, end ...int) *Collection[T] {
	n := len(c.items)
	from, to := relativeIndex(start, n), n
	if len(end) > 0 {
		to = relativeIndex(end[0], n)
	}
	if to <= from {
		return c.derive(nil)
	}
	return c.derive(sequence.From(c.items).Drop(from).Take(to - from).Collect())
}

// Filter returns the items satisfying pred.
func (c *Collection[T]) Filter(pred func(T) bool) *Collection[T] {
	return c.derive(sequence.From(c.items).Filter(pred).Collect())
}

// Sort sorts in place with a stable sort and returns c.
func (c *Collection[T]) Sort(cmp func(a, b T) int) *Collection[T] {
	slices.SortStableFunc(c.items, cmp)
	return c
}

// Concat returns a new collection with the items of c followed by those of
// others.
func (c *Collection[T]) Concat(others ...*Collection[T]) *Collection[T] {
	iters := make([]*sequence.Iterator[T], 0, len(others)+1)
	iters = append(iters, sequence.From(c.items))
	for _, other := range others {
		if other != nil {
			iters = append(iters, sequence.From(other.items))
		}
	}
	return c.derive(sequence.Chain(iters...).Collect())
}

// IndexOf returns the position of item, or -1. Pointers, maps and slices
// match by identity.
func (c *Collection[T]) IndexOf(item T) int {
	return slices.IndexFunc(c.items, func(v T) bool { return same(any(v), any(item)) })
}

func (c *Collection[T]) Includes(item T) bool { return c.IndexOf(item) >= 0 }

func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	return sequence.From(c.items).Find(pred)
}

func (c *Collection[T]) Each(fn func(int, T)) {
	for i, item := range c.items {
		fn(i, item)
	}
}

// Project projects every item with selector.
func (c *Collection[T]) Project(selector ...any) (any, error) {
	out := make([]any, len(c.items))
	for i, item := range c.items {
		projected, err := projectValue(any(item), selector)
		if err != nil {
			return nil, err
		}
		out[i] = projected
	}
	return out, nil
}

func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// sequenced marks collection types for the "array" rule type.
type sequenced interface {
	elements() []any
}

func (c *Collection[T]) elements() []any {
	out := make([]any, len(c.items))
	for i, item := range c.items {
		out[i] = item
	}
	return out
}

// Map converts every item with fn.
func Map[T, R any](c *Collection[T], fn func(T) R) []R {
	return sequence.Map(sequence.From(c.items), fn)
}

func relativeIndex(i, n int) int {
	if i < 0 {
		return max(i+n, 0)
	}
	return min(i, n)
}
