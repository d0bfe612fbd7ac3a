// Package typedmap provides a frozen map of H3 cells to values of
// arbitrary type, marshaled to and from the uint64 output domain of an
// underlying [cellmap.Map].
package typedmap

import (
	"github.com/hexfrost/frozenkit/cellmap"
	"github.com/hexfrost/frozenkit/marshaler"
	"github.com/uber/h3-go/v4"
)

// A RangeFunc is a function used to range over the entries of a [Map].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being
// propagated.
type RangeFunc[T any] func(cell h3.Cell, value T) (ok bool, err error)

// Map is an immutable map of H3 cells to values of type T.
type Map[T any] struct {
	next *cellmap.Map
	m    marshaler.Marshaler[T]
}

// New returns a [Map] that marshals/unmarshals values of type T to/from
// the underlying [cellmap.Map].
func New[T any](next *cellmap.Map, m marshaler.Marshaler[T]) *Map[T] {
	return &Map[T]{next, m}
}

// Len returns the number of entries in the map.
func (m *Map[T]) Len() int {
	return m.next.Len()
}

// IsEmpty returns true if and only if the map contains no entries.
func (m *Map[T]) IsEmpty() bool {
	return m.next.IsEmpty()
}

// Get returns the value associated with cell itself.
//
// If cell is not present, v is the zero-value of T. The lookup is
// exact-depth; use [Map.Covering] for ancestor-aware lookup.
func (m *Map[T]) Get(cell h3.Cell) (v T, ok bool, err error) {
	w, ok, err := m.next.Get(cell)
	if !ok || err != nil {
		return v, false, err
	}

	v, err = m.m.Unmarshal(w)
	if err != nil {
		return v, false, err
	}

	return v, true, nil
}

// Covering returns the entry whose key is cell itself or one of its
// ancestors, if any.
func (m *Map[T]) Covering(cell h3.Cell) (match h3.Cell, v T, ok bool, err error) {
	match, w, ok, err := m.next.Covering(cell)
	if !ok || err != nil {
		return 0, v, false, err
	}

	v, err = m.m.Unmarshal(w)
	if err != nil {
		return 0, v, false, err
	}

	return match, v, true, nil
}

// Range invokes fn for each entry in the map, in hierarchical key order.
func (m *Map[T]) Range(fn RangeFunc[T]) error {
	return m.next.Range(func(cell h3.Cell, w uint64) (bool, error) {
		v, err := m.m.Unmarshal(w)
		if err != nil {
			return false, err
		}

		return fn(cell, v)
	})
}

// Bytes returns the serialized form of the underlying map.
func (m *Map[T]) Bytes() []byte {
	return m.next.Bytes()
}

// Close closes the underlying map.
func (m *Map[T]) Close() error {
	return m.next.Close()
}
