package typedmap

import (
	"github.com/hexfrost/frozenkit/cellmap"
	"github.com/hexfrost/frozenkit/marshaler"
	"github.com/uber/h3-go/v4"
)

// A Builder constructs a [Map] from cell/value pairs supplied in strictly
// increasing hierarchical key order.
type Builder[T any] struct {
	next *cellmap.Builder
	m    marshaler.Marshaler[T]
}

// NewMemoryBuilder returns a builder that builds a map in memory. Call
// [Builder.Map] to finish.
func NewMemoryBuilder[T any](m marshaler.Marshaler[T]) (*Builder[T], error) {
	next, err := cellmap.NewMemoryBuilder()
	if err != nil {
		return nil, err
	}

	return &Builder[T]{next, m}, nil
}

// Insert adds a cell/value pair to the map under construction.
func (b *Builder[T]) Insert(cell h3.Cell, value T) error {
	w, err := b.m.Marshal(value)
	if err != nil {
		return err
	}

	return b.next.Insert(cell, w)
}

// Map finishes construction and returns the built map.
func (b *Builder[T]) Map() (*Map[T], error) {
	next, err := b.next.Map()
	if err != nil {
		return nil, err
	}

	return New(next, b.m), nil
}
