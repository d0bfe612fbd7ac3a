// Package marshaler converts values to and from the uint64 output domain
// of the transducer that backs frozen maps.
package marshaler

// Marshaler is an interface for types that can marshal and unmarshal
// values of type T to and from a uint64.
type Marshaler[T any] interface {
	Marshal(T) (uint64, error)
	Unmarshal(uint64) (T, error)
}

// New returns a new [Marshaler] that marshals and unmarshals values of
// type T using the given functions.
func New[T any](
	marshal func(T) (uint64, error),
	unmarshal func(uint64) (T, error),
) Marshaler[T] {
	return marshaler[T]{marshal, unmarshal}
}

type marshaler[T any] struct {
	marshal   func(T) (uint64, error)
	unmarshal func(uint64) (T, error)
}

func (m marshaler[T]) Marshal(v T) (uint64, error)   { return m.marshal(v) }
func (m marshaler[T]) Unmarshal(w uint64) (T, error) { return m.unmarshal(w) }
