// Package prefix implements the ancestor-aware traversal shared by the
// frozen set and map containers.
//
// A compacted structure stores coarse cells standing in for all of their
// descendants. Because an ancestor's key is a byte prefix of every
// descendant's key, the stored cell covering a query cell is exactly the
// shortest key in the transducer that prefixes the query key, and for
// non-overlapping inputs it is the only one.
package prefix

import (
	"errors"
	"slices"

	"github.com/blevesearch/vellum"
)

// dead is the sink state of [Automaton].
const dead = -1

// Automaton matches every prefix of Key, including the empty one.
//
// Intersecting it with a transducer enumerates the stored keys that are
// prefixes of Key, shortest first.
type Automaton struct {
	Key []byte
}

// Start implements [vellum.Automaton].
func (a Automaton) Start() int { return 0 }

// IsMatch implements [vellum.Automaton].
func (a Automaton) IsMatch(s int) bool { return s != dead }

// CanMatch implements [vellum.Automaton].
func (a Automaton) CanMatch(s int) bool { return s != dead }

// WillAlwaysMatch implements [vellum.Automaton].
func (a Automaton) WillAlwaysMatch(int) bool { return false }

// Accept implements [vellum.Automaton].
func (a Automaton) Accept(s int, b byte) int {
	if s != dead && s < len(a.Key) && a.Key[s] == b {
		return s + 1
	}
	return dead
}

// Match returns the shortest key stored in fst that is a byte prefix of
// key, along with its output value.
//
// If no stored key prefixes key, ok is false: the key, and with it every
// continuation of its path, is definitively absent.
func Match(fst *vellum.FST, key []byte) (match []byte, value uint64, ok bool, err error) {
	itr, err := fst.Search(Automaton{Key: key}, nil, nil)
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	// The iterator yields matches in lexicographic order and a prefix
	// sorts before its extensions, so the first match is the coarsest.
	match, value = itr.Current()

	return slices.Clone(match), value, true, nil
}

// DescendantRange returns the half-open byte range [start, end) that
// contains the key of every proper descendant of the cell key encodes,
// and nothing else.
//
// key must be a well-formed cell key: non-empty, with a final byte small
// enough to increment without overflow (base cell numbers and digits both
// are).
func DescendantRange(key []byte) (start, end []byte) {
	start = make([]byte, len(key)+1)
	copy(start, key)

	end = slices.Clone(key)
	end[len(end)-1]++

	return start, end
}
