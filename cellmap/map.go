// Package cellmap provides an immutable, compact map of H3 cells to
// unsigned integer values, backed by a finite-state transducer.
//
// A map is built once from cell/value pairs supplied in hierarchical order
// (see [cellkey.Compare]) and is thereafter read-only: any number of
// goroutines may query and iterate a finished map concurrently without
// locking.
//
// Values are uint64, the output domain of the transducer. Use
// [github.com/hexfrost/frozenkit/cellmap/typedmap] to store any value
// reconstructible from a fixed-width integer.
package cellmap

import (
	"errors"

	"github.com/blevesearch/vellum"
	"github.com/hexfrost/frozenkit/cellkey"
	"github.com/hexfrost/frozenkit/internal/prefix"
	"github.com/uber/h3-go/v4"
)

// A RangeFunc is a function used to range over the entries of a [Map].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being
// propagated.
type RangeFunc func(cell h3.Cell, value uint64) (ok bool, err error)

// Map is an immutable map of H3 cells to uint64 values.
type Map struct {
	fst *vellum.FST

	// data is the serialized form of the map. It is nil for maps opened
	// from a memory-mapped file, which do not own their bytes.
	data []byte
}

// New returns a map backed by data, without copying or re-parsing it.
//
// data must be the serialized form of a map, as produced by [Map.Bytes] or
// a [Builder] writing to a stream. Its structural integrity is verified;
// the keys themselves are not re-validated, as ordering and uniqueness
// were established when the map was built. The map borrows data and must
// not outlive it.
//
// It fails with [CorruptBlobError] if data is malformed or was produced by
// an incompatible engine version.
func New(data []byte) (*Map, error) {
	fst, err := vellum.Load(data)
	if err != nil {
		return nil, CorruptBlobError{Cause: err}
	}

	return &Map{fst: fst, data: data}, nil
}

// OpenFile returns a map backed by a memory-mapped file.
//
// The returned map performs no further I/O beyond the page faults of the
// mapping; [Map.Close] releases it.
func OpenFile(path string) (*Map, error) {
	fst, err := vellum.Open(path)
	if err != nil {
		return nil, err
	}

	return &Map{fst: fst}, nil
}

// Len returns the number of entries in the map.
func (m *Map) Len() int {
	return m.fst.Len()
}

// IsEmpty returns true if and only if the map contains no entries.
func (m *Map) IsEmpty() bool {
	return m.Len() == 0
}

// Get returns the value associated with cell itself.
//
// The lookup is exact-depth: a stored ancestor of cell does not count. Use
// [Map.Covering] for ancestor-aware lookup.
func (m *Map) Get(cell h3.Cell) (uint64, bool, error) {
	k, err := cellkey.FromCell(cell)
	if err != nil {
		return 0, false, err
	}

	return m.fst.Get(k.Bytes())
}

// Covering returns the entry whose key is cell itself or one of its
// ancestors, if any.
//
// This is the lookup for compacted maps, where a coarse cell stands in for
// all of its descendants: the value associated with the covering ancestor
// is the value for every descendant. The coarsest match wins; for
// non-overlapping inputs it is the only match.
func (m *Map) Covering(cell h3.Cell) (h3.Cell, uint64, bool, error) {
	k, err := cellkey.FromCell(cell)
	if err != nil {
		return 0, 0, false, err
	}

	match, value, ok, err := prefix.Match(m.fst, k.Bytes())
	if !ok || err != nil {
		return 0, 0, false, err
	}

	mk, err := cellkey.FromBytes(match)
	if err != nil {
		return 0, 0, false, err
	}

	return mk.Cell(), value, true, nil
}

// Range invokes fn for each entry in the map, in hierarchical key order.
//
// Each call ranges anew; ranging performs no mutation and may run
// concurrently with any other operation on the map.
func (m *Map) Range(fn RangeFunc) error {
	return m.rangeBetween(nil, nil, fn)
}

// Between invokes fn for each entry whose key is at least that of lo and
// less than that of hi, in hierarchical key order.
func (m *Map) Between(lo, hi h3.Cell, fn RangeFunc) error {
	klo, err := cellkey.FromCell(lo)
	if err != nil {
		return err
	}

	khi, err := cellkey.FromCell(hi)
	if err != nil {
		return err
	}

	return m.rangeBetween(klo.Bytes(), khi.Bytes(), fn)
}

// Descendants invokes fn for each entry whose key is a proper descendant
// of cell, in hierarchical key order.
func (m *Map) Descendants(cell h3.Cell, fn RangeFunc) error {
	k, err := cellkey.FromCell(cell)
	if err != nil {
		return err
	}

	start, end := prefix.DescendantRange(k.Bytes())

	return m.rangeBetween(start, end, fn)
}

// Keys invokes fn for each cell in the map, in hierarchical order.
func (m *Map) Keys(fn func(cell h3.Cell) (bool, error)) error {
	return m.Range(func(cell h3.Cell, _ uint64) (bool, error) {
		return fn(cell)
	})
}

// Values invokes fn for each value in the map, in hierarchical key order.
func (m *Map) Values(fn func(value uint64) (bool, error)) error {
	return m.Range(func(_ h3.Cell, value uint64) (bool, error) {
		return fn(value)
	})
}

// Bytes returns the serialized form of the map, suitable for [New].
//
// The returned slice must not be modified. It is nil for maps opened with
// [OpenFile], which do not own their bytes.
func (m *Map) Bytes() []byte {
	return m.data
}

// Close releases any resources held by the map. For memory-mapped maps
// this unmaps the backing file.
func (m *Map) Close() error {
	return m.fst.Close()
}

func (m *Map) rangeBetween(start, end []byte, fn RangeFunc) error {
	itr, err := m.fst.Iterator(start, end)
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil
	}
	if err != nil {
		return err
	}

	for {
		kb, value := itr.Current()

		k, err := cellkey.FromBytes(kb)
		if err != nil {
			return err
		}

		ok, err := fn(k.Cell(), value)
		if !ok || err != nil {
			return err
		}

		if err := itr.Next(); err != nil {
			if errors.Is(err, vellum.ErrIteratorDone) {
				return nil
			}
			return err
		}
	}
}
