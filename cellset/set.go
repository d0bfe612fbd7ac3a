// Package cellset provides an immutable, compact set of H3 cells backed
// by a finite-state transducer.
//
// A set is built once from cells supplied in hierarchical order (see
// [cellkey.Compare]) and is thereafter read-only: any number of goroutines
// may query and iterate a finished set concurrently without locking.
//
// Cells of mixed resolutions may be stored together. [Set.Has] tests
// exact-depth membership, while [Set.Covering] additionally matches a
// stored ancestor standing in for its descendants, which is the natural
// query against a compacted set.
package cellset

import (
	"errors"

	"github.com/blevesearch/vellum"
	"github.com/hexfrost/frozenkit/cellkey"
	"github.com/hexfrost/frozenkit/internal/prefix"
	"github.com/uber/h3-go/v4"
)

// A RangeFunc is a function used to range over the cells of a [Set].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being
// propagated.
type RangeFunc func(cell h3.Cell) (ok bool, err error)

// Set is an immutable set of H3 cells.
type Set struct {
	fst *vellum.FST

	// data is the serialized form of the set. It is nil for sets opened
	// from a memory-mapped file, which do not own their bytes.
	data []byte
}

// New returns a set backed by data, without copying or re-parsing it.
//
// data must be the serialized form of a set, as produced by [Set.Bytes] or
// a [Builder] writing to a stream. Its structural integrity is verified;
// the keys themselves are not re-validated, as ordering and uniqueness
// were established when the set was built. The set borrows data and must
// not outlive it.
//
// It fails with [CorruptBlobError] if data is malformed or was produced by
// an incompatible engine version.
func New(data []byte) (*Set, error) {
	fst, err := vellum.Load(data)
	if err != nil {
		return nil, CorruptBlobError{Cause: err}
	}

	return &Set{fst: fst, data: data}, nil
}

// OpenFile returns a set backed by a memory-mapped file.
//
// The returned set performs no further I/O beyond the page faults of the
// mapping; [Set.Close] releases it.
func OpenFile(path string) (*Set, error) {
	fst, err := vellum.Open(path)
	if err != nil {
		return nil, err
	}

	return &Set{fst: fst}, nil
}

// FromCells returns a set of the given cells, which must be unique and
// sorted in hierarchical order.
func FromCells(cells ...h3.Cell) (*Set, error) {
	b, err := NewMemoryBuilder()
	if err != nil {
		return nil, err
	}

	for _, c := range cells {
		if err := b.Insert(c); err != nil {
			return nil, err
		}
	}

	return b.Set()
}

// Len returns the number of cells in the set.
func (s *Set) Len() int {
	return s.fst.Len()
}

// IsEmpty returns true if and only if the set contains no cells.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Has returns true if cell itself is a member of the set.
//
// Membership is exact-depth: a stored ancestor of cell does not count. Use
// [Set.Covering] for ancestor-aware membership.
func (s *Set) Has(cell h3.Cell) (bool, error) {
	k, err := cellkey.FromCell(cell)
	if err != nil {
		return false, err
	}

	return s.fst.Contains(k.Bytes())
}

// Covering returns the member of the set that is cell itself or one of its
// ancestors, if any.
//
// This is the membership test for compacted sets, where a coarse cell
// stands in for all of its descendants. The coarsest match wins; for
// non-overlapping inputs it is the only match.
func (s *Set) Covering(cell h3.Cell) (h3.Cell, bool, error) {
	k, err := cellkey.FromCell(cell)
	if err != nil {
		return 0, false, err
	}

	match, _, ok, err := prefix.Match(s.fst, k.Bytes())
	if !ok || err != nil {
		return 0, false, err
	}

	mk, err := cellkey.FromBytes(match)
	if err != nil {
		return 0, false, err
	}

	return mk.Cell(), true, nil
}

// Range invokes fn for each cell in the set, in hierarchical order.
//
// Each call ranges anew; ranging performs no mutation and may run
// concurrently with any other operation on the set.
func (s *Set) Range(fn RangeFunc) error {
	return s.rangeBetween(nil, nil, fn)
}

// Between invokes fn for each cell in the set whose key is at least that
// of lo and less than that of hi, in hierarchical order.
func (s *Set) Between(lo, hi h3.Cell, fn RangeFunc) error {
	klo, err := cellkey.FromCell(lo)
	if err != nil {
		return err
	}

	khi, err := cellkey.FromCell(hi)
	if err != nil {
		return err
	}

	return s.rangeBetween(klo.Bytes(), khi.Bytes(), fn)
}

// Descendants invokes fn for each member of the set that is a proper
// descendant of cell, in hierarchical order.
func (s *Set) Descendants(cell h3.Cell, fn RangeFunc) error {
	k, err := cellkey.FromCell(cell)
	if err != nil {
		return err
	}

	start, end := prefix.DescendantRange(k.Bytes())

	return s.rangeBetween(start, end, fn)
}

// Bytes returns the serialized form of the set, suitable for [New].
//
// The returned slice must not be modified. It is nil for sets opened with
// [OpenFile], which do not own their bytes.
func (s *Set) Bytes() []byte {
	return s.data
}

// Close releases any resources held by the set. For memory-mapped sets
// this unmaps the backing file.
func (s *Set) Close() error {
	return s.fst.Close()
}

func (s *Set) rangeBetween(start, end []byte, fn RangeFunc) error {
	itr, err := s.fst.Iterator(start, end)
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil
	}
	if err != nil {
		return err
	}

	for {
		kb, _ := itr.Current()

		k, err := cellkey.FromBytes(kb)
		if err != nil {
			return err
		}

		ok, err := fn(k.Cell())
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
