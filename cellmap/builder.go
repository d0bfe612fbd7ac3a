package cellmap

import (
	"bytes"
	"errors"
	"io"
	"iter"

	"github.com/blevesearch/vellum"
	"github.com/hexfrost/frozenkit/cellkey"
	"github.com/uber/h3-go/v4"
)

// A Builder constructs a [Map] from cell/value pairs supplied in strictly
// increasing hierarchical key order.
//
// Construction is single-pass: each pair is validated, encoded and
// forwarded to the transducer as it arrives, so the input never needs to
// be materialized in memory. A builder is for use by a single goroutine.
//
// There are no partial results: if any insertion fails the build is
// abandoned and the caller must start over with corrected input.
type Builder struct {
	b   *vellum.Builder
	seq cellkey.Sequence

	// buf accumulates the output of a memory builder. It is nil for
	// builders streaming to a caller-supplied writer.
	buf *bytes.Buffer
}

// NewBuilder returns a builder that writes the serialized map to w in a
// streaming fashion. Call [Builder.Close] to finish; the written bytes may
// then be loaded with [New] or [OpenFile].
func NewBuilder(w io.Writer) (*Builder, error) {
	b, err := vellum.New(w, nil)
	if err != nil {
		return nil, err
	}

	return &Builder{b: b}, nil
}

// NewMemoryBuilder returns a builder that builds a map in memory. Call
// [Builder.Map] to finish.
func NewMemoryBuilder() (*Builder, error) {
	buf := &bytes.Buffer{}

	b, err := vellum.New(buf, nil)
	if err != nil {
		return nil, err
	}

	return &Builder{b: b, buf: buf}, nil
}

// Insert adds a cell/value pair to the map under construction.
//
// It fails with [cellkey.InvalidCellError] if cell is malformed, and with
// [cellkey.DuplicateKeyError] or [cellkey.OutOfOrderKeyError] if cell does
// not sort strictly after every cell inserted before it.
func (b *Builder) Insert(cell h3.Cell, value uint64) error {
	k, err := cellkey.FromCell(cell)
	if err != nil {
		return err
	}

	if err := b.seq.Next(k); err != nil {
		return err
	}

	return b.b.Insert(k.Bytes(), value)
}

// Entry is a cell/value pair, as consumed by [Builder.InsertSeq] and
// produced by [FromEntries].
type Entry struct {
	Cell  h3.Cell
	Value uint64
}

// InsertSeq calls [Builder.Insert] for each entry in the sequence, which
// is consumed exactly once.
//
// If an insertion fails, consumption stops and the error is returned.
func (b *Builder) InsertSeq(entries iter.Seq[Entry]) error {
	for e := range entries {
		if err := b.Insert(e.Cell, e.Value); err != nil {
			return err
		}
	}

	return nil
}

// Close finishes construction and flushes the underlying writer.
func (b *Builder) Close() error {
	return b.b.Close()
}

// Map finishes construction and returns the built map, for builders
// created with [NewMemoryBuilder].
func (b *Builder) Map() (*Map, error) {
	if b.buf == nil {
		return nil, errors.New("builder streams to an external writer; load the written bytes instead")
	}

	if err := b.b.Close(); err != nil {
		return nil, err
	}

	return New(b.buf.Bytes())
}

// FromEntries returns a map of the given entries, which must have unique
// cells sorted in hierarchical order.
func FromEntries(entries ...Entry) (*Map, error) {
	b, err := NewMemoryBuilder()
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if err := b.Insert(e.Cell, e.Value); err != nil {
			return nil, err
		}
	}

	return b.Map()
}
