// Package cellkey encodes H3 cells as hierarchy-preserving byte keys.
//
// The encoded form of a cell is its base cell number followed by one byte
// per meaningful digit, truncated at the cell's own resolution. Two
// properties follow from this layout and are relied upon by the frozen
// containers:
//
//   - the key of a cell's ancestor is a byte prefix of the cell's own key;
//   - lexicographic order of keys is the canonical depth-first hierarchical
//     order of cells.
//
// Note that the raw numeric order of H3 indexes is NOT the same order: the
// index packs the resolution above the digits and pads unused digits with
// all-ones, so callers sorting cells for a builder must use [Compare]
// rather than comparing raw index values.
package cellkey

import (
	"bytes"
	"cmp"

	"github.com/uber/h3-go/v4"
)

const (
	// MaxSize is the longest possible encoded key: one byte for the base
	// cell followed by one byte per resolution (1..=15).
	MaxSize = 16

	// maxBaseCell is the largest valid H3 base cell number.
	maxBaseCell = 121

	// maxDigit is the largest valid child digit.
	maxDigit = 6

	// maxResolution is the finest H3 resolution.
	maxResolution = 15

	// H3 index bit layout.
	resolutionOffset = 52
	baseCellOffset   = 45
	digitBits        = 3

	// originCell is an H3 index with mode 1, resolution 0, base cell 0 and
	// every digit set to the unused sentinel.
	originCell = 0x8001fffffffffff
)

// Key is the encoded form of an H3 cell.
//
// The zero value is the key of base cell 0 at resolution 0.
type Key struct {
	data [MaxSize]byte
	res  uint8
}

// FromCell returns the key encoding c.
//
// It fails with [InvalidCellError] if c is not a valid H3 cell index.
func FromCell(c h3.Cell) (Key, error) {
	if !c.IsValid() {
		return Key{}, InvalidCellError{Cell: c}
	}

	k := Key{res: uint8(c.Resolution())}
	k.data[0] = byte(c.BaseCellNumber())

	for r := 1; r <= int(k.res); r++ {
		k.data[r] = digitAt(uint64(c), r)
	}

	return k, nil
}

// FromBytes reconstructs a key from its encoded form, at the resolution
// implied by the length of data.
//
// It fails with [MalformedKeyError] if the length of data does not
// correspond to any resolution, or [InvalidCellError] if the content does
// not describe a valid cell. Neither occurs for keys produced by
// [FromCell], but data read from an externally supplied buffer cannot be
// assumed well-formed.
func FromBytes(data []byte) (Key, error) {
	if len(data) == 0 || len(data) > MaxSize {
		return Key{}, MalformedKeyError{Length: len(data)}
	}

	var k Key
	k.res = uint8(len(data) - 1)
	copy(k.data[:], data)

	if k.data[0] > maxBaseCell {
		return Key{}, InvalidCellError{Cell: k.Cell()}
	}

	for r := 1; r <= int(k.res); r++ {
		if k.data[r] > maxDigit {
			return Key{}, InvalidCellError{Cell: k.Cell()}
		}
	}

	// The per-byte checks above keep each field within its bit width; this
	// catches what they cannot, such as a pentagon's deleted subsequence.
	if c := k.Cell(); !c.IsValid() {
		return Key{}, InvalidCellError{Cell: c}
	}

	return k, nil
}

// Cell returns the cell that k encodes.
func (k Key) Cell() h3.Cell {
	index := uint64(originCell)
	index |= uint64(k.res) << resolutionOffset
	index |= uint64(k.data[0]) << baseCellOffset

	for r := 1; r <= int(k.res); r++ {
		offset := digitOffset(r)
		index = index&^(0b111<<offset) | uint64(k.data[r])<<offset
	}

	return h3.Cell(index)
}

// Bytes returns the encoded form of k. Its length is the cell's resolution
// plus one.
func (k Key) Bytes() []byte {
	return k.data[: int(k.res)+1 : int(k.res)+1]
}

// Resolution returns the resolution of the cell that k encodes.
func (k Key) Resolution() int {
	return int(k.res)
}

// Compare returns an integer comparing k and o in hierarchical order.
func (k Key) Compare(o Key) int {
	return bytes.Compare(k.Bytes(), o.Bytes())
}

// Compare returns an integer comparing two cells in the canonical
// hierarchical order, which is the order builders require their input to
// be sorted in.
//
// Invalid cells compare by raw index value; builders reject them when
// encoding regardless.
func Compare(a, b h3.Cell) int {
	ka, errA := FromCell(a)
	kb, errB := FromCell(b)

	if errA != nil || errB != nil {
		return cmp.Compare(uint64(a), uint64(b))
	}

	return ka.Compare(kb)
}

// digitAt extracts the child digit of index at resolution r.
func digitAt(index uint64, r int) byte {
	return byte(index >> digitOffset(r) & 0b111)
}

func digitOffset(r int) uint {
	return uint((maxResolution - r) * digitBits)
}
