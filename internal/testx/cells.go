package testx

import (
	"slices"

	"github.com/hexfrost/frozenkit/cellkey"
	"github.com/uber/h3-go/v4"
	"pgregory.net/rapid"
)

// Well-known valid hexagon cells used as fixture roots. Hexagons are used
// rather than pentagons so that all seven child digits are valid at every
// level below them.
const (
	Res5Cell  = h3.Cell(0x85283473fffffff)
	Res5Cell2 = h3.Cell(0x85318d83fffffff)
	Res10Cell = h3.Cell(0x8a1fb46622dffff)
	Res15Cell = h3.Cell(0x8f2a1072b598641)
)

// ChildAt returns the child of cell carrying the given digit at the next
// finer resolution.
func ChildAt(tb rapid.TB, cell h3.Cell, digit byte) h3.Cell {
	tb.Helper()

	k, err := cellkey.FromCell(cell)
	if err != nil {
		tb.Fatal(err)
	}

	ck, err := cellkey.FromBytes(append(k.Bytes(), digit))
	if err != nil {
		tb.Fatal(err)
	}

	return ck.Cell()
}

// Descend returns the descendant of cell reached by appending the given
// digits, one resolution at a time.
func Descend(tb rapid.TB, cell h3.Cell, digits ...byte) h3.Cell {
	tb.Helper()

	for _, d := range digits {
		cell = ChildAt(tb, cell, d)
	}

	return cell
}

// Children returns the seven children of a hexagon cell, in hierarchical
// order.
func Children(tb rapid.TB, cell h3.Cell) []h3.Cell {
	tb.Helper()

	children := make([]h3.Cell, 0, 7)
	for d := byte(0); d <= 6; d++ {
		children = append(children, ChildAt(tb, cell, d))
	}

	return children
}

// SortCells sorts cells in hierarchical order, in place, and removes
// duplicates.
func SortCells(cells []h3.Cell) []h3.Cell {
	slices.SortFunc(cells, cellkey.Compare)
	return slices.Compact(cells)
}

// CellGenerator returns a rapid generator of valid H3 cells of arbitrary
// resolution.
//
// Cells are drawn by assembling a raw index from a base cell, resolution
// and digits; the small fraction of combinations that are invalid (a
// pentagon's deleted subsequence) is rejected and redrawn.
func CellGenerator() *rapid.Generator[h3.Cell] {
	return rapid.Custom(func(t *rapid.T) h3.Cell {
		const originCell = 0x8001fffffffffff

		res := rapid.IntRange(0, 15).Draw(t, "res")

		index := uint64(originCell)
		index |= uint64(res) << 52
		index |= uint64(rapid.IntRange(0, 121).Draw(t, "base")) << 45

		for r := 1; r <= res; r++ {
			offset := uint((15 - r) * 3)
			digit := uint64(rapid.IntRange(0, 6).Draw(t, "digit"))
			index = index&^(0b111<<offset) | digit<<offset
		}

		return h3.Cell(index)
	}).Filter(h3.Cell.IsValid)
}
