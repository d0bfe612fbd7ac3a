package cellkey

import (
	"errors"
	"fmt"

	"github.com/uber/h3-go/v4"
)

// InvalidCellError indicates that a value is not a valid H3 cell index.
//
// It is returned by [FromCell] when given a malformed cell, and by
// [FromBytes] when a byte sequence read from a corrupt buffer does not
// decode to a valid cell.
type InvalidCellError struct {
	// Cell is the invalid value.
	Cell h3.Cell
}

func (e InvalidCellError) Error() string {
	return fmt.Sprintf("%#x is not a valid H3 cell index", uint64(e.Cell))
}

// MalformedKeyError indicates that the length of an encoded key does not
// correspond to any resolution.
type MalformedKeyError struct {
	// Length is the length of the malformed key, in bytes.
	Length int
}

func (e MalformedKeyError) Error() string {
	return fmt.Sprintf(
		"encoded keys are between 1 and %d bytes long, got %d",
		MaxSize,
		e.Length,
	)
}

// DuplicateKeyError indicates that a cell was presented to a builder more
// than once.
type DuplicateKeyError struct {
	// Index is the zero-based position of the offending cell within the
	// input sequence.
	Index int

	// Cell is the duplicated cell.
	Cell h3.Cell
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf(
		"cell %s at position %d duplicates the previous key",
		e.Cell,
		e.Index,
	)
}

func (DuplicateKeyError) isOrderViolation() {}

// OutOfOrderKeyError indicates that a cell was presented to a builder out
// of hierarchical order.
type OutOfOrderKeyError struct {
	// Index is the zero-based position of the offending cell within the
	// input sequence.
	Index int

	// Cell is the out-of-order cell.
	Cell h3.Cell

	// Prev is the cell that preceded it.
	Prev h3.Cell
}

func (e OutOfOrderKeyError) Error() string {
	return fmt.Sprintf(
		"cell %s at position %d sorts before its predecessor %s",
		e.Cell,
		e.Index,
		e.Prev,
	)
}

func (OutOfOrderKeyError) isOrderViolation() {}

// IsOrderViolation returns true if err is caused by [DuplicateKeyError] or
// [OutOfOrderKeyError].
func IsOrderViolation(err error) bool {
	var target interface {
		isOrderViolation()
	}

	return errors.As(err, &target)
}
