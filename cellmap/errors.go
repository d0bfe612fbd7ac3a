package cellmap

import (
	"errors"
	"fmt"
)

// CorruptBlobError is returned by [New] and [Load] if a buffer does not
// contain a valid serialized map.
type CorruptBlobError struct {
	// Cause is the integrity-check failure reported by the engine.
	Cause error
}

func (e CorruptBlobError) Error() string {
	return fmt.Sprintf("corrupt frozen-map blob: %s", e.Cause)
}

func (e CorruptBlobError) Unwrap() error {
	return e.Cause
}

// IsCorruptBlob returns true if err is caused by [CorruptBlobError].
func IsCorruptBlob(err error) bool {
	return errors.As(err, &CorruptBlobError{})
}
