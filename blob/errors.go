package blob

import (
	"errors"
	"fmt"
)

// NotFoundError is returned by [Store.Read] if the requested blob does not
// exist.
type NotFoundError struct {
	// Name is the name of the missing blob.
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no blob named %q", e.Name)
}

// IsNotFound returns true if err is caused by [NotFoundError].
func IsNotFound(err error) bool {
	return errors.As(err, &NotFoundError{})
}

// IgnoreNotFound returns nil if err is caused by [NotFoundError].
// Otherwise it returns err unchanged.
func IgnoreNotFound(err error) error {
	if IsNotFound(err) {
		return nil
	}
	return err
}

// ConflictError is returned by [Store.Write] if the blob name is already
// in use. Blobs are immutable; a name is never overwritten.
type ConflictError struct {
	// Name is the conflicting blob name.
	Name string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("a blob named %q already exists", e.Name)
}

// IsConflict returns true if err is caused by [ConflictError].
func IsConflict(err error) bool {
	return errors.As(err, &ConflictError{})
}
