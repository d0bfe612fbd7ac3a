// Package blob defines an interface for stores of named immutable blobs,
// used to persist finished frozen containers.
package blob

import "context"

// Store is a named collection of immutable binary blobs.
//
// A blob is written exactly once and never modified thereafter; stores may
// rely on this to cache freely.
type Store interface {
	// Read returns the blob with the given name.
	//
	// It fails with [NotFoundError] if no blob has that name.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores data under the given name.
	//
	// It fails with [ConflictError] if the name is already in use.
	Write(ctx context.Context, name string, data []byte) error
}
