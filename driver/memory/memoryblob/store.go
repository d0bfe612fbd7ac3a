// Package memoryblob provides an in-memory implementation of
// [blob.Store].
package memoryblob

import (
	"context"
	"slices"
	"sync"

	"github.com/hexfrost/frozenkit/blob"
)

// Store is an in-memory implementation of [blob.Store].
//
// The zero value is an empty store, ready for use.
type Store struct {
	blobs sync.Map // map[string][]byte
}

// Read returns the blob with the given name.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	v, ok := s.blobs.Load(name)
	if !ok {
		return nil, blob.NotFoundError{Name: name}
	}

	return slices.Clone(v.([]byte)), ctx.Err()
}

// Write stores data under the given name.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	if _, loaded := s.blobs.LoadOrStore(name, slices.Clone(data)); loaded {
		return blob.ConflictError{Name: name}
	}

	return ctx.Err()
}
