package cellmap

import (
	"context"
	"errors"
	"fmt"

	"github.com/hexfrost/frozenkit/blob"
)

// Load reads the named blob from store and returns the map it contains.
//
// The returned map borrows the blob's bytes; no keys are re-parsed. It
// fails with [blob.NotFoundError] if the blob does not exist, and with
// [CorruptBlobError] if its content is not a valid map.
func Load(ctx context.Context, store blob.Store, name string) (_ *Map, err error) {
	defer wrap(&err, "loading frozen map from blob %q", name)

	data, err := store.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	return New(data)
}

// Save writes the serialized form of the map to store under the given
// name.
//
// It fails with [blob.ConflictError] if the name is already in use, and
// for maps opened with [OpenFile], which do not own their bytes.
func (m *Map) Save(ctx context.Context, store blob.Store, name string) (err error) {
	defer wrap(&err, "saving frozen map to blob %q", name)

	if m.data == nil {
		return errors.New("map does not own its bytes")
	}

	return store.Write(ctx, name, m.data)
}

// wrap adds context to an error, leaving the well-known kinds that callers
// match on untouched.
func wrap(err *error, format string, args ...any) {
	if *err == nil {
		return
	}

	if blob.IsNotFound(*err) || blob.IsConflict(*err) {
		return
	}

	*err = fmt.Errorf(format+": %w", append(args, *err)...)
}
