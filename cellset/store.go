package cellset

import (
	"context"
	"errors"
	"fmt"

	"github.com/hexfrost/frozenkit/blob"
)

// Load reads the named blob from store and returns the set it contains.
//
// The returned set borrows the blob's bytes; no keys are re-parsed. It
// fails with [blob.NotFoundError] if the blob does not exist, and with
// [CorruptBlobError] if its content is not a valid set.
func Load(ctx context.Context, store blob.Store, name string) (_ *Set, err error) {
	defer wrap(&err, "loading frozen set from blob %q", name)

	data, err := store.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	return New(data)
}

// Save writes the serialized form of the set to store under the given
// name.
//
// It fails with [blob.ConflictError] if the name is already in use, and
// for sets opened with [OpenFile], which do not own their bytes.
func (s *Set) Save(ctx context.Context, store blob.Store, name string) (err error) {
	defer wrap(&err, "saving frozen set to blob %q", name)

	if s.data == nil {
		return errors.New("set does not own its bytes")
	}

	return store.Write(ctx, name, s.data)
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
