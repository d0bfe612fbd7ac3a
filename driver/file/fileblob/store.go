// Package fileblob provides a filesystem implementation of [blob.Store].
package fileblob

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hexfrost/frozenkit/blob"
)

// Store is an implementation of [blob.Store] that keeps each blob in its
// own file within a directory.
//
// Blob names are escaped to form safe file names, so any name is
// acceptable. Files written by a Store are plain serialized blobs and may
// be memory-mapped directly, for example with cellset.OpenFile.
type Store struct {
	// Dir is the directory that holds the blobs. It must exist.
	Dir string
}

// Read returns the blob with the given name.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, blob.NotFoundError{Name: name}
	}

	return data, err
}

// Write stores data under the given name.
//
// The file is created exclusively, so concurrent writers of the same name
// race safely: exactly one wins and the others fail with
// [blob.ConflictError].
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.Path(name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return blob.ConflictError{Name: name}
	}
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}

	return nil
}

// Path returns the path of the file that holds the named blob.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, url.PathEscape(name))
}
