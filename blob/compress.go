package blob

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// WithCompression returns a [Store] that compresses blobs with zstd
// before handing them to s, and decompresses them on the way back.
//
// A decompressed copy is materialized on every read, so a compressed
// store trades the zero-copy load path for space at rest.
func WithCompression(s Store) Store {
	return &compressedStore{Next: s}
}

// compressedStore is a decorator that compresses the blobs of a [Store]
// at rest.
type compressedStore struct {
	Next Store
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error

	if zstdEncoder, err = zstd.NewWriter(nil); err != nil {
		panic(err)
	}
	if zstdDecoder, err = zstd.NewReader(nil); err != nil {
		panic(err)
	}
}

func (s *compressedStore) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := s.Next.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	data, err = zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing blob %q: %w", name, err)
	}

	return data, nil
}

func (s *compressedStore) Write(ctx context.Context, name string, data []byte) error {
	return s.Next.Write(ctx, name, zstdEncoder.EncodeAll(data, nil))
}
