// Package s3blob provides an S3 implementation of [blob.Store].
package s3blob

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hexfrost/frozenkit/blob"
	"github.com/hexfrost/frozenkit/driver/aws/internal/awsx"
	"github.com/hexfrost/frozenkit/driver/aws/internal/s3x"
	"github.com/hexfrost/frozenkit/internal/syncx"
)

// store is an implementation of [blob.Store] that persists to an S3
// bucket.
type store struct {
	Client    *s3.Client
	Bucket    string
	OnRequest func(any) []func(*s3.Options)

	createBucketOnce syncx.SucceedOnce
}

// NewStore returns a new [blob.Store] that uses the given S3 client to
// store blobs in the given bucket. The bucket is created on first use if
// it does not already exist.
func NewStore(
	client *s3.Client,
	bucket string,
	options ...Option,
) blob.Store {
	if bucket == "" {
		panic("bucket name must not be empty")
	}

	s := &store{
		Client: client,
		Bucket: bucket,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Option is a functional option that changes the behavior of [NewStore].
type Option func(*store)

// WithRequestHook is an [Option] that configures fn as a pre-request hook.
//
// Before each S3 API request, fn is passed a pointer to the input struct,
// e.g. [s3.GetObjectInput], which it may modify in-place. It may be called
// with any S3 request type. The types of requests used may change in any
// version without notice.
//
// Any functions returned by fn will be applied to the request's options
// before the request is sent.
func WithRequestHook(fn func(any) []func(*s3.Options)) Option {
	return func(s *store) {
		s.OnRequest = fn
	}
}

// Read returns the blob with the given name.
func (s *store) Read(ctx context.Context, name string) ([]byte, error) {
	res, err := awsx.Do(
		ctx,
		s.Client.GetObject,
		s.OnRequest,
		&s3.GetObjectInput{
			Bucket: aws.String(s.Bucket),
			Key:    aws.String(objectKey(name)),
		},
	)
	if err != nil {
		if s3x.IsNotExists(err) {
			return nil, blob.NotFoundError{Name: name}
		}
		return nil, err
	}
	defer res.Body.Close()

	return io.ReadAll(res.Body)
}

// Write stores data under the given name.
//
// The write is preconditioned on the object not existing, so concurrent
// writers of the same name race safely: exactly one wins and the others
// fail with [blob.ConflictError].
func (s *store) Write(ctx context.Context, name string, data []byte) error {
	if err := s.createBucketOnce.Do(func() error {
		return s3x.CreateBucketIfNotExists(ctx, s.Client, s.Bucket, s.OnRequest)
	}); err != nil {
		return err
	}

	if _, err := awsx.Do(
		ctx,
		s.Client.PutObject,
		s.OnRequest,
		&s3.PutObjectInput{
			Bucket:      aws.String(s.Bucket),
			Key:         aws.String(objectKey(name)),
			Body:        bytes.NewReader(data),
			IfNoneMatch: aws.String("*"),
		},
	); err != nil {
		if s3x.IsPreconditionFailed(err) {
			return blob.ConflictError{Name: name}
		}
		return err
	}

	return nil
}

func objectKey(name string) string {
	return "blob/" + name
}
