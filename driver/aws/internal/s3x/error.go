package s3x

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// IsNotExists returns true if err is an error that indicates the requested
// object was not found.
func IsNotExists(err error) bool {
	for err != nil {
		switch err.(type) {
		case *types.NotFound:
			return true
		case *types.NoSuchKey:
			return true
		case *types.NoSuchBucket:
			return true
		default:
			err = errors.Unwrap(err)
		}
	}

	return false
}

// IsAlreadyExists returns true if err is an error that indicates the
// requested object already exists.
func IsAlreadyExists(err error) bool {
	for err != nil {
		switch err.(type) {
		case *types.BucketAlreadyExists:
			return true
		case *types.BucketAlreadyOwnedByYou:
			return true
		default:
			err = errors.Unwrap(err)
		}
	}

	return false
}

// IgnoreAlreadyExists returns nil if err is an error that indicates the
// requested object already exists; otherwise it returns err.
func IgnoreAlreadyExists(err error) error {
	if IsAlreadyExists(err) {
		return nil
	}
	return err
}

// IsPreconditionFailed returns true if err is an error that indicates a
// write precondition was not met.
func IsPreconditionFailed(err error) bool {
	var e *smithy.GenericAPIError
	if errors.As(err, &e) {
		return e.ErrorCode() == "PreconditionFailed"
	}
	return false
}
