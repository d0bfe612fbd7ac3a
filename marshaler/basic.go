package marshaler

import (
	"errors"
	"time"
)

var (
	// Uint64 marshals and unmarshals the built-in uint64 type as itself.
	Uint64 = New(
		func(v uint64) (uint64, error) {
			return v, nil
		},
		func(w uint64) (uint64, error) {
			return w, nil
		},
	)

	// Int64 marshals and unmarshals the built-in int64 type by
	// reinterpreting its two's-complement bits.
	Int64 = New(
		func(v int64) (uint64, error) {
			return uint64(v), nil
		},
		func(w uint64) (int64, error) {
			return int64(w), nil
		},
	)

	// Bool marshals and unmarshals the built-in bool type.
	Bool = New(
		func(v bool) (uint64, error) {
			if v {
				return 1, nil
			}
			return 0, nil
		},
		func(w uint64) (bool, error) {
			return w != 0, nil
		},
	)

	// Time marshals and unmarshals [time.Time] as milliseconds since the
	// Unix epoch, in UTC. Times before the epoch cannot be marshaled.
	Time = New(
		func(v time.Time) (uint64, error) {
			ms := v.UnixMilli()
			if ms < 0 {
				return 0, errors.New("cannot marshal a time before the Unix epoch")
			}
			return uint64(ms), nil
		},
		func(w uint64) (time.Time, error) {
			return time.UnixMilli(int64(w)).UTC(), nil
		},
	)
)
