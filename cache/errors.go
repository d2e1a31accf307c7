package cache

import "errors"

// Sentinel errors returned by cache operations. Callers should compare with
// errors.Is, since serialization failures wrap the underlying codec error.
var (
	// ErrNotFound is returned by Get, Update, and Delete when id is absent.
	ErrNotFound = errors.New("cache: not found")

	// ErrInvalidMode is returned by New when Options.Mode is outside
	// {LRU, LRA, LFU}.
	ErrInvalidMode = errors.New("cache: invalid mode")

	// ErrInvalidLimit is returned by New when MemoryLimitMB is non-positive
	// or SerializeLimitMB is negative.
	ErrInvalidLimit = errors.New("cache: invalid limit")

	// ErrCapacityExceeded is returned by Put/Update when a single value's
	// charged size alone exceeds the memory limit. The cache is left
	// unchanged.
	ErrCapacityExceeded = errors.New("cache: capacity exceeded")

	// ErrSerialization wraps a codec encode/decode failure. The entry, if
	// it existed prior to the failing operation, is preserved unchanged.
	ErrSerialization = errors.New("cache: serialization failure")
)
