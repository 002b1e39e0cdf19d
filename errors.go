package nearcaptcha

import "github.com/k1LoW/errors"

var (
	// ErrLocationFailed is returned when the caller's coordinates cannot be resolved.
	ErrLocationFailed = errors.New("failed to resolve location")
	// ErrNoStoreFound is returned when the store locator lists no usable store.
	ErrNoStoreFound = errors.New("no store found nearby")
)
