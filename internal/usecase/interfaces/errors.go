package interfaces

import "errors"

var (
	// ErrVersionConflict is returned by conditional updates when another
	// writer got there first.
	ErrVersionConflict = errors.New("version conflict")
	// ErrTransientStore marks retryable persistence failures (throttling,
	// unavailable backend). Wrapped with %w by repositories.
	ErrTransientStore = errors.New("transient store failure")
)
