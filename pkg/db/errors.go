package db

import "errors"

var (
	// ErrNotFound is returned by reads of absent keys. The client layer
	// maps it to a caller-supplied default, never surfaces it raw.
	ErrNotFound = errors.New("db: key not found")

	// ErrCorruption wraps detected data corruption. Never retried.
	ErrCorruption = errors.New("db: corruption")

	// ErrNotSupported is returned for administrative operations an
	// engine does not implement.
	ErrNotSupported = errors.New("db: operation not supported by engine")
)
