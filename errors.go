package keyspan

import "errors"

var (
	// ErrClosed is returned by any operation on a closed store, or on a
	// batch whose store has closed.
	ErrClosed = errors.New("keyspan: store is closed")

	// ErrIterClosed is reported by an iterator that was closed, either
	// explicitly or by its store shutting down.
	ErrIterClosed = errors.New("keyspan: iterator is closed")

	// ErrSnapshotReleased is returned by reads through a snapshot that
	// has already been released.
	ErrSnapshotReleased = errors.New("keyspan: snapshot already released")

	// ErrConflictingBounds rejects iterator options combining Prefix
	// with Start or Stop.
	ErrConflictingBounds = errors.New("keyspan: prefix cannot be combined with start or stop")

	ErrUnknownBackend = errors.New("keyspan: unknown backend")
)
