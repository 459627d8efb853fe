package pebble

import "errors"

var (
	ErrClosed           = errors.New("pebble: engine is closed")
	ErrSnapshotReleased = errors.New("pebble: snapshot already released")
	ErrForeignBatch     = errors.New("pebble: batch was not created by this engine")
)
