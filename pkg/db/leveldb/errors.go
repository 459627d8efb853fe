package leveldb

import "errors"

var (
	ErrClosed           = errors.New("leveldb: engine is closed")
	ErrSnapshotReleased = errors.New("leveldb: snapshot already released")
	ErrForeignBatch     = errors.New("leveldb: batch was not created by this engine")
)
