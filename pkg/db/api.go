package db

// Engine is the boundary to an embedded ordered key-value storage engine.
// Implementations own the on-disk (or in-memory) state and provide the
// primitives the client layer composes: point reads and writes, atomic
// batches, ordered bidirectional cursors and point-in-time snapshots.
//
// Keys and values are opaque byte strings ordered by the Comparer the
// engine was opened with.
type Engine interface {
	Reader

	Put(wo *WriteOptions, key, value []byte) error
	Delete(wo *WriteOptions, key []byte) error

	// NewBatch returns an empty batch bound to this engine. The batch is
	// applied atomically by Write.
	NewBatch() Batch
	Write(wo *WriteOptions, b Batch) error

	// GetSnapshot pins the current state of the engine. The returned
	// snapshot must be released while the engine is still open.
	GetSnapshot() (Snapshot, error)

	// Property returns an implementation-specific property value, and
	// whether the property name is known to the engine.
	Property(name string) (string, bool)
	CompactRange(start, limit []byte) error
	ApproximateSizes(ranges []Range) ([]uint64, error)

	Close() error
}

// Reader is the read surface shared by Engine and Snapshot.
type Reader interface {
	// Get returns the value for key, or ErrNotFound. The returned slice
	// is owned by the caller.
	Get(ro *ReadOptions, key []byte) ([]byte, error)

	// NewCursor returns an unpositioned cursor over the full key range.
	NewCursor(ro *ReadOptions) (Cursor, error)
}

// Cursor is the engine's native iteration primitive. A cursor is not safe
// for concurrent use and must be closed after use. Key and Value return
// slices that are only valid until the next positioning call.
type Cursor interface {
	First() bool
	Last() bool
	// Seek positions the cursor at the first entry with key >= target.
	Seek(target []byte) bool
	Next() bool
	Prev() bool
	Valid() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// Snapshot is a pinned point-in-time read view. Release must be called
// exactly once while the owning engine is still open; implementations
// tolerate repeated calls.
type Snapshot interface {
	Reader
	Release()
}

// Batch accumulates put and delete operations for atomic application.
// Later operations override earlier ones on the same key.
type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Clear()
	// Len reports the number of staged operations.
	Len() int
}

// Range is a half-open key range [Start, Limit).
type Range struct {
	Start []byte
	Limit []byte
}
