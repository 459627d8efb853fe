package keyspan

import (
	"sync/atomic"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Snapshot is a pinned point-in-time read view of a store, optionally
// confined to a namespace prefix. Reads and iterators created through
// it see the store as it was when the snapshot was taken; later writes
// are invisible. A snapshot must be released exactly once while the
// store is open; releasing after the store closed is a no-op because
// store close already discards every pinned view.
//
// A snapshot is not safe for concurrent use.
type Snapshot struct {
	store    *Store
	id       uint64
	prefix   []byte
	ref      db.Snapshot
	released atomic.Bool
}

// GetSnapshot pins the current state of the store.
func (s *Store) GetSnapshot() (*Snapshot, error) {
	return s.newSnapshot(nil)
}

func (s *Store) newSnapshot(prefix []byte) (*Snapshot, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	ref, err := s.engine.GetSnapshot()
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{store: s, prefix: prefix, ref: ref}
	if err := s.registerSnapshot(snap); err != nil {
		ref.Release()
		return nil, err
	}
	return snap, nil
}

func (snap *Snapshot) Get(key []byte, ro *db.ReadOptions) ([]byte, error) {
	if snap.released.Load() {
		return nil, ErrSnapshotReleased
	}
	return snap.store.read(snap.ref, snap.prefix, key, nil, ro)
}

func (snap *Snapshot) GetDefault(key, def []byte, ro *db.ReadOptions) ([]byte, error) {
	if snap.released.Load() {
		return nil, ErrSnapshotReleased
	}
	return snap.store.read(snap.ref, snap.prefix, key, def, ro)
}

func (snap *Snapshot) Has(key []byte, ro *db.ReadOptions) (bool, error) {
	if snap.released.Load() {
		return false, ErrSnapshotReleased
	}
	return snap.store.has(snap.ref, snap.prefix, key, ro)
}

// NewIterator returns an iterator reading through the pinned view. The
// iterator registers with the store like any other and is force-closed
// at store shutdown.
func (snap *Snapshot) NewIterator(o *IterOptions) (*Iterator, error) {
	if snap.released.Load() {
		return nil, ErrSnapshotReleased
	}
	return snap.store.newIterator(snap.ref, snap.prefix, o)
}

// Release unpins the snapshot. It is idempotent, and a no-op once the
// store has closed.
func (snap *Snapshot) Release() {
	if !snap.released.CompareAndSwap(false, true) {
		return
	}
	if snap.store.closed.Load() {
		return
	}
	snap.store.deregisterSnapshot(snap.id)
	snap.ref.Release()
}

// forceRelease is Release for the store's shutdown path; the registry
// lock is already held by the caller.
func (snap *Snapshot) forceRelease() {
	if !snap.released.CompareAndSwap(false, true) {
		return
	}
	snap.ref.Release()
}
