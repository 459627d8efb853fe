package leveldb

import (
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Snapshot is a pinned goleveldb read view.
type Snapshot struct {
	snap     *leveldb.Snapshot
	released atomic.Bool
}

func (e *Engine) GetSnapshot() (db.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}
	snap, err := e.db.GetSnapshot()
	if err != nil {
		return nil, mapError(err)
	}
	return &Snapshot{snap: snap}, nil
}

func (s *Snapshot) Get(ro *db.ReadOptions, key []byte) ([]byte, error) {
	if s.released.Load() {
		return nil, ErrSnapshotReleased
	}
	value, err := s.snap.Get(key, readOpts(ro))
	if err != nil {
		return nil, mapError(err)
	}
	return value, nil
}

func (s *Snapshot) NewCursor(ro *db.ReadOptions) (db.Cursor, error) {
	if s.released.Load() {
		return nil, ErrSnapshotReleased
	}
	return &Cursor{iter: s.snap.NewIterator(nil, readOpts(ro))}, nil
}

func (s *Snapshot) Release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	s.snap.Release()
}
