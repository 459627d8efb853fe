package pebble

import (
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Snapshot is a pinned pebble read view.
type Snapshot struct {
	snap     *pebble.Snapshot
	released atomic.Bool
}

func (e *Engine) GetSnapshot() (db.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}
	return &Snapshot{snap: e.db.NewSnapshot()}, nil
}

func (s *Snapshot) Get(_ *db.ReadOptions, key []byte) ([]byte, error) {
	if s.released.Load() {
		return nil, ErrSnapshotReleased
	}

	value, closer, err := s.snap.Get(key)
	if err == pebble.ErrNotFound {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (s *Snapshot) NewCursor(_ *db.ReadOptions) (db.Cursor, error) {
	if s.released.Load() {
		return nil, ErrSnapshotReleased
	}
	iter, err := s.snap.NewIter(nil)
	if err != nil {
		return nil, err
	}
	return &Cursor{iter: iter}, nil
}

func (s *Snapshot) Release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	_ = s.snap.Close()
}
