package keyspan

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pixelglow/keyspan/pkg/db"
	"github.com/pixelglow/keyspan/pkg/db/leveldb"
	"github.com/pixelglow/keyspan/pkg/db/pebble"
	"github.com/pixelglow/keyspan/pkg/log"
)

// Store owns an engine connection and tracks every live iterator and
// snapshot created through it. Closing the store force-closes the
// survivors before the engine connection goes away, so no native cursor
// can outlive the engine it points into.
//
// A store is safe for concurrent use; individual iterators and
// snapshots are not.
type Store struct {
	engine db.Engine
	cmp    db.Comparer
	closed atomic.Bool

	// mu guards only the registries below, never data operations.
	mu     sync.Mutex
	iters  map[uint64]*Iterator
	snaps  map[uint64]*Snapshot
	nextID uint64
}

// Open opens or creates a store at path with the backend selected by
// o.Backend.
func Open(path string, o *Options) (*Store, error) {
	backend := o.backend()

	var eo *db.Options
	if o != nil {
		eo = &o.Options
	}

	var (
		engine db.Engine
		err    error
	)
	switch backend {
	case BackendPebble:
		engine, err = pebble.Open(path, eo)
	case BackendLevelDB:
		engine, err = leveldb.Open(path, eo)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}

	log.Store.Debug().Str("path", path).Str("backend", string(backend)).Msg("store opened")
	return New(engine, eo.GetComparer()), nil
}

// New wraps a caller-supplied engine. cmp must be the comparer the
// engine was opened with; nil means the bytewise default.
func New(engine db.Engine, cmp db.Comparer) *Store {
	if cmp == nil {
		cmp = db.Bytewise
	}
	return &Store{
		engine: engine,
		cmp:    cmp,
		iters:  make(map[uint64]*Iterator),
		snaps:  make(map[uint64]*Snapshot),
	}
}

// Get returns the value stored for key, or nil when the key is absent.
// Absence is not an error at this layer.
func (s *Store) Get(key []byte, ro *db.ReadOptions) ([]byte, error) {
	return s.read(s.engine, nil, key, nil, ro)
}

// GetDefault is Get with a caller-supplied default for absent keys.
func (s *Store) GetDefault(key, def []byte, ro *db.ReadOptions) ([]byte, error) {
	return s.read(s.engine, nil, key, def, ro)
}

// Has reports whether key is present.
func (s *Store) Has(key []byte, ro *db.ReadOptions) (bool, error) {
	return s.has(s.engine, nil, key, ro)
}

func (s *Store) Put(key, value []byte, wo *db.WriteOptions) error {
	return s.put(nil, key, value, wo)
}

func (s *Store) Delete(key []byte, wo *db.WriteOptions) error {
	return s.del(nil, key, wo)
}

// Sub returns a namespace view of the store rooted at prefix.
func (s *Store) Sub(prefix []byte) *Namespace {
	return &Namespace{store: s, prefix: append([]byte(nil), prefix...)}
}

// Property returns an engine property value by name and whether the
// name was recognized. The generic names "stats" and "metrics" work on
// every backend.
func (s *Store) Property(name string) (string, bool) {
	if s.closed.Load() {
		return "", false
	}
	return s.engine.Property(name)
}

// CompactRange compacts the engine's files for the half-open key range
// [start, limit). Nil ends mean the respective extreme of the store.
func (s *Store) CompactRange(start, limit []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.engine.CompactRange(start, limit)
}

// ApproximateSizes estimates the on-disk footprint of the given ranges.
func (s *Store) ApproximateSizes(ranges []db.Range) ([]uint64, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	return s.engine.ApproximateSizes(ranges)
}

// Close force-closes every registered iterator, releases every pinned
// snapshot and then closes the engine connection. It is idempotent;
// afterwards all operations on the store and its views fail.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return nil
	}
	s.closed.Store(true)

	leakedIters := len(s.iters)
	for id, it := range s.iters {
		it.forceClose()
		delete(s.iters, id)
	}
	leakedSnaps := len(s.snaps)
	for id, snap := range s.snaps {
		snap.forceRelease()
		delete(s.snaps, id)
	}
	s.mu.Unlock()

	if leakedIters > 0 || leakedSnaps > 0 {
		log.Store.Warn().
			Int("iterators", leakedIters).
			Int("snapshots", leakedSnaps).
			Msg("reclaimed resources left open at store close")
	}
	return s.engine.Close()
}

func (s *Store) read(r db.Reader, prefix, key, def []byte, ro *db.ReadOptions) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	value, err := r.Get(ro, join(prefix, key))
	if errors.Is(err, db.ErrNotFound) {
		return def, nil
	}
	return value, err
}

func (s *Store) has(r db.Reader, prefix, key []byte, ro *db.ReadOptions) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	_, err := r.Get(ro, join(prefix, key))
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) put(prefix, key, value []byte, wo *db.WriteOptions) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.engine.Put(wo, join(prefix, key), value)
}

func (s *Store) del(prefix, key []byte, wo *db.WriteOptions) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.engine.Delete(wo, join(prefix, key))
}

// register adds it to the live-iterator registry and assigns its id.
func (s *Store) register(it *Iterator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}
	s.nextID++
	it.id = s.nextID
	s.iters[it.id] = it
	return nil
}

func (s *Store) deregister(id uint64) {
	s.mu.Lock()
	delete(s.iters, id)
	s.mu.Unlock()
}

func (s *Store) registerSnapshot(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}
	s.nextID++
	snap.id = s.nextID
	s.snaps[snap.id] = snap
	return nil
}

func (s *Store) deregisterSnapshot(id uint64) {
	s.mu.Lock()
	delete(s.snaps, id)
	s.mu.Unlock()
}
