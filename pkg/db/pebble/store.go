// Package pebble implements the engine boundary on top of
// github.com/cockroachdb/pebble.
package pebble

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Engine is a pebble-backed db.Engine.
type Engine struct {
	db    *pebble.DB
	cache *pebble.Cache

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates a pebble database at path.
func Open(path string, o *db.Options) (*Engine, error) {
	if o == nil {
		o = &db.Options{}
	}

	opts := &pebble.Options{
		ErrorIfExists:    o.ErrorIfExists,
		ErrorIfNotExists: o.ErrorIfMissing,
		MaxOpenFiles:     o.MaxOpenFiles,
		Comparer:         comparer(o.GetComparer()),
	}
	if o.WriteBufferSize > 0 {
		opts.MemTableSize = uint64(o.WriteBufferSize)
	}

	lvl := pebble.LevelOptions{}
	if o.BlockSize > 0 {
		lvl.BlockSize = o.BlockSize
	}
	if o.BlockRestartInterval > 0 {
		lvl.BlockRestartInterval = o.BlockRestartInterval
	}
	if o.BloomFilterBits > 0 {
		lvl.FilterPolicy = bloom.FilterPolicy(o.BloomFilterBits)
	}
	switch o.Compression {
	case db.NoCompression:
		lvl.Compression = pebble.NoCompression
	default:
		lvl.Compression = pebble.SnappyCompression
	}
	opts.Levels = []pebble.LevelOptions{lvl}

	var cache *pebble.Cache
	if o.CacheSize > 0 {
		cache = pebble.NewCache(o.CacheSize)
		opts.Cache = cache
	}

	pdb, err := pebble.Open(path, opts)
	if err != nil {
		if cache != nil {
			cache.Unref()
		}
		return nil, fmt.Errorf("open pebble: %w", err)
	}

	return &Engine{db: pdb, cache: cache}, nil
}

// comparer adapts a db.Comparer to pebble's comparer. Key shortening and
// abbreviation are disabled for custom orders; they are only sound for
// the bytewise order pebble ships with.
func comparer(cmp db.Comparer) *pebble.Comparer {
	if cmp == db.Bytewise {
		return pebble.DefaultComparer
	}
	c := *pebble.DefaultComparer
	c.Compare = cmp.Compare
	c.Equal = func(a, b []byte) bool { return cmp.Compare(a, b) == 0 }
	c.AbbreviatedKey = func([]byte) uint64 { return 0 }
	c.Separator = func(dst, a, _ []byte) []byte { return append(dst, a...) }
	c.Successor = func(dst, a []byte) []byte { return append(dst, a...) }
	c.Name = cmp.Name()
	return &c
}

func (e *Engine) Get(_ *db.ReadOptions, key []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}

	value, closer, err := e.db.Get(key)
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

func (e *Engine) Put(wo *db.WriteOptions, key, value []byte) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	return e.db.Set(key, value, writeOpts(wo))
}

func (e *Engine) Delete(wo *db.WriteOptions, key []byte) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	return e.db.Delete(key, writeOpts(wo))
}

func (e *Engine) Property(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return "", false
	}
	switch name {
	case "stats", "metrics":
		return e.db.Metrics().String(), true
	}
	return "", false
}

func (e *Engine) CompactRange(start, limit []byte) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	start, limit, ok, err := e.effectiveRange(start, limit)
	if err != nil || !ok {
		return err
	}
	return e.db.Compact(start, limit, true)
}

func (e *Engine) ApproximateSizes(ranges []db.Range) ([]uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}

	sizes := make([]uint64, len(ranges))
	for i, r := range ranges {
		start, limit, ok, err := e.effectiveRange(r.Start, r.Limit)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		size, err := e.db.EstimateDiskUsage(start, limit)
		if err != nil {
			return nil, err
		}
		sizes[i] = size
	}
	return sizes, nil
}

// effectiveRange substitutes the database's own key extremes for nil
// range ends; pebble's range operations need concrete keys on both
// sides. ok is false when the database is empty and there is nothing
// to cover.
func (e *Engine) effectiveRange(start, limit []byte) (_, _ []byte, ok bool, err error) {
	if start != nil && limit != nil {
		return start, limit, true, nil
	}
	iter, err := e.db.NewIter(nil)
	if err != nil {
		return nil, nil, false, err
	}
	defer iter.Close()

	if start == nil {
		if !iter.First() {
			return nil, nil, false, iter.Error()
		}
		start = append([]byte(nil), iter.Key()...)
	}
	if limit == nil {
		if !iter.Last() {
			return nil, nil, false, iter.Error()
		}
		// one past the last key
		limit = append(append([]byte(nil), iter.Key()...), 0x00)
	}
	return start, limit, true, nil
}

// Close closes the engine and drops the block cache reference it holds.
// The shared default comparer is never released.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	err := e.db.Close()
	if e.cache != nil {
		e.cache.Unref()
		e.cache = nil
	}
	return err
}

func writeOpts(wo *db.WriteOptions) *pebble.WriteOptions {
	if wo.GetSync() {
		return pebble.Sync
	}
	return pebble.NoSync
}
