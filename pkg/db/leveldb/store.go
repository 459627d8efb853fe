// Package leveldb implements the engine boundary on top of
// github.com/syndtr/goleveldb. Its option surface maps one to one onto
// the classic LevelDB knobs.
package leveldb

import (
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Engine is a goleveldb-backed db.Engine.
type Engine struct {
	db *leveldb.DB

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates a leveldb database at path.
func Open(path string, o *db.Options) (*Engine, error) {
	ldb, err := leveldb.OpenFile(path, engineOpts(o))
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &Engine{db: ldb}, nil
}

// OpenMemory opens a database backed by in-process memory storage,
// mainly for tests.
func OpenMemory(o *db.Options) (*Engine, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), engineOpts(o))
	if err != nil {
		return nil, fmt.Errorf("open leveldb memory storage: %w", err)
	}
	return &Engine{db: ldb}, nil
}

func engineOpts(o *db.Options) *opt.Options {
	if o == nil {
		o = &db.Options{}
	}
	opts := &opt.Options{
		ErrorIfMissing:         o.ErrorIfMissing,
		ErrorIfExist:           o.ErrorIfExists,
		WriteBuffer:            o.WriteBufferSize,
		OpenFilesCacheCapacity: o.MaxOpenFiles,
		BlockCacheCapacity:     int(o.CacheSize),
		BlockSize:              o.BlockSize,
		BlockRestartInterval:   o.BlockRestartInterval,
	}
	if o.ParanoidChecks {
		opts.Strict = opt.StrictAll
	}
	switch o.Compression {
	case db.NoCompression:
		opts.Compression = opt.NoCompression
	default:
		opts.Compression = opt.SnappyCompression
	}
	if o.BloomFilterBits > 0 {
		opts.Filter = filter.NewBloomFilter(o.BloomFilterBits)
	}
	if cmp := o.GetComparer(); cmp != db.Bytewise {
		opts.Comparer = ldbComparer{cmp}
	}
	return opts
}

// ldbComparer adapts a db.Comparer. No key shortening: Separator and
// Successor returning nil keeps the keys as they are, which is correct
// for any order.
type ldbComparer struct {
	cmp db.Comparer
}

func (c ldbComparer) Compare(a, b []byte) int          { return c.cmp.Compare(a, b) }
func (c ldbComparer) Name() string                     { return c.cmp.Name() }
func (c ldbComparer) Separator(_, _, _ []byte) []byte  { return nil }
func (c ldbComparer) Successor(_, _ []byte) []byte     { return nil }

func (e *Engine) Get(ro *db.ReadOptions, key []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}

	value, err := e.db.Get(key, readOpts(ro))
	if err != nil {
		return nil, mapError(err)
	}
	return value, nil
}

func (e *Engine) Put(wo *db.WriteOptions, key, value []byte) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	return mapError(e.db.Put(key, value, writeOpts(wo)))
}

func (e *Engine) Delete(wo *db.WriteOptions, key []byte) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	return mapError(e.db.Delete(key, writeOpts(wo)))
}

func (e *Engine) Property(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return "", false
	}
	switch name {
	case "stats", "metrics":
		name = "leveldb.stats"
	}
	value, err := e.db.GetProperty(name)
	if err != nil {
		return "", false
	}
	return value, true
}

func (e *Engine) CompactRange(start, limit []byte) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	return mapError(e.db.CompactRange(util.Range{Start: start, Limit: limit}))
}

func (e *Engine) ApproximateSizes(ranges []db.Range) ([]uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}

	rs := make([]util.Range, len(ranges))
	for i, r := range ranges {
		rs[i] = util.Range{Start: r.Start, Limit: r.Limit}
	}
	sizes, err := e.db.SizeOf(rs)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]uint64, len(sizes))
	for i, s := range sizes {
		out[i] = uint64(s)
	}
	return out, nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.db.Close()
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case err == leveldb.ErrNotFound:
		return db.ErrNotFound
	case ldberrors.IsCorrupted(err):
		return fmt.Errorf("%w: %v", db.ErrCorruption, err)
	default:
		return err
	}
}

func readOpts(ro *db.ReadOptions) *opt.ReadOptions {
	if ro == nil {
		return nil
	}
	out := &opt.ReadOptions{DontFillCache: ro.DontFillCache}
	if ro.VerifyChecksums {
		out.Strict = opt.StrictBlockChecksum
	}
	return out
}

func writeOpts(wo *db.WriteOptions) *opt.WriteOptions {
	if wo.GetSync() {
		return &opt.WriteOptions{Sync: true}
	}
	return nil
}
