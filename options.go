package keyspan

import "github.com/pixelglow/keyspan/pkg/db"

// Backend selects the storage engine behind a store.
type Backend string

const (
	BackendPebble  Backend = "pebble"
	BackendLevelDB Backend = "leveldb"
)

// Options configures Open. The zero value opens (or creates) a
// pebble-backed store with engine defaults and the bytewise comparer.
type Options struct {
	db.Options

	// Backend defaults to BackendPebble.
	Backend Backend
}

func (o *Options) backend() Backend {
	if o == nil || o.Backend == "" {
		return BackendPebble
	}
	return o.Backend
}

// IterOptions configures an iterator. The zero value iterates the whole
// store (or namespace) forward, start included, stop excluded, yielding
// keys and values.
//
// Prefix confines iteration to keys carrying the given byte prefix and
// must not be combined with Start or Stop.
type IterOptions struct {
	// Reverse yields entries in descending order. Next on a reverse
	// iterator moves backward through the key space.
	Reverse bool

	Start []byte
	Stop  []byte
	// ExcludeStart flips the default inclusive start bound.
	ExcludeStart bool
	// IncludeStop flips the default exclusive stop bound.
	IncludeStop bool

	Prefix []byte

	// KeysOnly suppresses value capture; Value returns nil.
	KeysOnly bool
	// ValuesOnly suppresses key capture; Key returns nil.
	ValuesOnly bool

	VerifyChecksums bool
	DontFillCache   bool
}

func (o *IterOptions) readOptions() *db.ReadOptions {
	if o == nil || (!o.VerifyChecksums && !o.DontFillCache) {
		return nil
	}
	return &db.ReadOptions{
		VerifyChecksums: o.VerifyChecksums,
		DontFillCache:   o.DontFillCache,
	}
}

// BatchOptions configures a write batch.
type BatchOptions struct {
	// Sync forces the batch application to be durably synced.
	Sync bool
}
