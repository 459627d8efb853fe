package db

// Compression selects the block compression applied by the engine.
type Compression int

const (
	// SnappyCompression is the default.
	SnappyCompression Compression = iota
	NoCompression
)

// Options configures an engine at open time. The zero value opens an
// existing database or creates a missing one, with engine defaults for
// all tuning knobs.
type Options struct {
	// ErrorIfMissing makes Open fail instead of creating a new database.
	ErrorIfMissing bool
	// ErrorIfExists makes Open fail if the database already exists.
	ErrorIfExists bool
	// ParanoidChecks enables aggressive integrity checking in the engine.
	ParanoidChecks bool

	// WriteBufferSize is the memtable size in bytes. Zero means the
	// engine default.
	WriteBufferSize int
	// MaxOpenFiles caps the engine's file descriptor usage. Zero means
	// the engine default.
	MaxOpenFiles int
	// CacheSize is the block cache capacity in bytes. Zero means the
	// engine default.
	CacheSize int64
	BlockSize int
	// BlockRestartInterval is the number of keys between restart points
	// in a block.
	BlockRestartInterval int

	Compression Compression
	// BloomFilterBits enables a bloom filter policy with the given bits
	// per key. Zero disables the filter.
	BloomFilterBits int

	// Comparer defines the key order. Nil means Bytewise. The same
	// comparer must be used for the whole lifetime of a database.
	Comparer Comparer
}

// Comparer returns o.Comparer, or Bytewise when unset.
func (o *Options) GetComparer() Comparer {
	if o == nil || o.Comparer == nil {
		return Bytewise
	}
	return o.Comparer
}

// ReadOptions tunes a single read or cursor. Nil is equivalent to the
// zero value: no checksum verification, blocks cached.
type ReadOptions struct {
	VerifyChecksums bool
	DontFillCache   bool
}

// WriteOptions tunes a single write. Nil is equivalent to the zero
// value: asynchronous (non-synced) writes.
type WriteOptions struct {
	Sync bool
}

func (wo *WriteOptions) GetSync() bool {
	return wo != nil && wo.Sync
}
