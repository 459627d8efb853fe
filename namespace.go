package keyspan

import "github.com/pixelglow/keyspan/pkg/db"

// Namespace is a view of a store confined to keys carrying a fixed
// byte prefix. Reads and writes prepend the prefix; iterators rewrite
// their bounds so that iteration never leaves the namespace, and strip
// the prefix from yielded keys. A namespace has no lifetime of its own
// beyond the store it wraps.
type Namespace struct {
	store  *Store
	prefix []byte
}

// Sub returns a nested namespace; prefixes concatenate.
func (n *Namespace) Sub(prefix []byte) *Namespace {
	p := make([]byte, 0, len(n.prefix)+len(prefix))
	p = append(p, n.prefix...)
	p = append(p, prefix...)
	return &Namespace{store: n.store, prefix: p}
}

// Prefix returns a copy of the namespace prefix.
func (n *Namespace) Prefix() []byte {
	return append([]byte(nil), n.prefix...)
}

// Store returns the underlying store handle.
func (n *Namespace) Store() *Store { return n.store }

func (n *Namespace) Get(key []byte, ro *db.ReadOptions) ([]byte, error) {
	return n.store.read(n.store.engine, n.prefix, key, nil, ro)
}

func (n *Namespace) GetDefault(key, def []byte, ro *db.ReadOptions) ([]byte, error) {
	return n.store.read(n.store.engine, n.prefix, key, def, ro)
}

func (n *Namespace) Has(key []byte, ro *db.ReadOptions) (bool, error) {
	return n.store.has(n.store.engine, n.prefix, key, ro)
}

func (n *Namespace) Put(key, value []byte, wo *db.WriteOptions) error {
	return n.store.put(n.prefix, key, value, wo)
}

func (n *Namespace) Delete(key []byte, wo *db.WriteOptions) error {
	return n.store.del(n.prefix, key, wo)
}

// NewIterator returns an iterator confined to the namespace. Bounds
// and seek targets are relative to the namespace; yielded keys have
// the prefix stripped.
func (n *Namespace) NewIterator(o *IterOptions) (*Iterator, error) {
	return n.store.newIterator(n.store.engine, n.prefix, o)
}

// GetSnapshot pins a point-in-time view of the namespace.
func (n *Namespace) GetSnapshot() (*Snapshot, error) {
	return n.store.newSnapshot(n.prefix)
}

// NewBatch returns a write batch whose staged keys are prefixed by the
// namespace.
func (n *Namespace) NewBatch(o *BatchOptions) (*Batch, error) {
	return n.store.newBatch(n.prefix, o)
}

// Batch runs fn against a staged batch, writing on success and keeping
// the staged operations on error.
func (n *Namespace) Batch(o *BatchOptions, fn func(*Batch) error) error {
	return n.store.batchScope(n.prefix, o, fn)
}

// Transaction runs fn against a staged batch, committing on success
// and rolling back on error.
func (n *Namespace) Transaction(o *BatchOptions, fn func(*Batch) error) error {
	return n.store.transaction(n.prefix, o, fn)
}
