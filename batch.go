package keyspan

import "github.com/pixelglow/keyspan/pkg/db"

// Batch stages put and delete operations for atomic application.
// Later operations override earlier ones on the same key. A batch
// created through a namespace view prefixes every staged key.
type Batch struct {
	store  *Store
	prefix []byte
	b      db.Batch
	wo     *db.WriteOptions
}

// NewBatch returns an empty write batch.
func (s *Store) NewBatch(o *BatchOptions) (*Batch, error) {
	return s.newBatch(nil, o)
}

func (s *Store) newBatch(prefix []byte, o *BatchOptions) (*Batch, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	var wo *db.WriteOptions
	if o != nil && o.Sync {
		wo = &db.WriteOptions{Sync: true}
	}
	return &Batch{store: s, prefix: prefix, b: s.engine.NewBatch(), wo: wo}, nil
}

func (b *Batch) Put(key, value []byte) error {
	if b.store.closed.Load() {
		return ErrClosed
	}
	b.b.Put(join(b.prefix, key), value)
	return nil
}

func (b *Batch) Delete(key []byte) error {
	if b.store.closed.Load() {
		return ErrClosed
	}
	b.b.Delete(join(b.prefix, key))
	return nil
}

// Len reports the number of staged operations.
func (b *Batch) Len() int { return b.b.Len() }

// Write applies the staged operations atomically: either every staged
// operation takes effect or none does. The batch is cleared on success
// and may be reused.
func (b *Batch) Write() error {
	if b.store.closed.Load() {
		return ErrClosed
	}
	if err := b.store.engine.Write(b.wo, b.b); err != nil {
		return err
	}
	b.b.Clear()
	return nil
}

// Clear discards the staged operations without applying them.
func (b *Batch) Clear() { b.b.Clear() }

// Batch stages writes through fn and applies them atomically when fn
// returns nil. When fn returns an error the staged operations are kept
// on the batch; the caller decides whether to Write or Clear them.
func (s *Store) Batch(o *BatchOptions, fn func(*Batch) error) error {
	return s.batchScope(nil, o, fn)
}

func (s *Store) batchScope(prefix []byte, o *BatchOptions, fn func(*Batch) error) error {
	b, err := s.newBatch(prefix, o)
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		return err
	}
	return b.Write()
}

// Transaction stages writes through fn and commits them atomically
// when fn returns nil. When fn returns an error the staged operations
// are discarded and the error propagates unchanged.
func (s *Store) Transaction(o *BatchOptions, fn func(*Batch) error) error {
	return s.transaction(nil, o, fn)
}

func (s *Store) transaction(prefix []byte, o *BatchOptions, fn func(*Batch) error) error {
	b, err := s.newBatch(prefix, o)
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		b.Clear()
		return err
	}
	return b.Write()
}
