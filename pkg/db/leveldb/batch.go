package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Batch accumulates operations for atomic application through
// Engine.Write.
type Batch struct {
	batch *leveldb.Batch
}

func (e *Engine) NewBatch() db.Batch {
	return &Batch{batch: new(leveldb.Batch)}
}

func (b *Batch) Put(key, value []byte) { b.batch.Put(key, value) }
func (b *Batch) Delete(key []byte)     { b.batch.Delete(key) }
func (b *Batch) Clear()                { b.batch.Reset() }
func (b *Batch) Len() int              { return b.batch.Len() }

func (e *Engine) Write(wo *db.WriteOptions, b db.Batch) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	lb, ok := b.(*Batch)
	if !ok {
		return ErrForeignBatch
	}
	return mapError(e.db.Write(lb.batch, writeOpts(wo)))
}
