package pebble

import (
	"github.com/cockroachdb/pebble"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Batch accumulates operations for atomic application through
// Engine.Write.
type Batch struct {
	batch *pebble.Batch
}

func (e *Engine) NewBatch() db.Batch {
	return &Batch{batch: e.db.NewBatch()}
}

func (b *Batch) Put(key, value []byte) {
	_ = b.batch.Set(key, value, nil)
}

func (b *Batch) Delete(key []byte) {
	_ = b.batch.Delete(key, nil)
}

func (b *Batch) Clear() {
	b.batch.Reset()
}

func (b *Batch) Len() int {
	return int(b.batch.Count())
}

func (e *Engine) Write(wo *db.WriteOptions, b db.Batch) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	pb, ok := b.(*Batch)
	if !ok {
		return ErrForeignBatch
	}
	return e.db.Apply(pb.batch, writeOpts(wo))
}
