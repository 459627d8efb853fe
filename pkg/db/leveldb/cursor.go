package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb/iterator"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Cursor wraps a native goleveldb iterator.
type Cursor struct {
	iter iterator.Iterator
}

func (e *Engine) NewCursor(ro *db.ReadOptions) (db.Cursor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}
	return &Cursor{iter: e.db.NewIterator(nil, readOpts(ro))}, nil
}

func (c *Cursor) First() bool             { return c.iter.First() }
func (c *Cursor) Last() bool              { return c.iter.Last() }
func (c *Cursor) Seek(target []byte) bool { return c.iter.Seek(target) }
func (c *Cursor) Next() bool              { return c.iter.Next() }
func (c *Cursor) Prev() bool              { return c.iter.Prev() }
func (c *Cursor) Valid() bool             { return c.iter.Valid() }
func (c *Cursor) Key() []byte             { return c.iter.Key() }
func (c *Cursor) Value() []byte           { return c.iter.Value() }
func (c *Cursor) Error() error            { return mapError(c.iter.Error()) }

func (c *Cursor) Close() error {
	err := c.iter.Error()
	c.iter.Release()
	return mapError(err)
}
