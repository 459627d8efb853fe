package pebble

import (
	"github.com/cockroachdb/pebble"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Cursor wraps a native pebble iterator.
type Cursor struct {
	iter *pebble.Iterator
	err  error
}

func (e *Engine) NewCursor(_ *db.ReadOptions) (db.Cursor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}
	iter, err := e.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	return &Cursor{iter: iter}, nil
}

func (c *Cursor) First() bool            { return c.iter.First() }
func (c *Cursor) Last() bool             { return c.iter.Last() }
func (c *Cursor) Seek(target []byte) bool { return c.iter.SeekGE(target) }
func (c *Cursor) Next() bool             { return c.iter.Next() }
func (c *Cursor) Prev() bool             { return c.iter.Prev() }
func (c *Cursor) Valid() bool            { return c.iter.Valid() }

func (c *Cursor) Key() []byte { return c.iter.Key() }

func (c *Cursor) Value() []byte {
	val, err := c.iter.ValueAndErr()
	if err != nil && c.err == nil {
		c.err = err
	}
	return val
}

func (c *Cursor) Error() error {
	if c.err != nil {
		return c.err
	}
	return c.iter.Error()
}

func (c *Cursor) Close() error { return c.iter.Close() }
