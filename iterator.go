package keyspan

import (
	"sync/atomic"

	"github.com/pixelglow/keyspan/pkg/db"
)

// iterState is the logical position of an iterator relative to its
// window. beforeStart and afterStop are the two logical ends; the
// inBetween states mean the native cursor points at a valid in-range
// entry not yet consumed in the pending direction of travel.
type iterState uint8

const (
	beforeStart iterState = iota
	inBetween
	// inBetweenPositioned is entered only by an explicit Seek: the
	// cursor is on an entry that the next advance consumes without
	// moving.
	inBetweenPositioned
	afterStop
)

// Iterator is a bounded, bidirectional, lazily positioned cursor.
// Construction computes the effective bounds but does not touch the
// engine; the native cursor is positioned on the first advance.
//
// An iterator is not safe for concurrent use.
type Iterator struct {
	store *Store
	id    uint64
	cur   db.Cursor
	cmp   db.Comparer

	reverse     bool
	start, stop *bound
	prefix      []byte // namespace prefix, stripped from yielded keys
	keysOnly    bool
	valuesOnly  bool

	state  iterState
	key    []byte
	value  []byte
	err    error
	closed atomic.Bool
}

// NewIterator returns an iterator over the store with the given
// options.
func (s *Store) NewIterator(o *IterOptions) (*Iterator, error) {
	return s.newIterator(s.engine, nil, o)
}

func (s *Store) newIterator(r db.Reader, prefix []byte, o *IterOptions) (*Iterator, error) {
	if o == nil {
		o = &IterOptions{}
	}
	if o.Prefix != nil && (o.Start != nil || o.Stop != nil) {
		return nil, ErrConflictingBounds
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}

	start, stop := deriveBounds(prefix, o)

	cur, err := r.NewCursor(o.readOptions())
	if err != nil {
		return nil, err
	}

	it := &Iterator{
		store:      s,
		cur:        cur,
		cmp:        s.cmp,
		reverse:    o.Reverse,
		start:      start,
		stop:       stop,
		prefix:     prefix,
		keysOnly:   o.KeysOnly,
		valuesOnly: o.ValuesOnly,
	}
	if o.Reverse {
		it.state = afterStop
	} else {
		it.state = beforeStart
	}

	if err := s.register(it); err != nil {
		cur.Close()
		return nil, err
	}
	return it, nil
}

// deriveBounds computes the effective iteration window. A namespace
// prefix confines the window to its own key space even when the caller
// supplied no explicit range; an explicit Prefix option turns into an
// inclusive-start/exclusive-stop window after the namespace prefix is
// applied.
func deriveBounds(prefix []byte, o *IterOptions) (start, stop *bound) {
	if o.Prefix != nil {
		full := join(prefix, o.Prefix)
		start = &bound{key: full, inclusive: true}
		if next := increment(full); next != nil {
			stop = &bound{key: next, inclusive: false}
		}
		return start, stop
	}

	if o.Start != nil {
		start = &bound{key: join(prefix, o.Start), inclusive: !o.ExcludeStart}
	} else if len(prefix) > 0 {
		start = &bound{key: append([]byte(nil), prefix...), inclusive: true}
	}

	if o.Stop != nil {
		stop = &bound{key: join(prefix, o.Stop), inclusive: o.IncludeStop}
	} else if len(prefix) > 0 {
		if next := increment(prefix); next != nil {
			stop = &bound{key: next, inclusive: false}
		}
	}
	return start, stop
}

// Next advances in the iterator's declared direction and reports
// whether an entry was yielded. On a reverse iterator Next moves
// backward through the key space.
func (it *Iterator) Next() bool {
	if it.closed.Load() {
		it.err = ErrIterClosed
		return false
	}
	if it.reverse {
		return it.physPrev()
	}
	return it.physNext()
}

// Prev moves opposite to the declared direction. Alternating Next and
// Prev revisits entries symmetrically.
func (it *Iterator) Prev() bool {
	if it.closed.Load() {
		it.err = ErrIterClosed
		return false
	}
	if it.reverse {
		return it.physNext()
	}
	return it.physPrev()
}

// physNext moves the cursor toward larger keys.
func (it *Iterator) physNext() bool {
	switch it.state {
	case afterStop:
		return false

	case inBetween:
		if !it.cur.Next() {
			it.state = afterStop
			return it.fail()
		}

	case inBetweenPositioned:
		// consume the seeked-to entry without moving
		it.state = inBetween

	case beforeStart:
		var ok bool
		if it.start == nil {
			ok = it.cur.First()
		} else {
			ok = it.cur.Seek(it.start.key)
			if ok && !it.start.inclusive && it.cmp.Compare(it.cur.Key(), it.start.key) == 0 {
				ok = it.cur.Next()
			}
		}
		if !ok {
			it.state = afterStop
			return it.fail()
		}
		it.state = inBetween
	}

	if it.stop != nil {
		limit := 0
		if it.stop.inclusive {
			limit = 1
		}
		if it.cmp.Compare(it.cur.Key(), it.stop.key) >= limit {
			it.state = afterStop
			return false
		}
	}

	it.capture()
	return true
}

// physPrev moves the cursor toward smaller keys. The current entry is
// captured before the cursor steps back, so a step that crosses the
// start bound is only discovered on the following call.
func (it *Iterator) physPrev() bool {
	switch it.state {
	case beforeStart:
		return false

	case afterStop:
		var ok bool
		if it.stop == nil {
			ok = it.cur.Last()
		} else {
			ok = it.cur.Seek(it.stop.key)
			if ok {
				if !it.stop.inclusive || it.cmp.Compare(it.cur.Key(), it.stop.key) > 0 {
					ok = it.cur.Prev()
				}
			} else {
				ok = it.cur.Last()
			}
		}
		if !ok {
			it.state = beforeStart
			return it.fail()
		}
		if it.startCrossed() {
			it.state = beforeStart
			return false
		}
		it.state = inBetween
		return it.yieldPrev()

	case inBetweenPositioned:
		if !it.cur.Prev() {
			it.state = beforeStart
			return it.fail()
		}
		it.state = inBetween
		return it.yieldPrev()
	}

	// inBetween
	return it.yieldPrev()
}

// yieldPrev captures the current entry, steps backward and classifies
// the new position for the next call.
func (it *Iterator) yieldPrev() bool {
	it.capture()
	if !it.cur.Prev() {
		it.state = beforeStart
		it.fail()
	} else if it.startCrossed() {
		it.state = beforeStart
	}
	return true
}

// startCrossed reports whether the cursor's entry falls at or before
// the start bound under its inclusive/exclusive test.
func (it *Iterator) startCrossed() bool {
	if it.start == nil {
		return false
	}
	limit := 0
	if !it.start.inclusive {
		limit = 1
	}
	return it.cmp.Compare(it.cur.Key(), it.start.key) < limit
}

// Seek positions the iterator at target, clamped into the iteration
// window; targets outside the window are pulled to the nearest bound,
// not rejected. Through a namespace view the target is relative to the
// namespace. The entry seeked to, if any, is consumed by the next
// advance.
func (it *Iterator) Seek(target []byte) error {
	if it.closed.Load() {
		return ErrIterClosed
	}

	target = join(it.prefix, target)
	if it.start != nil && it.cmp.Compare(target, it.start.key) < 0 {
		target = it.start.key
	}
	if it.stop != nil && it.cmp.Compare(target, it.stop.key) > 0 {
		target = it.stop.key
	}

	if it.cur.Seek(target) {
		it.state = inBetweenPositioned
	} else {
		it.state = afterStop
	}
	return nil
}

// Key returns the key captured by the last advance, with the namespace
// prefix stripped. The slice is owned by the caller.
func (it *Iterator) Key() []byte { return it.key }

// Value returns the value captured by the last advance. The slice is
// owned by the caller.
func (it *Iterator) Value() []byte { return it.value }

// Err returns the first engine error the iterator ran into, or the
// usage error recorded by calls after Close.
func (it *Iterator) Err() error { return it.err }

// Close releases the native cursor and deregisters the iterator. It is
// idempotent; subsequent advances fail with ErrIterClosed.
func (it *Iterator) Close() error {
	if !it.closed.CompareAndSwap(false, true) {
		return nil
	}
	it.store.deregister(it.id)
	return it.cur.Close()
}

// forceClose is Close for the store's shutdown path; the registry lock
// is already held by the caller.
func (it *Iterator) forceClose() {
	if !it.closed.CompareAndSwap(false, true) {
		return
	}
	_ = it.cur.Close()
}

// capture copies the cursor's entry into the iterator before the cursor
// moves again. Output-shape flags suppress the unwanted side.
func (it *Iterator) capture() {
	if it.valuesOnly {
		it.key = nil
	} else {
		k := it.cur.Key()
		it.key = append([]byte(nil), k[len(it.prefix):]...)
	}
	if it.keysOnly {
		it.value = nil
	} else {
		it.value = append([]byte(nil), it.cur.Value()...)
	}
}

// fail records any cursor error and ends the sequence.
func (it *Iterator) fail() bool {
	if err := it.cur.Error(); err != nil && it.err == nil {
		it.err = err
	}
	return false
}
