// Package enginetest is a conformance suite for db.Engine
// implementations. Every adapter runs it against its own builder.
package enginetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelglow/keyspan/pkg/db"
)

// Builder opens a fresh engine for a test. Cleanup is the test's
// responsibility via t.Cleanup.
type Builder func(t *testing.T) db.Engine

// Suite runs the conformance tests against the engine produced by
// build.
func Suite(t *testing.T, build Builder) {
	tests := []struct {
		name string
		run  func(t *testing.T, e db.Engine)
	}{
		{"PutGetDelete", testPutGetDelete},
		{"CursorOrder", testCursorOrder},
		{"CursorSeekPrev", testCursorSeekPrev},
		{"BatchAtomicity", testBatchAtomicity},
		{"SnapshotIsolation", testSnapshotIsolation},
		{"CloseIdempotent", testCloseIdempotent},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.run(t, build(t))
		})
	}
}

func populate(t *testing.T, e db.Engine, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, e.Put(nil, []byte(k), []byte("val-"+k)))
	}
}

func testPutGetDelete(t *testing.T, e db.Engine) {
	key := []byte("test-key")
	value := []byte("test-value")

	require.NoError(t, e.Put(nil, key, value))

	got, err := e.Get(nil, key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	_, err = e.Get(nil, []byte("non-existent"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, e.Delete(nil, key))
	_, err = e.Get(nil, key)
	assert.ErrorIs(t, err, db.ErrNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, e.Delete(nil, []byte("non-existent")))
}

func testCursorOrder(t *testing.T, e db.Engine) {
	populate(t, e, "c", "a", "b")

	cur, err := e.NewCursor(nil)
	require.NoError(t, err)
	defer cur.Close()

	var keys []string
	for ok := cur.First(); ok; ok = cur.Next() {
		keys = append(keys, string(cur.Key()))
	}
	require.NoError(t, cur.Error())
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	keys = keys[:0]
	for ok := cur.Last(); ok; ok = cur.Prev() {
		keys = append(keys, string(cur.Key()))
	}
	require.NoError(t, cur.Error())
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}

func testCursorSeekPrev(t *testing.T, e db.Engine) {
	populate(t, e, "a", "c", "e")

	cur, err := e.NewCursor(nil)
	require.NoError(t, err)
	defer cur.Close()

	// seek is greater-or-equal
	require.True(t, cur.Seek([]byte("b")))
	assert.Equal(t, []byte("c"), cur.Key())
	assert.Equal(t, []byte("val-c"), cur.Value())

	require.True(t, cur.Prev())
	assert.Equal(t, []byte("a"), cur.Key())

	assert.False(t, cur.Seek([]byte("f")))
}

func testBatchAtomicity(t *testing.T, e db.Engine) {
	populate(t, e, "stale")

	b := e.NewBatch()
	b.Put([]byte("k1"), []byte("v1"))
	b.Put([]byte("k2"), []byte("v2"))
	b.Delete([]byte("stale"))
	assert.Equal(t, 3, b.Len())

	require.NoError(t, e.Write(nil, b))

	v1, err := e.Get(nil, []byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v1)

	_, err = e.Get(nil, []byte("stale"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	// Cleared batches apply as no-ops.
	b2 := e.NewBatch()
	b2.Put([]byte("k3"), []byte("v3"))
	b2.Clear()
	assert.Equal(t, 0, b2.Len())
	require.NoError(t, e.Write(nil, b2))

	_, err = e.Get(nil, []byte("k3"))
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func testSnapshotIsolation(t *testing.T, e db.Engine) {
	require.NoError(t, e.Put(nil, []byte("k"), []byte("before")))

	snap, err := e.GetSnapshot()
	require.NoError(t, err)
	defer snap.Release()

	require.NoError(t, e.Put(nil, []byte("k"), []byte("after")))
	require.NoError(t, e.Put(nil, []byte("new"), []byte("x")))

	got, err := snap.Get(nil, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), got)

	_, err = snap.Get(nil, []byte("new"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	cur, err := snap.NewCursor(nil)
	require.NoError(t, err)
	defer cur.Close()

	var keys []string
	for ok := cur.First(); ok; ok = cur.Next() {
		keys = append(keys, string(cur.Key()))
	}
	assert.Equal(t, []string{"k"}, keys)

	live, err := e.Get(nil, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), live)
}

func testCloseIdempotent(t *testing.T, e db.Engine) {
	require.NoError(t, e.Put(nil, []byte("k"), []byte("v")))
	require.NoError(t, e.Close())
	assert.NoError(t, e.Close())

	_, err := e.Get(nil, []byte("k"))
	assert.Error(t, err)
	assert.Error(t, e.Put(nil, []byte("k"), []byte("v")))
}
