package keyspan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStability(t *testing.T) {
	s := newTestStore(t)
	populate(t, s, map[string]string{"a": "1", "b": "2"})

	snap, err := s.GetSnapshot()
	require.NoError(t, err)
	defer snap.Release()

	require.NoError(t, s.Put([]byte("a"), []byte("changed"), nil))
	require.NoError(t, s.Put([]byte("c"), []byte("3"), nil))
	require.NoError(t, s.Delete([]byte("b"), nil))

	got, err := snap.Get([]byte("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	has, err := snap.Has([]byte("b"), nil)
	require.NoError(t, err)
	assert.True(t, has)

	got, err = snap.GetDefault([]byte("c"), []byte("absent"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("absent"), got)

	it, err := snap.NewIterator(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, collectKeys(t, it))

	// the live store sees the writes
	live, err := s.Get([]byte("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("changed"), live)
}

func TestSnapshotRelease(t *testing.T) {
	s := newTestStore(t)
	populate(t, s, map[string]string{"k": "v"})

	snap, err := s.GetSnapshot()
	require.NoError(t, err)

	snap.Release()
	snap.Release()

	_, err = snap.Get([]byte("k"), nil)
	assert.ErrorIs(t, err, ErrSnapshotReleased)
	_, err = snap.Has([]byte("k"), nil)
	assert.ErrorIs(t, err, ErrSnapshotReleased)
	_, err = snap.NewIterator(nil)
	assert.ErrorIs(t, err, ErrSnapshotReleased)
}

// Store close reclaims pinned snapshots; releasing afterwards is a
// no-op, not a crash.
func TestSnapshotReleaseAfterStoreClose(t *testing.T) {
	s := newTestStore(t)
	populate(t, s, map[string]string{"k": "v"})

	snap, err := s.GetSnapshot()
	require.NoError(t, err)

	require.NoError(t, s.Close())

	snap.Release()

	_, err = snap.Get([]byte("k"), nil)
	assert.ErrorIs(t, err, ErrSnapshotReleased)
}

func TestSnapshotIteratorForceClosedWithStore(t *testing.T) {
	s := newTestStore(t)
	populate(t, s, map[string]string{"k": "v"})

	snap, err := s.GetSnapshot()
	require.NoError(t, err)

	it, err := snap.NewIterator(nil)
	require.NoError(t, err)

	require.NoError(t, s.Close())

	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrIterClosed)
}
