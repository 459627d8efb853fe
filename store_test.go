package keyspan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelglow/keyspan/pkg/db"
)

func TestOpenBackends(t *testing.T) {
	for _, backend := range []Backend{BackendPebble, BackendLevelDB} {
		t.Run(string(backend), func(t *testing.T) {
			s, err := Open(t.TempDir(), &Options{Backend: backend})
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Put([]byte("k"), []byte("v"), nil))
			got, err := s.Get([]byte("k"), nil)
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(t.TempDir(), &Options{Backend: "sqlite"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestGetDefault(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put([]byte("present"), []byte("v"), nil))

	// absence is not an error
	got, err := s.Get([]byte("absent"), nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.GetDefault([]byte("absent"), []byte("fallback"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("fallback"), got)

	got, err = s.GetDefault([]byte("present"), []byte("fallback"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	has, err := s.Has([]byte("present"), nil)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.Has([]byte("absent"), nil)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestPutDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put([]byte("k"), []byte("v"), nil))
	require.NoError(t, s.Delete([]byte("k"), nil))

	has, err := s.Has([]byte("k"), nil)
	require.NoError(t, err)
	assert.False(t, has)

	// deleting an absent key is not an error
	assert.NoError(t, s.Delete([]byte("k"), &db.WriteOptions{Sync: true}))
}

func TestStoreClose(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put([]byte("k"), []byte("v"), nil))

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	_, err := s.Get([]byte("k"), nil)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Put([]byte("k"), []byte("v"), nil), ErrClosed)
	assert.ErrorIs(t, s.Delete([]byte("k"), nil), ErrClosed)

	_, err = s.NewIterator(nil)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.GetSnapshot()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.NewBatch(nil)
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, s.CompactRange(nil, nil), ErrClosed)
	_, err = s.ApproximateSizes([]db.Range{{}})
	assert.ErrorIs(t, err, ErrClosed)
	_, ok := s.Property("stats")
	assert.False(t, ok)
}

// Closing the store transitions every live iterator to closed; calls on
// them fail with a usage error rather than touching a dead cursor.
func TestStoreCloseForcesIterators(t *testing.T) {
	s := newTestStore(t)
	populate(t, s, map[string]string{"a": "1", "b": "2"})

	it1, err := s.NewIterator(nil)
	require.NoError(t, err)
	it2, err := s.NewIterator(&IterOptions{Reverse: true})
	require.NoError(t, err)
	require.True(t, it1.Next())

	require.NoError(t, s.Close())

	assert.False(t, it1.Next())
	assert.ErrorIs(t, it1.Err(), ErrIterClosed)
	assert.False(t, it2.Next())
	assert.ErrorIs(t, it2.Err(), ErrIterClosed)

	// closing an already force-closed iterator is a no-op
	assert.NoError(t, it1.Close())
}

func TestIteratorDeregistersOnClose(t *testing.T) {
	s := newTestStore(t)
	populate(t, s, map[string]string{"a": "1"})

	for i := 0; i < 3; i++ {
		it, err := s.NewIterator(nil)
		require.NoError(t, err)
		require.NoError(t, it.Close())
	}

	s.mu.Lock()
	live := len(s.iters)
	s.mu.Unlock()
	assert.Zero(t, live)
}

func TestStoreAdmin(t *testing.T) {
	s, err := Open(t.TempDir(), &Options{Backend: BackendLevelDB})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put([]byte("k"), []byte("v"), nil))

	_, ok := s.Property("stats")
	assert.True(t, ok)

	require.NoError(t, s.CompactRange(nil, nil))

	sizes, err := s.ApproximateSizes([]db.Range{{Start: []byte("a"), Limit: []byte("z")}})
	require.NoError(t, err)
	assert.Len(t, sizes, 1)
}
