package keyspan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchWrite(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put([]byte("stale"), []byte("x"), nil))

	b, err := s.NewBatch(nil)
	require.NoError(t, err)

	require.NoError(t, b.Put([]byte("k1"), []byte("v1")))
	require.NoError(t, b.Put([]byte("k2"), []byte("v2")))
	require.NoError(t, b.Delete([]byte("stale")))
	assert.Equal(t, 3, b.Len())

	// nothing visible before Write
	has, err := s.Has([]byte("k1"), nil)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, b.Write())
	assert.Zero(t, b.Len())

	got, err := s.Get([]byte("k1"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	has, err = s.Has([]byte("stale"), nil)
	require.NoError(t, err)
	assert.False(t, has)
}

// Later staged operations override earlier ones on the same key.
func TestBatchOverride(t *testing.T) {
	s := newTestStore(t)

	b, err := s.NewBatch(&BatchOptions{Sync: true})
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("k"), []byte("first")))
	require.NoError(t, b.Put([]byte("k"), []byte("second")))
	require.NoError(t, b.Write())

	got, err := s.Get([]byte("k"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestBatchClear(t *testing.T) {
	s := newTestStore(t)

	b, err := s.NewBatch(nil)
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("k"), []byte("v")))
	b.Clear()
	assert.Zero(t, b.Len())
	require.NoError(t, b.Write())

	has, err := s.Has([]byte("k"), nil)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBatchScopeCommit(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Batch(nil, func(b *Batch) error {
		return b.Put([]byte("k"), []byte("v"))
	}))

	got, err := s.Get([]byte("k"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

// A failure inside a plain batch scope keeps the staged operations;
// only transaction scopes roll back. The caller may still Write or
// Clear the batch afterwards.
func TestBatchScopeFailureKeepsStaged(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("boom")

	var staged *Batch
	err := s.Batch(nil, func(b *Batch) error {
		staged = b
		if err := b.Put([]byte("k"), []byte("v")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// not written, not cleared
	has, err := s.Has([]byte("k"), nil)
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, 1, staged.Len())

	require.NoError(t, staged.Write())
	got, err := s.Get([]byte("k"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestNamespaceBatchScope(t *testing.T) {
	s := newTestStore(t)
	ns := s.Sub([]byte("n/"))

	require.NoError(t, ns.Batch(nil, func(b *Batch) error {
		return b.Put([]byte("k"), []byte("v"))
	}))

	got, err := s.Get([]byte("n/k"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestTransactionCommit(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Transaction(nil, func(b *Batch) error {
		if err := b.Put([]byte("k1"), []byte("v1")); err != nil {
			return err
		}
		return b.Put([]byte("k2"), []byte("v2"))
	}))

	for _, k := range []string{"k1", "k2"} {
		has, err := s.Has([]byte(k), nil)
		require.NoError(t, err)
		assert.True(t, has, k)
	}
}

func TestTransactionRollback(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.Transaction(nil, func(b *Batch) error {
		if err := b.Put([]byte("k1"), []byte("v1")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// none of the staged operations took effect
	has, err := s.Has([]byte("k1"), nil)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBatchAfterStoreClose(t *testing.T) {
	s := newTestStore(t)

	b, err := s.NewBatch(nil)
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("k"), []byte("v")))

	require.NoError(t, s.Close())

	assert.ErrorIs(t, b.Put([]byte("k2"), []byte("v")), ErrClosed)
	assert.ErrorIs(t, b.Delete([]byte("k")), ErrClosed)
	assert.ErrorIs(t, b.Write(), ErrClosed)

	err = s.Batch(nil, func(*Batch) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)

	err = s.Transaction(nil, func(*Batch) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}
