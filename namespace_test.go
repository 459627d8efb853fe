package keyspan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceReadWrite(t *testing.T) {
	s := newTestStore(t)
	ns := s.Sub([]byte("app/"))

	require.NoError(t, ns.Put([]byte("k"), []byte("v"), nil))

	// the view prepends its prefix transparently
	got, err := s.Get([]byte("app/k"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	got, err = ns.Get([]byte("k"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	// keys outside the namespace are invisible through it
	require.NoError(t, s.Put([]byte("other"), []byte("x"), nil))
	got, err = ns.Get([]byte("other"), nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	has, err := ns.Has([]byte("k"), nil)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, ns.Delete([]byte("k"), nil))
	has, err = ns.Has([]byte("k"), nil)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestNamespaceIterator(t *testing.T) {
	s := newTestStore(t)
	populate(t, s, map[string]string{
		"app/a": "1", "app/b": "2", "app/c": "3",
		"apq":   "outside-above",
		"ap":    "outside-below",
		"other": "x",
	})
	ns := s.Sub([]byte("app/"))

	// no explicit range: iteration is confined to the namespace and
	// yielded keys have the prefix stripped
	it, err := ns.NewIterator(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, collectKeys(t, it))

	it, err = ns.NewIterator(&IterOptions{Reverse: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, collectKeys(t, it))

	// bounds are relative to the namespace
	it, err = ns.NewIterator(&IterOptions{Start: []byte("b")})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, collectKeys(t, it))

	it, err = ns.NewIterator(&IterOptions{Stop: []byte("b")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, collectKeys(t, it))

	// so are seek targets
	it, err = ns.NewIterator(nil)
	require.NoError(t, err)
	require.NoError(t, it.Seek([]byte("b")))
	require.True(t, it.Next())
	assert.Equal(t, []byte("b"), it.Key())
	require.NoError(t, it.Close())
}

func TestNamespacePrefixOption(t *testing.T) {
	s := newTestStore(t)
	populate(t, s, map[string]string{
		"app/x-1": "1", "app/x-2": "2", "app/y-1": "3", "x-9": "outside",
	})
	ns := s.Sub([]byte("app/"))

	it, err := ns.NewIterator(&IterOptions{Prefix: []byte("x-")})
	require.NoError(t, err)
	assert.Equal(t, []string{"x-1", "x-2"}, collectKeys(t, it))
}

func TestNamespaceNesting(t *testing.T) {
	s := newTestStore(t)

	inner := s.Sub([]byte("a/")).Sub([]byte("b/"))
	assert.Equal(t, []byte("a/b/"), inner.Prefix())
	assert.Same(t, s, inner.Store())

	require.NoError(t, inner.Put([]byte("k"), []byte("v"), nil))

	got, err := s.Get([]byte("a/b/k"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	it, err := inner.NewIterator(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, collectKeys(t, it))
}

func TestNamespaceBatchAndSnapshot(t *testing.T) {
	s := newTestStore(t)
	ns := s.Sub([]byte("n/"))

	require.NoError(t, ns.Transaction(nil, func(b *Batch) error {
		if err := b.Put([]byte("k1"), []byte("v1")); err != nil {
			return err
		}
		return b.Put([]byte("k2"), []byte("v2"))
	}))

	got, err := s.Get([]byte("n/k1"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	snap, err := ns.GetSnapshot()
	require.NoError(t, err)
	defer snap.Release()

	require.NoError(t, ns.Put([]byte("k3"), []byte("v3"), nil))

	got, err = snap.Get([]byte("k1"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	got, err = snap.Get([]byte("k3"), nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	it, err := snap.NewIterator(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, collectKeys(t, it))
}
