package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProviderBasicOps(t *testing.T) {
	p := NewMemoryProvider()

	value, err := p.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, p.Put([]byte("k1"), []byte("v1")))
	value, err = p.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	has, err := p.Has([]byte("k1"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, p.Delete([]byte("k1")))
	has, err = p.Has([]byte("k1"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryProviderBatch(t *testing.T) {
	p := NewMemoryProvider()
	require.NoError(t, p.Put([]byte("stale"), []byte("x")))

	batch := p.Batch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Put([]byte("b"), []byte("2"))
	batch.Delete([]byte("stale"))
	require.NoError(t, batch.Write())
	batch.Close()

	value, err := p.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)

	has, err := p.Has([]byte("stale"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryProviderIteratePrefix(t *testing.T) {
	p := NewMemoryProvider()
	require.NoError(t, p.Put([]byte("pool:b"), []byte("2")))
	require.NoError(t, p.Put([]byte("pool:a"), []byte("1")))
	require.NoError(t, p.Put([]byte("position:a"), []byte("3")))

	var keys []string
	err := p.IteratePrefix([]byte("pool:"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pool:a", "pool:b"}, keys)

	// Early stop
	keys = nil
	err = p.IteratePrefix([]byte("pool:"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return false
	})
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
