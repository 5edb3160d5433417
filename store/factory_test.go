package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stakemine/db"
)

func TestStoreConfigValidate(t *testing.T) {
	assert.Error(t, (&StoreConfig{}).Validate())
	assert.Error(t, (&StoreConfig{Type: LevelDBStoreType}).Validate())
	assert.Error(t, (&StoreConfig{Type: "rocksdb", Directory: "x"}).Validate())
	assert.NoError(t, (&StoreConfig{Type: MemoryStoreType}).Validate())
	assert.NoError(t, (&StoreConfig{Type: BoltDBStoreType, Directory: "x"}).Validate())
}

// closeCountingProvider records how often Close is called
type closeCountingProvider struct {
	db.DatabaseProvider
	closes int
}

func (p *closeCountingProvider) Close() error {
	p.closes++
	return p.DatabaseProvider.Close()
}

func TestStoreFactoryClosesSharedProvider(t *testing.T) {
	factory := NewStoreFactory()
	provider := &closeCountingProvider{DatabaseProvider: db.NewMemoryProvider()}

	stores, err := factory.CreateStoresWithProvider(provider)
	require.NoError(t, err)
	require.NotNil(t, stores.Pools)
	require.NotNil(t, stores.Positions)
	require.NotNil(t, stores.Assets)
	require.NotNil(t, stores.Accounts)

	// All four stores share one provider; closing the bundle closes it once
	stores.MustClose()
	assert.Equal(t, 1, provider.closes)
}

func TestStoreFactoryMemoryBackend(t *testing.T) {
	factory := NewStoreFactory()
	provider, err := factory.CreateProvider(&StoreConfig{Type: MemoryStoreType})
	require.NoError(t, err)
	require.NotNil(t, provider)

	_, err = factory.CreateProvider(&StoreConfig{Type: LevelDBStoreType})
	assert.Error(t, err)
}
