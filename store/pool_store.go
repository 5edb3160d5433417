package store

import (
	"fmt"
	"sync"

	"stakemine/db"
	"stakemine/jsonx"
	"stakemine/logx"
	"stakemine/types"
)

type PoolStore interface {
	Store(pool *types.PoolConfig) error
	GetByAsset(stakeAsset string) (*types.PoolConfig, error)
	ExistsByAsset(stakeAsset string) (bool, error)
	GetAll() ([]*types.PoolConfig, error)
	MustClose()
}

type GenericPoolStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericPoolStore(dbProvider db.DatabaseProvider) (*GenericPoolStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericPoolStore{
		dbProvider: dbProvider,
	}, nil
}

func (ps *GenericPoolStore) Store(pool *types.PoolConfig) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	poolData, err := jsonx.Marshal(pool)
	if err != nil {
		return fmt.Errorf("failed to marshal pool config: %w", err)
	}

	err = ps.dbProvider.Put(ps.getDbKey(pool.StakeAsset), poolData)
	if err != nil {
		return fmt.Errorf("failed to write pool config to db: %w", err)
	}

	return nil
}

// GetByAsset returns the pool config for a stake asset, both nil if not exist
func (ps *GenericPoolStore) GetByAsset(stakeAsset string) (*types.PoolConfig, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	data, err := ps.dbProvider.Get(ps.getDbKey(stakeAsset))
	if err != nil {
		return nil, fmt.Errorf("could not get pool for %s from db: %w", stakeAsset, err)
	}
	if data == nil {
		return nil, nil
	}

	var pool types.PoolConfig
	if err := jsonx.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pool for %s: %w", stakeAsset, err)
	}
	return &pool, nil
}

func (ps *GenericPoolStore) ExistsByAsset(stakeAsset string) (bool, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return ps.dbProvider.Has(ps.getDbKey(stakeAsset))
}

// GetAll returns every pool config. Requires an iterable provider; backends
// without prefix iteration return an empty slice.
func (ps *GenericPoolStore) GetAll() ([]*types.PoolConfig, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	iterable, ok := ps.dbProvider.(db.IterableProvider)
	if !ok {
		return nil, nil
	}

	var pools []*types.PoolConfig
	var iterErr error
	err := iterable.IteratePrefix([]byte(PrefixPool), func(key, value []byte) bool {
		var pool types.PoolConfig
		if err := jsonx.Unmarshal(value, &pool); err != nil {
			iterErr = fmt.Errorf("failed to unmarshal pool at %s: %w", string(key), err)
			return false
		}
		pools = append(pools, &pool)
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return pools, nil
}

func (ps *GenericPoolStore) MustClose() {
	err := ps.dbProvider.Close()
	if err != nil {
		logx.Error("POOL_STORE", "Failed to close db provider:", err.Error())
	}
}

func (ps *GenericPoolStore) getDbKey(stakeAsset string) []byte {
	return []byte(PrefixPool + PoolKey(stakeAsset))
}
