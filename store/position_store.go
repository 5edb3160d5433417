package store

import (
	"fmt"
	"sync"

	"stakemine/db"
	"stakemine/jsonx"
	"stakemine/logx"
	"stakemine/types"
)

type PositionStore interface {
	Store(position *types.StakePosition) error
	Get(stakeAsset, owner string) (*types.StakePosition, error)
	GetByPool(stakeAsset string) ([]*types.StakePosition, error)
	MustClose()
}

type GenericPositionStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericPositionStore(dbProvider db.DatabaseProvider) (*GenericPositionStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericPositionStore{
		dbProvider: dbProvider,
	}, nil
}

func (ps *GenericPositionStore) Store(position *types.StakePosition) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	positionData, err := jsonx.Marshal(position)
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}

	err = ps.dbProvider.Put(ps.getDbKey(position.Pool, position.Owner), positionData)
	if err != nil {
		return fmt.Errorf("failed to write position to db: %w", err)
	}

	return nil
}

// Get returns the position record for (pool, owner), both nil if not exist
func (ps *GenericPositionStore) Get(stakeAsset, owner string) (*types.StakePosition, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	data, err := ps.dbProvider.Get(ps.getDbKey(stakeAsset, owner))
	if err != nil {
		return nil, fmt.Errorf("could not get position %s/%s from db: %w", stakeAsset, owner, err)
	}
	if data == nil {
		return nil, nil
	}

	var position types.StakePosition
	if err := jsonx.Unmarshal(data, &position); err != nil {
		return nil, fmt.Errorf("failed to unmarshal position %s/%s: %w", stakeAsset, owner, err)
	}
	return &position, nil
}

// GetByPool returns every position record belonging to a pool. The position
// db key embeds a derived hash, so this filters a full prefix scan by the
// record's Pool field rather than by key shape.
func (ps *GenericPositionStore) GetByPool(stakeAsset string) ([]*types.StakePosition, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	iterable, ok := ps.dbProvider.(db.IterableProvider)
	if !ok {
		return nil, nil
	}

	var positions []*types.StakePosition
	var iterErr error
	err := iterable.IteratePrefix([]byte(PrefixPosition), func(key, value []byte) bool {
		var position types.StakePosition
		if err := jsonx.Unmarshal(value, &position); err != nil {
			iterErr = fmt.Errorf("failed to unmarshal position at %s: %w", string(key), err)
			return false
		}
		if position.Pool == stakeAsset {
			positions = append(positions, &position)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return positions, nil
}

func (ps *GenericPositionStore) MustClose() {
	err := ps.dbProvider.Close()
	if err != nil {
		logx.Error("POSITION_STORE", "Failed to close db provider:", err.Error())
	}
}

func (ps *GenericPositionStore) getDbKey(stakeAsset, owner string) []byte {
	return []byte(PrefixPosition + PositionKey(stakeAsset, owner))
}
