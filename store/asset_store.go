package store

import (
	"fmt"
	"sync"

	"stakemine/db"
	"stakemine/jsonx"
	"stakemine/logx"
	"stakemine/types"
)

type AssetStore interface {
	Store(asset *types.Asset) error
	GetByID(id string) (*types.Asset, error)
	ExistsByID(id string) (bool, error)
	MustClose()
}

type GenericAssetStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericAssetStore(dbProvider db.DatabaseProvider) (*GenericAssetStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericAssetStore{
		dbProvider: dbProvider,
	}, nil
}

func (as *GenericAssetStore) Store(asset *types.Asset) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	assetData, err := jsonx.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to marshal asset: %w", err)
	}

	err = as.dbProvider.Put(as.getDbKey(asset.ID), assetData)
	if err != nil {
		return fmt.Errorf("failed to write asset to db: %w", err)
	}

	return nil
}

// GetByID returns the asset record from db, both nil if not exist
func (as *GenericAssetStore) GetByID(id string) (*types.Asset, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	data, err := as.dbProvider.Get(as.getDbKey(id))
	if err != nil {
		return nil, fmt.Errorf("could not get asset %s from db: %w", id, err)
	}
	if data == nil {
		return nil, nil
	}

	var asset types.Asset
	if err := jsonx.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset %s: %w", id, err)
	}
	return &asset, nil
}

func (as *GenericAssetStore) ExistsByID(id string) (bool, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	return as.dbProvider.Has(as.getDbKey(id))
}

func (as *GenericAssetStore) MustClose() {
	err := as.dbProvider.Close()
	if err != nil {
		logx.Error("ASSET_STORE", "Failed to close db provider:", err.Error())
	}
}

func (as *GenericAssetStore) getDbKey(id string) []byte {
	return []byte(PrefixAsset + id)
}
