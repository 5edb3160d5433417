package store

import (
	"fmt"
	"path/filepath"

	"stakemine/db"
	"stakemine/logx"
)

// StoreType represents the type of store implementation
type StoreType string

const (
	// LevelDBStoreType uses the LevelDB implementation
	LevelDBStoreType StoreType = "leveldb"

	// BoltDBStoreType uses the bbolt implementation
	BoltDBStoreType StoreType = "boltdb"

	// MemoryStoreType keeps records in process memory only
	MemoryStoreType StoreType = "memory"
)

// StoreConfig holds configuration for creating store instances
type StoreConfig struct {
	// Type specifies which store implementation to use
	Type StoreType `json:"type" yaml:"type"`

	// Directory is the database directory path (for file-based databases)
	Directory string `json:"directory" yaml:"directory"`
}

// Validate validates the store configuration
func (sc *StoreConfig) Validate() error {
	if sc.Type == "" {
		return fmt.Errorf("store type cannot be empty")
	}

	switch sc.Type {
	case MemoryStoreType:
		return nil
	case LevelDBStoreType, BoltDBStoreType:
		if sc.Directory == "" {
			return fmt.Errorf("directory cannot be empty")
		}
		return nil
	default:
		return fmt.Errorf("unsupported store type: %s", sc.Type)
	}
}

// Stores bundles every record store built over one shared provider
type Stores struct {
	Pools     PoolStore
	Positions PositionStore
	Assets    AssetStore
	Accounts  AccountStore

	provider db.DatabaseProvider
}

// MustClose closes the shared provider once for all stores
func (s *Stores) MustClose() {
	if err := s.provider.Close(); err != nil {
		logx.Error("STORE", "Failed to close db provider:", err.Error())
	}
}

// StoreFactory take responsibility to create store instances
type StoreFactory struct{}

// NewStoreFactory creates a new store factory
func NewStoreFactory() *StoreFactory {
	return &StoreFactory{}
}

// CreateProvider opens the database backend named by the config
func (f *StoreFactory) CreateProvider(cfg *StoreConfig) (db.DatabaseProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case LevelDBStoreType:
		return db.NewLevelDBProvider(cfg.Directory)
	case BoltDBStoreType:
		return db.NewBoltDBProvider(filepath.Join(cfg.Directory, "stakemine.db"))
	case MemoryStoreType:
		return db.NewMemoryProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

// CreateStoresWithProvider creates every record store over a shared provider
func (f *StoreFactory) CreateStoresWithProvider(provider db.DatabaseProvider) (*Stores, error) {
	pools, err := NewGenericPoolStore(provider)
	if err != nil {
		return nil, fmt.Errorf("could not create pool store: %w", err)
	}
	positions, err := NewGenericPositionStore(provider)
	if err != nil {
		return nil, fmt.Errorf("could not create position store: %w", err)
	}
	assets, err := NewGenericAssetStore(provider)
	if err != nil {
		return nil, fmt.Errorf("could not create asset store: %w", err)
	}
	accounts, err := NewGenericAccountStore(provider)
	if err != nil {
		return nil, fmt.Errorf("could not create account store: %w", err)
	}

	return &Stores{
		Pools:     pools,
		Positions: positions,
		Assets:    assets,
		Accounts:  accounts,
		provider:  provider,
	}, nil
}
