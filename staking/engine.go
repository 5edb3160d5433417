package staking

import (
	"sync"
	"time"

	"stakemine/errors"
	"stakemine/interfaces"
	"stakemine/store"
	"stakemine/types"
)

// Engine is the staking-and-reward state machine. Each operation runs as one
// indivisible unit of work under the lock of the pool it names, so operations
// on distinct pools proceed concurrently while writers to the same pool (and
// its positions) are serialized.
type Engine struct {
	mu        sync.Mutex // guards poolLocks
	poolLocks map[string]*sync.Mutex

	ledger    interfaces.Ledger
	pools     store.PoolStore
	positions store.PositionStore
	clock     func() time.Time
}

func NewEngine(ledger interfaces.Ledger, pools store.PoolStore, positions store.PositionStore) *Engine {
	return &Engine{
		poolLocks: make(map[string]*sync.Mutex),
		ledger:    ledger,
		pools:     pools,
		positions: positions,
		clock:     time.Now,
	}
}

// SetClock overrides the wall clock source
func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
}

// poolLock returns the mutex serializing operations on one pool, creating it
// on first use
func (e *Engine) poolLock(stakeAsset string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.poolLocks[stakeAsset]
	if !ok {
		lock = &sync.Mutex{}
		e.poolLocks[stakeAsset] = lock
	}
	return lock
}

// GetPool returns the pool config for a stake asset
func (e *Engine) GetPool(stakeAsset string) (*types.PoolConfig, error) {
	pool, err := e.pools.GetByAsset(stakeAsset)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errors.New(errors.ErrCodePoolNotFound, "no pool exists for asset "+stakeAsset)
	}
	return pool, nil
}

// GetPosition returns the position record for (pool, owner). A user who has
// never staked has no record; a user who withdrew keeps an inactive one.
func (e *Engine) GetPosition(stakeAsset, owner string) (*types.StakePosition, error) {
	position, err := e.positions.Get(stakeAsset, owner)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, errors.New(errors.ErrCodeNoActivePosition, "no position exists for "+owner)
	}
	return position, nil
}
