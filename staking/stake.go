package staking

import (
	"fmt"

	"github.com/holiman/uint256"

	"stakemine/errors"
	"stakemine/logx"
	"stakemine/monitoring"
	"stakemine/types"
)

// StakeAssets moves amount from the user's stake-asset account into the
// pool's stake vault and opens (or reactivates) the user's position. A user
// may hold at most one active position per pool.
func (e *Engine) StakeAssets(user, stakeAsset string, amount uint64) (*types.StakePosition, error) {
	lock := e.poolLock(stakeAsset)
	lock.Lock()
	defer lock.Unlock()

	position, err := e.stakeAssets(user, stakeAsset, amount)
	if err != nil {
		monitoring.RecordOperation("stake", monitoring.OpResultRejected)
		return nil, err
	}
	monitoring.RecordOperation("stake", monitoring.OpResultOk)
	return position, nil
}

func (e *Engine) stakeAssets(user, stakeAsset string, amount uint64) (*types.StakePosition, error) {
	if user == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "user is required")
	}
	if amount == 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "stake amount must be positive")
	}

	pool, err := e.pools.GetByAsset(stakeAsset)
	if err != nil {
		return nil, fmt.Errorf("could not load pool: %w", err)
	}
	if pool == nil {
		return nil, errors.New(errors.ErrCodePoolNotFound, "no pool exists for asset "+stakeAsset)
	}

	position, err := e.positions.Get(stakeAsset, user)
	if err != nil {
		return nil, fmt.Errorf("could not load position: %w", err)
	}
	if position != nil && position.Active {
		return nil, errors.New(errors.ErrCodeAlreadyActivePosition,
			fmt.Sprintf("user %s already has an active position in pool %s", user, stakeAsset))
	}

	stakeAmount := uint256.NewInt(amount)
	balance, err := e.ledger.Balance(stakeAsset, user)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(stakeAmount) < 0 {
		return nil, errors.New(errors.ErrCodeInsufficientTokenBalance,
			fmt.Sprintf("balance %s is below requested stake %d", balance.Dec(), amount))
	}

	newTotal, ok := checkedAdd(pool.TotalStaked, amount)
	if !ok {
		return nil, errors.New(errors.ErrCodeArithmeticOverflow, "pool total staked would overflow")
	}

	vault := stakeCustody(stakeAsset)
	if err := e.ledger.Transfer(stakeAsset, user, vault.VaultAddress, stakeAmount, user); err != nil {
		return nil, err
	}

	now := e.clock().Unix()
	position = &types.StakePosition{
		Owner:        user,
		Pool:         stakeAsset,
		AmountStaked: amount,
		Active:       true,
		StakedAt:     now,
		LastClaimed:  now,
	}
	priorTotal := pool.TotalStaked
	pool.TotalStaked = newTotal

	if err := e.commitStake(pool, position, priorTotal); err != nil {
		// funds already moved; undo the deposit so the failed op leaves no trace
		if refundErr := e.ledger.Transfer(stakeAsset, vault.VaultAddress, user, stakeAmount, vault.Token); refundErr != nil {
			logx.Error("STAKING", fmt.Sprintf("Failed to refund stake for %s after commit error: %v", user, refundErr))
		}
		return nil, err
	}

	monitoring.SetTotalStaked(stakeAsset, pool.TotalStaked)
	logx.Info("STAKING", fmt.Sprintf("User %s staked %d of %s", user, amount, stakeAsset))
	return position, nil
}

// commitStake persists the pool counter first and the position second,
// restoring the counter when the position write fails so both records move
// together or not at all
func (e *Engine) commitStake(pool *types.PoolConfig, position *types.StakePosition, priorTotal uint64) error {
	if err := e.pools.Store(pool); err != nil {
		pool.TotalStaked = priorTotal
		return fmt.Errorf("failed to store pool config: %w", err)
	}
	if err := e.positions.Store(position); err != nil {
		pool.TotalStaked = priorTotal
		if restoreErr := e.pools.Store(pool); restoreErr != nil {
			logx.Error("STAKING", fmt.Sprintf("Failed to restore pool counter for %s: %v", pool.StakeAsset, restoreErr))
		}
		return fmt.Errorf("failed to store position: %w", err)
	}
	return nil
}
