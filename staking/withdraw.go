package staking

import (
	"fmt"

	"github.com/holiman/uint256"

	"stakemine/errors"
	"stakemine/logx"
	"stakemine/monitoring"
	"stakemine/types"
)

// WithdrawAssets closes the user's active position: the full staked amount
// comes back from the stake vault and the reward accrued since lastClaimed is
// paid from the reward vault. The position record is zeroed and deactivated
// but retained for a later re-stake.
func (e *Engine) WithdrawAssets(user, stakeAsset string) (returnedStake, rewardPaid uint64, err error) {
	lock := e.poolLock(stakeAsset)
	lock.Lock()
	defer lock.Unlock()

	returnedStake, rewardPaid, err = e.withdrawAssets(user, stakeAsset)
	if err != nil {
		monitoring.RecordOperation("withdraw", monitoring.OpResultRejected)
		return 0, 0, err
	}
	monitoring.RecordOperation("withdraw", monitoring.OpResultOk)
	return returnedStake, rewardPaid, nil
}

func (e *Engine) withdrawAssets(user, stakeAsset string) (uint64, uint64, error) {
	pool, err := e.pools.GetByAsset(stakeAsset)
	if err != nil {
		return 0, 0, fmt.Errorf("could not load pool: %w", err)
	}
	if pool == nil {
		return 0, 0, errors.New(errors.ErrCodePoolNotFound, "no pool exists for asset "+stakeAsset)
	}

	position, err := e.positions.Get(stakeAsset, user)
	if err != nil {
		return 0, 0, fmt.Errorf("could not load position: %w", err)
	}
	if position == nil || !position.Active {
		return 0, 0, errors.New(errors.ErrCodeNoActivePosition,
			fmt.Sprintf("user %s has no active position in pool %s", user, stakeAsset))
	}

	now := e.clock().Unix()
	reward, err := RewardOwed(pool.RewardRate, position.LastClaimed, now)
	if err != nil {
		return 0, 0, err
	}

	newTotal, ok := checkedSub(pool.TotalStaked, position.AmountStaked)
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeArithmeticOverflow, "pool total staked would underflow")
	}
	newDistributed, ok := checkedAdd(pool.RewardsDistributed, reward)
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeArithmeticOverflow, "pool rewards distributed would overflow")
	}

	stakeVault := stakeCustody(stakeAsset)
	rewardVault := rewardCustody(stakeAsset)

	rewardAmount := uint256.NewInt(reward)
	vaultBalance, err := e.ledger.Balance(pool.RewardAsset, rewardVault.VaultAddress)
	if err != nil {
		return 0, 0, err
	}
	if vaultBalance.Cmp(rewardAmount) < 0 {
		return 0, 0, errors.New(errors.ErrCodeInsufficientVaultBalance,
			fmt.Sprintf("reward vault holds %s, owes %d", vaultBalance.Dec(), reward))
	}

	staked := position.AmountStaked
	prior := *position
	priorPool := *pool

	position.AmountStaked = 0
	position.Active = false
	position.LastClaimed = now
	pool.TotalStaked = newTotal
	pool.RewardsDistributed = newDistributed

	// Records are committed before any funds move. If a custody transfer
	// then fails, the records are restored; the reverse order could leave an
	// active position whose stake was already paid out.
	if err := e.commitWithdraw(pool, position, prior); err != nil {
		*position = prior
		*pool = priorPool
		return 0, 0, err
	}

	stakeAmount := uint256.NewInt(staked)
	if err := e.ledger.Transfer(stakeAsset, stakeVault.VaultAddress, user, stakeAmount, stakeVault.Token); err != nil {
		e.restoreWithdraw(pool, position, prior, priorPool)
		return 0, 0, err
	}
	if err := e.ledger.Transfer(pool.RewardAsset, rewardVault.VaultAddress, user, rewardAmount, rewardVault.Token); err != nil {
		// stake already returned; keep the position closed but take the
		// unpaid reward back out of the distributed counter
		pool.RewardsDistributed = priorPool.RewardsDistributed
		if storeErr := e.pools.Store(pool); storeErr != nil {
			logx.Error("STAKING", fmt.Sprintf("Failed to restore reward counter for %s: %v", pool.StakeAsset, storeErr))
		}
		logx.Error("STAKING", fmt.Sprintf("Reward payout of %d to %s failed: %v", reward, user, err))
		return 0, 0, err
	}

	monitoring.SetTotalStaked(stakeAsset, pool.TotalStaked)
	monitoring.AddRewardsPaid(stakeAsset, reward)
	logx.Info("STAKING", fmt.Sprintf("User %s withdrew %d of %s with reward %d", user, staked, stakeAsset, reward))
	return staked, reward, nil
}

// commitWithdraw persists the closed position and the updated pool counters,
// rewriting the prior position when the pool write fails so both records
// move together or not at all
func (e *Engine) commitWithdraw(pool *types.PoolConfig, position *types.StakePosition, prior types.StakePosition) error {
	if err := e.positions.Store(position); err != nil {
		return fmt.Errorf("failed to store position: %w", err)
	}
	if err := e.pools.Store(pool); err != nil {
		restore := prior
		if restoreErr := e.positions.Store(&restore); restoreErr != nil {
			logx.Error("STAKING", fmt.Sprintf("Failed to restore position for %s: %v", prior.Owner, restoreErr))
		}
		return fmt.Errorf("failed to store pool config: %w", err)
	}
	return nil
}

// restoreWithdraw rewrites the pre-withdraw records after a failed custody
// transfer
func (e *Engine) restoreWithdraw(pool *types.PoolConfig, position *types.StakePosition, prior types.StakePosition, priorPool types.PoolConfig) {
	*position = prior
	*pool = priorPool
	if err := e.positions.Store(position); err != nil {
		logx.Error("STAKING", fmt.Sprintf("Failed to restore position for %s: %v", position.Owner, err))
	}
	if err := e.pools.Store(pool); err != nil {
		logx.Error("STAKING", fmt.Sprintf("Failed to restore pool config for %s: %v", pool.StakeAsset, err))
	}
}
