package staking

import (
	"fmt"

	"stakemine/errors"
	"stakemine/logx"
	"stakemine/monitoring"
	"stakemine/types"
)

// InitializePool creates the pool for a stake asset together with its two
// custody vaults. The admin must be the issuance authority recorded on the
// stake asset. No funds move; the reward vault is funded separately by the
// reward asset's issuer.
func (e *Engine) InitializePool(admin, stakeAsset, rewardAsset string, rewardRate uint64) (*types.PoolConfig, error) {
	lock := e.poolLock(stakeAsset)
	lock.Lock()
	defer lock.Unlock()

	pool, err := e.initializePool(admin, stakeAsset, rewardAsset, rewardRate)
	if err != nil {
		monitoring.RecordOperation("initialize_pool", monitoring.OpResultRejected)
		return nil, err
	}
	monitoring.RecordOperation("initialize_pool", monitoring.OpResultOk)
	monitoring.IncreasePoolCount()
	return pool, nil
}

func (e *Engine) initializePool(admin, stakeAsset, rewardAsset string, rewardRate uint64) (*types.PoolConfig, error) {
	if admin == "" || stakeAsset == "" || rewardAsset == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "admin, stake asset and reward asset are required")
	}
	if rewardRate == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRewardRate, "reward rate must be positive")
	}

	existed, err := e.pools.ExistsByAsset(stakeAsset)
	if err != nil {
		return nil, fmt.Errorf("could not check existence of pool: %w", err)
	}
	if existed {
		return nil, errors.New(errors.ErrCodePoolExisted, fmt.Sprintf("pool for %s already initialized", stakeAsset))
	}

	issuer, err := e.ledger.IssuerOf(stakeAsset)
	if err != nil {
		return nil, err
	}
	if issuer != admin {
		return nil, errors.New(errors.ErrCodeInvalidMintAuthority,
			fmt.Sprintf("admin %s is not the issuance authority of %s", admin, stakeAsset))
	}
	if _, err := e.ledger.IssuerOf(rewardAsset); err != nil {
		return nil, err
	}

	stakeVault := stakeCustody(stakeAsset)
	rewardVault := rewardCustody(stakeAsset)
	if err := e.ledger.CreateVaultAccount(stakeAsset, stakeVault.VaultAddress, stakeVault.Token); err != nil {
		return nil, fmt.Errorf("could not create stake vault: %w", err)
	}
	if err := e.ledger.CreateVaultAccount(rewardAsset, rewardVault.VaultAddress, rewardVault.Token); err != nil {
		return nil, fmt.Errorf("could not create reward vault: %w", err)
	}

	pool := &types.PoolConfig{
		Admin:              admin,
		StakeAsset:         stakeAsset,
		RewardAsset:        rewardAsset,
		StakeVault:         stakeVault.VaultAddress,
		RewardVault:        rewardVault.VaultAddress,
		TotalStaked:        0,
		RewardsDistributed: 0,
		RewardRate:         rewardRate,
	}
	if err := e.pools.Store(pool); err != nil {
		return nil, fmt.Errorf("failed to store pool config: %w", err)
	}

	logx.Info("STAKING", fmt.Sprintf("Initialized pool for %s (reward asset %s, rate %d)", stakeAsset, rewardAsset, rewardRate))
	return pool, nil
}
