package types

// RewardRateScale is the fixed-point scale applied to PoolConfig.RewardRate.
// A rate of 1e9 pays one whole reward unit per elapsed second.
const RewardRateScale uint64 = 1_000_000_000

// PoolConfig is the aggregate state for one stake-asset/reward-asset pairing.
// There is exactly one pool per stake asset.
type PoolConfig struct {
	Admin              string `json:"admin"`
	StakeAsset         string `json:"stake_asset"`
	RewardAsset        string `json:"reward_asset"`
	StakeVault         string `json:"stake_vault"`
	RewardVault        string `json:"reward_vault"`
	TotalStaked        uint64 `json:"total_staked"`
	RewardsDistributed uint64 `json:"rewards_distributed"`
	RewardRate         uint64 `json:"reward_rate"` // reward units per second, scaled by RewardRateScale
}

// StakePosition is the per-user record of a stake within a pool. A withdrawn
// position is zeroed and deactivated, never deleted, so the record can be
// reused when the same user stakes again.
type StakePosition struct {
	Owner        string `json:"owner"`
	Pool         string `json:"pool"` // stake asset id of the owning pool
	AmountStaked uint64 `json:"amount_staked"`
	Active       bool   `json:"active"`
	StakedAt     int64  `json:"staked_at"`    // unix seconds
	LastClaimed  int64  `json:"last_claimed"` // accrual reference point, unix seconds
}
