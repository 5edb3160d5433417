package staking

import (
	"stakemine/store"
)

// custody binds a vault account to the token that authorizes debits from it.
// The token is derived from (purpose, pool) and never leaves the engine, so
// nothing outside the withdraw path can move vault funds.
type custody struct {
	VaultAddress string
	Token        string
}

// stakeCustody returns the custody binding for a pool's stake vault
func stakeCustody(stakeAsset string) custody {
	return custody{
		VaultAddress: store.VaultAddress(store.PurposeStake, stakeAsset),
		Token:        store.VaultAuthorityKey(store.PurposeStake, stakeAsset),
	}
}

// rewardCustody returns the custody binding for a pool's reward vault
func rewardCustody(stakeAsset string) custody {
	return custody{
		VaultAddress: store.VaultAddress(store.PurposeReward, stakeAsset),
		Token:        store.VaultAuthorityKey(store.PurposeReward, stakeAsset),
	}
}
