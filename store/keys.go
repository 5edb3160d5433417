package store

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Seed tags namespacing derived keys. A derived key commits to its tag and
// every entity id it was built from, so records of different kinds can never
// collide even when they share ids.
const (
	SeedPoolConfig = "pool_config"
	SeedAuthority  = "authority"
	SeedPosition   = "position"
	SeedVault      = "vault"

	PurposeStake  = "stake"
	PurposeReward = "reward"
)

// DeriveKey builds a deterministic key from the given seed parts using
// BLAKE2b-256 over length-prefixed parts. Length prefixing keeps
// ("ab","c") and ("a","bc") distinct.
func DeriveKey(parts ...string) string {
	h, _ := blake2b.New256(nil)
	var lenBuf [4]byte
	for _, part := range parts {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(part)))
		h.Write(lenBuf[:])
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// PoolKey locates the PoolConfig record for a stake asset
func PoolKey(stakeAsset string) string {
	return DeriveKey(SeedPoolConfig, stakeAsset)
}

// PositionKey locates the stake position record for (pool, owner)
func PositionKey(stakeAsset, owner string) string {
	return DeriveKey(SeedPosition, stakeAsset, owner)
}

// VaultAuthorityKey derives the custody token bound to one vault of a pool.
// purpose is PurposeStake or PurposeReward.
func VaultAuthorityKey(purpose, stakeAsset string) string {
	return DeriveKey(SeedAuthority, purpose, stakeAsset)
}

// VaultAddress derives the custody account address for one vault of a pool
func VaultAddress(purpose, stakeAsset string) string {
	return DeriveKey(SeedVault, purpose, stakeAsset)
}
