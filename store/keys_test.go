package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKeyDeterminism(t *testing.T) {
	assert.Equal(t, DeriveKey("a", "b"), DeriveKey("a", "b"))
	assert.NotEqual(t, DeriveKey("a", "b"), DeriveKey("b", "a"))

	// Length prefixing keeps part boundaries distinct
	assert.NotEqual(t, DeriveKey("ab", "c"), DeriveKey("a", "bc"))
	assert.Len(t, DeriveKey("a"), 64)
}

func TestDerivedKeysAreDistinct(t *testing.T) {
	keys := []string{
		PoolKey("STK"),
		PositionKey("STK", "alice"),
		PositionKey("STK", "bob"),
		PositionKey("OTHER", "alice"),
		VaultAddress(PurposeStake, "STK"),
		VaultAddress(PurposeReward, "STK"),
		VaultAuthorityKey(PurposeStake, "STK"),
		VaultAuthorityKey(PurposeReward, "STK"),
	}

	seen := make(map[string]bool)
	for _, key := range keys {
		assert.False(t, seen[key], "duplicate derived key %s", key)
		seen[key] = true
	}
}
