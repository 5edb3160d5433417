package staking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stakemine/errors"
	"stakemine/types"
)

func TestRewardOwed(t *testing.T) {
	// One scale unit per second for an hour
	owed, err := RewardOwed(types.RewardRateScale, 1_700_000_000, 1_700_003_600)
	require.NoError(t, err)
	assert.Equal(t, uint64(3600)*types.RewardRateScale, owed)

	// Zero elapsed time accrues nothing
	owed, err = RewardOwed(types.RewardRateScale, 1_700_000_000, 1_700_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), owed)

	// A clock behind the recorded claim time clamps to zero
	owed, err = RewardOwed(types.RewardRateScale, 1_700_000_000, 1_699_999_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), owed)
}

func TestRewardOwedOverflow(t *testing.T) {
	_, err := RewardOwed(math.MaxUint64, 0, math.MaxInt64)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeArithmeticOverflow))

	// Largest product that still fits
	owed, err := RewardOwed(math.MaxUint64, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), owed)
}

func TestCheckedArithmetic(t *testing.T) {
	sum, ok := checkedAdd(math.MaxUint64, 1)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), sum)

	sum, ok = checkedAdd(math.MaxUint64-1, 1)
	assert.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	diff, ok := checkedSub(1, 2)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), diff)

	diff, ok = checkedSub(2, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), diff)
}
