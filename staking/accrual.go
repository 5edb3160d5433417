package staking

import (
	"github.com/holiman/uint256"

	"stakemine/errors"
)

// RewardOwed computes the reward accrued between lastClaimed and now at the
// pool's flat per-second rate. The result carries the same fixed-point scale
// as the rate. Accrual is independent of the staked amount: every active
// position earns the full pool rate for its own elapsed time.
//
// A clock running behind the recorded lastClaimed clamps elapsed time to
// zero. The multiply runs in 256 bits and rejects results that do not fit
// the 64-bit reward counters.
func RewardOwed(rewardRate uint64, lastClaimed, now int64) (uint64, error) {
	elapsed := now - lastClaimed
	if elapsed < 0 {
		elapsed = 0
	}

	owed := new(uint256.Int).Mul(uint256.NewInt(rewardRate), uint256.NewInt(uint64(elapsed)))
	if !owed.IsUint64() {
		return 0, errors.New(errors.ErrCodeArithmeticOverflow, "reward accrual overflows 64 bits")
	}
	return owed.Uint64(), nil
}

// checkedAdd returns a+b, failing instead of wrapping
func checkedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// checkedSub returns a-b, failing instead of wrapping
func checkedSub(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
