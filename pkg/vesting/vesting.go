// Package vesting computes the claimable portion of a locked amount under
// an optional time-lock and a basis-points vesting schedule. All functions
// are pure; the caller supplies the clock.
package vesting

import (
	"math/big"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

var bpsTotal = big.NewInt(types.BasisPointsTotal)

// Claimable returns the amount newly claimable at now: the unlocked portion
// of total minus what has already been claimed, never negative.
//
// The unlock timestamp gates everything: before unlockTS nothing is
// claimable, vesting schedule or not. With an empty schedule the full
// amount unlocks at once; otherwise the unlocked fraction is the sum of
// basis points of every slice whose timestamp has passed, capped at 10000,
// applied as floor(total*bps/10000).
//
// The multiply runs through big.Int; a result that does not fit int64
// returns types.ErrArithmeticOverflow instead of wrapping.
func Claimable(total, claimed int64, slices []types.VestSlice, unlockTS *int64, now int64) (int64, error) {
	if total < 0 || claimed < 0 || claimed > total {
		return 0, types.ErrArithmeticOverflow
	}
	if unlockTS != nil && now < *unlockTS {
		return 0, nil
	}

	if len(slices) == 0 {
		return total - claimed, nil
	}

	var bps uint64
	for _, s := range slices {
		if s.TS <= now {
			bps += uint64(s.BasisPoints)
		}
	}
	if bps > types.BasisPointsTotal {
		bps = types.BasisPointsTotal
	}

	unlocked := new(big.Int).Mul(big.NewInt(total), new(big.Int).SetUint64(bps))
	unlocked.Quo(unlocked, bpsTotal)
	if !unlocked.IsInt64() {
		return 0, types.ErrArithmeticOverflow
	}
	delta := unlocked.Int64() - claimed
	if delta < 0 {
		return 0, nil
	}
	return delta, nil
}

// ValidateSchedule checks that slice timestamps strictly increase and that
// basis points sum to at most 10000. An empty schedule is valid.
func ValidateSchedule(slices []types.VestSlice) error {
	var sum uint64
	var prev int64
	for i, s := range slices {
		if i > 0 && s.TS <= prev {
			return types.ErrInvalidVestingSchedule
		}
		prev = s.TS
		sum += uint64(s.BasisPoints)
		if sum > types.BasisPointsTotal {
			return types.ErrInvalidVestingSchedule
		}
	}
	return nil
}

// AddChecked returns a+b or types.ErrArithmeticOverflow when the sum does
// not fit int64.
func AddChecked(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, types.ErrArithmeticOverflow
	}
	return sum, nil
}

// SubChecked returns a-b or types.ErrArithmeticOverflow on underflow.
func SubChecked(a, b int64) (int64, error) {
	diff := a - b
	if (b > 0 && diff > a) || (b < 0 && diff < a) {
		return 0, types.ErrArithmeticOverflow
	}
	return diff, nil
}
