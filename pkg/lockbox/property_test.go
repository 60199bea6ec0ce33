//go:build property
// +build property

package lockbox

import (
	"errors"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/mesh-intelligence/lockbox/pkg/types"
	"github.com/mesh-intelligence/lockbox/pkg/vesting"
)

// buildSchedule turns raw generated timestamps and basis points into a
// valid vesting schedule: strictly increasing timestamps, total basis
// points capped at 10000.
func buildSchedule(tss, bps []int64) []types.VestSlice {
	n := len(tss)
	if len(bps) < n {
		n = len(bps)
	}
	sorted := make([]int64, n)
	copy(sorted, tss[:n])
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := make([]types.VestSlice, 0, n)
	budget := int64(types.BasisPointsTotal)
	prev := int64(-1)
	for i, ts := range sorted {
		if ts <= prev || budget == 0 {
			continue
		}
		prev = ts
		bp := bps[i]
		if bp < 0 {
			bp = -bp
		}
		bp = bp % (budget + 1)
		budget -= bp
		out = append(out, types.VestSlice{TS: ts, BasisPoints: uint32(bp)})
	}
	return out
}

// TestClaimableProperties checks the vesting calculator against the
// invariants that hold for every valid schedule: the claimable amount is
// never negative, never exceeds the total, and accrues monotonically
// with time.
func TestClaimableProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("claimable bounded by total", prop.ForAll(
		func(total int64, tss, bps []int64, now int64) bool {
			slices := buildSchedule(tss, bps)
			c, err := vesting.Claimable(total, 0, slices, nil, now)
			if err != nil {
				return false
			}
			return c >= 0 && c <= total
		},
		gen.Int64Range(1, 1<<40),
		gen.SliceOf(gen.Int64Range(1, 2_000_000)),
		gen.SliceOf(gen.Int64Range(0, 10000)),
		gen.Int64Range(0, 3_000_000),
	))

	properties.Property("claimable monotonic in time", prop.ForAll(
		func(total int64, tss, bps []int64, t1, t2 int64) bool {
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			slices := buildSchedule(tss, bps)
			c1, err1 := vesting.Claimable(total, 0, slices, nil, t1)
			c2, err2 := vesting.Claimable(total, 0, slices, nil, t2)
			return err1 == nil && err2 == nil && c1 <= c2
		},
		gen.Int64Range(1, 1<<40),
		gen.SliceOf(gen.Int64Range(1, 2_000_000)),
		gen.SliceOf(gen.Int64Range(0, 10000)),
		gen.Int64Range(0, 3_000_000),
		gen.Int64Range(0, 3_000_000),
	))

	properties.Property("claiming twice at the same instant yields zero", prop.ForAll(
		func(total int64, tss, bps []int64, now int64) bool {
			slices := buildSchedule(tss, bps)
			first, err := vesting.Claimable(total, 0, slices, nil, now)
			if err != nil {
				return false
			}
			second, err := vesting.Claimable(total, first, slices, nil, now)
			return err == nil && second == 0
		},
		gen.Int64Range(1, 1<<40),
		gen.SliceOf(gen.Int64Range(1, 2_000_000)),
		gen.SliceOf(gen.Int64Range(0, 10000)),
		gen.Int64Range(0, 3_000_000),
	))

	properties.TestingRun(t)
}

// TestClaimSequenceProperty drives the full service with random claim
// instants and checks that the sum of released amounts equals the final
// claimed amount, which never exceeds the total.
func TestClaimSequenceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	secret := []byte("property secret")
	commitment := HashSecret(secret)

	properties.Property("released sum equals claimed amount", prop.ForAll(
		func(total int64, tss, bps, instants []int64) bool {
			store := NewMemoryStore()
			clock := &fakeClock{now: 0}
			svc := New(store, WithClock(clock.fn))
			if err := svc.Initialize("alice", nil, 0, 0); err != nil {
				return false
			}
			err := svc.CreateEnvelope("alice", CreateParams{
				ID:               "env-p",
				Beneficiary:      "bob",
				Amount:           total,
				SecretCommitment: commitment,
				Vesting:          buildSchedule(tss, bps),
			})
			if err != nil {
				return false
			}

			sort.Slice(instants, func(i, j int) bool { return instants[i] < instants[j] })
			var released int64
			for _, now := range instants {
				clock.now = now
				r, err := svc.Claim("bob", "env-p", secret)
				switch {
				case err == nil:
					released += r
				case errors.Is(err, types.ErrZeroClaimable):
				default:
					return false
				}
			}

			e, err := svc.GetEnvelope("env-p")
			if err != nil {
				return false
			}
			return e.ClaimedAmount == released && e.ClaimedAmount <= e.TotalAmount
		},
		gen.Int64Range(1, 1<<40),
		gen.SliceOf(gen.Int64Range(1, 2_000_000)),
		gen.SliceOf(gen.Int64Range(0, 10000)),
		gen.SliceOf(gen.Int64Range(0, 3_000_000)),
	))

	properties.TestingRun(t)
}
