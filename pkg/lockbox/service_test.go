package lockbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

const day = int64(86400)

// fakeClock pins the service clock so tests control time.
type fakeClock struct {
	now int64
}

func (c *fakeClock) fn() int64 { return c.now }

// newTestService builds a service over a memory store with a pinned clock,
// initialized with owner "alice" and guardians g1..g3 (threshold 2, delay
// one day).
func newTestService(t *testing.T) (*Service, *MemoryStore, *fakeClock) {
	t.Helper()

	store := NewMemoryStore()
	clock := &fakeClock{now: 1000}
	svc := New(store, WithClock(clock.fn))

	err := svc.Initialize("alice", []types.Principal{"g1", "g2", "g3"}, 2, day)
	require.NoError(t, err)
	return svc, store, clock
}

func mustCreate(t *testing.T, svc *Service, params CreateParams) {
	t.Helper()
	require.NoError(t, svc.CreateEnvelope("alice", params))
}

func TestInitialize(t *testing.T) {
	store := NewMemoryStore()
	svc := New(store, WithClock((&fakeClock{now: 1}).fn))

	t.Run("second call fails", func(t *testing.T) {
		require.NoError(t, svc.Initialize("alice", nil, 0, 0))
		err := svc.Initialize("alice", nil, 0, 0)
		assert.ErrorIs(t, err, types.ErrAlreadyInitialized)
	})

	t.Run("threshold above guardian count rejected", func(t *testing.T) {
		svc2 := New(NewMemoryStore())
		err := svc2.Initialize("alice", []types.Principal{"g1"}, 2, 0)
		assert.ErrorIs(t, err, types.ErrInvalidGuardianConfig)
	})

	t.Run("operations before initialize fail", func(t *testing.T) {
		svc3 := New(NewMemoryStore())
		err := svc3.CreateEnvelope("alice", CreateParams{})
		assert.ErrorIs(t, err, types.ErrNotInitialized)
	})
}

func TestCreateEnvelope(t *testing.T) {
	secret := []byte("open sesame")
	commitment := HashSecret(secret)

	base := func() CreateParams {
		return CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
		}
	}

	t.Run("owner creates active envelope", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		mustCreate(t, svc, base())

		e, err := svc.GetEnvelope("env-1")
		require.NoError(t, err)
		assert.Equal(t, types.StatusActive, e.Status)
		assert.Zero(t, e.ClaimedAmount)
		assert.Equal(t, types.Principal("alice"), e.Owner)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		err := svc.CreateEnvelope("mallory", base())
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		mustCreate(t, svc, base())
		err := svc.CreateEnvelope("alice", base())
		assert.ErrorIs(t, err, types.ErrDuplicateEnvelopeID)
	})

	t.Run("zero amount rejected with nothing stored", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		params := base()
		params.Amount = 0
		err := svc.CreateEnvelope("alice", params)
		assert.ErrorIs(t, err, types.ErrZeroAmount)

		_, err = svc.GetEnvelope("env-1")
		assert.ErrorIs(t, err, types.ErrEnvelopeNotFound)
	})

	t.Run("invalid schedule rejected with nothing stored", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		params := base()
		params.Vesting = []types.VestSlice{
			{TS: 2000, BasisPoints: 6000},
			{TS: 3000, BasisPoints: 6000},
		}
		err := svc.CreateEnvelope("alice", params)
		assert.ErrorIs(t, err, types.ErrInvalidVestingSchedule)

		_, err = svc.GetEnvelope("env-1")
		assert.ErrorIs(t, err, types.ErrEnvelopeNotFound)
	})

	t.Run("expiry before vesting rejected", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		params := base()
		params.Vesting = []types.VestSlice{{TS: clock.now + 100, BasisPoints: 10000}}
		expiry := clock.now + 50
		params.ExpiryTS = &expiry
		err := svc.CreateEnvelope("alice", params)
		assert.ErrorIs(t, err, types.ErrInvalidTimestampOrdering)
	})
}

func TestClaim(t *testing.T) {
	secret := []byte("open sesame")
	commitment := HashSecret(secret)

	t.Run("quarterly vesting accrues per slice", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		start := clock.now
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
			Vesting: []types.VestSlice{
				{TS: start + 30*day, BasisPoints: 2500},
				{TS: start + 60*day, BasisPoints: 2500},
				{TS: start + 90*day, BasisPoints: 2500},
				{TS: start + 120*day, BasisPoints: 2500},
			},
		})

		// Day 31: first slice vested.
		clock.now = start + 31*day
		released, err := svc.Claim("bob", "env-1", secret)
		require.NoError(t, err)
		assert.Equal(t, int64(250), released)

		// Immediate re-claim yields nothing.
		_, err = svc.Claim("bob", "env-1", secret)
		assert.ErrorIs(t, err, types.ErrZeroClaimable)

		// Day 61: second slice.
		clock.now = start + 61*day
		released, err = svc.Claim("bob", "env-1", secret)
		require.NoError(t, err)
		assert.Equal(t, int64(250), released)

		e, err := svc.GetEnvelope("env-1")
		require.NoError(t, err)
		assert.Equal(t, int64(500), e.ClaimedAmount)
	})

	t.Run("incorrect secret never mutates", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
		})
		clock.now += day

		before, err := svc.GetEnvelope("env-1")
		require.NoError(t, err)

		_, err = svc.Claim("bob", "env-1", []byte("wrong"))
		assert.ErrorIs(t, err, types.ErrIncorrectSecret)

		after, err := svc.GetEnvelope("env-1")
		require.NoError(t, err)
		assert.Equal(t, before, after)

		transfers, err := svc.ListTransfers()
		require.NoError(t, err)
		assert.Empty(t, transfers, "failed claim must not issue a transfer")
	})

	t.Run("locked until unlock timestamp", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		unlock := clock.now + 10*day
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
			UnlockTS:         &unlock,
		})

		_, err := svc.Claim("bob", "env-1", secret)
		assert.ErrorIs(t, err, types.ErrZeroClaimable)

		clock.now = unlock
		released, err := svc.Claim("bob", "env-1", secret)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), released)
	})

	t.Run("no double release once fully claimed", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
		})
		clock.now += day

		released, err := svc.Claim("bob", "env-1", secret)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), released)

		_, err = svc.Claim("bob", "env-1", secret)
		assert.ErrorIs(t, err, types.ErrZeroClaimable)

		transfers, err := svc.ListTransfers()
		require.NoError(t, err)
		require.Len(t, transfers, 1, "exactly one transfer for one release")
		assert.Equal(t, int64(1000), transfers[0].Amount)
		assert.Equal(t, types.Principal("bob"), transfers[0].To)
		assert.Equal(t, types.TransferReasonClaim, transfers[0].Reason)
	})

	t.Run("only the beneficiary may claim", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
		})

		_, err := svc.Claim("mallory", "env-1", secret)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("unknown envelope", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Claim("bob", "missing", secret)
		assert.ErrorIs(t, err, types.ErrEnvelopeNotFound)
	})
}

func TestRevokeEnvelope(t *testing.T) {
	secret := []byte("open sesame")
	commitment := HashSecret(secret)

	t.Run("untouched envelope revokes and returns full amount", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
		})

		require.NoError(t, svc.RevokeEnvelope("alice", "env-1"))

		e, err := svc.GetEnvelope("env-1")
		require.NoError(t, err)
		assert.Equal(t, types.StatusRevoked, e.Status)

		transfers, err := svc.ListTransfers()
		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.Equal(t, int64(1000), transfers[0].Amount)
		assert.Equal(t, types.Principal("alice"), transfers[0].To)
		assert.Equal(t, types.TransferReasonRevoke, transfers[0].Reason)
	})

	t.Run("revoke after partial claim rejected", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		start := clock.now
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
			Vesting: []types.VestSlice{
				{TS: start + day, BasisPoints: 2500},
				{TS: start + 2*day, BasisPoints: 7500},
			},
		})

		clock.now = start + day
		_, err := svc.Claim("bob", "env-1", secret)
		require.NoError(t, err)

		err = svc.RevokeEnvelope("alice", "env-1")
		assert.ErrorIs(t, err, types.ErrRevokeAfterClaim)

		e, err := svc.GetEnvelope("env-1")
		require.NoError(t, err)
		assert.Equal(t, types.StatusActive, e.Status, "failed revoke must not change status")
	})

	t.Run("terminal envelope rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
		})
		require.NoError(t, svc.RevokeEnvelope("alice", "env-1"))

		err := svc.RevokeEnvelope("alice", "env-1")
		assert.ErrorIs(t, err, types.ErrInvalidState)
	})

	t.Run("owner only", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
		})

		err := svc.RevokeEnvelope("bob", "env-1")
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

func TestRefundOwner(t *testing.T) {
	secret := []byte("open sesame")
	commitment := HashSecret(secret)

	t.Run("before expiry rejected, after expiry pays remainder", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		start := clock.now
		expiry := start + 100*day
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
			Vesting: []types.VestSlice{
				{TS: start + day, BasisPoints: 3000},
			},
			ExpiryTS: &expiry,
		})

		clock.now = start + day
		released, err := svc.Claim("bob", "env-1", secret)
		require.NoError(t, err)
		assert.Equal(t, int64(300), released)

		_, err = svc.RefundOwner("alice", "env-1")
		assert.ErrorIs(t, err, types.ErrNotExpired)

		clock.now = expiry
		remaining, err := svc.RefundOwner("alice", "env-1")
		require.NoError(t, err)
		assert.Equal(t, int64(700), remaining)

		e, err := svc.GetEnvelope("env-1")
		require.NoError(t, err)
		assert.Equal(t, types.StatusRefunded, e.Status)

		// Subsequent claim fails on status.
		_, err = svc.Claim("bob", "env-1", secret)
		assert.ErrorIs(t, err, types.ErrInvalidState)
	})

	t.Run("no expiry means never refundable", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
		})

		clock.now += 1000 * day
		_, err := svc.RefundOwner("alice", "env-1")
		assert.ErrorIs(t, err, types.ErrNotExpired)
	})

	t.Run("fully claimed envelope refunds zero without transfer", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		expiry := clock.now + 10*day
		mustCreate(t, svc, CreateParams{
			ID:               "env-1",
			Beneficiary:      "bob",
			Amount:           1000,
			SecretCommitment: commitment,
			ExpiryTS:         &expiry,
		})

		clock.now += day
		_, err := svc.Claim("bob", "env-1", secret)
		require.NoError(t, err)

		clock.now = expiry
		remaining, err := svc.RefundOwner("alice", "env-1")
		require.NoError(t, err)
		assert.Zero(t, remaining)

		transfers, err := svc.ListTransfers()
		require.NoError(t, err)
		assert.Len(t, transfers, 1, "refunding zero must not add a transfer")
	})
}

// TestClaimedMonotonic walks a mixed operation sequence and checks that
// claimed_amount never decreases and never exceeds the total.
func TestClaimedMonotonic(t *testing.T) {
	secret := []byte("open sesame")
	commitment := HashSecret(secret)

	svc, _, clock := newTestService(t)
	start := clock.now
	expiry := start + 100*day
	mustCreate(t, svc, CreateParams{
		ID:               "env-1",
		Beneficiary:      "bob",
		Amount:           999,
		SecretCommitment: commitment,
		Vesting: []types.VestSlice{
			{TS: start + 10*day, BasisPoints: 3333},
			{TS: start + 20*day, BasisPoints: 3333},
			{TS: start + 30*day, BasisPoints: 3334},
		},
		ExpiryTS: &expiry,
	})

	last := int64(0)
	check := func() {
		e, err := svc.GetEnvelope("env-1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, e.ClaimedAmount, last, "claimed must be monotonic")
		assert.LessOrEqual(t, e.ClaimedAmount, e.TotalAmount)
		last = e.ClaimedAmount
	}

	for _, step := range []int64{5, 11, 11, 19, 25, 31, 31, 90} {
		clock.now = start + step*day
		_, _ = svc.Claim("bob", "env-1", secret)
		check()
		_, _ = svc.Claim("bob", "env-1", []byte("wrong"))
		check()
	}

	e, err := svc.GetEnvelope("env-1")
	require.NoError(t, err)
	assert.Equal(t, int64(999), e.ClaimedAmount, "full schedule must release everything")
}
