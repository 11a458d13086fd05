package staking

import (
	"math/big"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-staking/authority"
	"github.com/rony4d/go-opera-staking/distributor"
	"github.com/rony4d/go-opera-staking/inter"
	"github.com/rony4d/go-opera-staking/ledger"
	"github.com/rony4d/go-opera-staking/protocol"
	"github.com/rony4d/go-opera-staking/token"
	"github.com/rony4d/go-opera-staking/treasury"
)

var (
	governor  = common.BytesToAddress([]byte("governor"))
	policy    = common.BytesToAddress([]byte("policy"))
	vaultAt   = common.BytesToAddress([]byte("treasury"))
	stakingAt = common.BytesToAddress([]byte("staking"))
	distribAt = common.BytesToAddress([]byte("distributor"))
	alice     = common.BytesToAddress([]byte("alice"))
	bob       = common.BytesToAddress([]byte("bob"))
)

const (
	epochLength = inter.Timestamp(100)
	firstEpoch  = idx.Epoch(10)
)

// harness assembles the full deployment around one coordinator with a
// controllable clock. Stakers alice and bob are funded with base tokens.
type harness struct {
	now   inter.Timestamp
	auth  *authority.Registry
	base  *token.Register
	ldg   *ledger.Ledger
	coord *Coordinator
}

func newHarness(t *testing.T, warmup idx.Epoch) *harness {
	t.Helper()
	h := &harness{now: 1000}
	h.auth = authority.NewRegistry(governor, governor, policy, vaultAt)
	h.base = token.NewRegister("Opera Reserve", "ORE", protocol.Decimals, h.auth)
	h.ldg = ledger.New(protocol.SupplyRules{
		InitialSupply: big.NewInt(1_000_000),
		MaxSupply:     protocol.DefaultMaxSupply(),
	}, h.auth, stakingAt, nil)
	rules := protocol.StakingRules{
		EpochLength:  epochLength,
		WarmupPeriod: warmup,
		FirstEpoch:   firstEpoch,
	}
	h.coord = New(stakingAt, h.auth, h.base, h.ldg, rules, h.now+epochLength, func() inter.Timestamp { return h.now })
	h.ldg.SetWarmupSource(h.coord)
	require.NoError(t, h.ldg.SetIndex(governor, big.NewInt(10)))

	for _, addr := range []common.Address{alice, bob} {
		require.NoError(t, h.base.Mint(vaultAt, addr, big.NewInt(10_000)))
	}
	return h
}

// advance moves the clock past the current epoch end and rolls it over.
func (h *harness) advance(t *testing.T) {
	t.Helper()
	h.now = h.coord.Epoch().End
	_, err := h.coord.Rebase()
	require.NoError(t, err)
}

// wireDistributor attaches a real treasury-backed distributor paying the
// given rollover bounty.
func (h *harness) wireDistributor(t *testing.T, bounty int64) *distributor.Distributor {
	t.Helper()
	tre := treasury.New(vaultAt, h.auth, h.base)
	dist := distributor.New(distribAt, h.auth, tre, h.base, stakingAt, big.NewInt(bounty))
	require.NoError(t, tre.EnableMinter(governor, distribAt))
	require.NoError(t, h.coord.SetDistributor(governor, dist))
	return dist
}

// TestStakeDirect covers the no-warmup fast path: the deposit converts to
// receipt units one to one and the receipt supply does not change.
func TestStakeDirect(t *testing.T) {
	h := newHarness(t, 0)

	credited, err := h.coord.Stake(alice, alice, big.NewInt(1000), true)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000), credited)

	require.Equal(t, big.NewInt(1000), h.ldg.BalanceOf(alice))
	require.Equal(t, big.NewInt(1_000_000), h.ldg.TotalSupply())
	require.Equal(t, big.NewInt(1000), h.ldg.CirculatingSupply())

	require.Equal(t, big.NewInt(9_000), h.base.BalanceOf(alice))
	require.Equal(t, big.NewInt(1000), h.base.BalanceOf(stakingAt))

	_, pending := h.coord.PendingClaim(alice)
	require.False(t, pending)
}

// TestStakeWithWarmup covers the warmup path: the deposit is parked until
// its expiry epoch is reached, then claims at the current receipt value.
func TestStakeWithWarmup(t *testing.T) {
	h := newHarness(t, 2)

	credited, err := h.coord.Stake(alice, alice, big.NewInt(1000), true)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000), credited)

	// Receipts stay with the coordinator while pending.
	require.Zero(t, h.ldg.BalanceOf(alice).Sign())
	require.Equal(t, big.NewInt(1000), h.coord.SupplyInWarmup())
	require.Equal(t, big.NewInt(1000), h.ldg.CirculatingSupply())

	entry, ok := h.coord.PendingClaim(alice)
	require.True(t, ok)
	require.Equal(t, big.NewInt(1000), entry.Deposit)
	require.Equal(t, firstEpoch+2, entry.Expiry)

	// Not claimable at the deposit epoch or one later.
	got, err := h.coord.Claim(alice, alice)
	require.NoError(t, err)
	require.Zero(t, got.Sign())

	h.advance(t) // epoch 11
	got, err = h.coord.Claim(alice, alice)
	require.NoError(t, err)
	require.Zero(t, got.Sign())

	h.advance(t) // epoch 12, expiry reached
	got, err = h.coord.Claim(alice, alice)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000), got)

	require.Equal(t, big.NewInt(1000), h.ldg.BalanceOf(alice))
	require.Zero(t, h.coord.SupplyInWarmup().Sign())
	_, ok = h.coord.PendingClaim(alice)
	require.False(t, ok)

	// Repeat claim is a no-op.
	got, err = h.coord.Claim(alice, alice)
	require.NoError(t, err)
	require.Zero(t, got.Sign())
}

// TestStakeAccumulates verifies repeat stakes merge into one entry with a
// refreshed expiry.
func TestStakeAccumulates(t *testing.T) {
	h := newHarness(t, 2)

	_, err := h.coord.Stake(alice, alice, big.NewInt(300), false)
	require.NoError(t, err)

	h.advance(t) // epoch 11

	_, err = h.coord.Stake(alice, alice, big.NewInt(200), false)
	require.NoError(t, err)

	entry, ok := h.coord.PendingClaim(alice)
	require.True(t, ok)
	require.Equal(t, big.NewInt(500), entry.Deposit)
	require.Equal(t, firstEpoch+1+2, entry.Expiry)
	require.Equal(t, big.NewInt(500), h.coord.SupplyInWarmup())
}

// TestStakeCustody verifies third-party deposits and claims are rejected
// unless the receiver has opted in by locking the entry.
func TestStakeCustody(t *testing.T) {
	h := newHarness(t, 2)

	// Deposits to an absent (and therefore unlocked) entry must come from
	// the receiver itself.
	_, err := h.coord.Stake(bob, alice, big.NewInt(100), false)
	require.ErrorIs(t, err, ErrDepositsLocked)

	// Claims for an unlocked entry likewise.
	_, err = h.coord.Stake(alice, alice, big.NewInt(100), false)
	require.NoError(t, err)
	_, err = h.coord.Claim(bob, alice)
	require.ErrorIs(t, err, ErrClaimsLocked)

	// Opting in allows both.
	h.coord.ToggleLock(alice)
	_, err = h.coord.Stake(bob, alice, big.NewInt(100), false)
	require.NoError(t, err)

	h.advance(t)
	h.advance(t)
	h.advance(t)
	got, err := h.coord.Claim(bob, alice)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(200), got)
	require.Equal(t, big.NewInt(200), h.ldg.BalanceOf(alice))
}

// TestToggleLockCreatesEntry verifies accounts can lock before ever staking.
func TestToggleLockCreatesEntry(t *testing.T) {
	h := newHarness(t, 2)

	h.coord.ToggleLock(alice)
	entry, ok := h.coord.PendingClaim(alice)
	require.True(t, ok)
	require.True(t, entry.Lock)
	require.Zero(t, entry.Deposit.Sign())

	h.coord.ToggleLock(alice)
	entry, _ = h.coord.PendingClaim(alice)
	require.False(t, entry.Lock)
}

// TestForfeit verifies abandoning a warmup entry refunds exactly the
// original deposit, leaving any accrued growth behind.
func TestForfeit(t *testing.T) {
	h := newHarness(t, 2)

	// No entry refunds zero.
	got, err := h.coord.Forfeit(alice)
	require.NoError(t, err)
	require.Zero(t, got.Sign())

	_, err = h.coord.Stake(alice, alice, big.NewInt(300), false)
	require.NoError(t, err)

	// Accrue growth while the deposit is in warmup.
	require.NoError(t, h.base.Mint(vaultAt, stakingAt, big.NewInt(100)))
	h.advance(t) // schedules the surplus as profit
	h.advance(t) // executes the rebase

	entry, ok := h.coord.PendingClaim(alice)
	require.True(t, ok)
	worth := h.ldg.BalanceForGons(entry.Gons)
	require.True(t, worth.Cmp(big.NewInt(300)) > 0, "warmup position did not grow")

	got, err = h.coord.Forfeit(alice)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(300), got)
	require.Equal(t, big.NewInt(10_000), h.base.BalanceOf(alice))
	require.Zero(t, h.coord.SupplyInWarmup().Sign())
	_, ok = h.coord.PendingClaim(alice)
	require.False(t, ok)
}

// TestUnstake redeems receipts for base tokens paid to a chosen receiver.
func TestUnstake(t *testing.T) {
	h := newHarness(t, 0)

	_, err := h.coord.Stake(alice, alice, big.NewInt(1000), true)
	require.NoError(t, err)

	paid, err := h.coord.Unstake(alice, bob, big.NewInt(400), false)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(400), paid)

	require.Equal(t, big.NewInt(600), h.ldg.BalanceOf(alice))
	require.Equal(t, big.NewInt(10_400), h.base.BalanceOf(bob))
	require.Equal(t, big.NewInt(600), h.base.BalanceOf(stakingAt))
}

// TestUnstakeReserveCheck verifies the payout precheck fails the whole
// operation before any state moves.
func TestUnstakeReserveCheck(t *testing.T) {
	h := newHarness(t, 0)

	_, err := h.coord.Stake(alice, alice, big.NewInt(1000), true)
	require.NoError(t, err)

	// Drain most of the reserve out from under the coordinator.
	require.NoError(t, h.base.Transfer(stakingAt, bob, big.NewInt(900)))

	_, err = h.coord.Unstake(alice, alice, big.NewInt(600), false)
	require.ErrorIs(t, err, ErrInsufficientReserve)

	// Nothing moved.
	require.Equal(t, big.NewInt(1000), h.ldg.BalanceOf(alice))
	require.Equal(t, big.NewInt(9_000), h.base.BalanceOf(alice))
}

// TestStakeExceedingFloat verifies a deposit larger than the coordinator's
// receipt float fails before the caller's base tokens move.
func TestStakeExceedingFloat(t *testing.T) {
	h := newHarness(t, 0)
	require.NoError(t, h.base.Mint(vaultAt, alice, big.NewInt(2_000_000)))

	// The whole receipt supply is 1,000,000.
	_, err := h.coord.Stake(alice, alice, big.NewInt(1_500_000), true)
	require.ErrorIs(t, err, ErrInsufficientFloat)

	require.Equal(t, big.NewInt(2_010_000), h.base.BalanceOf(alice))
	require.Zero(t, h.base.BalanceOf(stakingAt).Sign())
	require.Zero(t, h.ldg.BalanceOf(alice).Sign())
}

// TestWarmupStakeExceedingFloat verifies the float check counts receipts
// already owed to warmup, so deposits cannot be booked beyond what claims
// could ever deliver.
func TestWarmupStakeExceedingFloat(t *testing.T) {
	h := newHarness(t, 2)
	require.NoError(t, h.base.Mint(vaultAt, alice, big.NewInt(2_000_000)))

	_, err := h.coord.Stake(alice, alice, big.NewInt(600_000), false)
	require.NoError(t, err)

	// 400,000 of unallocated float left.
	_, err = h.coord.Stake(alice, alice, big.NewInt(600_000), false)
	require.ErrorIs(t, err, ErrInsufficientFloat)

	// The first entry is untouched and the failed deposit moved nothing.
	entry, ok := h.coord.PendingClaim(alice)
	require.True(t, ok)
	require.Equal(t, big.NewInt(600_000), entry.Deposit)
	require.Equal(t, big.NewInt(600_000), h.coord.SupplyInWarmup())
	require.Equal(t, big.NewInt(1_410_000), h.base.BalanceOf(alice))
}

// TestUnstakeZeroAmount verifies a zero redemption is a valid no-op even
// for a caller holding no receipts.
func TestUnstakeZeroAmount(t *testing.T) {
	h := newHarness(t, 0)

	paid, err := h.coord.Unstake(bob, bob, new(big.Int), false)
	require.NoError(t, err)
	require.Zero(t, paid.Sign())
	require.Equal(t, big.NewInt(10_000), h.base.BalanceOf(bob))
}

// TestRebaseSchedule verifies rollovers fire only once the epoch end has
// passed, and that an arbitrarily overdue epoch catches up one step per
// trigger.
func TestRebaseSchedule(t *testing.T) {
	h := newHarness(t, 0)

	// Not due yet.
	bounty, err := h.coord.Rebase()
	require.NoError(t, err)
	require.Zero(t, bounty.Sign())
	require.Equal(t, firstEpoch, h.coord.Epoch().Number)

	// Jump five epochs ahead; each trigger advances exactly one step.
	h.now += 5 * epochLength
	for i := 1; i <= 5; i++ {
		_, err := h.coord.Rebase()
		require.NoError(t, err)
		require.Equal(t, firstEpoch+idx.Epoch(i), h.coord.Epoch().Number)
	}

	// Caught up.
	_, err = h.coord.Rebase()
	require.NoError(t, err)
	require.Equal(t, firstEpoch+5, h.coord.Epoch().Number)
}

// TestRebaseProfit walks the full reward cycle: surplus base tokens held by
// the coordinator become the next epoch's profit, and the following
// rollover grows every staked balance proportionally.
func TestRebaseProfit(t *testing.T) {
	h := newHarness(t, 0)

	_, err := h.coord.Stake(alice, alice, big.NewInt(1000), true)
	require.NoError(t, err)

	// Reward lands in the reserve.
	require.NoError(t, h.base.Mint(vaultAt, stakingAt, big.NewInt(100)))

	// First rollover only schedules the surplus.
	h.advance(t)
	require.Equal(t, big.NewInt(100), h.coord.Epoch().Distribute)
	require.Equal(t, big.NewInt(1000), h.ldg.BalanceOf(alice))

	// Second rollover executes the rebase: 10% growth on circulating.
	h.advance(t)
	require.Equal(t, big.NewInt(1100), h.ldg.BalanceOf(alice))
	require.Equal(t, big.NewInt(1_100_000), h.ldg.TotalSupply())

	index, err := h.ldg.Index()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(11), index)

	// The growth consumed the whole surplus.
	require.Zero(t, h.coord.Epoch().Distribute.Sign())

	record, ok := h.ldg.LastRecord()
	require.True(t, ok)
	require.Equal(t, firstEpoch+1, record.Epoch)
	require.Equal(t, big.NewInt(100), record.Amount)
}

// TestBountyOnStake verifies a staker who triggers an overdue rollover has
// the bounty folded into the credited amount.
func TestBountyOnStake(t *testing.T) {
	h := newHarness(t, 0)
	h.wireDistributor(t, 50)

	h.now += epochLength
	credited, err := h.coord.Stake(alice, alice, big.NewInt(1000), true)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1050), credited)
	require.Equal(t, big.NewInt(1050), h.ldg.BalanceOf(alice))
}

// TestBountyOnUnstake verifies the trigger flag routes the bounty into the
// payout, and that leaving it unset skips the rollover entirely.
func TestBountyOnUnstake(t *testing.T) {
	h := newHarness(t, 0)
	h.wireDistributor(t, 50)

	_, err := h.coord.Stake(alice, alice, big.NewInt(1000), true)
	require.NoError(t, err)

	h.now += epochLength
	numberBefore := h.coord.Epoch().Number

	paid, err := h.coord.Unstake(alice, alice, big.NewInt(100), false)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(100), paid)
	require.Equal(t, numberBefore, h.coord.Epoch().Number)

	paid, err = h.coord.Unstake(alice, alice, big.NewInt(100), true)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(150), paid)
	require.Equal(t, numberBefore+1, h.coord.Epoch().Number)
}

// TestGovernorGates verifies the governor-only setters.
func TestGovernorGates(t *testing.T) {
	h := newHarness(t, 0)

	require.ErrorIs(t, h.coord.SetWarmupLength(alice, 3), authority.ErrNotGovernor)
	require.NoError(t, h.coord.SetWarmupLength(governor, 3))
	require.Equal(t, idx.Epoch(3), h.coord.WarmupPeriod())

	err := h.coord.SetDistributor(alice, nil)
	require.ErrorIs(t, err, authority.ErrNotGovernor)
}

// TestInvalidAmounts verifies amount validation happens before anything else.
func TestInvalidAmounts(t *testing.T) {
	h := newHarness(t, 0)

	_, err := h.coord.Stake(alice, alice, big.NewInt(-1), true)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = h.coord.Stake(alice, alice, nil, true)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = h.coord.Unstake(alice, alice, big.NewInt(-1), false)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

// TestSnapshotDeterminism verifies snapshots of equal state hash equally and
// entries come out ordered by account.
func TestSnapshotDeterminism(t *testing.T) {
	h := newHarness(t, 2)

	_, err := h.coord.Stake(alice, alice, big.NewInt(100), false)
	require.NoError(t, err)
	_, err = h.coord.Stake(bob, bob, big.NewInt(200), false)
	require.NoError(t, err)

	a := h.coord.Snapshot()
	b := h.coord.Snapshot()
	require.Equal(t, a.Hash(), b.Hash())
	require.Len(t, a.Entries, 2)

	for i := 1; i < len(a.Entries); i++ {
		require.True(t, a.Entries[i-1].Account.Hex() < a.Entries[i].Account.Hex())
	}

	// Any state change shows up in the hash.
	_, err = h.coord.Stake(alice, alice, big.NewInt(1), false)
	require.NoError(t, err)
	require.NotEqual(t, a.Hash(), h.coord.Snapshot().Hash())
}
