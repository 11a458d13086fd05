// Package staking implements the epoch state machine coordinating deposits
// into the elastic receipt ledger. Deposits are gated through a warmup
// delay measured in epochs, profit is distributed by rebasing the receipt
// supply once per epoch, and any caller may trigger an overdue rollover in
// exchange for a bounty.
//
// Ordering discipline: within every operation, all internal-state
// mutations (warmup entries, aggregate pending gons, epoch fields) happen
// before any outbound token movement, and all prechecks happen before any
// mutation. An operation either takes full effect or none.
package staking

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-staking/authority"
	"github.com/rony4d/go-opera-staking/inter"
	"github.com/rony4d/go-opera-staking/ledger"
	"github.com/rony4d/go-opera-staking/protocol"
	"github.com/rony4d/go-opera-staking/token"
)

var log = logrus.WithField("module", "staking")

// Clock reports the current protocol time. Injected so tests and the
// simulator can drive epochs deterministically.
type Clock func() inter.Timestamp

// Distributor is the reward collaborator notified once per epoch rollover.
type Distributor interface {
	Distribute() error
	RetrieveBounty() (*big.Int, error)
}

// Epoch is the rollover schedule state.
type Epoch struct {
	// Length is the fixed epoch duration.
	Length inter.Timestamp

	// Number is the current epoch sequence number; increases by exactly
	// one per rollover.
	Number idx.Epoch

	// End is the time at which the current epoch becomes overdue. It
	// advances by exactly one Length per rollover regardless of how much
	// wall-clock time elapsed (catch-up is one epoch per trigger).
	End inter.Timestamp

	// Distribute is the profit scheduled for the next rollover's rebase.
	Distribute *big.Int
}

// Copy creates a deep copy of the epoch state.
func (e Epoch) Copy() Epoch {
	cp := e
	cp.Distribute = new(big.Int).Set(e.Distribute)
	return cp
}

// Coordinator orchestrates stake/claim/forfeit/unstake and drives the
// ledger's rebase engine on epoch boundaries.
type Coordinator struct {
	addr    common.Address
	auth    authority.Authority
	base    *token.Register
	receipt *ledger.Ledger
	clock   Clock

	epoch        Epoch
	warmupPeriod idx.Epoch

	warmup       map[common.Address]*Claim
	gonsInWarmup *big.Int

	distributor Distributor
}

// New creates the coordinator. addr must be the staking account the receipt
// ledger was constructed with; firstEpochEnd schedules the first rollover.
func New(addr common.Address, auth authority.Authority, base *token.Register, receipt *ledger.Ledger, rules protocol.StakingRules, firstEpochEnd inter.Timestamp, clock Clock) *Coordinator {
	return &Coordinator{
		addr:    addr,
		auth:    auth,
		base:    base,
		receipt: receipt,
		clock:   clock,
		epoch: Epoch{
			Length:     rules.EpochLength,
			Number:     rules.FirstEpoch,
			End:        firstEpochEnd,
			Distribute: new(big.Int),
		},
		warmupPeriod: rules.WarmupPeriod,
		warmup:       make(map[common.Address]*Claim),
		gonsInWarmup: new(big.Int),
	}
}

// Address returns the coordinator's reserve account.
func (c *Coordinator) Address() common.Address { return c.addr }

// Epoch returns a copy of the current epoch state.
func (c *Coordinator) Epoch() Epoch { return c.epoch.Copy() }

// WarmupPeriod returns the configured warmup length in epochs.
func (c *Coordinator) WarmupPeriod() idx.Epoch { return c.warmupPeriod }

// SetDistributor wires the reward distributor. Governor only.
func (c *Coordinator) SetDistributor(caller common.Address, d Distributor) error {
	if !c.auth.IsGovernor(caller) {
		return authority.ErrNotGovernor
	}
	c.distributor = d
	return nil
}

// SetWarmupLength updates the warmup period for future stakes. Governor
// only; existing entries keep their recorded expiry.
func (c *Coordinator) SetWarmupLength(caller common.Address, period idx.Epoch) error {
	if !c.auth.IsGovernor(caller) {
		return authority.ErrNotGovernor
	}
	c.warmupPeriod = period
	return nil
}

// Stake pulls amount base tokens from the caller and credits receiver with
// receipt units, immediately when claimNow is set and no warmup is
// configured, otherwise through receiver's warmup entry. An overdue epoch
// is rolled over first and any bounty earned is added to the deposit.
// Fails with ErrInsufficientFloat when the credit does not fit in the
// coordinator's unallocated receipt balance. Returns the credited amount
// (deposit plus bounty).
func (c *Coordinator) Stake(caller, receiver common.Address, amount *big.Int, claimNow bool) (*big.Int, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	direct := claimNow && c.warmupPeriod == 0
	if !direct {
		// Self-custody protection: unlocked (or absent) entries accept
		// deposits only from the receiver itself.
		if entry, ok := c.warmup[receiver]; !ok || !entry.Lock {
			if caller != receiver {
				return nil, ErrDepositsLocked
			}
		}
	}

	bounty, err := c.Rebase()
	if err != nil {
		return nil, err
	}
	credited := new(big.Int).Add(amount, bounty)

	// The credit plus everything already owed to warmup must fit inside
	// the coordinator's receipt balance, checked before the base pull so
	// a failed stake moves nothing.
	available := c.receipt.BalanceOf(c.addr)
	available.Sub(available, c.SupplyInWarmup())
	if available.Cmp(credited) < 0 {
		return nil, ErrInsufficientFloat
	}

	if err := c.base.Transfer(caller, c.addr, amount); err != nil {
		return nil, err
	}

	if direct {
		if err := c.receipt.Transfer(c.addr, receiver, credited); err != nil {
			return nil, err
		}
		return credited, nil
	}

	entry, ok := c.warmup[receiver]
	if !ok {
		entry = newClaim()
		c.warmup[receiver] = entry
	}
	gons := c.receipt.GonsForBalance(credited)
	entry.Deposit.Add(entry.Deposit, credited)
	entry.Gons.Add(entry.Gons, gons)
	entry.Expiry = c.epoch.Number + c.warmupPeriod
	c.gonsInWarmup.Add(c.gonsInWarmup, gons)

	log.WithFields(map[string]interface{}{
		"receiver": receiver,
		"amount":   credited,
		"expiry":   entry.Expiry,
	}).Debug("deposit parked in warmup")
	return credited, nil
}

// Claim releases receiver's warmup entry once its expiry epoch has been
// reached, sending the gons' current receipt value. Before expiry (or with
// no entry at all) it returns zero and changes nothing; a repeat call after
// a successful claim is the same no-op.
func (c *Coordinator) Claim(caller, receiver common.Address) (*big.Int, error) {
	entry, ok := c.warmup[receiver]
	if !ok {
		return new(big.Int), nil
	}
	if !entry.Lock && caller != receiver {
		return nil, ErrClaimsLocked
	}
	if entry.Expiry == 0 || c.epoch.Number < entry.Expiry {
		return new(big.Int), nil
	}

	// State first, transfer last.
	delete(c.warmup, receiver)
	c.gonsInWarmup.Sub(c.gonsInWarmup, entry.Gons)

	amount := c.receipt.BalanceForGons(entry.Gons)
	if err := c.receipt.Transfer(c.addr, receiver, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// Forfeit abandons the caller's warmup entry unconditionally, refunding
// exactly the original base deposit. Growth accrued during warmup stays
// behind as the early-exit penalty. With no entry it refunds zero.
func (c *Coordinator) Forfeit(caller common.Address) (*big.Int, error) {
	entry, ok := c.warmup[caller]
	if !ok {
		return new(big.Int), nil
	}
	if c.base.BalanceOf(c.addr).Cmp(entry.Deposit) < 0 {
		return nil, ErrInsufficientReserve
	}

	// State first, transfer last.
	delete(c.warmup, caller)
	c.gonsInWarmup.Sub(c.gonsInWarmup, entry.Gons)

	if err := c.base.Transfer(c.addr, caller, entry.Deposit); err != nil {
		return nil, err
	}
	return new(big.Int).Set(entry.Deposit), nil
}

// ToggleLock flips the caller's own entry's lock flag, enabling or
// disabling third-party deposits and claims on their behalf. The entry is
// created if absent so accounts can lock before ever staking.
func (c *Coordinator) ToggleLock(caller common.Address) {
	entry, ok := c.warmup[caller]
	if !ok {
		entry = newClaim()
		c.warmup[caller] = entry
	}
	entry.Lock = !entry.Lock
}

// Unstake redeems amount receipt units from the caller for base tokens paid
// to receiver. With trigger set, an overdue epoch is rolled over first and
// the bounty is added to the payout. Fails with ErrInsufficientReserve when
// the payout exceeds the coordinator's held base balance.
func (c *Coordinator) Unstake(caller, receiver common.Address, amount *big.Int, trigger bool) (*big.Int, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	bounty := new(big.Int)
	if trigger {
		b, err := c.Rebase()
		if err != nil {
			return nil, err
		}
		bounty = b
	}

	paid := new(big.Int).Add(amount, bounty)
	if c.base.BalanceOf(c.addr).Cmp(paid) < 0 {
		return nil, ErrInsufficientReserve
	}
	if err := c.receipt.Transfer(caller, c.addr, amount); err != nil {
		return nil, err
	}
	if err := c.base.Transfer(c.addr, receiver, paid); err != nil {
		return nil, err
	}
	return paid, nil
}

// Rebase rolls the epoch over when it is overdue: the scheduled profit is
// fed to the ledger's rebase engine, the epoch advances by exactly one
// step, the distributor is notified, and the next epoch's distributable
// profit is recomputed from the held reserve. Callable by anyone; returns
// the bounty earned (zero when no rollover was due).
func (c *Coordinator) Rebase() (*big.Int, error) {
	if c.clock() < c.epoch.End {
		return new(big.Int), nil
	}

	if _, err := c.receipt.Rebase(c.addr, c.epoch.Distribute, c.epoch.Number); err != nil {
		return nil, err
	}
	c.epoch.End += c.epoch.Length
	c.epoch.Number++

	bounty := new(big.Int)
	if c.distributor != nil {
		if err := c.distributor.Distribute(); err != nil {
			return nil, err
		}
		b, err := c.distributor.RetrieveBounty()
		if err != nil {
			return nil, err
		}
		bounty = b
	}

	// Everything held beyond the staked circulating supply and the bounty
	// just minted is profit for the next rebase.
	next := c.base.BalanceOf(c.addr)
	next.Sub(next, c.receipt.CirculatingSupply())
	next.Sub(next, bounty)
	if next.Sign() < 0 {
		next = new(big.Int)
	}
	c.epoch.Distribute = next

	log.WithFields(map[string]interface{}{
		"epoch":      c.epoch.Number,
		"end":        c.epoch.End,
		"distribute": c.epoch.Distribute,
		"bounty":     bounty,
	}).Info("epoch rolled over")
	return bounty, nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}
