// Package ledger implements the elastic-supply receipt token: an
// internal-unit ("gon") balance store whose externally visible balances
// grow automatically as the total supply is rebased upward.
//
// Accounting model:
//   - Every account's position is stored as a gon count.
//   - visible balance = gons / scalingFactor (integer division, truncated)
//   - scalingFactor  = totalGons / totalSupply, recomputed on every rebase
//
// Because the gon space is a fixed multiple of the genesis supply, gons are
// conserved exactly across transfers; the truncating division loses at most
// scalingFactor-1 gons' worth per account per read, which is accepted
// rounding dust rather than an error.
package ledger

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-staking/authority"
	"github.com/rony4d/go-opera-staking/protocol"
)

var log = logrus.WithField("module", "ledger")

// HeightSource reports the current chain height for rebase history records.
type HeightSource func() idx.Block

// WarmupSource reports the pending-warmup supply held in trust by the
// staking coordinator. It is injected after construction because the
// coordinator and ledger reference each other.
type WarmupSource interface {
	SupplyInWarmup() *big.Int
}

// Ledger is the elastic-supply receipt token state.
type Ledger struct {
	auth        authority.Authority
	stakingAddr common.Address
	height      HeightSource
	warmup      WarmupSource

	totalGons       *big.Int
	maxSupply       *big.Int
	totalSupply     *big.Int
	gonsPerFragment *big.Int

	gonBalances map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int

	// genesisIndexGons is nil until the one-time SetIndex call.
	genesisIndexGons *big.Int

	history []RebaseRecord
}

// New creates the receipt ledger at genesis. The entire gon space is
// credited to the staking coordinator's account: receipts enter circulation
// only by being sent out of it, so circulating supply starts at zero.
func New(rules protocol.SupplyRules, auth authority.Authority, stakingAddr common.Address, height HeightSource) *Ledger {
	totalGons := protocol.TotalGonsFor(rules.InitialSupply)
	totalSupply := new(big.Int).Set(rules.InitialSupply)
	l := &Ledger{
		auth:            auth,
		stakingAddr:     stakingAddr,
		height:          height,
		totalGons:       totalGons,
		maxSupply:       new(big.Int).Set(rules.MaxSupply),
		totalSupply:     totalSupply,
		gonsPerFragment: new(big.Int).Div(totalGons, totalSupply),
		gonBalances:     make(map[common.Address]*big.Int),
		allowances:      make(map[common.Address]map[common.Address]*big.Int),
	}
	l.gonBalances[stakingAddr] = new(big.Int).Set(totalGons)
	return l
}

// SetWarmupSource wires the staking coordinator's warmup report into
// circulating-supply math. Called once during deployment assembly.
func (l *Ledger) SetWarmupSource(src WarmupSource) {
	l.warmup = src
}

// StakingAddress returns the coordinator account holding the reserve float.
func (l *Ledger) StakingAddress() common.Address {
	return l.stakingAddr
}

// TotalSupply returns a copy of the current total supply in visible units.
func (l *Ledger) TotalSupply() *big.Int {
	return new(big.Int).Set(l.totalSupply)
}

// ScalingFactor returns a copy of the current gons-per-visible-unit ratio.
func (l *Ledger) ScalingFactor() *big.Int {
	return new(big.Int).Set(l.gonsPerFragment)
}

// BalanceOf returns the externally visible balance: the account's gons
// divided by the current scaling factor, truncated.
func (l *Ledger) BalanceOf(addr common.Address) *big.Int {
	return l.BalanceForGons(l.gonsOf(addr))
}

// GonsForBalance converts a visible amount into gons at the current scaling
// factor. Pure; not guaranteed to be the exact inverse of BalanceForGons.
func (l *Ledger) GonsForBalance(amount *big.Int) *big.Int {
	return new(big.Int).Mul(amount, l.gonsPerFragment)
}

// BalanceForGons converts gons into a visible amount at the current scaling
// factor, truncating. Callers must tolerate sub-unit drift.
func (l *Ledger) BalanceForGons(gons *big.Int) *big.Int {
	return new(big.Int).Div(gons, l.gonsPerFragment)
}

// CirculatingSupply is the visible supply actually at large: total supply
// minus the float held by the staking coordinator, plus the pending-warmup
// supply the coordinator reports separately. Rebase growth is driven by
// this figure, not the raw total.
func (l *Ledger) CirculatingSupply() *big.Int {
	circ := l.TotalSupply()
	circ.Sub(circ, l.BalanceOf(l.stakingAddr))
	if l.warmup != nil {
		circ.Add(circ, l.warmup.SupplyInWarmup())
	}
	return circ
}

// SetIndex records the genesis index. Governor-only, exactly once: the
// index is stored as its gon equivalent so that Index() afterwards rises
// purely because the scaling factor shrinks.
func (l *Ledger) SetIndex(caller common.Address, index *big.Int) error {
	if !l.auth.IsGovernor(caller) {
		return authority.ErrNotGovernor
	}
	if l.genesisIndexGons != nil {
		return ErrIndexAlreadySet
	}
	if err := checkAmount(index); err != nil {
		return err
	}
	l.genesisIndexGons = l.GonsForBalance(index)
	return nil
}

// Index reports the cumulative growth of one unit staked since genesis.
// Monotonically non-decreasing for the lifetime of the ledger.
func (l *Ledger) Index() (*big.Int, error) {
	if l.genesisIndexGons == nil {
		return nil, ErrIndexNotSet
	}
	return l.BalanceForGons(l.genesisIndexGons), nil
}

// Transfer moves a visible amount from the caller to another account.
// The amount is converted to gons at the current scaling factor; the
// operation fails before any mutation if the source lacks the gons.
func (l *Ledger) Transfer(from, to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	gonValue := l.GonsForBalance(amount)
	if l.gonsOf(from).Cmp(gonValue) < 0 {
		return ErrInsufficientBalance
	}
	l.debitGons(from, gonValue)
	l.creditGons(to, gonValue)
	return nil
}

// Approve sets spender's allowance over the owner's balance, in visible
// units. Allowances are not rescaled by rebases.
func (l *Ledger) Approve(owner, spender common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	l.setAllowance(owner, spender, new(big.Int).Set(amount))
	return nil
}

// Allowance returns a copy of spender's remaining allowance from owner.
func (l *Ledger) Allowance(owner, spender common.Address) *big.Int {
	if inner, ok := l.allowances[owner]; ok {
		if a, ok := inner[spender]; ok {
			return new(big.Int).Set(a)
		}
	}
	return new(big.Int)
}

// TransferFrom spends a prior approval. The allowance decrement fails
// rather than underflows; all checks precede all mutations.
func (l *Ledger) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	allowed := l.Allowance(from, spender)
	if allowed.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	gonValue := l.GonsForBalance(amount)
	if l.gonsOf(from).Cmp(gonValue) < 0 {
		return ErrInsufficientBalance
	}
	l.setAllowance(from, spender, allowed.Sub(allowed, amount))
	l.debitGons(from, gonValue)
	l.creditGons(to, gonValue)
	return nil
}

// IncreaseAllowance raises spender's allowance by added.
func (l *Ledger) IncreaseAllowance(owner, spender common.Address, added *big.Int) error {
	if err := checkAmount(added); err != nil {
		return err
	}
	current := l.Allowance(owner, spender)
	l.setAllowance(owner, spender, current.Add(current, added))
	return nil
}

// DecreaseAllowance lowers spender's allowance by subtracted, clamping at
// zero instead of underflowing.
func (l *Ledger) DecreaseAllowance(owner, spender common.Address, subtracted *big.Int) error {
	if err := checkAmount(subtracted); err != nil {
		return err
	}
	current := l.Allowance(owner, spender)
	if current.Cmp(subtracted) <= 0 {
		l.setAllowance(owner, spender, new(big.Int))
		return nil
	}
	l.setAllowance(owner, spender, current.Sub(current, subtracted))
	return nil
}

func (l *Ledger) gonsOf(addr common.Address) *big.Int {
	if g, ok := l.gonBalances[addr]; ok {
		return new(big.Int).Set(g)
	}
	return new(big.Int)
}

func (l *Ledger) creditGons(addr common.Address, gons *big.Int) {
	if g, ok := l.gonBalances[addr]; ok {
		g.Add(g, gons)
		return
	}
	l.gonBalances[addr] = new(big.Int).Set(gons)
}

func (l *Ledger) debitGons(addr common.Address, gons *big.Int) {
	g, ok := l.gonBalances[addr]
	if !ok {
		// No entry means a zero balance; the caller's precheck admits
		// this only for a zero debit.
		return
	}
	g.Sub(g, gons)
	if g.Sign() == 0 {
		delete(l.gonBalances, addr)
	}
}

func (l *Ledger) setAllowance(owner, spender common.Address, amount *big.Int) {
	inner, ok := l.allowances[owner]
	if !ok {
		inner = make(map[common.Address]*big.Int)
		l.allowances[owner] = inner
	}
	if amount.Sign() == 0 {
		delete(inner, spender)
		return
	}
	inner[spender] = amount
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}
