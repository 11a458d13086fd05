// Package token implements the base reserve token register: a plain
// fixed-supply-semantics balance store with ERC-20 allowance rules and a
// vault-gated mint. The staking coordinator pulls deposits from and pays
// withdrawals out of this register; the treasury mints into it when the
// distributor funds rewards and bounties.
//
// Invariant: sum(balances) == totalSupply at all times. Units are moved
// between accounts, created only by Mint and destroyed only by Burn.
package token

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rony4d/go-opera-staking/authority"
)

var (
	ErrInsufficientBalance   = errors.New("token: transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("token: transfer amount exceeds allowance")
	ErrInvalidAmount         = errors.New("token: amount must be a non-negative integer")
	ErrNotVault              = errors.New("token: caller is not the vault")
)

// Register holds the base token state. Amounts are visible units at the
// protocol's 9 decimals; there is no internal unit space here.
type Register struct {
	name     string
	symbol   string
	decimals uint8

	auth authority.Authority

	totalSupply *big.Int
	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
}

// NewRegister creates an empty base token register. Supply enters only
// through vault-gated Mint calls.
func NewRegister(name, symbol string, decimals uint8, auth authority.Authority) *Register {
	return &Register{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		auth:        auth,
		totalSupply: new(big.Int),
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
	}
}

func (r *Register) Name() string    { return r.name }
func (r *Register) Symbol() string  { return r.symbol }
func (r *Register) Decimals() uint8 { return r.decimals }

// TotalSupply returns a copy of the current total supply.
func (r *Register) TotalSupply() *big.Int {
	return new(big.Int).Set(r.totalSupply)
}

// BalanceOf returns a copy of the account's balance.
func (r *Register) BalanceOf(addr common.Address) *big.Int {
	if b, ok := r.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// Mint creates amount new units for recipient. Only the vault may mint.
func (r *Register) Mint(caller, recipient common.Address, amount *big.Int) error {
	if !r.auth.IsVault(caller) {
		return ErrNotVault
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	r.credit(recipient, amount)
	r.totalSupply.Add(r.totalSupply, amount)
	return nil
}

// Burn destroys amount units from the caller's own balance.
func (r *Register) Burn(caller common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if r.BalanceOf(caller).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	r.debit(caller, amount)
	r.totalSupply.Sub(r.totalSupply, amount)
	return nil
}

// Transfer moves amount units from the caller to another account.
func (r *Register) Transfer(from, to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if r.BalanceOf(from).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	r.debit(from, amount)
	r.credit(to, amount)
	return nil
}

// Approve sets spender's allowance over the owner's balance.
func (r *Register) Approve(owner, spender common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	r.setAllowance(owner, spender, new(big.Int).Set(amount))
	return nil
}

// Allowance returns a copy of spender's remaining allowance from owner.
func (r *Register) Allowance(owner, spender common.Address) *big.Int {
	if inner, ok := r.allowances[owner]; ok {
		if a, ok := inner[spender]; ok {
			return new(big.Int).Set(a)
		}
	}
	return new(big.Int)
}

// TransferFrom moves amount units from one account to another on the
// strength of a prior approval, decrementing the allowance. The allowance
// check happens before any balance mutation.
func (r *Register) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	allowed := r.Allowance(from, spender)
	if allowed.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if r.BalanceOf(from).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	r.setAllowance(from, spender, allowed.Sub(allowed, amount))
	r.debit(from, amount)
	r.credit(to, amount)
	return nil
}

func (r *Register) credit(addr common.Address, amount *big.Int) {
	if b, ok := r.balances[addr]; ok {
		b.Add(b, amount)
		return
	}
	r.balances[addr] = new(big.Int).Set(amount)
}

func (r *Register) debit(addr common.Address, amount *big.Int) {
	b, ok := r.balances[addr]
	if !ok {
		// No entry means a zero balance; the caller's precheck admits
		// this only for a zero debit.
		return
	}
	b.Sub(b, amount)
	if b.Sign() == 0 {
		delete(r.balances, addr)
	}
}

func (r *Register) setAllowance(owner, spender common.Address, amount *big.Int) {
	inner, ok := r.allowances[owner]
	if !ok {
		inner = make(map[common.Address]*big.Int)
		r.allowances[owner] = inner
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
