// Package treasury implements the reserve manager that funds staking
// rewards. It owns the vault identity of the base token register and mints
// on behalf of an allow-list of reward managers (the distributor), so that
// no other component can inflate the base supply.
package treasury

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-opera-staking/authority"
	"github.com/rony4d/go-opera-staking/protocol"
	"github.com/rony4d/go-opera-staking/token"
)

var (
	// ErrNotMinter is returned when a non-enabled caller requests a mint.
	ErrNotMinter = errors.New("treasury: caller is not an enabled minter")
)

// Treasury mediates base-token minting. Its own address must hold the
// token register's vault role.
type Treasury struct {
	addr common.Address
	auth authority.Authority
	base *token.Register

	minters map[common.Address]bool
}

// New creates a treasury operating at addr. For mints to succeed, addr must
// be the vault role in the authority registry backing the token register.
func New(addr common.Address, auth authority.Authority, base *token.Register) *Treasury {
	return &Treasury{
		addr:    addr,
		auth:    auth,
		base:    base,
		minters: make(map[common.Address]bool),
	}
}

// Address returns the treasury's own identity.
func (t *Treasury) Address() common.Address { return t.addr }

// EnableMinter adds a reward manager to the mint allow-list. Governor only.
func (t *Treasury) EnableMinter(caller, minter common.Address) error {
	if !t.auth.IsGovernor(caller) {
		return authority.ErrNotGovernor
	}
	t.minters[minter] = true
	return nil
}

// DisableMinter removes a reward manager from the allow-list. Governor only.
func (t *Treasury) DisableMinter(caller, minter common.Address) error {
	if !t.auth.IsGovernor(caller) {
		return authority.ErrNotGovernor
	}
	delete(t.minters, minter)
	return nil
}

// IsMinter reports whether addr may mint through the treasury.
func (t *Treasury) IsMinter(addr common.Address) bool {
	return t.minters[addr]
}

// Mint creates base tokens for recipient on behalf of an enabled reward
// manager. The underlying register mint is performed with the treasury's
// vault identity.
func (t *Treasury) Mint(caller, recipient common.Address, amount *big.Int) error {
	if !t.minters[caller] {
		return ErrNotMinter
	}
	return t.base.Mint(t.addr, recipient, amount)
}

// TokenValue converts an amount of an external reserve asset with the given
// decimals into base-token units. Used by depository collaborators when
// pricing bond deposits; truncates like every other conversion here.
func (t *Treasury) TokenValue(amount *big.Int, reserveDecimals uint8) *big.Int {
	value := new(big.Int).Mul(amount, protocol.Unit)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(reserveDecimals)), nil)
	return value.Div(value, scale)
}
