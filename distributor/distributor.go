// Package distributor implements the per-epoch reward distributor. On every
// epoch rollover the staking coordinator calls Distribute, which mints each
// recipient's rate-based share of the base supply through the treasury,
// and then RetrieveBounty, which mints the rollover bounty directly to the
// coordinator so it can be forwarded to whichever caller triggered the
// rollover.
package distributor

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-staking/authority"
	"github.com/rony4d/go-opera-staking/protocol"
	"github.com/rony4d/go-opera-staking/token"
)

var log = logrus.WithField("module", "distributor")

var (
	// ErrNotPolicy is returned when recipient management is attempted by a
	// caller without the policy role.
	ErrNotPolicy = errors.New("distributor: caller is not the policy role")

	// ErrUnknownRecipient is returned when removing a recipient that was
	// never added.
	ErrUnknownRecipient = errors.New("distributor: unknown recipient")
)

// Info is one reward recipient and its per-epoch rate
// (scaled by protocol.RateDenominator).
type Info struct {
	Recipient common.Address
	Rate      uint64
}

// Treasury is the minting collaborator the distributor draws on.
type Treasury interface {
	Mint(caller, recipient common.Address, amount *big.Int) error
}

// Distributor pays epoch rewards out of treasury mints.
type Distributor struct {
	addr     common.Address
	auth     authority.Authority
	treasury Treasury
	base     *token.Register
	staking  common.Address

	bounty *big.Int
	info   []Info
}

// New creates a distributor operating at addr and paying bounties to the
// staking coordinator. addr must be enabled as a treasury minter.
func New(addr common.Address, auth authority.Authority, tr Treasury, base *token.Register, staking common.Address, bounty *big.Int) *Distributor {
	return &Distributor{
		addr:     addr,
		auth:     auth,
		treasury: tr,
		base:     base,
		staking:  staking,
		bounty:   new(big.Int).Set(bounty),
	}
}

// Address returns the distributor's own identity.
func (d *Distributor) Address() common.Address { return d.addr }

// Bounty returns a copy of the configured rollover bounty.
func (d *Distributor) Bounty() *big.Int { return new(big.Int).Set(d.bounty) }

// SetBounty updates the rollover bounty. Policy only.
func (d *Distributor) SetBounty(caller common.Address, bounty *big.Int) error {
	if !d.auth.IsPolicy(caller) {
		return ErrNotPolicy
	}
	d.bounty = new(big.Int).Set(bounty)
	return nil
}

// AddRecipient registers a reward recipient with a per-epoch rate. Policy
// only. Multiple entries per recipient are allowed and paid independently.
func (d *Distributor) AddRecipient(caller, recipient common.Address, rate uint64) error {
	if !d.auth.IsPolicy(caller) {
		return ErrNotPolicy
	}
	d.info = append(d.info, Info{Recipient: recipient, Rate: rate})
	return nil
}

// RemoveRecipient deletes the first entry for recipient. Policy only.
func (d *Distributor) RemoveRecipient(caller, recipient common.Address) error {
	if !d.auth.IsPolicy(caller) {
		return ErrNotPolicy
	}
	for i, info := range d.info {
		if info.Recipient == recipient {
			d.info = append(d.info[:i], d.info[i+1:]...)
			return nil
		}
	}
	return ErrUnknownRecipient
}

// NextRewardAt computes the reward a given rate would pay this epoch:
// rate's share of the current base supply.
func (d *Distributor) NextRewardAt(rate uint64) *big.Int {
	reward := d.base.TotalSupply()
	reward.Mul(reward, new(big.Int).SetUint64(rate))
	return reward.Div(reward, new(big.Int).SetUint64(protocol.RateDenominator))
}

// NextRewardFor reports what recipient will receive on the next Distribute.
func (d *Distributor) NextRewardFor(recipient common.Address) *big.Int {
	total := new(big.Int)
	for _, info := range d.info {
		if info.Recipient == recipient {
			total.Add(total, d.NextRewardAt(info.Rate))
		}
	}
	return total
}

// Distribute mints every recipient's current reward. Called by the staking
// coordinator once per epoch rollover.
func (d *Distributor) Distribute() error {
	for _, info := range d.info {
		reward := d.NextRewardAt(info.Rate)
		if reward.Sign() == 0 {
			continue
		}
		if err := d.treasury.Mint(d.addr, info.Recipient, reward); err != nil {
			return err
		}
		log.WithFields(map[string]interface{}{
			"recipient": info.Recipient,
			"rate":      info.Rate,
			"reward":    reward,
		}).Debug("epoch reward distributed")
	}
	return nil
}

// RetrieveBounty mints the rollover bounty to the staking coordinator and
// returns the minted amount. A zero bounty mints nothing.
func (d *Distributor) RetrieveBounty() (*big.Int, error) {
	if d.bounty.Sign() == 0 {
		return new(big.Int), nil
	}
	if err := d.treasury.Mint(d.addr, d.staking, d.bounty); err != nil {
		return nil, err
	}
	return new(big.Int).Set(d.bounty), nil
}
