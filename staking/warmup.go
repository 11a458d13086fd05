package staking

// warmup.go tracks deposits parked between staking and receipt delivery.
// The receipt units backing a warmup entry never leave the coordinator's
// ledger account while pending; the queue records, per account, the gons
// owed and the original base deposit, plus the aggregate pending gon total
// that circulating-supply math must exclude.

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
)

// Claim is one account's pending warmup position. It is created on first
// stake, accumulated on repeat stakes, and deleted on claim or forfeit.
type Claim struct {
	// Deposit is the base-token amount paid in, refunded exactly on forfeit.
	Deposit *big.Int

	// Gons is the internal-unit amount owed, released at the scaling factor
	// current at claim time so warmup positions share in rebase growth.
	Gons *big.Int

	// Expiry is the epoch number at which the entry becomes claimable.
	Expiry idx.Epoch

	// Lock enables third parties to deposit to and claim for this account.
	// Unset entries are self-custody only.
	Lock bool
}

func newClaim() *Claim {
	return &Claim{
		Deposit: new(big.Int),
		Gons:    new(big.Int),
	}
}

// Copy creates a deep copy of the claim.
func (c *Claim) Copy() *Claim {
	cp := *c
	cp.Deposit = new(big.Int).Set(c.Deposit)
	cp.Gons = new(big.Int).Set(c.Gons)
	return &cp
}

// SupplyInWarmup reports the aggregate pending supply in visible units at
// the current scaling factor. The ledger consults this (via WarmupSource)
// when computing circulating supply.
func (c *Coordinator) SupplyInWarmup() *big.Int {
	return c.receipt.BalanceForGons(c.gonsInWarmup)
}

// PendingClaim returns a copy of receiver's warmup entry, or false when the
// account has none.
func (c *Coordinator) PendingClaim(receiver common.Address) (*Claim, bool) {
	entry, ok := c.warmup[receiver]
	if !ok {
		return nil, false
	}
	return entry.Copy(), true
}
