package genesis

// Package genesis defines the configuration structures for bootstrapping a
// staking deployment. Genesis establishes the initial receipt supply, the
// one-time starting index, and the role addresses that every privileged
// operation is checked against.
//
// Key concepts:
//   - Roles: the governor/guardian/policy/vault addresses seeding the
//     authority registry
//   - Genesis: initial supply, initial index, and first-epoch schedule
//
// The genesis configuration is typically generated programmatically for
// test networks (fakenet) and loaded from a file for real deployments.

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rony4d/go-opera-staking/inter"
)

// Roles lists the privileged addresses seeding the authority registry.
type Roles struct {
	// Governor controls protocol parameters (index initialization,
	// warmup length, distributor wiring, minter enablement).
	Governor common.Address

	// Guardian can intervene in emergencies (reserved; no operation in
	// this core is guardian-gated yet).
	Guardian common.Address

	// Policy manages reward economics (distributor rates and recipients).
	Policy common.Address

	// Vault is the identity allowed to mint the base reserve token;
	// the treasury is deployed at this address.
	Vault common.Address
}

// Genesis is the complete bootstrap definition for a staking deployment.
type Genesis struct {
	// InitialIndex is the receipt index recorded once at genesis, before
	// any rebase. The ledger rejects all rebases until it is set.
	InitialIndex *big.Int

	// FirstEpochTime is the wall-clock end of the first epoch.
	FirstEpochTime inter.Timestamp

	// Roles seeds the authority registry.
	Roles Roles
}

// Validate checks that the genesis definition is complete enough to boot.
func (g Genesis) Validate() error {
	if g.InitialIndex == nil || g.InitialIndex.Sign() <= 0 {
		return errors.New("genesis: initial index must be positive")
	}
	if g.FirstEpochTime == 0 {
		return errors.New("genesis: first epoch time is not set")
	}
	zero := common.Address{}
	if g.Roles.Governor == zero {
		return errors.New("genesis: governor address is not set")
	}
	if g.Roles.Vault == zero {
		return errors.New("genesis: vault address is not set")
	}
	return nil
}
