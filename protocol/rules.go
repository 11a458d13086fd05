// Package protocol defines the network rules and economic parameters for the
// Opera staking protocol.
//
// This package provides:
//   - Network identification constants (MainNet, TestNet, FakeNet)
//   - Supply rules for the elastic receipt token (genesis supply, ceiling)
//   - Staking rules (epoch length, warmup period, first epoch)
//   - Reward rules (distribution rate, rollover bounty)
//
// The Rules type serves as the central configuration structure that defines
// all economics-critical parameters for a given network deployment.
package protocol

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/rony4d/go-opera-staking/inter"
)

// Network identification constants
const (
	// MainNetworkID is the chain ID for the staking mainnet
	MainNetworkID uint64 = 0xfb

	// TestNetworkID is the chain ID for the staking testnet
	TestNetworkID uint64 = 0xfb2

	// FakeNetworkID is the chain ID for local/fake networks used in testing
	FakeNetworkID uint64 = 0xfb3

	// Decimals is the number of decimal places of both the base reserve
	// token and the elastic receipt token. One whole token is 10^Decimals
	// visible units.
	Decimals = 9

	// RebasePrecisionExp is the number of decimals in the fixed-point
	// scale used when recording the rebase rate in history entries.
	RebasePrecisionExp = 18

	// RateDenominator is the scale of the distributor reward rate:
	// a rate of 5000 pays 0.5% of base supply per epoch.
	RateDenominator uint64 = 1_000_000
)

// Unit is 10^Decimals, the number of visible units in one whole token.
var Unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// RebasePrecision is 10^18, the fixed-point scale of recorded rebase rates.
var RebasePrecision = new(big.Int).Exp(big.NewInt(10), big.NewInt(RebasePrecisionExp), nil)

// TotalGonsFor returns the total internal-unit (gon) space for a given
// genesis supply: the largest multiple of the supply representable in
// 256 bits. Using the largest multiple maximizes conversion precision
// while keeping gon conservation exact under truncating division.
func TotalGonsFor(initialSupply *big.Int) *big.Int {
	gons := new(big.Int).Set(math.MaxBig256)
	rem := new(big.Int).Mod(gons, initialSupply)
	return gons.Sub(gons, rem)
}

// DefaultMaxSupply returns the hard ceiling of the receipt total supply:
// 2^128 - 1 visible units. Rebases saturate at this value rather than fail.
func DefaultMaxSupply() *big.Int {
	ceiling := new(big.Int).Lsh(big.NewInt(1), 128)
	return ceiling.Sub(ceiling, big.NewInt(1))
}

// DefaultInitialSupply returns the genesis receipt supply:
// 5,000,000 whole tokens at 9 decimals.
func DefaultInitialSupply() *big.Int {
	return new(big.Int).Mul(big.NewInt(5_000_000), Unit)
}

// SupplyRules defines the elastic receipt token's supply parameters.
type SupplyRules struct {
	// InitialSupply is the genesis total supply in visible units.
	// The gon space is sized as the largest 256-bit multiple of this value.
	InitialSupply *big.Int

	// MaxSupply is the ceiling the total supply saturates at during rebases.
	MaxSupply *big.Int
}

// StakingRules defines the epoch state machine parameters.
type StakingRules struct {
	// EpochLength is the fixed duration of one distribution epoch.
	EpochLength inter.Timestamp

	// WarmupPeriod is the number of epochs a deposit waits in warmup
	// before it can be claimed. Zero disables warmup entirely.
	WarmupPeriod idx.Epoch

	// FirstEpoch is the sequence number the epoch counter starts from.
	FirstEpoch idx.Epoch
}

// RewardsRules defines the distributor economics.
type RewardsRules struct {
	// Rate is the per-epoch reward rate applied to base supply,
	// scaled by RateDenominator (5000 = 0.5% per epoch).
	Rate uint64

	// Bounty is the base-token reward minted for whichever caller
	// triggers an overdue epoch rollover. Zero disables the bounty.
	Bounty *big.Int
}

// Rules describes the complete configuration for a staking network.
// This is the main type used throughout the codebase to access network
// parameters.
//
// Note: Copy() must deep-copy all *big.Int fields to avoid shared state.
type Rules struct {
	Name      string // Network name identifier (e.g., "main", "test", "fake")
	NetworkID uint64 // Chain ID for network identification

	Supply  SupplyRules
	Staking StakingRules
	Rewards RewardsRules
}

// MainNetRules returns the configuration rules for the staking mainnet.
// This is the production configuration with conservative parameters.
func MainNetRules() Rules {
	return Rules{
		Name:      "main",
		NetworkID: MainNetworkID,
		Supply:    DefaultSupplyRules(),
		Staking: StakingRules{
			EpochLength:  inter.Timestamp(8 * time.Hour),
			WarmupPeriod: 2,
			FirstEpoch:   1,
		},
		Rewards: DefaultRewardsRules(),
	}
}

// TestNetRules returns the configuration rules for the staking testnet.
// Testnet uses the same economics as mainnet for realistic testing.
func TestNetRules() Rules {
	return Rules{
		Name:      "test",
		NetworkID: TestNetworkID,
		Supply:    DefaultSupplyRules(),
		Staking: StakingRules{
			EpochLength:  inter.Timestamp(8 * time.Hour),
			WarmupPeriod: 2,
			FirstEpoch:   1,
		},
		Rewards: DefaultRewardsRules(),
	}
}

// FakeNetRules returns the configuration rules for fake/local networks.
// Fake networks use accelerated parameters for faster testing:
//   - Short epochs (10 minutes vs 8 hours)
//   - No warmup period, so stakes are claimable immediately
//   - A 10x larger rollover bounty to make bounty flows visible in tests
func FakeNetRules() Rules {
	rewards := DefaultRewardsRules()
	rewards.Bounty = new(big.Int).Mul(rewards.Bounty, big.NewInt(10))
	return Rules{
		Name:      "fake",
		NetworkID: FakeNetworkID,
		Supply:    DefaultSupplyRules(),
		Staking: StakingRules{
			EpochLength:  inter.Timestamp(10 * time.Minute),
			WarmupPeriod: 0,
			FirstEpoch:   1,
		},
		Rewards: rewards,
	}
}

// DefaultSupplyRules returns the mainnet supply configuration.
func DefaultSupplyRules() SupplyRules {
	return SupplyRules{
		InitialSupply: DefaultInitialSupply(),
		MaxSupply:     DefaultMaxSupply(),
	}
}

// DefaultRewardsRules returns the mainnet reward configuration:
// 0.3% of base supply distributed per epoch, 1 whole token of bounty
// per triggered rollover.
func DefaultRewardsRules() RewardsRules {
	return RewardsRules{
		Rate:   3000,
		Bounty: new(big.Int).Set(Unit),
	}
}

// Copy creates a deep copy of Rules.
// This is necessary because Rules contains pointer types (*big.Int) that
// would be shared in a shallow copy, leading to unintended mutations.
func (r Rules) Copy() Rules {
	cp := r
	cp.Supply.InitialSupply = new(big.Int).Set(r.Supply.InitialSupply)
	cp.Supply.MaxSupply = new(big.Int).Set(r.Supply.MaxSupply)
	cp.Rewards.Bounty = new(big.Int).Set(r.Rewards.Bounty)
	return cp
}

// String returns a JSON representation of Rules for debugging and logging.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
