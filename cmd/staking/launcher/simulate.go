package launcher

// simulate.go assembles a complete in-memory deployment (authority, base
// token, treasury, receipt ledger, coordinator, distributor) from the
// launcher config and drives it through the configured number of epochs,
// logging supply, index and state fingerprints along the way.

import (
	"math/big"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-staking/authority"
	"github.com/rony4d/go-opera-staking/distributor"
	"github.com/rony4d/go-opera-staking/inter"
	"github.com/rony4d/go-opera-staking/ledger"
	"github.com/rony4d/go-opera-staking/protocol"
	"github.com/rony4d/go-opera-staking/protocol/genesis"
	"github.com/rony4d/go-opera-staking/staking"
	"github.com/rony4d/go-opera-staking/token"
	"github.com/rony4d/go-opera-staking/treasury"
)

func simAddress(tag string) common.Address {
	return common.BytesToAddress([]byte(tag))
}

func runSimulation(cfg Config) error {
	log := logrus.WithField("module", "launcher")

	rules := cfg.Network.Rules.Copy()
	rules.Staking.EpochLength = inter.Timestamp(cfg.Simulation.EpochLength)
	rules.Staking.WarmupPeriod = idx.Epoch(cfg.Simulation.WarmupEpochs)
	rules.Rewards.Rate = cfg.Simulation.RewardRate
	rules.Rewards.Bounty = new(big.Int).Mul(big.NewInt(cfg.Simulation.BountyTokens), protocol.Unit)

	log.WithFields(map[string]interface{}{
		"network": rules.Name,
		"preset":  cfg.Simulation.Name,
		"epochs":  cfg.Simulation.Epochs,
		"stakers": cfg.Simulation.Stakers,
	}).Info("starting staking simulation")

	var (
		governor   = simAddress("sim/governor")
		guardian   = simAddress("sim/guardian")
		policy     = simAddress("sim/policy")
		treasuryAt = simAddress("sim/treasury")
		stakingAt  = simAddress("sim/staking")
		distribAt  = simAddress("sim/distributor")
	)

	// Simulated time and height, advanced one epoch per loop iteration.
	now := inter.FromTime(time.Now())
	var height idx.Block

	gen := genesis.Genesis{
		InitialIndex:   new(big.Int).Set(protocol.Unit),
		FirstEpochTime: now + rules.Staking.EpochLength,
		Roles: genesis.Roles{
			Governor: governor,
			Guardian: guardian,
			Policy:   policy,
			Vault:    treasuryAt,
		},
	}
	if err := gen.Validate(); err != nil {
		return err
	}

	auth := authority.NewRegistry(gen.Roles.Governor, gen.Roles.Guardian, gen.Roles.Policy, gen.Roles.Vault)
	base := token.NewRegister("Opera Reserve", "ORE", protocol.Decimals, auth)
	tre := treasury.New(gen.Roles.Vault, auth, base)
	ldg := ledger.New(rules.Supply, auth, stakingAt, func() idx.Block { return height })
	coord := staking.New(stakingAt, auth, base, ldg, rules.Staking, gen.FirstEpochTime, func() inter.Timestamp { return now })
	ldg.SetWarmupSource(coord)
	dist := distributor.New(distribAt, auth, tre, base, stakingAt, rules.Rewards.Bounty)

	if err := ldg.SetIndex(governor, gen.InitialIndex); err != nil {
		return err
	}
	if err := tre.EnableMinter(governor, distribAt); err != nil {
		return err
	}
	if err := coord.SetDistributor(governor, dist); err != nil {
		return err
	}
	// Rewards are minted straight to the coordinator's reserve; each
	// rollover turns the surplus into the next epoch's rebase profit.
	if err := dist.AddRecipient(policy, stakingAt, rules.Rewards.Rate); err != nil {
		return err
	}

	grant := new(big.Int).Mul(big.NewInt(10_000), protocol.Unit)
	stake := new(big.Int).Mul(big.NewInt(1_000), protocol.Unit)
	stakers := make([]common.Address, cfg.Simulation.Stakers)
	for i := range stakers {
		stakers[i] = simAddress("sim/staker/" + string(rune('a'+i)))
		if err := base.Mint(treasuryAt, stakers[i], grant); err != nil {
			return err
		}
		if _, err := coord.Stake(stakers[i], stakers[i], stake, true); err != nil {
			return err
		}
	}

	for e := 0; e < cfg.Simulation.Epochs; e++ {
		now += rules.Staking.EpochLength
		height++

		// One staker triggers the overdue rollover through a small
		// top-up stake and keeps the bounty; the rest claim matured
		// warmup entries.
		trigger := stakers[e%len(stakers)]
		if _, err := coord.Stake(trigger, trigger, protocol.Unit, true); err != nil {
			return err
		}
		for _, s := range stakers {
			if _, err := coord.Claim(s, s); err != nil {
				return err
			}
		}

		index, err := ldg.Index()
		if err != nil {
			return err
		}
		snapshot := coord.Snapshot()
		log.WithFields(map[string]interface{}{
			"epoch":    coord.Epoch().Number,
			"supply":   ldg.TotalSupply(),
			"index":    index,
			"warmup":   coord.SupplyInWarmup(),
			"snapshot": snapshot.Hash().String(),
		}).Info("epoch simulated")
	}

	log.WithFields(map[string]interface{}{
		"records":     ldg.RecordCount(),
		"totalSupply": ldg.TotalSupply(),
		"circulating": ldg.CirculatingSupply(),
	}).Info("simulation finished")
	return nil
}
