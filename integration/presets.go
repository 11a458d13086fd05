package integration

import (
	"fmt"
	"time"
)

// Package integration provides configuration presets and assembly helpers
// for the staking simulation runtime. Presets bundle common settings (epoch
// timing, warmup length, reward economics, workload size) into named
// profiles (Default, Dev, Soak) so operators can exercise the protocol
// without tweaking dozens of flags.
//
// Usage:
//   cfg := integration.DevPreset()   // for quick local runs
//   cfg := integration.SoakPreset()  // for long accrual runs
//
// Each preset returns a PresetConfig struct that can be merged into the
// launcher's main config during startup.

// PresetConfig captures the tunable parameters that vary across preset
// profiles. It intentionally excludes fields that are always the same (like
// network IDs) so presets focus on timing and workload trade-offs.
type PresetConfig struct {
	Name         string        // human-readable identifier (e.g., "dev", "soak")
	EpochLength  time.Duration // simulated epoch duration
	WarmupEpochs uint32        // warmup period applied to new stakes
	Epochs       int           // number of epochs the simulation runs
	Stakers      int           // number of staking accounts generated
	RewardRate   uint64        // distributor rate per epoch (1e6 scale)
	BountyTokens int64         // rollover bounty in whole base tokens
}

func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:         "default",
		EpochLength:  time.Second, // compressed epochs so a run finishes quickly
		WarmupEpochs: 2,           // mainnet-like warmup so claim flow is exercised
		Epochs:       10,
		Stakers:      4,
		RewardRate:   3000, // 0.3% of base supply per epoch
		BountyTokens: 1,
	}
}

// DevPreset returns a lightweight profile optimized for fast feedback:
// no warmup, few epochs, few accounts. Use it to smoke-test a change.
func DevPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "dev"
	cfg.EpochLength = 100 * time.Millisecond // near-instant rollovers
	cfg.WarmupEpochs = 0                     // stakes deliver immediately
	cfg.Epochs = 5
	cfg.Stakers = 2
	return cfg
}

// SoakPreset returns a profile for observing compounding over many epochs:
// more epochs, more accounts, a slower reward rate so supply growth stays
// readable in the logs.
func SoakPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "soak"
	cfg.Epochs = 100
	cfg.Stakers = 16
	cfg.RewardRate = 1000 // 0.1% per epoch keeps a 100-epoch run bounded
	return cfg
}

// GetPresetByName looks up a preset by its string identifier and returns
// the corresponding PresetConfig. Returns an error if the name is
// unrecognized. This helper enables CLI flags like --preset=dev.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "dev":
		return DevPreset(), nil
	case "soak":
		return SoakPreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: dev, soak, default)", name)
	}
}

// ApplyPreset merges a preset configuration into an existing config struct.
// Fields set in the preset override the corresponding values in the target,
// so presets can be applied on top of CLI overrides without clobbering
// unrelated settings.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.EpochLength > 0 {
		target.EpochLength = preset.EpochLength
	}
	if preset.Epochs > 0 {
		target.Epochs = preset.Epochs
	}
	if preset.Stakers > 0 {
		target.Stakers = preset.Stakers
	}
	if preset.RewardRate > 0 {
		target.RewardRate = preset.RewardRate
	}
	// warmup and bounty are always applied: zero is a meaningful setting
	target.WarmupEpochs = preset.WarmupEpochs
	target.BountyTokens = preset.BountyTokens
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
