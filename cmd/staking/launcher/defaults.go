package launcher

import (
	"time"
)

// Defaults bundles the baseline configuration values the launcher uses
// before presets, config files, and flags override them.

type Defaults struct {
	Node       NodeDefaults
	Network    NetworkDefaults
	Simulation SimulationDefaults
	Logging    LoggingDefaults
	Sentry     SentryDefaults
}

// NodeDefaults captures top-level runtime settings.
type NodeDefaults struct {
	DataDir string // Filesystem root where the runtime stores logs and state dumps. Changing it lets you run multiple instances or keep test data isolated.
	Name    string // Human-readable instance identity surfaced in logs.
}

// NetworkDefaults selects which protocol rules the runtime loads.
type NetworkDefaults struct {
	Name string // Rules preset to load on boot: main, test, or fake. Fake rules use accelerated epochs for local runs.
}

// SimulationDefaults tunes the epoch simulation workload.
type SimulationDefaults struct {
	Preset       string        // Named integration preset applied before flag overrides (default, dev, soak).
	EpochLength  time.Duration // Duration of one simulated epoch.
	WarmupEpochs uint32        // Warmup period applied to new stakes, in epochs.
	Epochs       int           // Number of epochs the run advances through.
	Stakers      int           // Number of staking accounts generated.
	RewardRate   uint64        // Distributor rate per epoch, scaled by 1e6.
	BountyTokens int64         // Rollover bounty in whole base tokens.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string // Log output format (text vs json).
	Color     bool   // Whether to use ANSI color codes in logs.
}

// SentryDefaults controls error reporting.
type SentryDefaults struct {
	DSN string // Sentry project DSN; error reporting stays off while empty.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.opera-staking",
			Name:    "opera-staking",
		},
		Network: NetworkDefaults{
			Name: "fake",
		},
		Simulation: SimulationDefaults{
			Preset:       "default",
			EpochLength:  time.Second,
			WarmupEpochs: 2,
			Epochs:       10,
			Stakers:      4,
			RewardRate:   3000,
			BountyTokens: 1,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
		Sentry: SentryDefaults{},
	}
}
