// This file maps CLI context to the launcher config struct.

package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-staking/integration"
	"github.com/rony4d/go-opera-staking/protocol"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node       NodeConfig
	Network    NetworkConfig
	Simulation integration.PresetConfig
	Logging    LoggingConfig
	Sentry     SentryConfig
}

type NodeConfig struct {
	DataDir string
	Name    string
}

type NetworkConfig struct {
	Name  string
	Rules protocol.Rules
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
}

type SentryConfig struct {
	DSN string
}

func defaultConfig() Config {
	def := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir: resolvePath(def.Node.DataDir),
			Name:    def.Node.Name,
		},
		Network: NetworkConfig{
			Name:  def.Network.Name,
			Rules: protocol.FakeNetRules(),
		},
		Simulation: integration.PresetConfig{
			Name:         def.Simulation.Preset,
			EpochLength:  def.Simulation.EpochLength,
			WarmupEpochs: def.Simulation.WarmupEpochs,
			Epochs:       def.Simulation.Epochs,
			Stakers:      def.Simulation.Stakers,
			RewardRate:   def.Simulation.RewardRate,
			BountyTokens: def.Simulation.BountyTokens,
		},
		Logging: LoggingConfig{
			Verbosity: def.Logging.Verbosity,
			Format:    def.Logging.Format,
			Color:     def.Logging.Color,
		},
		Sentry: SentryConfig{DSN: def.Sentry.DSN},
	}
}

// MakeAllConfigs merges defaults, the named integration preset, and CLI
// flag overrides into a single config struct.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if ctx.IsSet("preset") || cfg.Simulation.Name != "" {
		name := cfg.Simulation.Name
		if ctx.IsSet("preset") {
			name = ctx.String("preset")
		}
		preset, err := integration.GetPresetByName(name)
		if err != nil {
			return Config{}, err
		}
		integration.ApplyPreset(&cfg.Simulation, preset)
	}

	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return Config{}, err
	}

	if err := ensureDir(cfg.Node.DataDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.String("datadir"))
	}

	if ctx.IsSet("network") {
		cfg.Network.Name = ctx.String("network")
	}
	switch cfg.Network.Name {
	case "main":
		cfg.Network.Rules = protocol.MainNetRules()
	case "test":
		cfg.Network.Rules = protocol.TestNetRules()
	case "fake":
		cfg.Network.Rules = protocol.FakeNetRules()
	default:
		return fmt.Errorf("unknown network: %q (valid: main, test, fake)", cfg.Network.Name)
	}

	if ctx.IsSet("epoch.length") {
		cfg.Simulation.EpochLength = ctx.Duration("epoch.length")
	}
	if ctx.IsSet("warmup.period") {
		cfg.Simulation.WarmupEpochs = uint32(ctx.Uint("warmup.period"))
	}
	if ctx.IsSet("epochs") {
		cfg.Simulation.Epochs = ctx.Int("epochs")
	}
	if ctx.IsSet("stakers") {
		cfg.Simulation.Stakers = ctx.Int("stakers")
	}
	if ctx.IsSet("rate") {
		cfg.Simulation.RewardRate = ctx.Uint64("rate")
	}
	if ctx.IsSet("bounty") {
		cfg.Simulation.BountyTokens = ctx.Int64("bounty")
	}

	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Sentry.DSN = ctx.String("sentry.dsn")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
