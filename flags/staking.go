package flags

import (
	"time"

	"gopkg.in/urfave/cli.v1"
)

// StakingFlags covers network selection and epoch state machine tuning.

func StakingFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "network",
			Usage: "Network rules to load (main|test|fake)",
			Value: "fake",
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "Simulation preset to apply (default|dev|soak)",
			Value: "default",
		},
		cli.DurationFlag{
			Name:  "epoch.length",
			Usage: "Override the epoch duration",
			Value: time.Second,
		},
		cli.UintFlag{
			Name:  "warmup.period",
			Usage: "Override the warmup period in epochs",
		},
		cli.IntFlag{
			Name:  "epochs",
			Usage: "Number of epochs the simulation runs",
			Value: 10,
		},
		cli.IntFlag{
			Name:  "stakers",
			Usage: "Number of staking accounts to generate",
			Value: 4,
		},
		cli.Uint64Flag{
			Name:  "rate",
			Usage: "Distributor reward rate per epoch (scaled by 1e6)",
			Value: 3000,
		},
		cli.Int64Flag{
			Name:  "bounty",
			Usage: "Rollover bounty in whole base tokens",
			Value: 1,
		},
	}
}
