package launcher

import (
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-staking/flags"
)

var app = flags.NewApp()

// Launch parses flags and runs the staking simulation.
func Launch(args []string) error {
	app.Flags = append(flags.CommonFlags(), flags.StakingFlags()...)
	app.Action = simulateAction
	app.Commands = []cli.Command{
		{
			Name:   "simulate",
			Usage:  "Run the epoch/rebase simulation and exit",
			Flags:  app.Flags,
			Action: simulateAction,
		},
	}
	return app.Run(args)
}

func simulateAction(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	return runSimulation(cfg)
}

// setupLogging configures logrus from the launcher config and attaches the
// Sentry hook when a DSN is provided.
func setupLogging(cfg Config) error {
	levels := []logrus.Level{
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
		logrus.DebugLevel,
		logrus.TraceLevel,
	}
	verbosity := cfg.Logging.Verbosity
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(levels) {
		verbosity = len(levels) - 1
	}
	logrus.SetLevel(levels[verbosity])

	if cfg.Logging.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Logging.Color,
			DisableColors: !cfg.Logging.Color,
			FullTimestamp: true,
		})
	}

	if cfg.Sentry.DSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.Sentry.DSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return err
		}
		logrus.AddHook(hook)
	}
	return nil
}
