package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/urfave/cli"

	"github.com/tabwatch/tabwatch/internal/config"
	"github.com/tabwatch/tabwatch/pkg/logger"
	"github.com/tabwatch/tabwatch/pkg/tabref"
)

func help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Printf("%s %s\n", ctx.App.Name, ctx.App.Version)
		cli.ShowAppHelpAndExit(ctx, 0)
		return nil
	}
	return cli.ShowCommandHelp(ctx, arg)
}

func getVersion(ctx *cli.Context) error {
	fmt.Printf(
		"%s %s (%s_%s)\nBuild: %s=%s\n",
		ctx.App.Name,
		ctx.App.Version,
		runtime.GOOS,
		runtime.GOARCH,
		build.Date, build.Commit,
	)
	return nil
}

func printRuntimeErr(ctx *cli.Context, cmd, action string, err error) {
	if err == nil {
		return
	}
	var name string
	if ctx != nil {
		name = ctx.App.HelpName
	} else {
		name = os.Args[0]
	}
	fmt.Printf("%s: %s[%s]: %s\n", name, cmd, action, err.Error())
}

// loadConfig resolves the environment-driven configuration, then applies
// command line overrides on top.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String("env"))
	if err != nil {
		return nil, err
	}
	if dir := ctx.String("dir"); dir != "" {
		cfg.BaseDir = dir
	}
	if ctx.IsSet("interval") {
		m := ctx.Int("interval")
		if m <= 0 {
			return nil, fmt.Errorf("interval must be positive, got %d", m)
		}
		cfg.Interval = time.Duration(m) * time.Minute
	}
	if ctx.IsSet("cron") {
		cfg.Cron = ctx.String("cron")
	}
	return cfg, nil
}

// cycleStats tallies one reconciliation cycle by outcome.
type cycleStats struct {
	downloaded int
	replaced   int
	valid      int
	failed     int
}

// runCycle reconciles every configured file and returns the per-outcome
// tally. Per-file failures never abort the rest of the batch.
func runCycle(ctx context.Context, rec *tabref.Reconciler, cfg *config.Config, log logger.Logger) cycleStats {
	var stats cycleStats
	for _, name := range cfg.Files {
		res := rec.Reconcile(ctx, cfg.FilePath(name), cfg.DownloadURL)
		switch res.Outcome {
		case tabref.OutcomeDownloadedNew:
			stats.downloaded++
			log.Info("%s: downloaded a fresh copy", name)
		case tabref.OutcomeReplacedExpired:
			stats.replaced++
			log.Info("%s: expired on %s, archived as %s and replaced",
				name, res.ValidUntil.Format("02-01-2006"), filepath.Base(res.ArchivedAs))
		case tabref.OutcomeStillValid:
			stats.valid++
			log.Info("%s: still valid until %s", name, res.ValidUntil.Format("02-01-2006"))
		default:
			stats.failed++
			log.Error("%s", res.Err)
		}
	}
	return stats
}

func consoleLogger() logger.Logger {
	return logger.NewStandardLogger(newStdLogger())
}

// backgroundLogger writes to stdout and the rotating file beside the tables.
func backgroundLogger(cfg *config.Config) logger.Logger {
	return logger.NewMultiLogger(
		logger.NewStandardLogger(newStdLogger()),
		logger.NewFileLogger(cfg.LogPath(), cfg.LogMaxSizeMB, cfg.LogMaxBackups),
	)
}
