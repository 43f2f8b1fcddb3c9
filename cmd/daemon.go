package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/tabwatch/tabwatch/internal/config"
	"github.com/tabwatch/tabwatch/internal/scheduler"
	"github.com/tabwatch/tabwatch/pkg/logger"
	"github.com/tabwatch/tabwatch/pkg/tabref"
)

// daemon runs the reconciliation loop headless until interrupted. Holding
// the single-instance lock is a startup requirement: a second instance
// against the same directory exits immediately with code 1.
func daemon(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		printRuntimeErr(ctx, "daemon", "config", err)
		return cli.NewExitError("", 1)
	}

	lock, err := acquireLock(cfg.LockPath())
	if err != nil {
		printRuntimeErr(ctx, "daemon", "lock", err)
		return cli.NewExitError("", 1)
	}
	defer lock.Release()

	log := backgroundLogger(cfg)
	defer log.Close()

	sched, err := newSchedule(cfg, log)
	if err != nil {
		printRuntimeErr(ctx, "daemon", "schedule", err)
		return cli.NewExitError("", 1)
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("tabwatch %s started (pid %d), watching %d file(s) in %s",
		build.Version, os.Getpid(), len(cfg.Files), cfg.BaseDir)
	sched.Run(runCtx)
	log.Info("tabwatch stopped")
	return nil
}

// newSchedule builds the scheduler whose job reconciles every configured
// file once per cycle.
func newSchedule(cfg *config.Config, log logger.Logger) (*scheduler.Scheduler, error) {
	rec := tabref.New(afero.NewOsFs(), tabref.NewHTTPFetcher(), tabref.WithLogger(log))
	return scheduler.New(cfg.Interval, cfg.Cron, cycleJob(rec, cfg, log))
}

// cycleJob wraps runCycle with a per-cycle summary: one line with the
// outcome tally and the cycle duration, plus a warning when anything failed.
func cycleJob(rec *tabref.Reconciler, cfg *config.Config, log logger.Logger) scheduler.Job {
	return func(c context.Context) {
		start := time.Now()
		stats := runCycle(c, rec, cfg, log)
		log.Info("cycle finished in %s: %d downloaded, %d replaced, %d still valid, %d failed",
			time.Since(start).Round(time.Millisecond),
			stats.downloaded, stats.replaced, stats.valid, stats.failed)
		if stats.failed > 0 {
			log.Warning("cycle finished with %d failed file(s)", stats.failed)
		}
	}
}
