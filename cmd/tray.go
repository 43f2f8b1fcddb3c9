package cmd

import (
	"context"

	"github.com/urfave/cli"

	"github.com/tabwatch/tabwatch/internal/platform"
	"github.com/tabwatch/tabwatch/internal/tray"
)

// trayMode runs the same loop as daemon, with the scheduler on its own
// goroutine and the tray event loop owning the main one.
func trayMode(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		printRuntimeErr(ctx, "tray", "config", err)
		return cli.NewExitError("", 1)
	}

	log := backgroundLogger(cfg)
	defer log.Close()
	plat := platform.New(log)

	lock, err := acquireLock(cfg.LockPath())
	if err != nil {
		// The tray mode is typically launched from the desktop, so a log
		// line alone would go unseen.
		_ = plat.Notify("tabwatch", "tabwatch is already running: "+err.Error())
		printRuntimeErr(ctx, "tray", "lock", err)
		return cli.NewExitError("", 1)
	}
	defer lock.Release()

	sched, err := newSchedule(cfg, log)
	if err != nil {
		printRuntimeErr(ctx, "tray", "schedule", err)
		return cli.NewExitError("", 1)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run(runCtx)
	}()

	c := &tray.Controller{
		Sched:    sched,
		Platform: plat,
		Log:      log,
		BaseDir:  cfg.BaseDir,
		LogPath:  cfg.LogPath(),
		Cancel:   cancel,
	}
	log.Info("tabwatch %s started in tray mode, watching %d file(s) in %s",
		build.Version, len(cfg.Files), cfg.BaseDir)
	c.Run()
	<-done
	log.Info("tabwatch stopped")
	return nil
}
