package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

// stop terminates the tabwatch instance owning the lock file in the
// configured directory.
func stop(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		printRuntimeErr(ctx, "stop", "config", err)
		return cli.NewExitError("", 1)
	}

	pid, err := readLockPid(cfg.LockPath())
	if err != nil {
		printRuntimeErr(ctx, "stop", "lockfile", fmt.Errorf("no running instance found: %w", err))
		return cli.NewExitError("", 1)
	}
	if !isProcessRunning(pid) {
		printRuntimeErr(ctx, "stop", "lockfile", fmt.Errorf("stale lock: process %d is not running", pid))
		return cli.NewExitError("", 1)
	}
	if err := terminateProcess(pid); err != nil {
		printRuntimeErr(ctx, "stop", "terminate", err)
		return cli.NewExitError("", 1)
	}
	fmt.Printf("sent stop signal to pid %d\n", pid)
	return nil
}
