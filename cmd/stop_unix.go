//go:build !windows

package cmd

import "syscall"

// terminateProcess asks the daemon to shut down. SIGTERM is what the
// daemon's signal context listens for, so the current cycle finishes and
// the lock file is released.
func terminateProcess(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}
