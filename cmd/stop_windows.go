//go:build windows

package cmd

import "golang.org/x/sys/windows"

// terminateProcess stops the daemon. Windows has no SIGTERM delivery for
// unrelated processes, so the process is terminated directly; the next
// start reclaims the lock file through the stale-lock path.
func terminateProcess(pid int) error {
	handle, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)
	return windows.TerminateProcess(handle, 0)
}
