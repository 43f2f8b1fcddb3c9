//go:build windows

package cmd

import "golang.org/x/sys/windows"

// isProcessRunning checks whether a process with the given PID exists by
// opening it with the minimal SYNCHRONIZE access right.
func isProcessRunning(pid int) bool {
	handle, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		return false
	}
	windows.CloseHandle(handle)
	return true
}
