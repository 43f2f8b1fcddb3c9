package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Lock is an acquired single-instance lock file. The file holds the owning
// PID so a competing instance (and the stop command) can find the owner.
type Lock struct {
	path string
}

// acquireLock exclusively creates the lock file with the current PID. A
// lock held by a live process fails acquisition; a lock left behind by a
// dead process is treated as stale, removed, and re-acquired.
func acquireLock(path string) (*Lock, error) {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				os.Remove(path)
				return nil, werr
			}
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}

		pid, perr := readLockPid(path)
		if perr == nil && isProcessRunning(pid) {
			return nil, fmt.Errorf("another instance is already running (pid %d)", pid)
		}
		// Stale or unreadable lock: the owner is gone, reclaim it.
		if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
			return nil, rerr
		}
	}
	return nil, fmt.Errorf("could not acquire lock file %s", path)
}

// readLockPid reads and validates the PID recorded in the lock file.
func readLockPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}

// Release removes the lock file. Best effort; a failed removal only means
// the next start pays the stale-lock detection path.
func (l *Lock) Release() {
	if l != nil {
		_ = os.Remove(l.path)
	}
}
