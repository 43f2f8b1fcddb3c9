// Package platform isolates OS-specific integration: login startup
// registration and modal user notification. Non-targeted platforms and
// tests get a no-op implementation, so nothing above this package branches
// on the operating system.
package platform

import "github.com/tabwatch/tabwatch/pkg/logger"

// Integration is the narrow surface the tray adapter drives.
type Integration interface {
	// RegisterStartup arranges for exePath to run at user login.
	RegisterStartup(exePath string) error
	// UnregisterStartup removes the login entry. Removing an absent
	// entry is not an error.
	UnregisterStartup() error
	// StartupRegistered reports whether a login entry exists.
	StartupRegistered() (bool, error)
	// Notify shows a user-visible message outside the log file.
	Notify(title, message string) error
}

// New returns the integration for the current platform.
func New(log logger.Logger) Integration {
	return newIntegration(log)
}

// Noop implements Integration for platforms without OS hooks and for
// tests. Notifications degrade to log lines.
type Noop struct {
	Log logger.Logger
}

func (n *Noop) RegisterStartup(string) error { return nil }

func (n *Noop) UnregisterStartup() error { return nil }

func (n *Noop) StartupRegistered() (bool, error) { return false, nil }

func (n *Noop) Notify(title, message string) error {
	if n.Log != nil {
		n.Log.Info("%s: %s", title, message)
	}
	return nil
}

var _ Integration = (*Noop)(nil)
