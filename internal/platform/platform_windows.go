//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/tabwatch/tabwatch/pkg/logger"
)

const (
	runKeyPath   = `Software\Microsoft\Windows\CurrentVersion\Run`
	runValueName = "tabwatch"
)

type windowsIntegration struct{}

func newIntegration(logger.Logger) Integration {
	return &windowsIntegration{}
}

// RegisterStartup writes the current user's Run key so tabwatch starts in
// tray mode at login. No administrator rights needed.
func (w *windowsIntegration) RegisterStartup(exePath string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	return k.SetStringValue(runValueName, `"`+exePath+`" tray`)
}

func (w *windowsIntegration) UnregisterStartup() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	err = k.DeleteValue(runValueName)
	if err == registry.ErrNotExist {
		return nil
	}
	return err
}

func (w *windowsIntegration) StartupRegistered() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false, err
	}
	defer k.Close()
	_, _, err = k.GetStringValue(runValueName)
	if err == registry.ErrNotExist {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Notify falls back to a modal message box; tabwatch has no window of its
// own to anchor richer notifications to.
func (w *windowsIntegration) Notify(title, message string) error {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	m, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return err
	}
	_, err = windows.MessageBox(0, m, t, windows.MB_OK|windows.MB_ICONINFORMATION)
	return err
}
