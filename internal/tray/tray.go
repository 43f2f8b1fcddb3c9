// Package tray is the optional desktop control surface. It subscribes to
// the same scheduler and platform interfaces the headless mode uses; no
// reconciliation logic lives here.
package tray

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"

	"github.com/tabwatch/tabwatch/internal/platform"
	"github.com/tabwatch/tabwatch/internal/scheduler"
	"github.com/tabwatch/tabwatch/pkg/logger"
)

// Controller wires the tray menu to a running scheduler.
type Controller struct {
	Sched    *scheduler.Scheduler
	Platform platform.Integration
	Log      logger.Logger
	BaseDir  string
	LogPath  string
	// Cancel stops the reconciliation loop when the user quits.
	Cancel context.CancelFunc
}

// Run blocks on the systray event loop until the user quits. The
// reconciliation loop must already be running on its own goroutine.
func (c *Controller) Run() {
	systray.Run(c.onReady, c.onExit)
}

func (c *Controller) onReady() {
	systray.SetTitle("tabwatch")
	systray.SetTooltip("IBPT table monitor")

	checkNow := systray.AddMenuItem("Check now", "Reconcile all tables immediately")
	openDir := systray.AddMenuItem("Open folder", "Open the table folder")
	openLog := systray.AddMenuItem("Open log", "Open the log file")
	startup := systray.AddMenuItemCheckbox("Start at login", "Run tabwatch when you log in", c.startupRegistered())
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Stop watching and exit")

	go func() {
		for {
			select {
			case <-checkNow.ClickedCh:
				c.Sched.RunNow()
			case <-openDir.ClickedCh:
				c.open(c.BaseDir)
			case <-openLog.ClickedCh:
				c.open(c.LogPath)
			case <-startup.ClickedCh:
				c.toggleStartup(startup)
			case <-quit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func (c *Controller) onExit() {
	if c.Cancel != nil {
		c.Cancel()
	}
}

func (c *Controller) startupRegistered() bool {
	ok, err := c.Platform.StartupRegistered()
	if err != nil {
		c.Log.Warning("startup registration check failed: %v", err)
		return false
	}
	return ok
}

func (c *Controller) toggleStartup(item *systray.MenuItem) {
	if item.Checked() {
		if err := c.Platform.UnregisterStartup(); err != nil {
			c.Log.Error("removing startup entry: %v", err)
			return
		}
		item.Uncheck()
		c.Log.Info("startup entry removed")
		return
	}
	exe, err := os.Executable()
	if err != nil {
		c.Log.Error("resolving executable path: %v", err)
		return
	}
	if err := c.Platform.RegisterStartup(exe); err != nil {
		c.Log.Error("adding startup entry: %v", err)
		return
	}
	item.Check()
	c.Log.Info("startup entry added")
}

// open hands a path to the desktop shell.
func (c *Controller) open(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		c.Log.Error("opening %s: %v", path, err)
	}
}
