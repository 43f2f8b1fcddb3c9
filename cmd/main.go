// Package cmd implements the tabwatch command line surface: a run-once
// check, the headless periodic daemon, the tray variant, and control of a
// running instance.
package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

// BuildArgs carries version metadata injected through ldflags.
type BuildArgs struct {
	Version string
	Commit  string
	Date    string
}

var build BuildArgs

// Execute runs the tabwatch CLI. The bare invocation reconciles once and
// exits, which keeps the packaged scheduled-task entry trivial.
func Execute(args []string, b BuildArgs) error {
	build = b
	if build.Version == "" {
		build.Version = "dev"
	}
	app := cli.App{
		Name:         "tabwatch",
		HelpName:     "tabwatch",
		Usage:        "keeps IBPT tax table files current",
		UsageText:    "tabwatch <command> [options...]",
		Version:      build.Version,
		OnUsageError: usageErrorCallback,
		Commands: []cli.Command{
			{
				Name:         "check",
				Aliases:      []string{"c"},
				Usage:        "reconcile every table once and exit",
				Action:       check,
				Flags:        checkFlags,
				OnUsageError: usageErrorCallback,
			},
			{
				Name:         "daemon",
				Aliases:      []string{"d"},
				Usage:        "run the periodic reconciliation loop headless",
				Action:       daemon,
				Flags:        daemonFlags,
				OnUsageError: usageErrorCallback,
			},
			{
				Name:         "tray",
				Aliases:      []string{"t"},
				Usage:        "run the loop with a tray icon",
				Action:       trayMode,
				Flags:        daemonFlags,
				OnUsageError: usageErrorCallback,
			},
			{
				Name:         "stop",
				Usage:        "stop a running tabwatch instance",
				Action:       stop,
				Flags:        commonFlags,
				OnUsageError: usageErrorCallback,
			},
			{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "print the installed version",
				Action:  getVersion,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "print the help message",
				Action:  help,
			},
		},
		Action:      check,
		Flags:       checkFlags,
		HideHelp:    true,
		HideVersion: true,
	}
	return app.Run(args)
}

func usageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	fmt.Printf("%s: %s\n", ctx.App.HelpName, err.Error())
	return err
}
