package cmd

import "github.com/urfave/cli"

var commonFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "dir, C",
		Usage: "base directory holding the table files",
	},
	cli.StringFlag{
		Name:  "env, e",
		Usage: "path to a dotenv configuration file",
	},
}

var checkFlags = append([]cli.Flag{
	cli.BoolFlag{
		Name:  "quiet, q",
		Usage: "disable the download progress bar",
	},
}, commonFlags...)

var daemonFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:  "interval, i",
		Usage: "minutes between reconciliation cycles (default 360)",
	},
	cli.StringFlag{
		Name:  "cron",
		Usage: "cron expression scheduling cycles, overrides --interval",
	},
}, commonFlags...)
