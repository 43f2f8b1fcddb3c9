package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/tabwatch/tabwatch/pkg/tabref"
)

// check reconciles every configured table once and exits with code 1 when
// any of them failed.
func check(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		printRuntimeErr(ctx, "check", "config", err)
		return cli.NewExitError("", 1)
	}

	log := consoleLogger()
	opts := []tabref.Option{tabref.WithLogger(log)}

	var ui *progressUI
	if !ctx.Bool("quiet") {
		ui = newProgressUI()
		opts = append(opts, tabref.WithHandlers(&tabref.Handlers{
			DownloadProgressHandler: ui.onProgress,
			DownloadCompleteHandler: ui.onComplete,
		}))
	}

	rec := tabref.New(afero.NewOsFs(), tabref.NewHTTPFetcher(), opts...)
	stats := runCycle(context.Background(), rec, cfg, log)
	if ui != nil {
		ui.wait()
	}
	if stats.failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d file(s) failed", stats.failed, len(cfg.Files)), 1)
	}
	return nil
}

// progressUI renders one mpb bar per download. Bars appear lazily so files
// that turn out to be still valid draw nothing.
type progressUI struct {
	p    *mpb.Progress
	bar  *mpb.Bar
	last int64
}

func newProgressUI() *progressUI {
	return &progressUI{p: mpb.New(mpb.WithWidth(64))}
}

func (u *progressUI) onProgress(written, total int64) {
	if u.bar == nil {
		u.last = 0
		u.bar = u.p.New(total,
			mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding(" ").Rbound("]"),
			mpb.PrependDecorators(
				decor.Name("downloading", decor.WC{W: 12, C: decor.DindentRight}),
			),
			mpb.AppendDecorators(
				decor.CurrentKibiByte("% .1f"),
				decor.AverageSpeed(decor.SizeB1024(0), " % .1f"),
			),
		)
	}
	u.bar.IncrBy(int(written - u.last))
	u.last = written
}

func (u *progressUI) onComplete(total int64) {
	if u.bar != nil {
		u.bar.SetTotal(total, true)
		u.bar = nil
	}
}

func (u *progressUI) wait() {
	// Abort a bar left behind by a failed download so Wait does not hang.
	if u.bar != nil {
		u.bar.Abort(true)
		u.bar = nil
	}
	u.p.Wait()
}
