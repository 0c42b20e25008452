package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/prox/internal/adapters/fsnotify"
	"github.com/corey/prox/internal/app"
)

var watchQuery queryFlags

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <term-a> <term-b> <file> [file ...]",
	Short: "Search files and search again whenever they change",
	Long:  "Runs the search once, then re-runs it for each file as it is written. Stop with Ctrl-C.",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runWatch,
}

func init() {
	watchQuery.register(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := watchQuery.apply(cmd, cfg); err != nil {
		return fail(err)
	}
	q, err := watchQuery.query(cmd, cfg, args[0], args[1])
	if err != nil {
		return fail(err)
	}
	q.KeepText = true

	a, err := app.New(cfg, logger)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	w, err := fsnotify.NewWatcher(cfg.DebounceDuration())
	if err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), q)
	p.color = resolveColor(watchQuery.color, watchQuery.noColor)
	p.withName = true
	emit := func(results []app.FileResult) {
		fmt.Fprintf(p.errw, "%s\n", p.paint(colorGray, "-- "+time.Now().Format(time.TimeOnly)))
		if err := p.print(results); err != nil {
			logger.Error("write results", "error", err)
		}
	}

	if err := a.Watch(ctx, w, args[2:], q, emit); err != nil {
		return fail(err)
	}
	logger.Debug("watch stopped")
	return nil
}
