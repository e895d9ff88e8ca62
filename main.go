package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/gol-board/session"
	"github.com/sheikhrachel/gol-board/ui"
	"github.com/sheikhrachel/gol-board/utils"
)

func main() {
	config, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.Headless {
		err = runHeadless(ctx, config, os.Stdout)
	} else {
		err = runInteractive(ctx, config)
	}
	if err != nil {
		log.Fatalf("[main] %+v", err)
	}
}

// runInteractive starts the tcell front end. The event pump and the host
// loop run under one errgroup so either failing tears the other down.
func runInteractive(ctx context.Context, config utils.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "[runInteractive] failed to create screen")
	}
	if err = screen.Init(); err != nil {
		return errors.Wrap(err, "[runInteractive] failed to initialize screen")
	}

	sched := session.NewTickerScheduler()
	sess, err := newSession(config, sched, nil)
	if err != nil {
		screen.Fini()
		return err
	}

	var (
		eg, egCtx = errgroup.WithContext(ctx)
		term      = ui.New(screen)
		events    = make(chan tcell.Event, 16)
		quit      = make(chan struct{})
	)

	eg.Go(func() error {
		screen.ChannelEvents(events, quit)
		return nil
	})
	eg.Go(func() error {
		defer close(quit)
		defer screen.Fini()
		return term.Run(egCtx, sess, sched.Ticks(), events)
	})

	if err = eg.Wait(); err != nil {
		return err
	}
	stats := sess.Stats()
	fmt.Printf("Final stats: %d generations in %.1f seconds\n",
		sess.Generation(), stats.Runtime().Seconds())
	return nil
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags]\n\n", fs.Name())
		fmt.Fprintln(fs.Output(), "Conway's Game of Life on a bounded square board.")
		fs.PrintDefaults()
	}
}
