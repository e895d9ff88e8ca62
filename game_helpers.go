package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-board/model"
	"github.com/sheikhrachel/gol-board/session"
	"github.com/sheikhrachel/gol-board/utils"
)

const defaultConfigPath = "config.json"

// loadConfig reads the JSON config named by -config and then applies the
// remaining flags on top of it
func loadConfig(args []string) (utils.Config, error) {
	var (
		probe      = utils.DefaultConfig()
		configPath string
		first      = flag.NewFlagSet("gol", flag.ContinueOnError)
	)
	first.SetOutput(io.Discard)
	first.StringVar(&configPath, "config", defaultConfigPath, "path to a JSON config file")
	probe.Bind(first)
	if err := first.Parse(args); err != nil && !errors.Is(err, flag.ErrHelp) {
		return probe, errors.Wrap(err, "[loadConfig] failed to parse flags")
	}

	config, err := utils.LoadConfig(configPath)
	if err != nil {
		if configPath != defaultConfigPath || !os.IsNotExist(errors.Cause(err)) {
			return config, err
		}
		fmt.Fprintln(os.Stderr, "Using default configuration (config.json not found)")
		config = utils.DefaultConfig()
	}

	second := flag.NewFlagSet("gol", flag.ContinueOnError)
	second.Usage = usage(second)
	second.String("config", defaultConfigPath, "path to a JSON config file")
	config.Bind(second)
	if err = second.Parse(args); err != nil {
		return config, errors.Wrap(err, "[loadConfig] failed to parse flags")
	}

	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// newSession builds a session from the config
func newSession(config utils.Config, sched session.Scheduler, onChange func(*model.Grid)) (*session.Session, error) {
	opts := session.Options{
		Interval:         config.Interval,
		Density:          &config.RandomDensity,
		Seed:             config.Seed,
		StopWhenStagnant: config.StopWhenStagnant,
		OnChange:         onChange,
	}
	if config.UseMemoryPool {
		opts.Pool = model.NewGridPool()
	}
	if config.Verbose {
		opts.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	sess, err := session.New(config.GridSize, sched, opts)
	if err != nil {
		return nil, errors.Wrap(err, "[newSession] failed to create session")
	}
	return sess, nil
}

// runHeadless randomizes the board and prints every generation to out until
// MaxGenerations is reached, the run stops itself, or ctx is cancelled
func runHeadless(ctx context.Context, config utils.Config, out io.Writer) error {
	var (
		renderer  = &model.TextRenderer{Out: out}
		sched     = session.NewTickerScheduler()
		renderErr error
		sess      *session.Session
	)

	display := func(g *model.Grid) {
		if renderErr != nil || sess == nil {
			return
		}
		if renderErr = renderer.Clear(); renderErr != nil {
			return
		}
		displayGameStatus(out, sess, g)
		renderErr = renderer.Display(g)
	}

	sess, err := newSession(config, sched, display)
	if err != nil {
		return err
	}
	if err = sess.Randomize(); err != nil {
		return errors.Wrap(err, "[runHeadless] failed to seed board")
	}

	sess.Start()
	defer sess.Stop()

	for renderErr == nil && sess.State() == session.Running {
		if config.MaxGenerations > 0 && sess.Generation() >= config.MaxGenerations {
			break
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nShutting down gracefully...")
			return displayFinalStats(out, sess)
		case tick := <-sched.Ticks():
			tick()
		}
	}
	if renderErr != nil {
		return renderErr
	}
	return displayFinalStats(out, sess)
}

// displayGameStatus shows the current game status above the board
func displayGameStatus(out io.Writer, sess *session.Session, g *model.Grid) {
	var (
		stats       = sess.Stats()
		livingCells = g.CountLivingCells()
		density     = float64(livingCells) / float64(g.Len()) * 100
		status      = "Active"
	)
	switch {
	case livingCells == 0:
		status = "Extinct"
	case sess.Stagnant():
		status = "Stagnant"
	}

	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		sess.Generation(), livingCells, density, status)
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())
}

func displayFinalStats(out io.Writer, sess *session.Session) error {
	stats := sess.Stats()
	_, err := fmt.Fprintf(out, "Final stats: %d generations in %.1f seconds, %.1f avg population\n",
		sess.Generation(), stats.Runtime().Seconds(), stats.AveragePopulation)
	return errors.Wrap(err, "[displayFinalStats] failed to write stats")
}
