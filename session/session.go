// Package session owns the run/stop state of a board and the grid it is
// currently showing. All methods must be called from one goroutine; the
// Scheduler is the only source of timed steps.
package session

import (
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-board/engine"
	"github.com/sheikhrachel/gol-board/model"
	"github.com/sheikhrachel/gol-board/utils"
)

// ErrInvalidSize is returned by Resize for sizes the board does not support
var ErrInvalidSize = errors.New("grid size must be 5-100 in steps of 5")

// State of the run/stop control
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	default:
		return "Unknown"
	}
}

// Options tune a Session. Zero values fall back to the defaults in
// utils.DefaultConfig.
type Options struct {
	Interval time.Duration

	// Density is the probability a cell is alive after Randomize. Nil uses
	// the default; zero is a valid density and gives an empty board.
	Density *float64

	Seed             int64
	StopWhenStagnant bool

	// Pool, when set, recycles retired generations. Grids returned by Grid
	// are then only valid until the next step.
	Pool *model.GridPool

	Logger *log.Logger

	// OnChange is called after every grid replacement
	OnChange func(*model.Grid)
}

// Session holds the current generation and the run/stop state machine
type Session struct {
	grid       *model.Grid
	state      State
	generation int
	stagnant   bool

	sched   Scheduler
	rng     *rand.Rand
	opts    Options
	density float64
	logger  *log.Logger
	history history
	stats   *utils.Stats
	last    time.Time
}

// New creates a stopped session with an empty board of the given size
func New(size int, sched Scheduler, opts Options) (*Session, error) {
	if !utils.ValidGridSize(size) {
		return nil, errors.Wrapf(ErrInvalidSize, "[New] size: %d", size)
	}
	if sched == nil {
		return nil, errors.New("[New] scheduler is required")
	}

	defaults := utils.DefaultConfig()
	if opts.Interval <= 0 {
		opts.Interval = defaults.Interval
	}
	density := defaults.RandomDensity
	if opts.Density != nil {
		density = *opts.Density
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	grid, err := model.NewGrid(size)
	if err != nil {
		return nil, errors.Wrap(err, "[New] failed to create grid")
	}

	s := &Session{
		grid:    grid,
		state:   Stopped,
		sched:   sched,
		rng:     rand.New(rand.NewPCG(uint64(opts.Seed), 0)),
		opts:    opts,
		density: density,
		logger:  logger,
		stats:   utils.NewStats(),
	}
	s.history.restart(grid.Hash())
	return s, nil
}

// Grid returns the current generation
func (s *Session) Grid() *model.Grid { return s.grid }

// State returns whether the simulation is running
func (s *Session) State() State { return s.state }

// Generation returns the number of steps since the board was last cleared or resized
func (s *Session) Generation() int { return s.generation }

// Size returns the side length of the current board
func (s *Session) Size() int { return s.grid.Size() }

// Interval returns the delay between scheduled steps
func (s *Session) Interval() time.Duration { return s.opts.Interval }

// Stats returns the running statistics
func (s *Session) Stats() *utils.Stats { return s.stats }

// Stagnant reports whether the last step repeated a recent generation
func (s *Session) Stagnant() bool { return s.stagnant }

// Start runs one step immediately and then steps every interval
func (s *Session) Start() {
	if s.state == Running {
		return
	}
	s.state = Running
	// the immediate step counts as one interval for the rate
	s.last = time.Now().Add(-s.opts.Interval)
	s.logger.Printf("[session] running, interval %s", s.opts.Interval)
	s.sched.Start(s.opts.Interval, s.Tick)
	s.Step()
}

// Stop cancels periodic stepping; the board keeps its last generation
func (s *Session) Stop() {
	if s.state == Stopped {
		return
	}
	s.sched.Stop()
	s.state = Stopped
	s.logger.Printf("[session] stopped at generation %d", s.generation)
}

// Tick is the scheduler callback; it is ignored unless the session is running
func (s *Session) Tick() {
	if s.state != Running {
		return
	}
	s.Step()
}

// Step advances the board by one generation whatever the run state
func (s *Session) Step() {
	var (
		prev = s.grid
		next = engine.StepPooled(prev, s.opts.Pool)
		now  = time.Now()
	)

	s.generation++
	population := next.CountLivingCells()
	s.stats.Update(s.generation, population, now.Sub(s.last))
	s.last = now
	s.stagnant = s.history.observe(next.Hash())

	s.replace(next)
	model.GridToPool(prev, s.opts.Pool)

	if s.opts.StopWhenStagnant && s.state == Running {
		switch {
		case population == 0:
			s.logger.Printf("[session] extinct at generation %d", s.generation)
			s.Stop()
		case s.stagnant:
			s.logger.Printf("[session] stagnant at generation %d", s.generation)
			s.Stop()
		}
	}
}

// Toggle flips the cell at (row, column); off-grid clicks are ignored
func (s *Session) Toggle(row, column int) {
	if !s.grid.InBounds(row, column) {
		return
	}
	s.ToggleIndex(s.grid.ToIndex(row, column))
}

// ToggleIndex flips the cell at a linear index; out-of-range indices are ignored
func (s *Session) ToggleIndex(index int) {
	if index < 0 || index >= s.grid.Len() {
		return
	}
	s.seed(s.grid.Toggle(index))
}

// Randomize replaces the board with random cells at the configured density.
// It is allowed while running.
func (s *Session) Randomize() error {
	grid, err := model.Randomize(s.grid.Size(), s.density, s.rng)
	if err != nil {
		return errors.Wrap(err, "[Randomize] failed to randomize board")
	}
	s.seed(grid)
	return nil
}

// Clear stops the simulation and empties the board
func (s *Session) Clear() {
	s.Stop()
	s.resetCounters()
	s.seed(s.grid.Cleared())
}

// Resize stops the simulation and replaces the board with an empty one of
// the new size
func (s *Session) Resize(size int) error {
	if !utils.ValidGridSize(size) {
		return errors.Wrapf(ErrInvalidSize, "[Resize] size: %d", size)
	}
	s.Stop()
	grid, err := model.Resize(size)
	if err != nil {
		return errors.Wrap(err, "[Resize] failed to resize board")
	}
	s.resetCounters()
	s.logger.Printf("[session] resized to %dx%d", size, size)
	s.seed(grid)
	return nil
}

func (s *Session) resetCounters() {
	s.generation = 0
	s.stats.Reset()
}

// seed installs a grid that did not come from stepping, so cycle detection
// starts over from it
func (s *Session) seed(g *model.Grid) {
	s.stagnant = false
	s.history.restart(g.Hash())
	s.replace(g)
}

func (s *Session) replace(g *model.Grid) {
	s.grid = g
	if s.opts.OnChange != nil {
		s.opts.OnChange(g)
	}
}
