package session

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-board/model"
)

// manualScheduler records Start/Stop calls and lets tests fire ticks by hand
type manualScheduler struct {
	running  bool
	interval time.Duration
	onTick   func()
	starts   int
	stops    int
}

func (m *manualScheduler) Start(interval time.Duration, onTick func()) {
	m.running = true
	m.interval = interval
	m.onTick = onTick
	m.starts++
}

func (m *manualScheduler) Stop() {
	m.running = false
	m.onTick = nil
	m.stops++
}

func (m *manualScheduler) fire() {
	if m.running && m.onTick != nil {
		m.onTick()
	}
}

func newTestSession(t *testing.T, size int, opts Options) (*Session, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	s, err := New(size, sched, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, sched
}

func density(p float64) *float64 { return &p }

// blinker places a horizontal blinker in the middle of the session's board
func blinker(s *Session) {
	mid := s.Size() / 2
	s.Toggle(mid, mid-1)
	s.Toggle(mid, mid)
	s.Toggle(mid, mid+1)
}

func TestNewSessionStartsStoppedAndEmpty(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{})
	if s.State() != Stopped {
		t.Fatalf("initial state %s, want Stopped", s.State())
	}
	if s.Grid().CountLivingCells() != 0 || s.Size() != 10 {
		t.Fatalf("initial board not empty 10x10")
	}
	if s.Interval() != 300*time.Millisecond {
		t.Fatalf("default interval %s, want 300ms", s.Interval())
	}
	if sched.starts != 0 {
		t.Fatalf("scheduler started before Start")
	}
}

func TestNewSessionRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, 3, 7, 105, -5} {
		if _, err := New(size, &manualScheduler{}, Options{}); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %d: err=%v, want ErrInvalidSize", size, err)
		}
	}
	if _, err := New(10, nil, Options{}); err == nil {
		t.Fatalf("nil scheduler accepted")
	}
}

func TestStartStepsImmediatelyThenOnTicks(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{Interval: 50 * time.Millisecond})
	blinker(s)
	horizontal := s.Grid()

	s.Start()
	if s.State() != Running {
		t.Fatalf("state %s after Start", s.State())
	}
	if sched.starts != 1 || sched.interval != 50*time.Millisecond {
		t.Fatalf("scheduler starts=%d interval=%s", sched.starts, sched.interval)
	}
	if s.Generation() != 1 || s.Grid().Equal(horizontal) {
		t.Fatalf("Start did not step immediately")
	}

	sched.fire()
	if s.Generation() != 2 || !s.Grid().Equal(horizontal) {
		t.Fatalf("tick did not advance the blinker back: gen=%d", s.Generation())
	}

	// a second Start while running is a no-op
	s.Start()
	if sched.starts != 1 || s.Generation() != 2 {
		t.Fatalf("Start while running stepped or restarted the scheduler")
	}
}

func TestStopKeepsGrid(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{})
	blinker(s)
	s.Start()
	sched.fire()
	last := s.Grid()

	s.Stop()
	if s.State() != Stopped || sched.running {
		t.Fatalf("Stop left state=%s scheduler running=%v", s.State(), sched.running)
	}
	if s.Grid() != last {
		t.Fatalf("Stop replaced the grid")
	}

	s.Tick()
	if s.Grid() != last || s.Generation() != 2 {
		t.Fatalf("stale tick stepped a stopped session")
	}
}

func TestResizeForcesStop(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{})
	if err := s.Randomize(); err != nil {
		t.Fatalf("Randomize: %v", err)
	}
	s.Start()

	if err := s.Resize(25); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if s.State() != Stopped || sched.running {
		t.Fatalf("Resize did not stop the run")
	}
	if s.Size() != 25 || s.Grid().Len() != 625 || s.Grid().CountLivingCells() != 0 {
		t.Fatalf("Resize did not give an empty 25x25 board")
	}
	if s.Generation() != 0 {
		t.Fatalf("generation %d after resize", s.Generation())
	}

	for _, bad := range []int{0, 4, 12, 101, 105} {
		if err := s.Resize(bad); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("Resize(%d) err=%v", bad, err)
		}
	}
	if s.Size() != 25 {
		t.Fatalf("rejected resize changed the board")
	}
}

func TestClearForcesStop(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{})
	blinker(s)
	s.Start()

	s.Clear()
	if s.State() != Stopped || sched.running {
		t.Fatalf("Clear did not stop the run")
	}
	if s.Grid().CountLivingCells() != 0 || s.Size() != 10 {
		t.Fatalf("Clear did not empty the board")
	}
}

func TestToggleCopyOnWrite(t *testing.T) {
	s, _ := newTestSession(t, 5, Options{})
	before := s.Grid()

	s.Toggle(1, 2)
	if before.CountLivingCells() != 0 {
		t.Fatalf("Toggle mutated the previous grid")
	}
	if !s.Grid().Get(1, 2) {
		t.Fatalf("Toggle did not set the cell")
	}

	s.Toggle(1, 2)
	if !s.Grid().Equal(before) {
		t.Fatalf("toggling twice is not a no-op")
	}

	after := s.Grid()
	s.Toggle(-1, 0)
	s.Toggle(0, 5)
	s.ToggleIndex(25)
	if s.Grid() != after {
		t.Fatalf("off-grid toggles replaced the grid")
	}
}

func TestRandomizeUsesDensityAndSeed(t *testing.T) {
	a, _ := newTestSession(t, 50, Options{Density: density(0.2), Seed: 99})
	b, _ := newTestSession(t, 50, Options{Density: density(0.2), Seed: 99})
	if err := a.Randomize(); err != nil {
		t.Fatalf("Randomize: %v", err)
	}
	if err := b.Randomize(); err != nil {
		t.Fatalf("Randomize: %v", err)
	}
	if !a.Grid().Equal(b.Grid()) {
		t.Fatalf("same seed gave different boards")
	}
	if c := a.Grid().CountLivingCells(); c < 300 || c > 700 {
		t.Fatalf("density 0.2 gave %d/2500 alive", c)
	}
}

func TestRandomizeDensityBounds(t *testing.T) {
	cases := []struct {
		name     string
		density  *float64
		min, max int
	}{
		{"zero is empty", density(0), 0, 0},
		{"one is full", density(1), 400, 400},
		{"nil uses default", nil, 120, 280},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestSession(t, 20, Options{Density: tc.density})
			if err := s.Randomize(); err != nil {
				t.Fatalf("Randomize: %v", err)
			}
			if c := s.Grid().CountLivingCells(); c < tc.min || c > tc.max {
				t.Fatalf("%d/400 alive, want %d-%d", c, tc.min, tc.max)
			}
		})
	}
}

func TestRandomizeWhileRunningKeepsRunning(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{})
	s.Start()
	if err := s.Randomize(); err != nil {
		t.Fatalf("Randomize: %v", err)
	}
	if s.State() != Running || !sched.running {
		t.Fatalf("Randomize stopped the run")
	}
}

func TestStopWhenStagnant(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{StopWhenStagnant: true})
	// a block is a still life, so the immediate step on Start repeats it
	s.Toggle(4, 4)
	s.Toggle(4, 5)
	s.Toggle(5, 4)
	s.Toggle(5, 5)
	s.Start()
	if s.State() != Stopped || sched.running || !s.Stagnant() {
		t.Fatalf("still life did not stop the run: state=%s stagnant=%v", s.State(), s.Stagnant())
	}
}

func TestFirstStepOnUntouchedBoardIsStagnant(t *testing.T) {
	s, _ := newTestSession(t, 10, Options{})
	s.Step()
	if !s.Stagnant() {
		t.Fatalf("empty board stepping to itself not reported as stagnant")
	}
}

func TestStartRateCoversOneInterval(t *testing.T) {
	s, _ := newTestSession(t, 10, Options{Interval: 100 * time.Millisecond})
	s.Start()
	if rate := s.Stats().GenerationsPerSecond; rate <= 0 || rate > 10.5 {
		t.Fatalf("rate after the immediate step is %.1f gen/s, want at most 10", rate)
	}
}

func TestStopWhenExtinct(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{StopWhenStagnant: true})
	s.Toggle(0, 0)
	s.Start()
	if s.State() != Stopped || sched.running {
		t.Fatalf("extinct board kept running")
	}
	if s.Grid().CountLivingCells() != 0 {
		t.Fatalf("lone cell survived")
	}
}

func TestBlinkerIsDetectedAsCycle(t *testing.T) {
	s, sched := newTestSession(t, 10, Options{})
	blinker(s)
	s.Start()
	if s.Stagnant() {
		t.Fatalf("first step already stagnant")
	}
	sched.fire()
	if !s.Stagnant() {
		t.Fatalf("period-2 blinker not reported as stagnant")
	}
	if s.State() != Running {
		t.Fatalf("stagnation stopped a run without StopWhenStagnant")
	}
}

func TestOnChangeSeesEveryReplacement(t *testing.T) {
	var seen []*model.Grid
	s, sched := newTestSession(t, 10, Options{OnChange: func(g *model.Grid) { seen = append(seen, g) }})

	s.Toggle(1, 1)
	s.Start()
	sched.fire()
	s.Clear()

	if len(seen) != 4 {
		t.Fatalf("OnChange called %d times, want 4", len(seen))
	}
	if seen[len(seen)-1] != s.Grid() {
		t.Fatalf("last OnChange grid is not the current grid")
	}
}

func TestStepWithPoolMatchesWithout(t *testing.T) {
	plain, _ := newTestSession(t, 20, Options{Seed: 5, Density: density(0.4)})
	pooled, _ := newTestSession(t, 20, Options{Seed: 5, Density: density(0.4), Pool: model.NewGridPool()})
	_ = plain.Randomize()
	_ = pooled.Randomize()

	for range 10 {
		plain.Step()
		pooled.Step()
		if !plain.Grid().Equal(pooled.Grid()) {
			t.Fatalf("pooled session diverged at generation %d", plain.Generation())
		}
	}
}

func TestStateString(t *testing.T) {
	if Stopped.String() != "Stopped" || Running.String() != "Running" || State(9).String() != "Unknown" {
		t.Fatalf("unexpected State strings")
	}
}
