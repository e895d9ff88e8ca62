package utils

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	MinGridSize  = 5
	MaxGridSize  = 100
	GridSizeStep = 5
)

// ErrInvalidConfig is the root of every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for the game
type Config struct {
	GridSize         int           `json:"grid_size"`
	Interval         time.Duration `json:"interval"`
	RandomDensity    float64       `json:"random_density"`
	Seed             int64         `json:"seed"`
	Headless         bool          `json:"headless"`
	MaxGenerations   int           `json:"max_generations"`
	StopWhenStagnant bool          `json:"stop_when_stagnant"`
	UseMemoryPool    bool          `json:"use_memory_pool"`
	Verbose          bool          `json:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		GridSize:       40,
		Interval:       300 * time.Millisecond,
		RandomDensity:  0.5,
		MaxGenerations: 100, // only consulted in headless mode
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Bind attaches the configuration to the provided FlagSet. Values already in
// the config act as flag defaults, so flags override the JSON file.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.GridSize, "size", c.GridSize, "grid side length (5-100, multiple of 5)")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "delay between generations while running")
	fs.Float64Var(&c.RandomDensity, "density", c.RandomDensity, "probability a cell is alive after randomize")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for randomize (0 picks one from the clock)")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "print generations to stdout instead of the interactive UI")
	fs.IntVar(&c.MaxGenerations, "generations", c.MaxGenerations, "generations to run in headless mode (0 = until interrupted)")
	fs.BoolVar(&c.StopWhenStagnant, "stop-when-stagnant", c.StopWhenStagnant, "stop the run once the board is extinct or cycling")
	fs.BoolVar(&c.UseMemoryPool, "pool", c.UseMemoryPool, "recycle retired generations through a grid pool")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "log state transitions to stderr")
}

// ValidGridSize reports whether size is an allowed board side length
func ValidGridSize(size int) bool {
	return size >= MinGridSize && size <= MaxGridSize && size%GridSizeStep == 0
}

// Validate checks the config for values the game cannot run with
func (c Config) Validate() error {
	if !ValidGridSize(c.GridSize) {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] grid_size %d outside %d-%d step %d",
			c.GridSize, MinGridSize, MaxGridSize, GridSizeStep)
	}
	if c.Interval <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] interval must be positive, got %s", c.Interval)
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] random_density %v outside [0,1]", c.RandomDensity)
	}
	if c.MaxGenerations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] max_generations must not be negative, got %d", c.MaxGenerations)
	}
	return nil
}
