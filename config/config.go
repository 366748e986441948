// Package config provides configuration loading and access for evolution runs.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure from Load.
var ErrInvalid = errors.New("invalid config")

// Config holds all run configuration parameters.
type Config struct {
	Seed       int64            `yaml:"seed"`
	Arena      ArenaConfig      `yaml:"arena"`
	Population PopulationConfig `yaml:"population"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Crossover  CrossoverConfig  `yaml:"crossover"`
	Seeding    SeedingConfig    `yaml:"seeding"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ArenaConfig holds the evaluation grid parameters.
type ArenaConfig struct {
	Width  int        `yaml:"width"`  // Torus width in cells
	Height int        `yaml:"height"` // Torus height in cells
	Steps  int        `yaml:"steps"`  // Decisions per agent per evaluation
	Food   FoodConfig `yaml:"food"`
}

// FoodConfig holds food field generation parameters.
type FoodConfig struct {
	Scale     float64 `yaml:"scale"`     // Noise frequency per cell
	Octaves   int     `yaml:"octaves"`   // FBM octaves
	Threshold float64 `yaml:"threshold"` // Cells whose normalized noise exceeds this hold food
	Regrow    bool    `yaml:"regrow"`    // Eaten food returns at the next evaluation
}

// PopulationConfig holds generation loop parameters.
type PopulationConfig struct {
	Size        int `yaml:"size"`
	Generations int `yaml:"generations"`
	Elite       int `yaml:"elite"`      // Best agents copied unchanged
	Tournament  int `yaml:"tournament"` // Contestants per parent selection
}

// MutationConfig holds per-bit mutation probabilities.
type MutationConfig struct {
	BitRate    float64 `yaml:"bit_rate"`    // Any bit of the chromosome
	WeightRate float64 `yaml:"weight_rate"` // Operand bits of weighted-sum frames only
}

// CrossoverConfig holds crossover parameters.
type CrossoverConfig struct {
	Rate float64 `yaml:"rate"` // Probability an offspring is a crossover of two parents
}

// SeedingConfig holds initial population parameters.
type SeedingConfig struct {
	ProgramLength  int     `yaml:"program_length"`  // Instructions per random program
	Spread         float64 `yaml:"spread"`          // Stddev of random scalar operands
	RandomFraction float64 `yaml:"random_fraction"` // Share of random programs; the rest use seed factories
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	OutputDir      string `yaml:"output_dir"`       // Empty disables file output
	HallOfFameSize int    `yaml:"hall_of_fame_size"`
	LogInterval    int    `yaml:"log_interval"` // Generations between progress logs
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells      int // Arena.Width * Arena.Height
	Offspring  int // Population.Size - Population.Elite
	Tournament int // Tournament size clamped to [1, Population.Size]
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values. Call it after
// changing fields of a loaded config.
func (c *Config) Finalize() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.Arena.Width <= 0 || c.Arena.Height <= 0:
		return fmt.Errorf("%w: arena must be at least 1x1, got %dx%d", ErrInvalid, c.Arena.Width, c.Arena.Height)
	case c.Population.Size <= 0:
		return fmt.Errorf("%w: population.size must be positive", ErrInvalid)
	case c.Population.Elite < 0 || c.Population.Elite > c.Population.Size:
		return fmt.Errorf("%w: population.elite %d outside [0, %d]", ErrInvalid, c.Population.Elite, c.Population.Size)
	case !isRate(c.Mutation.BitRate) || !isRate(c.Mutation.WeightRate):
		return fmt.Errorf("%w: mutation rates must lie in [0, 1]", ErrInvalid)
	case !isRate(c.Crossover.Rate):
		return fmt.Errorf("%w: crossover.rate must lie in [0, 1]", ErrInvalid)
	case !isRate(c.Seeding.RandomFraction):
		return fmt.Errorf("%w: seeding.random_fraction must lie in [0, 1]", ErrInvalid)
	}
	return nil
}

func isRate(p float64) bool { return p >= 0 && p <= 1 }

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.Arena.Width * c.Arena.Height
	c.Derived.Offspring = c.Population.Size - c.Population.Elite
	c.Derived.Tournament = max(1, min(c.Population.Tournament, c.Population.Size))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
