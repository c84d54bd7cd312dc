package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/integrators"
	"github.com/san-kum/lorenzlab/internal/physics"
	"github.com/san-kum/lorenzlab/internal/render"
	"github.com/san-kum/lorenzlab/internal/sim"
)

const (
	DefaultN         = 10
	DefaultMaxTime   = 4.0
	DefaultSeed      = 1
	DefaultElevation = 30.0
	DefaultAzimuth   = 0.0
)

// Config is one complete parameter tuple for a run.
type Config struct {
	Sigma      float64       `yaml:"sigma"`
	Beta       float64       `yaml:"beta"`
	Rho        float64       `yaml:"rho"`
	N          int           `yaml:"n"`
	MaxTime    float64       `yaml:"max_time"`
	Density    float64       `yaml:"density"`
	Seed       int64         `yaml:"seed"`
	Elevation  float64       `yaml:"elevation"`
	Azimuth    float64       `yaml:"azimuth"`
	Integrator string        `yaml:"integrator"`
	Workers    int           `yaml:"workers"`
	Box        sim.Box       `yaml:"box"`
	Solver     dynamo.Config `yaml:"solver"`
}

func DefaultConfig() *Config {
	p := physics.Classic()
	return &Config{
		Sigma:      p.Sigma,
		Beta:       p.Beta,
		Rho:        p.Rho,
		N:          DefaultN,
		MaxTime:    DefaultMaxTime,
		Density:    sim.DefaultDensity,
		Seed:       DefaultSeed,
		Elevation:  DefaultElevation,
		Azimuth:    DefaultAzimuth,
		Integrator: integrators.Default,
		Workers:    1,
		Box:        sim.DefaultBox,
		Solver:     dynamo.DefaultConfig(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Params() physics.Params {
	return physics.Params{Sigma: c.Sigma, Beta: c.Beta, Rho: c.Rho}
}

func (c *Config) Grid() sim.TimeGrid {
	return sim.TimeGridFromDensity(c.MaxTime, c.Density)
}

func (c *Config) View() render.ViewParameters {
	return render.ViewParameters{Elevation: c.Elevation, Azimuth: c.Azimuth}
}

func (c *Config) SimConfig(log *slog.Logger) sim.Config {
	return sim.Config{Integrator: c.Integrator, Solver: c.Solver, Workers: c.Workers, Logger: log}
}

// InitialConditions draws the configured number of starting points.
func (c *Config) InitialConditions() ([]sim.InitialCondition, error) {
	return sim.RandomInitialConditions(c.N, c.Seed, c.Box)
}

// Validate checks the values that are not covered by the simulator's own
// input validation.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.N < 0 {
		return dynamo.Invalid("n", "must be non-negative, got %d", c.N)
	}
	if !(c.Density > 0) {
		return dynamo.Invalid("density", "must be positive, got %v", c.Density)
	}
	if err := c.Box.Validate(); err != nil {
		return err
	}
	if err := c.View().Validate(); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	return c.Solver.WithDefaults().Validate()
}
