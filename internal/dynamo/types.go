package dynamo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

func (s State) Add(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Add(result[:n], other[:n])
	return result
}

func (s State) Sub(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Sub(result[:n], other[:n])
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

// String formats the state as "(x, y, z)".
func (s State) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.FormatFloat(v, 'g', 6, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// System is an autonomous or time-dependent ODE right-hand side.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances a state by one fixed step.
type Integrator interface {
	Name() string
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator is an embedded Runge-Kutta pair. Attempt returns the
// candidate state and the scaled error norm of the trial step; a norm <= 1
// means the step meets the tolerance. NextStep proposes the following step
// size from the step just tried and its error norm.
type AdaptiveIntegrator interface {
	Integrator
	Attempt(sys System, x State, t, dt float64, tol Tolerance) (State, float64)
	NextStep(dt, errNorm float64) float64
}

// Tolerance is the mixed absolute/relative local error bound.
type Tolerance struct {
	Abs float64 `yaml:"abs" json:"abs"`
	Rel float64 `yaml:"rel" json:"rel"`
}

// Config holds solver tolerances and step limits. Zero values are replaced
// by DefaultConfig values in WithDefaults.
type Config struct {
	Tolerance   Tolerance `yaml:"tolerance" json:"tolerance"`
	InitialStep float64   `yaml:"initial_step" json:"initial_step"`
	MinStep     float64   `yaml:"min_step" json:"min_step"`
	MaxStep     float64   `yaml:"max_step" json:"max_step"`
	FixedStep   float64   `yaml:"fixed_step" json:"fixed_step"`
	MaxSteps    int       `yaml:"max_steps" json:"max_steps"`
}

// DefaultConfig uses rtol = atol = 1.49012e-8, the usual LSODA defaults.
func DefaultConfig() Config {
	return Config{
		Tolerance:   Tolerance{Abs: 1.49012e-8, Rel: 1.49012e-8},
		InitialStep: 1e-3,
		MinStep:     1e-12,
		MaxStep:     0.05,
		FixedStep:   1e-3,
		MaxSteps:    2_000_000,
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Tolerance.Abs == 0 {
		c.Tolerance.Abs = d.Tolerance.Abs
	}
	if c.Tolerance.Rel == 0 {
		c.Tolerance.Rel = d.Tolerance.Rel
	}
	if c.InitialStep == 0 {
		c.InitialStep = d.InitialStep
	}
	if c.MinStep == 0 {
		c.MinStep = d.MinStep
	}
	if c.MaxStep == 0 {
		c.MaxStep = d.MaxStep
	}
	if c.FixedStep == 0 {
		c.FixedStep = d.FixedStep
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = d.MaxSteps
	}
	return c
}

// Validate rejects negative or inconsistent solver settings.
func (c Config) Validate() error {
	switch {
	case c.Tolerance.Abs < 0 || c.Tolerance.Rel < 0:
		return Invalid("tolerance", "must be non-negative, got abs=%g rel=%g", c.Tolerance.Abs, c.Tolerance.Rel)
	case c.Tolerance.Abs == 0 && c.Tolerance.Rel == 0:
		return Invalid("tolerance", "abs and rel cannot both be zero")
	case c.MinStep <= 0:
		return Invalid("min_step", "must be positive, got %g", c.MinStep)
	case c.MaxStep < c.MinStep:
		return Invalid("max_step", "must be >= min_step (%g), got %g", c.MinStep, c.MaxStep)
	case c.FixedStep <= 0:
		return Invalid("fixed_step", "must be positive, got %g", c.FixedStep)
	case c.MaxSteps <= 0:
		return Invalid("max_steps", "must be positive, got %d", c.MaxSteps)
	}
	return nil
}

// Stats counts solver work for one trajectory.
type Stats struct {
	Steps       int     `json:"steps"`
	Rejected    int     `json:"rejected"`
	Evaluations int     `json:"evaluations"`
	LastStep    float64 `json:"last_step"`
}

func (s Stats) String() string {
	return fmt.Sprintf("steps=%d rejected=%d evals=%d", s.Steps, s.Rejected, s.Evaluations)
}

// Merge adds the counters of other into s.
func (s *Stats) Merge(other Stats) {
	s.Steps += other.Steps
	s.Rejected += other.Rejected
	s.Evaluations += other.Evaluations
	if other.LastStep != 0 {
		s.LastStep = other.LastStep
	}
}
