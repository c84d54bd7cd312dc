package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/physics"
)

// DefaultDensity is the number of grid samples per unit of simulated time.
const DefaultDensity = 250

// InitialCondition is a starting point (x0, y0, z0).
type InitialCondition [3]float64

func (ic InitialCondition) State() dynamo.State { return dynamo.State{ic[0], ic[1], ic[2]} }

func (ic InitialCondition) finite() bool {
	for _, v := range ic {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// TimeGrid is Samples uniformly spaced times from 0 to MaxTime inclusive.
type TimeGrid struct {
	MaxTime float64 `yaml:"max_time" json:"max_time"`
	Samples int     `yaml:"samples" json:"samples"`
}

// TimeGridFromDensity builds a grid with int(density*maxTime) samples.
func TimeGridFromDensity(maxTime, density float64) TimeGrid {
	return TimeGrid{MaxTime: maxTime, Samples: int(density * maxTime)}
}

func (g TimeGrid) Validate() error {
	if !(g.MaxTime > 0) || math.IsInf(g.MaxTime, 0) {
		return dynamo.Invalid("max_time", "must be positive and finite, got %v", g.MaxTime)
	}
	if g.Samples <= 0 {
		return dynamo.Invalid("samples", "must be positive, got %d", g.Samples)
	}
	return nil
}

// Times returns the sample times. The first is exactly 0 and, for more than
// one sample, the last is exactly MaxTime.
func (g TimeGrid) Times() []float64 {
	switch {
	case g.Samples <= 0:
		return nil
	case g.Samples == 1:
		return []float64{0}
	}
	times := floats.Span(make([]float64, g.Samples), 0, g.MaxTime)
	times[len(times)-1] = g.MaxTime
	return times
}

// Step is the spacing between consecutive samples.
func (g TimeGrid) Step() float64 {
	if g.Samples < 2 {
		return 0
	}
	return g.MaxTime / float64(g.Samples-1)
}

// Trajectory is the solution sampled on a grid. States[0] is the initial
// condition.
type Trajectory struct {
	Initial InitialCondition
	States  []dynamo.State
	Stats   dynamo.Stats
}

func (tr Trajectory) Len() int { return len(tr.States) }

// Coordinate extracts component i (0=x, 1=y, 2=z) of every state.
func (tr Trajectory) Coordinate(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		out[k] = s[i]
	}
	return out
}

// TrajectorySet holds trajectories in input order that share parameters and
// grid. A set is built fresh for every simulation request.
type TrajectorySet struct {
	Params       physics.Params
	Grid         TimeGrid
	Times        []float64
	Integrator   string
	Trajectories []Trajectory
}

func (s *TrajectorySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Trajectories)
}

// Stats sums solver statistics over all trajectories.
func (s *TrajectorySet) Stats() dynamo.Stats {
	var total dynamo.Stats
	for _, tr := range s.Trajectories {
		total.Merge(tr.Stats)
	}
	return total
}

// Initials returns the initial conditions in set order.
func (s *TrajectorySet) Initials() []InitialCondition {
	out := make([]InitialCondition, len(s.Trajectories))
	for i, tr := range s.Trajectories {
		out[i] = tr.Initial
	}
	return out
}
