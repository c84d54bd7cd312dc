package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/integrators"
	"github.com/san-kum/lorenzlab/internal/logging"
	"github.com/san-kum/lorenzlab/internal/physics"
)

// Config selects the integrator, solver limits and parallelism.
type Config struct {
	Integrator string
	Solver     dynamo.Config
	// Workers bounds concurrent trajectories; values <= 1 run sequentially.
	Workers int
	Logger  *slog.Logger
}

type Simulator struct {
	integrator string
	solver     dynamo.Config
	workers    int
	log        *slog.Logger
}

// New checks cfg and returns a Simulator. An unknown integrator name or an
// invalid solver config is reported as a *dynamo.ValidationError.
func New(cfg Config) (*Simulator, error) {
	if _, err := integrators.New(cfg.Integrator); err != nil {
		return nil, err
	}
	solver := cfg.Solver.WithDefaults()
	if err := solver.Validate(); err != nil {
		return nil, err
	}
	name := cfg.Integrator
	if name == "" {
		name = integrators.Default
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Simulator{integrator: name, solver: solver, workers: cfg.Workers, log: log}, nil
}

// Simulate runs the default simulator.
func Simulate(ctx context.Context, params physics.Params, ics []InitialCondition, grid TimeGrid) (*TrajectorySet, error) {
	s, err := New(Config{})
	if err != nil {
		return nil, err
	}
	return s.Simulate(ctx, params, ics, grid)
}

// Simulate integrates the Lorenz system from every initial condition over
// grid. Trajectories are returned in input order. Inputs are validated before
// any integration; a solver failure aborts the whole request with a
// *dynamo.NumericalError naming the offending initial condition.
func (s *Simulator) Simulate(ctx context.Context, params physics.Params, ics []InitialCondition, grid TimeGrid) (*TrajectorySet, error) {
	if err := validate(params, ics, grid); err != nil {
		return nil, err
	}

	sys := physics.NewLorenz(params)
	times := grid.Times()
	set := &TrajectorySet{
		Params:       params,
		Grid:         grid,
		Times:        times,
		Integrator:   s.integrator,
		Trajectories: make([]Trajectory, len(ics)),
	}

	start := time.Now()
	s.log.Debug("simulation started",
		"sigma", params.Sigma, "beta", params.Beta, "rho", params.Rho,
		"trajectories", len(ics), "samples", grid.Samples, "max_time", grid.MaxTime,
		"integrator", s.integrator, "workers", s.workers)

	g, gctx := errgroup.WithContext(ctx)
	if s.workers > 1 {
		g.SetLimit(s.workers)
	} else {
		g.SetLimit(1)
	}
	for i, ic := range ics {
		i, ic := i, ic
		g.Go(func() error {
			tr, err := s.integrate(gctx, sys, ic, times)
			if err != nil {
				return annotate(err, i, ic)
			}
			set.Trajectories[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Debug("simulation failed", "error", err)
		return nil, err
	}

	stats := set.Stats()
	s.log.Debug("simulation finished",
		"elapsed", time.Since(start), "steps", stats.Steps,
		"rejected", stats.Rejected, "evaluations", stats.Evaluations)
	return set, nil
}

func (s *Simulator) integrate(ctx context.Context, sys dynamo.System, ic InitialCondition, times []float64) (Trajectory, error) {
	// Integrators keep scratch buffers, so each trajectory gets its own.
	integ, err := integrators.New(s.integrator)
	if err != nil {
		return Trajectory{}, err
	}
	states, stats, err := integrators.Solve(ctx, sys, integ, ic.State(), times, s.solver)
	if err != nil {
		return Trajectory{}, err
	}
	return Trajectory{Initial: ic, States: states, Stats: stats}, nil
}

func annotate(err error, index int, ic InitialCondition) error {
	var ne *dynamo.NumericalError
	if errors.As(err, &ne) {
		ne.Index = index
		ne.Initial = ic.State()
		return ne
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("trajectory %d: %w", index, err)
}

func validate(params physics.Params, ics []InitialCondition, grid TimeGrid) error {
	if err := grid.Validate(); err != nil {
		return err
	}
	if len(ics) == 0 {
		return dynamo.Invalid("initial_conditions", "at least one initial condition is required")
	}
	if err := params.Validate(); err != nil {
		return err
	}
	for i, ic := range ics {
		if !ic.finite() {
			return dynamo.Invalid(fmt.Sprintf("initial_conditions[%d]", i), "must be finite, got %v", ic)
		}
	}
	return nil
}
