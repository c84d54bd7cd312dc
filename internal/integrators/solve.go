package integrators

import (
	"context"
	"math"

	"github.com/san-kum/lorenzlab/internal/dynamo"
)

// countingSystem tallies right-hand side evaluations for Stats.
type countingSystem struct {
	dynamo.System
	evals int
}

func (c *countingSystem) Derive(x dynamo.State, t float64) dynamo.State {
	c.evals++
	return c.System.Derive(x, t)
}

// Solve integrates sys from x0 and returns one state per entry of times.
// times must be non-decreasing; the first state is x0 itself. Adaptive
// integrators take error-controlled steps clipped to land on every sample
// time; fixed-step integrators sub-step each interval with cfg.FixedStep.
// Failures are returned as *dynamo.NumericalError with Index -1.
func Solve(ctx context.Context, sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, times []float64, cfg dynamo.Config) ([]dynamo.State, dynamo.Stats, error) {
	var stats dynamo.Stats
	if len(times) == 0 {
		return nil, stats, dynamo.Invalid("time grid", "must contain at least one sample")
	}
	if len(x0) != sys.StateDim() {
		return nil, stats, &dynamo.NumericalError{Index: -1, Initial: x0, Time: times[0], Wrapped: dynamo.ErrDimensionMismatch}
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, stats, err
	}

	counted := &countingSystem{System: sys}
	out := make([]dynamo.State, len(times))
	out[0] = x0.Clone()

	var err error
	if adaptive, ok := integ.(dynamo.AdaptiveIntegrator); ok {
		err = solveAdaptive(ctx, counted, adaptive, out, times, cfg, &stats)
	} else {
		err = solveFixed(ctx, counted, integ, out, times, cfg, &stats)
	}
	stats.Evaluations = counted.evals
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}

func solveAdaptive(ctx context.Context, sys dynamo.System, integ dynamo.AdaptiveIntegrator, out []dynamo.State, times []float64, cfg dynamo.Config, stats *dynamo.Stats) error {
	x := out[0].Clone()
	t := times[0]
	h := math.Min(cfg.InitialStep, cfg.MaxStep)

	fail := func(cause error) error {
		return &dynamo.NumericalError{Index: -1, Step: stats.Steps, Time: t, Wrapped: cause}
	}

	for k := 1; k < len(times); k++ {
		target := times[k]
		for t < target {
			if err := ctx.Err(); err != nil {
				return err
			}
			if stats.Steps+stats.Rejected >= cfg.MaxSteps {
				return fail(dynamo.ErrMaxSteps)
			}

			step, clipped := h, false
			if remaining := target - t; remaining <= h {
				step, clipped = remaining, true
			}

			xNew, errNorm := integ.Attempt(sys, x, t, step, cfg.Tolerance)
			next := integ.NextStep(step, errNorm)

			if errNorm <= 1 {
				x = xNew
				if clipped {
					// A clipped step says nothing about how large h may grow.
					t = target
				} else {
					t += step
					h = next
				}
				stats.Steps++
				stats.LastStep = step
			} else {
				stats.Rejected++
				h = next
			}

			h = math.Min(h, cfg.MaxStep)
			if h < cfg.MinStep {
				return fail(dynamo.ErrStepTooSmall)
			}
		}
		if !x.IsValid() {
			return fail(dynamo.ErrInvalidState)
		}
		out[k] = x.Clone()
	}
	return nil
}

func solveFixed(ctx context.Context, sys dynamo.System, integ dynamo.Integrator, out []dynamo.State, times []float64, cfg dynamo.Config, stats *dynamo.Stats) error {
	x := out[0].Clone()

	for k := 1; k < len(times); k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t0, span := times[k-1], times[k]-times[k-1]
		n := int(math.Ceil(span / cfg.FixedStep))
		if n < 1 {
			out[k] = x.Clone()
			continue
		}
		if stats.Steps+n > cfg.MaxSteps {
			return &dynamo.NumericalError{Index: -1, Step: stats.Steps, Time: t0, Wrapped: dynamo.ErrMaxSteps}
		}
		dt := span / float64(n)
		for i := 0; i < n; i++ {
			x = integ.Step(sys, x, t0+float64(i)*dt, dt)
			stats.Steps++
		}
		stats.LastStep = dt
		if !x.IsValid() {
			return &dynamo.NumericalError{Index: -1, Step: stats.Steps, Time: times[k], Wrapped: dynamo.ErrInvalidState}
		}
		out[k] = x.Clone()
	}
	return nil
}
