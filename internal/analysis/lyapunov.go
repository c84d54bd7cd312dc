package analysis

import (
	"math"

	"github.com/san-kum/lorenzlab/internal/dynamo"
)

// LyapunovOptions control the separation run.
type LyapunovOptions struct {
	Dt float64
	// Transient is integrated before measuring so the reference orbit
	// starts on the attractor.
	Transient    float64
	Duration     float64
	Perturbation float64
}

func DefaultLyapunovOptions() LyapunovOptions {
	return LyapunovOptions{Dt: 0.01, Transient: 10, Duration: 100, Perturbation: 1e-8}
}

func (o LyapunovOptions) validate() error {
	switch {
	case !(o.Dt > 0):
		return dynamo.Invalid("dt", "must be positive, got %v", o.Dt)
	case o.Transient < 0:
		return dynamo.Invalid("transient", "must be non-negative, got %v", o.Transient)
	case !(o.Duration >= o.Dt):
		return dynamo.Invalid("duration", "must cover at least one step, got %v", o.Duration)
	case !(o.Perturbation > 0):
		return dynamo.Invalid("perturbation", "must be positive, got %v", o.Perturbation)
	}
	return nil
}

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// reference orbit and a neighbour at distance d0, pulling the neighbour
// back to d0 along the separation after every step and averaging the log
// stretch factors. A positive value indicates chaos.
func LyapunovExponent(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, opts LyapunovOptions) (float64, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	if len(x0) != sys.StateDim() {
		return 0, &dynamo.NumericalError{Index: -1, Initial: x0, Wrapped: dynamo.ErrDimensionMismatch}
	}

	dt, d0 := opts.Dt, opts.Perturbation
	x := x0.Clone()
	t := 0.0
	for i, n := 0, int(opts.Transient/dt); i < n; i++ {
		x = integ.Step(sys, x, t, dt)
		t += dt
	}

	xp := x.Clone()
	xp[0] += d0

	steps := int(opts.Duration / dt)
	sumLog := 0.0
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, t, dt)
		xp = integ.Step(sys, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()
		if !x.IsValid() || !xp.IsValid() || math.IsNaN(sep) {
			return 0, &dynamo.NumericalError{Index: -1, Initial: x0, Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		if sep == 0 {
			// The orbits merged below float resolution; restart the neighbour.
			xp = x.Clone()
			xp[0] += d0
			continue
		}
		sumLog += math.Log(sep / d0)
		xp = x.Add(xp.Sub(x).Scale(d0 / sep))
	}

	return sumLog / (float64(steps) * dt), nil
}
