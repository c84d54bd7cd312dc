package analysis

import (
	"math"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/physics"
	"github.com/san-kum/lorenzlab/internal/viz"
)

// BifurcationPoint holds the distinct z maxima seen for one value of ρ.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// SweepOptions are the timing parameters of a sweep.
type SweepOptions struct {
	Dt        float64
	Transient float64
	Record    float64
}

func DefaultSweepOptions() SweepOptions {
	return SweepOptions{Dt: 0.005, Transient: 20, Record: 20}
}

func (o SweepOptions) validate() error {
	switch {
	case !(o.Dt > 0) || math.IsInf(o.Dt, 0):
		return dynamo.Invalid("dt", "must be positive and finite, got %v", o.Dt)
	case !(o.Transient >= 0) || math.IsInf(o.Transient, 0):
		return dynamo.Invalid("transient", "must be non-negative and finite, got %v", o.Transient)
	case !(o.Record >= o.Dt) || math.IsInf(o.Record, 0):
		return dynamo.Invalid("record", "must cover at least one step, got %v", o.Record)
	}
	return nil
}

// ZMaxima integrates sys from x0, discards the transient and returns the
// successive local maxima of z, the Lorenz return map.
func ZMaxima(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, opts SweepOptions) ([]float64, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(x0) != sys.StateDim() || len(x0) < 3 {
		return nil, &dynamo.NumericalError{Index: -1, Initial: x0, Wrapped: dynamo.ErrDimensionMismatch}
	}

	x := x0.Clone()
	t := 0.0
	for t < opts.Transient {
		x = integ.Step(sys, x, t, opts.Dt)
		t += opts.Dt
	}

	maxima := make([]float64, 0, 64)
	prev2, prev1 := math.NaN(), x[2]
	for end := opts.Transient + opts.Record; t < end; t += opts.Dt {
		x = integ.Step(sys, x, t, opts.Dt)
		if !x.IsValid() {
			break
		}
		if prev1 > prev2 && prev1 >= x[2] {
			maxima = append(maxima, prev1)
		}
		prev2, prev1 = prev1, x[2]
	}
	return maxima, nil
}

// RhoSweep records the distinct z maxima for steps values of ρ spread
// evenly over [rhoMin, rhoMax], keeping σ and β from base.
func RhoSweep(base physics.Params, integ dynamo.Integrator, rhoMin, rhoMax float64, steps int, x0 dynamo.State, opts SweepOptions) ([]BifurcationPoint, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(rhoMin) || math.IsInf(rhoMin, 0) || math.IsNaN(rhoMax) || math.IsInf(rhoMax, 0) {
		return nil, dynamo.Invalid("rho", "sweep range must be finite, got [%v, %v]", rhoMin, rhoMax)
	}
	if steps <= 1 {
		steps = 2
	}
	rhoStep := (rhoMax - rhoMin) / float64(steps-1)

	results := make([]BifurcationPoint, 0, steps)
	for i := 0; i < steps; i++ {
		p := base
		p.Rho = rhoMin + float64(i)*rhoStep

		values := make([]float64, 0)
		seen := make(map[int]bool)
		maxima, err := ZMaxima(physics.NewLorenz(p), integ, x0, opts)
		if err != nil {
			return nil, err
		}
		for _, z := range maxima {
			// Quantize to find distinct values
			key := int(math.Round(z * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, z)
			}
		}
		results = append(results, BifurcationPoint{Param: p.Rho, Values: values})
	}
	return results, nil
}

// BifurcationToASCII plots the sweep on a Braille canvas of width x height
// cells, ρ along x and z along y.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	c := viz.NewCanvas(width, height)
	pw, ph := c.PixelWidth()-1, c.PixelHeight()-1
	for i, p := range data {
		col := 0
		if len(data) > 1 {
			col = i * pw / (len(data) - 1)
		}
		for _, v := range p.Values {
			row := ph - int((v-minVal)/(maxVal-minVal)*float64(ph))
			c.Set(col, row, "")
		}
	}
	return c.String()
}
