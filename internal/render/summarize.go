package render

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/sim"
)

// Mean is the time-averaged position of one trajectory.
type Mean struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Summarize returns the per-coordinate arithmetic mean of every trajectory
// in input order.
func Summarize(set *sim.TrajectorySet) ([]Mean, error) {
	if set.Len() == 0 {
		return nil, dynamo.Invalid("trajectories", "cannot summarize an empty trajectory set")
	}
	out := make([]Mean, set.Len())
	for i, tr := range set.Trajectories {
		if len(tr.States) == 0 {
			return nil, dynamo.Invalid("trajectories", "trajectory %d has no states", i)
		}
		out[i] = meanOf(tr.States)
	}
	return out, nil
}

// meanOf uses a running mean so a constant series averages to exactly
// that constant.
func meanOf(states []dynamo.State) Mean {
	var m [3]float64
	for k, s := range states {
		for j := range m {
			m[j] += (s[j] - m[j]) / float64(k+1)
		}
	}
	return Mean{X: m[0], Y: m[1], Z: m[2]}
}

// Histograms splits means into the mean-x and mean-y series.
func Histograms(means []Mean) (xs, ys []float64) {
	xs = make([]float64, len(means))
	ys = make([]float64, len(means))
	for i, m := range means {
		xs[i], ys[i] = m.X, m.Y
	}
	return xs, ys
}

// DefaultBins matches the usual 10-bin histogram.
const DefaultBins = 10

// Bins are histogram counts over equal-width bins. Dividers has one more
// entry than Counts.
type Bins struct {
	Dividers []float64
	Counts   []float64
}

// Histogram counts values into n equal-width bins spanning their range.
func Histogram(values []float64, n int) Bins {
	if n < 1 {
		n = DefaultBins
	}
	if len(values) == 0 {
		return Bins{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// The last divider is exclusive, so nudge it past the maximum.
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	return Bins{Dividers: dividers, Counts: stat.Histogram(nil, dividers, sorted, nil)}
}
