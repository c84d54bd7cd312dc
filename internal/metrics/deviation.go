package metrics

import (
	"math"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/sim"
)

// Deviation compares two runs of the same initial conditions.
type Deviation struct {
	// Max is the largest distance between matching states.
	Max float64
	// MaxIndex and MaxTime locate Max.
	MaxIndex int
	MaxTime  float64
	// Final is the mean distance at the last sample.
	Final float64
}

// Compare measures how far other drifts from ref. Both sets must hold the
// same number of trajectories on the same number of samples.
func Compare(ref, other *sim.TrajectorySet) (Deviation, error) {
	var d Deviation
	if ref.Len() != other.Len() {
		return d, dynamo.Invalid("trajectories", "sets differ in size: %d vs %d", ref.Len(), other.Len())
	}
	if ref.Len() == 0 {
		return d, dynamo.Invalid("trajectories", "cannot compare empty sets")
	}

	for i := range ref.Trajectories {
		a, b := ref.Trajectories[i].States, other.Trajectories[i].States
		if len(a) != len(b) {
			return d, dynamo.Invalid("samples", "trajectory %d differs in length: %d vs %d", i, len(a), len(b))
		}
		for k := range a {
			dist := a[k].Sub(b[k]).Norm()
			if dist > d.Max {
				d.Max, d.MaxIndex = dist, i
				if k < len(ref.Times) {
					d.MaxTime = ref.Times[k]
				}
			}
		}
		if n := len(a); n > 0 {
			d.Final += a[n-1].Sub(b[n-1]).Norm()
		}
	}
	d.Final /= float64(ref.Len())
	return d, nil
}

// InBounds is the fraction of samples whose coordinates all lie within
// [lo, hi] per axis.
func InBounds(set *sim.TrajectorySet, lo, hi dynamo.State) float64 {
	samples, inside := 0, 0
	for _, tr := range set.Trajectories {
		for _, s := range tr.States {
			samples++
			ok := true
			for j := range s {
				if s[j] < lo[j] || s[j] > hi[j] || math.IsNaN(s[j]) {
					ok = false
					break
				}
			}
			if ok {
				inside++
			}
		}
	}
	if samples == 0 {
		return 1.0
	}
	return float64(inside) / float64(samples)
}
