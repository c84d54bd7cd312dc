package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/sim"
)

func set(trs ...[]dynamo.State) *sim.TrajectorySet {
	s := &sim.TrajectorySet{Times: []float64{0, 0.5, 1}}
	for _, states := range trs {
		s.Trajectories = append(s.Trajectories, sim.Trajectory{States: states})
	}
	return s
}

func TestCompare(t *testing.T) {
	ref := set(
		[]dynamo.State{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		[]dynamo.State{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
	)
	other := set(
		[]dynamo.State{{0, 0, 0}, {1, 0, 0}, {2, 0, 1}},
		[]dynamo.State{{0, 0, 0}, {0, 3, 4}, {0, 0, 0}},
	)

	d, err := Compare(ref, other)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if d.Max != 5 || d.MaxIndex != 1 || d.MaxTime != 0.5 {
		t.Errorf("Max = %v at trajectory %d t=%v, want 5 at trajectory 1 t=0.5", d.Max, d.MaxIndex, d.MaxTime)
	}
	if math.Abs(d.Final-0.5) > 1e-12 {
		t.Errorf("Final = %v, want 0.5", d.Final)
	}

	if d, _ := Compare(ref, ref); d.Max != 0 {
		t.Errorf("self comparison Max = %v, want 0", d.Max)
	}
}

func TestCompare_Mismatch(t *testing.T) {
	a := set([]dynamo.State{{0, 0, 0}})
	b := set([]dynamo.State{{0, 0, 0}}, []dynamo.State{{0, 0, 0}})
	if _, err := Compare(a, b); !errors.Is(err, dynamo.ErrValidation) {
		t.Errorf("expected validation error for size mismatch, got %v", err)
	}

	c := set([]dynamo.State{{0, 0, 0}, {1, 1, 1}})
	if _, err := Compare(a, c); !errors.Is(err, dynamo.ErrValidation) {
		t.Errorf("expected validation error for length mismatch, got %v", err)
	}

	if _, err := Compare(set(), set()); !errors.Is(err, dynamo.ErrValidation) {
		t.Errorf("expected validation error for empty sets, got %v", err)
	}
}

func TestInBounds(t *testing.T) {
	s := set([]dynamo.State{{0, 0, 10}, {30, 0, 10}, {0, 0, 60}, {0, 0, math.NaN()}})
	got := InBounds(s, dynamo.State{-25, -35, 5}, dynamo.State{25, 35, 55})
	if got != 0.25 {
		t.Errorf("InBounds = %v, want 0.25", got)
	}
	if InBounds(set(), nil, nil) != 1.0 {
		t.Error("empty set should count as fully in bounds")
	}
}
