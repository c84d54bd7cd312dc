package render

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/sim"
)

// ViewParameters is the camera orientation in degrees.
type ViewParameters struct {
	Elevation float64 `yaml:"elevation" json:"elevation"`
	Azimuth   float64 `yaml:"azimuth" json:"azimuth"`
}

// DefaultView looks down on the attractor at 30 degrees.
func DefaultView() ViewParameters { return ViewParameters{Elevation: 30, Azimuth: 0} }

func (v ViewParameters) Validate() error {
	if math.IsNaN(v.Elevation) || math.IsInf(v.Elevation, 0) {
		return dynamo.Invalid("elevation", "must be finite, got %v", v.Elevation)
	}
	if math.IsNaN(v.Azimuth) || math.IsInf(v.Azimuth, 0) {
		return dynamo.Invalid("azimuth", "must be finite, got %v", v.Azimuth)
	}
	return nil
}

type AxisRange struct {
	Min, Max float64
}

func (r AxisRange) Span() float64 { return r.Max - r.Min }
func (r AxisRange) Mid() float64  { return (r.Min + r.Max) / 2 }

// Limits are the fixed display ranges of the three axes.
type Limits struct {
	X, Y, Z AxisRange
}

// DefaultLimits frames the classic attractor.
var DefaultLimits = Limits{
	X: AxisRange{-25, 25},
	Y: AxisRange{-35, 35},
	Z: AxisRange{5, 55},
}

// Series is one trajectory drawn as a polyline.
type Series struct {
	Name   string
	Index  int
	Color  colorful.Color
	Points []dynamo.State
}

func (s Series) Hex() string { return s.Color.Hex() }

// Figure is a renderer-agnostic description of the 3-D line plot. Writers
// in this package and the terminal canvas consume it.
type Figure struct {
	Title  string
	View   ViewParameters
	Limits Limits
	Series []Series
}

func (f *Figure) Camera() Camera { return NewCamera(f.View, f.Limits) }

// Colors returns the series colors as hex strings in series order.
func (f *Figure) Colors() []string {
	out := make([]string, len(f.Series))
	for i, s := range f.Series {
		out[i] = s.Hex()
	}
	return out
}

// Render builds the figure for set seen from view. Every trajectory becomes
// one series whose color depends only on its index and the set size.
func Render(set *sim.TrajectorySet, view ViewParameters) (*Figure, error) {
	if set.Len() == 0 {
		return nil, dynamo.Invalid("trajectories", "cannot render an empty trajectory set")
	}
	if err := view.Validate(); err != nil {
		return nil, err
	}

	n := set.Len()
	fig := &Figure{
		Title:  title(set),
		View:   view,
		Limits: DefaultLimits,
		Series: make([]Series, n),
	}
	for i, tr := range set.Trajectories {
		fig.Series[i] = Series{
			Name:   fmt.Sprintf("trajectory %d", i),
			Index:  i,
			Color:  Viridis(i, n),
			Points: tr.States,
		}
	}
	return fig, nil
}

func title(set *sim.TrajectorySet) string {
	p := set.Params
	return fmt.Sprintf("Lorenz σ=%g β=%.4g ρ=%g  N=%d  t≤%g", p.Sigma, p.Beta, p.Rho, set.Len(), set.Grid.MaxTime)
}
