package physics

import (
	"math"

	"github.com/san-kum/lorenzlab/internal/dynamo"
)

// Params are the Lorenz coefficients σ, β and ρ.
type Params struct {
	Sigma float64 `yaml:"sigma" json:"sigma"`
	Beta  float64 `yaml:"beta" json:"beta"`
	Rho   float64 `yaml:"rho" json:"rho"`
}

// Classic returns Lorenz's original chaotic parameters (σ=10, β=8/3, ρ=28).
func Classic() Params { return Params{Sigma: 10.0, Beta: 8.0 / 3.0, Rho: 28.0} }

// Validate rejects non-finite coefficients.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"sigma", p.Sigma}, {"beta", p.Beta}, {"rho", p.Rho}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return dynamo.Invalid(f.name, "must be finite, got %v", f.v)
		}
	}
	return nil
}

// FixedPoints returns the equilibria of the system: the origin and, for
// ρ > 1, the symmetric pair C± = (±√(β(ρ−1)), ±√(β(ρ−1)), ρ−1).
func (p Params) FixedPoints() []dynamo.State {
	pts := []dynamo.State{{0, 0, 0}}
	if p.Rho > 1 && p.Beta > 0 {
		c := math.Sqrt(p.Beta * (p.Rho - 1))
		pts = append(pts, dynamo.State{c, c, p.Rho - 1}, dynamo.State{-c, -c, p.Rho - 1})
	}
	return pts
}

type Lorenz struct{ p Params }

func NewLorenz(p Params) *Lorenz { return &Lorenz{p: p} }
func (l *Lorenz) StateDim() int  { return 3 }
func (l *Lorenz) Params() Params { return l.p }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{l.p.Sigma * (s[1] - s[0]), s[0]*(l.p.Rho-s[2]) - s[1], s[0]*s[1] - l.p.Beta*s[2]}
}

func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }
