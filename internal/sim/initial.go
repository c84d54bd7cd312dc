package sim

import (
	"math/rand"

	"github.com/san-kum/lorenzlab/internal/dynamo"
)

// Box is the axis-aligned cube [Lo, Hi]^3 initial conditions are drawn from.
type Box struct {
	Lo float64 `yaml:"lo" json:"lo"`
	Hi float64 `yaml:"hi" json:"hi"`
}

// DefaultBox is the cube [-15, 15]^3.
var DefaultBox = Box{Lo: -15, Hi: 15}

func (b Box) Validate() error {
	if !(b.Hi > b.Lo) {
		return dynamo.Invalid("box", "hi (%v) must exceed lo (%v)", b.Hi, b.Lo)
	}
	return nil
}

// RandomInitialConditions draws n points uniformly from box using a source
// seeded with seed. Points are drawn row by row (x, y, z of the first point,
// then the second, ...), so the same seed always yields the same set.
func RandomInitialConditions(n int, seed int64, box Box) ([]InitialCondition, error) {
	if n < 0 {
		return nil, dynamo.Invalid("n", "must be non-negative, got %d", n)
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	width := box.Hi - box.Lo
	out := make([]InitialCondition, n)
	for i := range out {
		for j := range out[i] {
			out[i][j] = box.Lo + width*rng.Float64()
		}
	}
	return out, nil
}
