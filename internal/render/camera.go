package render

import (
	"math"

	"github.com/san-kum/lorenzlab/internal/dynamo"
)

// Camera projects data coordinates onto the screen plane for an
// orthographic view from (Elevation, Azimuth). Each axis is first scaled
// into [-1, 1] using the figure limits so the bounding box is a cube.
type Camera struct {
	limits Limits

	cosEl, sinEl float64
	cosAz, sinAz float64
}

func NewCamera(view ViewParameters, limits Limits) Camera {
	el := view.Elevation * math.Pi / 180
	az := view.Azimuth * math.Pi / 180
	return Camera{
		limits: limits,
		cosEl:  math.Cos(el),
		sinEl:  math.Sin(el),
		cosAz:  math.Cos(az),
		sinAz:  math.Sin(az),
	}
}

func (c Camera) normalize(p dynamo.State) (x, y, z float64) {
	l := c.limits
	x = 2 * (p[0] - l.X.Mid()) / l.X.Span()
	y = 2 * (p[1] - l.Y.Mid()) / l.Y.Span()
	z = 2 * (p[2] - l.Z.Mid()) / l.Z.Span()
	return x, y, z
}

// Project returns the horizontal and vertical screen coordinates of p and
// its depth towards the viewer. Screen coordinates of points inside the
// limits fall within [-√3, √3].
func (c Camera) Project(p dynamo.State) (u, v, depth float64) {
	x, y, z := c.normalize(p)
	u = -x*c.sinAz + y*c.cosAz
	v = -(x*c.cosAz+y*c.sinAz)*c.sinEl + z*c.cosEl
	depth = (x*c.cosAz+y*c.sinAz)*c.cosEl + z*c.sinEl
	return u, v, depth
}

// Extent bounds the projected coordinates of the limit box.
func (c Camera) Extent() float64 { return math.Sqrt(3) }

// Edge is a segment of the limit box.
type Edge struct {
	Start, End dynamo.State
}

// BoxEdges returns the 12 edges of the axis limit box.
func (c Camera) BoxEdges() []Edge {
	l := c.limits
	xs := [2]float64{l.X.Min, l.X.Max}
	ys := [2]float64{l.Y.Min, l.Y.Max}
	zs := [2]float64{l.Z.Min, l.Z.Max}
	corner := func(i int) dynamo.State {
		return dynamo.State{xs[i&1], ys[(i>>1)&1], zs[(i>>2)&1]}
	}

	edges := make([]Edge, 0, 12)
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				edges = append(edges, Edge{corner(i), corner(i | bit)})
			}
		}
	}
	return edges
}
