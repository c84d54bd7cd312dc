package viz

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/lorenzlab/internal/render"
)

var boxColor = lipgloss.Color("#444466")

// Plot projects fig onto a cols x rows Braille canvas. The limit box is
// drawn first, then the series from back to front.
func Plot(fig *render.Figure, cols, rows int) *Canvas {
	c := NewCanvas(cols, rows)
	cam := fig.Camera()
	ext := cam.Extent()

	pw, ph := float64(c.PixelWidth()-1), float64(c.PixelHeight()-1)
	scale := min(pw, ph) / (2 * ext)
	toPixel := func(u, v float64) (float64, float64) {
		return pw/2 + u*scale, ph/2 - v*scale
	}

	for _, e := range cam.BoxEdges() {
		u0, v0, _ := cam.Project(e.Start)
		u1, v1, _ := cam.Project(e.End)
		x0, y0 := toPixel(u0, v0)
		x1, y1 := toPixel(u1, v1)
		c.DrawSegment(x0, y0, x1, y1, boxColor)
	}

	order := make([]int, len(fig.Series))
	depth := make([]float64, len(fig.Series))
	for i, s := range fig.Series {
		order[i] = i
		for _, p := range s.Points {
			_, _, d := cam.Project(p)
			depth[i] += d
		}
		if len(s.Points) > 0 {
			depth[i] /= float64(len(s.Points))
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return depth[order[a]] < depth[order[b]] })

	for _, i := range order {
		s := fig.Series[i]
		color := lipgloss.Color(s.Hex())
		for k := 1; k < len(s.Points); k++ {
			u0, v0, _ := cam.Project(s.Points[k-1])
			u1, v1, _ := cam.Project(s.Points[k])
			x0, y0 := toPixel(u0, v0)
			x1, y1 := toPixel(u1, v1)
			c.DrawSegment(x0, y0, x1, y1, color)
		}
		if len(s.Points) == 1 {
			u, v, _ := cam.Project(s.Points[0])
			x, y := toPixel(u, v)
			c.SetPoint(x, y, color)
		}
	}
	return c
}

// Draw renders fig as colored terminal text.
func Draw(fig *render.Figure, cols, rows int) string {
	return Plot(fig, cols, rows).Render()
}
