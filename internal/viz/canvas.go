package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Canvas is a Braille dot grid. Each cell remembers the color of the last
// dot drawn into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// PixelWidth and PixelHeight give the canvas size in dots.
func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set sets the dot at (x, y) in dot coordinates. An empty color keeps the
// cell's current color.
func (c *Canvas) Set(x, y int, color lipgloss.Color) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if color != "" {
		c.Colors[row][col] = color
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm. Only the part of the
// line inside the canvas is walked.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color lipgloss.Color) {
	c.DrawSegment(float64(x0), float64(y0), float64(x1), float64(y1), color)
}

// DrawSegment draws a line between pixel positions given as floats. The
// segment is clipped to the canvas first; non-finite endpoints draw nothing.
func (c *Canvas) DrawSegment(x0, y0, x1, y1 float64, color lipgloss.Color) {
	xmax, ymax := float64(c.PixelWidth()-1), float64(c.PixelHeight()-1)
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, xmax, ymax)
	if !ok {
		return
	}
	c.bresenham(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), color)
}

// SetPoint sets the dot nearest to (x, y) if it lies on the canvas.
func (c *Canvas) SetPoint(x, y float64, color lipgloss.Color) {
	x, y = math.Round(x), math.Round(y)
	if !(x >= 0 && y >= 0 && x < float64(c.PixelWidth()) && y < float64(c.PixelHeight())) {
		return
	}
	c.Set(int(x), int(y), color)
}

// clipSegment clips a segment to [0, xmax] x [0, ymax] (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	if xmax < 0 || ymax < 0 {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	for _, v := range [...]float64{x0, y0, dx, dy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}

	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{{-dx, x0}, {dx, xmax - x0}, {-dy, y0}, {dy, ymax - y0}} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	cx0, cy0 := x0+t0*dx, y0+t0*dy
	cx1, cy1 := x0+t1*dx, y0+t1*dy
	// Rounding at the boundary must not leave the canvas.
	return clamp(cx0, xmax), clamp(cy0, ymax), clamp(cx1, xmax), clamp(cy1, ymax), true
}

func clamp(v, hi float64) float64 {
	return min(max(v, 0), hi)
}

func (c *Canvas) bresenham(x0, y0, x1, y1 int, color lipgloss.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Dots counts the dots set on the canvas.
func (c *Canvas) Dots() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := r - blank; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

// String renders the canvas without colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with each cell in its color.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if color := c.Colors[i][j]; color != "" && r != blank {
				b.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
