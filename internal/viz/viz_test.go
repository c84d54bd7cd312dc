package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/render"
)

func TestCanvas_SetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0, "#ffffff")
	c.Set(1, 3, "")
	c.Set(-1, 0, "")
	c.Set(100, 100, "")

	if c.Grid[0][0] != rune(0x2800|0x1|0x80) {
		t.Errorf("cell (0,0) = %U, want %U", c.Grid[0][0], rune(0x2800|0x1|0x80))
	}
	if c.Colors[0][0] != "#ffffff" {
		t.Errorf("cell color = %q, empty color should not overwrite", c.Colors[0][0])
	}
	if c.Dots() != 2 {
		t.Errorf("Dots() = %d, want 2", c.Dots())
	}

	c.Clear()
	if c.Dots() != 0 {
		t.Errorf("Dots() after Clear = %d, want 0", c.Dots())
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(10, 1)
	c.DrawLine(0, 0, 19, 0, "")
	if c.Dots() != 20 {
		t.Errorf("horizontal line set %d dots, want 20", c.Dots())
	}

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 1 || len([]rune(lines[0])) != 10 {
		t.Errorf("String() has unexpected shape: %q", c.String())
	}
}

func TestCanvas_DrawLineClipped(t *testing.T) {
	c := NewCanvas(10, 1)

	// Endpoints far off the canvas still only touch the visible row.
	c.DrawLine(-1<<40, 0, 1<<40, 0, "")
	if c.Dots() != 20 {
		t.Errorf("clipped horizontal line set %d dots, want 20", c.Dots())
	}

	c.Clear()
	c.DrawLine(-100, -100, -1, -1, "")
	if c.Dots() != 0 {
		t.Errorf("off-canvas line set %d dots, want 0", c.Dots())
	}

	c.Clear()
	c.DrawSegment(0, 0, math.Inf(1), 3, "")
	c.DrawSegment(math.NaN(), 0, 5, 3, "")
	c.SetPoint(1e300, 1e300, "")
	c.SetPoint(math.NaN(), 0, "")
	if c.Dots() != 0 {
		t.Errorf("non-finite input set %d dots, want 0", c.Dots())
	}

	c.DrawSegment(-1e6, 1.5, 1e6, 1.5, "")
	if c.Dots() != 20 {
		t.Errorf("long segment set %d dots, want 20", c.Dots())
	}
}

func TestPlot_PointsOutsideLimits(t *testing.T) {
	fig := &render.Figure{
		View:   render.DefaultView(),
		Limits: render.DefaultLimits,
		Series: []render.Series{
			{Name: "far", Color: render.Viridis(0, 1), Points: []dynamo.State{{0, 0, 30}, {1e200, -1e200, 1e200}, {0, 0, 30}}},
			{Name: "lone", Color: render.Viridis(0, 1), Points: []dynamo.State{{1e250, 0, 0}}},
		},
	}

	c := Plot(fig, 20, 10)
	if c.Dots() == 0 {
		t.Fatal("plot drew nothing")
	}
	for _, row := range c.Grid {
		for _, r := range row {
			if r < 0x2800 || r > 0x28ff {
				t.Fatalf("cell %U is not a braille pattern", r)
			}
		}
	}
}

func TestPlot(t *testing.T) {
	fig := &render.Figure{
		View:   render.DefaultView(),
		Limits: render.DefaultLimits,
		Series: []render.Series{
			{Name: "a", Color: render.Viridis(0, 2), Points: []dynamo.State{{-10, -10, 20}, {10, 10, 40}}},
			{Name: "b", Color: render.Viridis(1, 2), Points: []dynamo.State{{0, 0, 30}}},
		},
	}

	c := Plot(fig, 40, 20)
	if c.Dots() == 0 {
		t.Fatal("plot drew nothing")
	}

	colored := map[string]bool{}
	for _, row := range c.Colors {
		for _, col := range row {
			colored[string(col)] = true
		}
	}
	if !colored[fig.Series[0].Hex()] {
		t.Errorf("series color %s missing from canvas", fig.Series[0].Hex())
	}
	if !colored[string(boxColor)] {
		t.Error("limit box not drawn")
	}
	if Draw(fig, 40, 20) == "" {
		t.Error("Draw returned empty string")
	}
}

func TestHistogramBars(t *testing.T) {
	got := HistogramBars(render.Bins{Counts: []float64{0, 4, 8, 2}})
	if got != " ▄█▂" {
		t.Errorf("HistogramBars = %q, want %q", got, " ▄█▂")
	}
	if HistogramBars(render.Bins{}) != "" {
		t.Error("empty bins should render empty")
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("") != "" {
		t.Error("empty text should stay empty")
	}
	if out := GradientText("lorenz"); !strings.Contains(out, "l") || !strings.Contains(out, "z") {
		t.Errorf("GradientText lost characters: %q", out)
	}
}
