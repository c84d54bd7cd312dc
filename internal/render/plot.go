package render

import (
	"fmt"
	"image/color"
	"io"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Image formats accepted by WriteImage and WriteHistogram.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

var boxColor = color.Gray{Y: 170}

// ImageSize is the edge length of the square figure image.
var ImageSize = 8 * vg.Inch

// NewProjectionPlot draws the figure as seen by its camera: the limit box
// and every series, back to front.
func NewProjectionPlot(fig *Figure) (*plot.Plot, error) {
	cam := fig.Camera()
	p := plot.New()
	p.Title.Text = fig.Title
	p.HideAxes()
	ext := cam.Extent()
	p.X.Min, p.X.Max = -ext, ext
	p.Y.Min, p.Y.Max = -ext, ext

	for _, e := range cam.BoxEdges() {
		u0, v0, _ := cam.Project(e.Start)
		u1, v1, _ := cam.Project(e.End)
		l, err := plotter.NewLine(plotter.XYs{{X: u0, Y: v0}, {X: u1, Y: v1}})
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = boxColor
		l.LineStyle.Width = vg.Points(0.5)
		p.Add(l)
	}

	type layer struct {
		line  *plotter.Line
		depth float64
	}
	layers := make([]layer, 0, len(fig.Series))
	for _, s := range fig.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		depth := 0.0
		for k, pt := range s.Points {
			u, v, d := cam.Project(pt)
			xys[k] = plotter.XY{X: u, Y: v}
			depth += d
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		l.LineStyle.Color = s.Color
		l.LineStyle.Width = vg.Points(1)
		layers = append(layers, layer{l, depth / float64(len(s.Points))})
	}
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].depth < layers[j].depth })
	for _, ly := range layers {
		p.Add(ly.line)
	}
	return p, nil
}

// WriteImage writes the projected figure as PNG or SVG.
func WriteImage(w io.Writer, fig *Figure, format string) error {
	p, err := NewProjectionPlot(fig)
	if err != nil {
		return fmt.Errorf("build figure plot: %w", err)
	}
	return writePlot(w, p, ImageSize, ImageSize, format)
}

// NewHistogramPlot plots values in bins equal-width bins.
func NewHistogramPlot(values []float64, bins int, title, xlabel string) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("histogram %q: no values", title)
	}
	if bins < 1 {
		bins = DefaultBins
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, fmt.Errorf("histogram %q: %w", title, err)
	}
	h.FillColor = ViridisAt(0.5)
	p.Add(h)
	return p, nil
}

// WriteHistogram writes the histogram of values as PNG or SVG.
func WriteHistogram(w io.Writer, values []float64, title, xlabel, format string) error {
	p, err := NewHistogramPlot(values, DefaultBins, title, xlabel)
	if err != nil {
		return err
	}
	return writePlot(w, p, 5*vg.Inch, 4*vg.Inch, format)
}

func writePlot(w io.Writer, p *plot.Plot, width, height vg.Length, format string) error {
	if format != FormatPNG && format != FormatSVG {
		return fmt.Errorf("unsupported image format %q", format)
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}
