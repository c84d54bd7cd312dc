package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// HTMLOptions control the standalone HTML page.
type HTMLOptions struct {
	Width, Height string
	Theme         string
	// AssetsHost overrides where echarts and echarts-gl are loaded from.
	AssetsHost string
	LineWidth  float32
}

func (o HTMLOptions) withDefaults() HTMLOptions {
	if o.Width == "" {
		o.Width = "900px"
	}
	if o.Height == "" {
		o.Height = "800px"
	}
	if o.Theme == "" {
		o.Theme = types.ThemeWesteros
	}
	if o.LineWidth == 0 {
		o.LineWidth = 1.5
	}
	return o
}

// NewLine3D builds the interactive echarts figure.
func NewLine3D(fig *Figure, o HTMLOptions) *charts.Line3D {
	o = o.withDefaults()
	line := charts.NewLine3D()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Lorenz trajectories",
			Width:      o.Width,
			Height:     o.Height,
			Theme:      o.Theme,
			AssetsHost: o.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithColorsOpts(opts.Colors(fig.Colors())),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "x", Min: fig.Limits.X.Min, Max: fig.Limits.X.Max}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "y", Min: fig.Limits.Y.Min, Max: fig.Limits.Y.Max}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "z", Min: fig.Limits.Z.Min, Max: fig.Limits.Z.Max}),
		charts.WithGrid3DOpts(opts.Grid3D{BoxWidth: 100, BoxDepth: 100, BoxHeight: 100}),
	)

	for _, s := range fig.Series {
		data := make([]opts.Chart3DData, len(s.Points))
		for k, p := range s.Points {
			data[k] = opts.Chart3DData{Value: []interface{}{p[0], p[1], p[2]}}
		}
		line.AddSeries(s.Name, data, charts.WithLineStyleOpts(opts.LineStyle{Color: s.Hex(), Width: o.LineWidth}))
	}

	// echarts-gl exposes the camera angles only through setOption.
	line.AddJSFuncStrs(types.FuncStr(fmt.Sprintf(
		"%%MY_ECHARTS%%.setOption({grid3D:{viewControl:{alpha:%g,beta:%g}}});",
		fig.View.Elevation, fig.View.Azimuth)))
	return line
}

// WriteHTML writes fig as a self-contained interactive HTML page.
func WriteHTML(w io.Writer, fig *Figure, o HTMLOptions) error {
	if err := NewLine3D(fig, o).Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
