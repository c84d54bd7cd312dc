package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

var viridisStops = mustHex(
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
)

func mustHex(codes ...string) []colorful.Color {
	out := make([]colorful.Color, len(codes))
	for i, code := range codes {
		c, err := colorful.Hex(code)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// ViridisAt samples the viridis colormap at p in [0, 1].
func ViridisAt(p float64) colorful.Color {
	switch {
	case p <= 0:
		return viridisStops[0]
	case p >= 1:
		return viridisStops[len(viridisStops)-1]
	}
	pos := p * float64(len(viridisStops)-1)
	lo := int(pos)
	return viridisStops[lo].BlendRgb(viridisStops[lo+1], pos-float64(lo)).Clamped()
}

// Viridis is the color of series i out of n, sampling the colormap at
// i/(n-1). A single series gets the first stop.
func Viridis(i, n int) colorful.Color {
	if n <= 1 {
		return viridisStops[0]
	}
	return ViridisAt(float64(i) / float64(n-1))
}

// Palette returns the n series colors in index order.
func Palette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = Viridis(i, n)
	}
	return out
}
