package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/lorenzlab/internal/render"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fde725"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#35b779")).
		Bold(true)

	Selected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0a0a0a")).
			Background(lipgloss.Color("#35b779"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))
)

// GradientText colors text along the viridis map.
func GradientText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	for i, r := range runes {
		p := 0.0
		if len(runes) > 1 {
			p = float64(i) / float64(len(runes)-1)
		}
		color := lipgloss.Color(render.ViridisAt(p).Hex())
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(r)))
	}
	return b.String()
}

var barChars = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// HistogramBars renders bin counts as one row of block characters, one
// per bin, scaled to the largest count.
func HistogramBars(bins render.Bins) string {
	peak := 0.0
	for _, c := range bins.Counts {
		peak = max(peak, c)
	}

	var b strings.Builder
	for _, c := range bins.Counts {
		idx := 0
		if peak > 0 {
			idx = int(c / peak * float64(len(barChars)-1))
		}
		b.WriteRune(barChars[idx])
	}
	return b.String()
}

// HistogramPanel renders a titled one-line histogram with its range.
func HistogramPanel(title string, values []float64) string {
	bins := render.Histogram(values, render.DefaultBins)
	if len(bins.Counts) == 0 {
		return Label.Render(title) + " " + Subtle.Render("(no data)")
	}
	lo, hi := bins.Dividers[0], bins.Dividers[len(bins.Dividers)-1]
	return fmt.Sprintf("%s %s %s",
		Label.Render(title),
		Value.Render(HistogramBars(bins)),
		Subtle.Render(fmt.Sprintf("[%.1f, %.1f]", lo, hi)))
}
