package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/lorenzlab/internal/config"
	"github.com/san-kum/lorenzlab/internal/logging"
	"github.com/san-kum/lorenzlab/internal/render"
	"github.com/san-kum/lorenzlab/internal/sim"
	"github.com/san-kum/lorenzlab/internal/viz"
)

// knob is one adjustable value. View knobs only re-render; every other
// knob re-runs the simulation.
type knob struct {
	label          string
	min, max, step float64
	wrap           bool
	view           bool
	format         string
	get            func(*config.Config) float64
	set            func(*config.Config, float64)
}

var knobs = []knob{
	{label: "σ", min: 0, max: 50, step: 0.5, format: "%.1f",
		get: func(c *config.Config) float64 { return c.Sigma }, set: func(c *config.Config, v float64) { c.Sigma = v }},
	{label: "β", min: 0, max: 10, step: 1.0 / 6, format: "%.3f",
		get: func(c *config.Config) float64 { return c.Beta }, set: func(c *config.Config, v float64) { c.Beta = v }},
	{label: "ρ", min: 0, max: 50, step: 0.5, format: "%.1f",
		get: func(c *config.Config) float64 { return c.Rho }, set: func(c *config.Config, v float64) { c.Rho = v }},
	{label: "N", min: 0, max: 50, step: 1, format: "%.0f",
		get: func(c *config.Config) float64 { return float64(c.N) }, set: func(c *config.Config, v float64) { c.N = int(math.Round(v)) }},
	{label: "time", min: 0.1, max: 4.0, step: 0.1, format: "%.1f",
		get: func(c *config.Config) float64 { return c.MaxTime }, set: func(c *config.Config, v float64) { c.MaxTime = v }},
	{label: "seed", min: 0, max: math.MaxInt32, step: 1, format: "%.0f",
		get: func(c *config.Config) float64 { return float64(c.Seed) }, set: func(c *config.Config, v float64) { c.Seed = int64(v) }},
	{label: "elev", min: -90, max: 90, step: 5, view: true, format: "%.0f°",
		get: func(c *config.Config) float64 { return c.Elevation }, set: func(c *config.Config, v float64) { c.Elevation = v }},
	{label: "azim", min: 0, max: 360, step: 5, wrap: true, view: true, format: "%.0f°",
		get: func(c *config.Config) float64 { return c.Azimuth }, set: func(c *config.Config, v float64) { c.Azimuth = v }},
}

func (k knob) adjust(c *config.Config, dir float64) {
	v := k.get(c) + dir*k.step
	switch {
	case k.wrap:
		span := k.max - k.min
		v = k.min + math.Mod(math.Mod(v-k.min, span)+span, span)
	case v < k.min:
		v = k.min
	case v > k.max:
		v = k.max
	}
	// Snap away accumulated float noise from repeated steps.
	k.set(c, math.Round(v*1e6)/1e6)
}

// Model is the bubbletea explorer. Each parameter change triggers a fresh
// simulation of the whole set; results from superseded runs are dropped.
type Model struct {
	cfg    *config.Config
	log    *slog.Logger
	cursor int

	gen     int
	busy    bool
	set     *sim.TrajectorySet
	fig     *render.Figure
	means   []render.Mean
	err     error
	elapsed time.Duration

	width  int
	height int
}

type resultMsg struct {
	gen     int
	set     *sim.TrajectorySet
	means   []render.Mean
	err     error
	elapsed time.Duration
}

func New(cfg *config.Config, log *slog.Logger) Model {
	if log == nil {
		log = logging.NewNop()
	}
	return Model{cfg: cfg.Clone(), log: log, width: 100, height: 30}
}

// Run starts the explorer on the alternate screen and blocks until quit.
func Run(cfg *config.Config, log *slog.Logger) error {
	_, err := tea.NewProgram(New(cfg, log), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return m.simulate() }

// Config returns the current parameter tuple.
func (m Model) Config() *config.Config { return m.cfg.Clone() }

func (m Model) simulate() tea.Cmd {
	gen, cfg, log := m.gen, m.cfg.Clone(), m.log
	return func() tea.Msg {
		start := time.Now()
		set, means, err := runOnce(cfg, log)
		return resultMsg{gen: gen, set: set, means: means, err: err, elapsed: time.Since(start)}
	}
}

func runOnce(cfg *config.Config, log *slog.Logger) (*sim.TrajectorySet, []render.Mean, error) {
	ics, err := cfg.InitialConditions()
	if err != nil {
		return nil, nil, err
	}
	s, err := sim.New(cfg.SimConfig(log))
	if err != nil {
		return nil, nil, err
	}
	set, err := s.Simulate(context.Background(), cfg.Params(), ics, cfg.Grid())
	if err != nil {
		return nil, nil, err
	}
	means, err := render.Summarize(set)
	if err != nil {
		return nil, nil, err
	}
	return set, means, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case resultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		m.elapsed = msg.elapsed
		m.err = msg.err
		if msg.err != nil {
			m.log.Debug("explorer simulation failed", "error", msg.err)
			m.set, m.fig, m.means = nil, nil, nil
			return m, nil
		}
		m.set, m.means = msg.set, msg.means
		m.rerender()
	}
	return m, nil
}

func (m *Model) rerender() {
	if m.set == nil {
		return
	}
	fig, err := render.Render(m.set, m.cfg.View())
	if err != nil {
		m.err = err
		return
	}
	m.fig = fig
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	dir := 0.0
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(knobs)-1 {
			m.cursor++
		}
	case "left", "h":
		dir = -1
	case "right", "l":
		dir = 1
	case "H":
		dir = -10
	case "L":
		dir = 10
	case "r":
		m.cfg.Seed++
		return m.resimulate()
	case "0":
		m.cfg = config.DefaultConfig()
		return m.resimulate()
	}
	if dir == 0 {
		return m, nil
	}

	k := knobs[m.cursor]
	k.adjust(m.cfg, dir)
	if k.view {
		m.rerender()
		return m, nil
	}
	return m.resimulate()
}

func (m Model) resimulate() (Model, tea.Cmd) {
	m.gen++
	m.busy = true
	return m, m.simulate()
}

func (m Model) View() string {
	plotW := max(m.width-36, 20)
	plotH := max(m.height-4, 8)

	var plot string
	switch {
	case m.err != nil:
		plot = viz.ErrorText.Render("error: " + m.err.Error())
	case m.fig == nil:
		plot = viz.Subtle.Render("simulating…")
	default:
		plot = viz.Draw(m.fig, plotW, plotH)
	}

	side := lipgloss.JoinVertical(lipgloss.Left,
		viz.GradientText("lorenz explorer"),
		"",
		m.knobsView(),
		"",
		m.summaryView(),
		"",
		viz.KeyHint.Render("↑↓ select  ←→ adjust  HL ×10"),
		viz.KeyHint.Render("r reseed  0 reset  q quit"),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, plot, viz.Panel.Render(side))
}

func (m Model) knobsView() string {
	var b strings.Builder
	for i, k := range knobs {
		line := fmt.Sprintf("%-5s %s", k.label, fmt.Sprintf(k.format, k.get(m.cfg)))
		if i == m.cursor {
			b.WriteString(viz.Selected.Render("▸ " + line))
		} else {
			b.WriteString("  " + viz.Label.Render(line))
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) summaryView() string {
	status := viz.Value.Render(fmt.Sprintf("%d traj · %s", m.set.Len(), m.elapsed.Round(time.Millisecond)))
	if m.busy {
		status = viz.Subtle.Render("simulating…")
	}
	if len(m.means) == 0 {
		return status
	}
	xs, ys := render.Histograms(m.means)
	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		viz.HistogramPanel("x̄", xs),
		viz.HistogramPanel("ȳ", ys),
	)
}
