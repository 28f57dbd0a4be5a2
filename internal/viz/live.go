package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/tracer"
)

const (
	width     = 64
	height    = 24
	tickRate  = time.Second / 20
	paramStep = 0.05
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a trace one ray per tick and draws the trajectory so far.
// Mass and charge can be changed from the keyboard; every change starts a
// new trace since a running one is bound to the parameters it began with.
type Model struct {
	bh      *kerr.BlackHole
	initial kerr.BlackHole
	origin  geom.Vec4
	dir     geom.Vec3
	opts    tracer.Options

	trace   *tracer.Trace
	rays    []tracer.Ray
	radii   []float64
	err     error
	done    bool
	running bool

	canvas    *Canvas
	camera    *Camera
	wire      *Wireframe
	plane     Plane
	view3D    bool
	paramKeys []string
	selected  int
	showHelp  bool
}

func NewModel(bh *kerr.BlackHole, origin geom.Vec4, dir geom.Vec3, opts tracer.Options) Model {
	m := Model{
		bh:        bh,
		initial:   *bh,
		origin:    origin,
		dir:       dir,
		opts:      opts,
		running:   true,
		canvas:    NewCanvas(width, height),
		camera:    NewCamera(),
		wire:      NewWireframe(),
		paramKeys: []string{"mass", "charge"},
	}
	m.camera.Fit(geom.Spatial(origin).Len())
	m.restart()
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			*m.bh = m.initial
			m.restart()
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "up", "k":
			m.adjustParam(paramStep)
		case "down", "j":
			m.adjustParam(-paramStep)
		case "p":
			m.plane = m.plane.Next()
		case "v":
			m.view3D = !m.view3D
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// adjustParam shifts the selected parameter and restarts the trace. A
// value that leaves the black hole invalid is rolled back and reported.
func (m *Model) adjustParam(delta float64) {
	key := m.paramKeys[m.selected]
	prev := m.bh.GetParams()[key]
	if err := m.bh.SetParam(key, prev+delta); err != nil {
		m.err = err
		return
	}
	if err := m.bh.Validate(); err != nil {
		_ = m.bh.SetParam(key, prev)
		m.err = err
		return
	}
	m.restart()
}

func (m *Model) restart() {
	m.rays = m.rays[:0]
	m.radii = m.radii[:0]
	m.done = false
	m.trace, m.err = tracer.FromDirection(m.bh, m.origin, m.dir, m.opts)
	if m.err != nil {
		m.done = true
	}
}

func (m *Model) step() {
	if m.done {
		return
	}
	if !m.trace.Next() {
		m.done = true
		m.err = m.trace.Err()
		return
	}
	r := m.trace.Ray()
	m.rays = append(m.rays, r)
	m.radii = append(m.radii, r.Radius())
}

func (m Model) Rays() []tracer.Ray { return m.rays }

func (m Model) Err() error { return m.err }

func (m Model) Done() bool { return m.done }

func (m Model) BlackHole() kerr.BlackHole { return *m.bh }

func (m *Model) draw() {
	m.canvas.Clear()
	horizon, _ := m.bh.Horizon()

	if m.view3D {
		m.wire.Clear()
		m.wire.AddAxes(geom.Spatial(m.origin).Len() / 4)
		m.wire.AddSphere(horizon)
		m.wire.AddPath(m.rays)
		Render3D(m.canvas, m.wire, m.camera)
		return
	}

	path := Project(m.rays, m.plane)
	start := []Point{{X: m.origin[planeAxes[m.plane][0]], Y: m.origin[planeAxes[m.plane][1]]}}
	m.canvas.RenderPaths([][]Point{path, start}, horizon)
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(CurrentTheme.Ray).Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(Title("KERR-NEWMAN RAY") + "\n")

	status := Status("TRACING", 0)
	switch {
	case m.err != nil:
		status = Status("FAILED", 2)
	case m.done && m.trace != nil && m.trace.Escaped():
		status = Status("ESCAPED", 1)
	case m.done:
		status = Status("DONE", 0)
	case !m.running:
		status = Status("PAUSED", 1)
	}
	s.WriteString(status + "\n\n")

	progress := 0.0
	if m.opts.Steps > 0 && len(m.rays) > 0 {
		progress = float64(len(m.rays)-1) / float64(m.opts.Steps)
	}
	s.WriteString(ProgressBar(progress, 30) + "\n\n")

	if len(m.radii) > 1 {
		chart := asciigraph.Plot(m.radii, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("|x| per step"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	if n := len(m.rays); n > 0 {
		r := m.rays[n-1]
		s.WriteString(Field("Step", fmt.Sprintf("%d/%d", n-1, m.opts.Steps)) + "\n")
		s.WriteString(Field("Radius", fmt.Sprintf("%.4f", r.Radius())) + "\n")
		s.WriteString(Field("Coord time", fmt.Sprintf("%.3f", r.X[0])) + "\n")
	}
	if h, err := m.bh.Horizon(); err == nil {
		s.WriteString(Field("Horizon", fmt.Sprintf("%.4f", h)) + "\n")
	}
	view := "plane " + m.plane.String()
	if m.view3D {
		view = "3d"
	}
	s.WriteString(Field("View", view) + "\n")

	s.WriteString("\n" + Title("PARAMETERS") + "\n")
	s.WriteString(Field("  a", fmt.Sprintf("%.3f", m.bh.A)) + "\n")
	params := m.bh.GetParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-8s %.3f", k, params[k])
		if i == m.selected {
			s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Width(40).Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + Separator(40) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Restart Q:Quit\nTab:Param ↑↓:Tune P:Plane V:3D ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return Panel.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `KEYBOARD SHORTCUTS

Space    Pause/Resume the trace
R        Restart with initial parameters
Q        Quit
Tab      Select mass or charge
Up/K     Increase parameter (+0.05)
Down/J   Decrease parameter (-0.05)
P        Cycle projection plane
V        Toggle 3D view
X/Y/Z    Rotate 3D view (shift reverses)
+/-      Zoom 3D view
T        Cycle themes
?        Toggle this help`

// Run opens the viewer in the alternate screen and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
