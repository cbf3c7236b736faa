package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/graphsim/internal/config"
	"github.com/san-kum/graphsim/internal/drag"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/session"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameRate       = 60

	// Canvas origin inside the rendered frame, set by canvasStyle padding.
	canvasLeft = 2
	canvasTop  = 1
	panelWidth = 45
	zoomStep   = 1.1
)

type TickMsg time.Time

// SettingsMsg replaces the force settings, typically from a watched scene
// file.
type SettingsMsg dynamo.ForceSettings

// camera eases the session viewport toward a target with a critically
// damped spring.
type camera struct {
	spring harmonica.Spring
	home   dynamo.Viewport
	target dynamo.Viewport
	cur    dynamo.Viewport
	vel    [3]float64
}

func newCamera(vp dynamo.Viewport) *camera {
	return &camera{
		spring: harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 1.0),
		home:   vp,
		target: vp,
		cur:    vp,
	}
}

// step advances the spring one frame and reports whether the viewport moved.
func (c *camera) step() bool {
	if c.settled() {
		if c.cur != c.target {
			c.cur = c.target
			c.vel = [3]float64{}
			return true
		}
		return false
	}
	c.cur.Offset.X, c.vel[0] = c.spring.Update(c.cur.Offset.X, c.vel[0], c.target.Offset.X)
	c.cur.Offset.Y, c.vel[1] = c.spring.Update(c.cur.Offset.Y, c.vel[1], c.target.Offset.Y)
	c.cur.Scale, c.vel[2] = c.spring.Update(c.cur.Scale, c.vel[2], c.target.Scale)
	c.cur.Scale = max(c.cur.Scale, 1e-3)
	return true
}

func (c *camera) settled() bool {
	const eps = 1e-3
	return math.Abs(c.cur.Offset.X-c.target.Offset.X) < eps &&
		math.Abs(c.cur.Offset.Y-c.target.Offset.Y) < eps &&
		math.Abs(c.cur.Scale-c.target.Scale) < eps*1e-2 &&
		math.Abs(c.vel[0])+math.Abs(c.vel[1])+math.Abs(c.vel[2]) < eps
}

// Model drives a session from the terminal: mouse events become pointer
// events, ticks step the layout, keys tune the force settings.
type Model struct {
	sess          *session.Session
	cam           *camera
	canvas        *Canvas
	keys          KeyMap
	help          help.Model
	log           *slog.Logger
	width, height int
	running       bool
	showHelp      bool
	presets       []string
	preset        int
	energy        []float64
	view          session.View
	lastNav       string
	reloads       int
}

func NewModel(sess *session.Session, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		sess:    sess,
		cam:     newCamera(sess.Viewport()),
		keys:    DefaultKeyMap,
		help:    help.New(),
		log:     logger,
		running: true,
		presets: config.ListPresets(),
		energy:  make([]float64, 0, historyCapacity),
	}
	m.resize(width, height)
	m.view = sess.View()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-2*canvasLeft-panelWidth, 10)
	rows := max(h-2*canvasTop, 5)
	if m.canvas == nil {
		m.canvas = NewCanvas(cols, rows)
	} else {
		m.canvas.Resize(cols, rows)
	}
	m.help.Width = w
}

// pixelsPerUnit is the number of braille sub-pixels per screen pixel. Both
// axes share it so circles stay round.
func (m *Model) pixelsPerUnit() float64 {
	b := m.sess.Bound()
	if b.Width <= 0 || b.Height <= 0 {
		return 1
	}
	return min(float64(m.canvas.Width*2)/b.Width, float64(m.canvas.Height*4)/b.Height)
}

func (m *Model) toSub(p dynamo.Vec2) (int, int) {
	b, k := m.sess.Bound(), m.pixelsPerUnit()
	return int(math.Round((p.X - b.X) * k)), int(math.Round((p.Y - b.Y) * k))
}

// cellToScreen maps a terminal cell under the mouse to the screen-space
// point at the centre of that cell.
func (m *Model) cellToScreen(x, y int) dynamo.Vec2 {
	b, k := m.sess.Bound(), m.pixelsPerUnit()
	col, row := x-canvasLeft, y-canvasTop
	return dynamo.V(
		b.X+(float64(col*2)+1)/k,
		b.Y+(float64(row*4)+2)/k,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case SettingsMsg:
		m.sess.UpdateForceSettings(dynamo.ForceSettings(msg))
		m.reloads++
		m.log.Info("force settings reloaded", "reloads", m.reloads)
	case TickMsg:
		if m.cam.step() {
			m.sess.SetViewport(m.cam.cur)
		}
		if m.running {
			m.step()
		}
		m.view = m.sess.View()
		if n := len(m.view.Navigate); n > 0 {
			m.lastNav = m.view.Navigate[n-1]
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.sess.Tick()
	m.energy = append(m.energy, m.sess.Stepper().KineticEnergy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.sess.Bound()
	panX, panY := b.Width/20, b.Height/20
	settings := m.sess.Settings()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Pause):
		m.running = !m.running
	case key.Matches(msg, m.keys.Up):
		m.cam.target = m.cam.target.Pan(dynamo.V(0, panY))
	case key.Matches(msg, m.keys.Down):
		m.cam.target = m.cam.target.Pan(dynamo.V(0, -panY))
	case key.Matches(msg, m.keys.Left):
		m.cam.target = m.cam.target.Pan(dynamo.V(panX, 0))
	case key.Matches(msg, m.keys.Right):
		m.cam.target = m.cam.target.Pan(dynamo.V(-panX, 0))
	case key.Matches(msg, m.keys.ZoomIn):
		m.cam.target = m.cam.target.ZoomAt(b.Center(), zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.cam.target = m.cam.target.ZoomAt(b.Center(), 1/zoomStep)
	case key.Matches(msg, m.keys.Home):
		m.cam.target = m.cam.home
	case key.Matches(msg, m.keys.Edges):
		settings.ShowConnectionLines = !settings.ShowConnectionLines
		m.sess.UpdateForceSettings(settings)
	case key.Matches(msg, m.keys.Pin):
		settings.AuthorFixedPosition = !settings.AuthorFixedPosition
		m.sess.UpdateForceSettings(settings)
	case key.Matches(msg, m.keys.Cluster):
		settings.EnableCategoryClustering = !settings.EnableCategoryClustering
		m.sess.UpdateForceSettings(settings)
	case key.Matches(msg, m.keys.Debug):
		settings.DebugMode = !settings.DebugMode
		m.sess.UpdateForceSettings(settings)
	case key.Matches(msg, m.keys.Preset):
		m.nextPreset()
	case key.Matches(msg, m.keys.Theme):
		SetTheme(NextTheme(CurrentTheme.Name))
	}
	return m, nil
}

func (m *Model) nextPreset() {
	if len(m.presets) == 0 {
		return
	}
	m.preset = (m.preset + 1) % len(m.presets)
	name := m.presets[m.preset]
	s, ok := config.GetPreset(name)
	if !ok {
		return
	}
	// display toggles survive a preset switch
	cur := m.sess.Settings()
	s.ShowConnectionLines = cur.ShowConnectionLines
	s.DebugMode = cur.DebugMode
	m.sess.UpdateForceSettings(s)
	m.log.Debug("preset applied", "preset", name)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := m.cellToScreen(msg.X, msg.Y)
	ev := drag.Event{Position: p}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.cam.target = m.cam.target.ZoomAt(p, zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.cam.target = m.cam.target.ZoomAt(p, 1/zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.sess.PointerDown(ev)
	case msg.Action == tea.MouseActionMotion:
		m.sess.PointerMove(ev)
	case msg.Action == tea.MouseActionRelease:
		m.sess.PointerUp(ev)
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	k := m.pixelsPerUnit()

	pos := make(map[graph.NodeID]dynamo.Vec2, len(m.view.Nodes))
	for _, n := range m.view.Nodes {
		pos[n.ID] = dynamo.V(n.X, n.Y)
	}

	m.canvas.Pen = InkEdge
	for _, e := range m.view.Edges {
		a, okA := pos[e.A]
		b, okB := pos[e.B]
		if !okA || !okB {
			continue
		}
		x0, y0 := m.toSub(a)
		x1, y1 := m.toSub(b)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	for _, n := range m.view.Nodes {
		switch {
		case n.Dragged:
			m.canvas.Pen = InkDragged
		case n.Kind == "author":
			m.canvas.Pen = InkAuthor
		default:
			m.canvas.Pen = InkNode
		}
		x, y := m.toSub(dynamo.V(n.X, n.Y))
		m.canvas.DrawCircle(x, y, int(math.Round(n.Radius*k)))
	}
	m.canvas.Pen = InkNode
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(CurrentTheme.inkStyles()))

	var s strings.Builder
	s.WriteString(headerStyle.Render("GRAPHSIM") + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
		s.WriteString(SparklineChart(m.energy, 30) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.view.Step))
	row("Time", fmt.Sprintf("%.2fs", m.view.Time))
	row("Nodes", fmt.Sprintf("%d", len(m.view.Nodes)))
	row("Joints", fmt.Sprintf("%d", m.sess.Stepper().JointCount()))
	if len(m.energy) > 0 {
		row("Energy", fmt.Sprintf("%.2f", m.energy[len(m.energy)-1]))
	}
	vp := m.sess.Viewport()
	row("Zoom", fmt.Sprintf("%.2fx", vp.Scale))
	row("Drag", m.dragStatus())
	if len(m.presets) > 0 {
		row("Preset", m.presets[m.preset])
	}

	settings := m.sess.Settings()
	s.WriteString("\nFORCES\n")
	s.WriteString(toggle("edges", settings.ShowConnectionLines) + "  " +
		toggle("pin", settings.AuthorFixedPosition) + "  " +
		toggle("cluster", settings.EnableCategoryClustering) + "\n")
	if m.lastNav != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render("→ "+m.lastNav) + "\n")
	}

	s.WriteString("\n" + m.help.View(m.keys))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func (m Model) dragStatus() string {
	id, ok := m.sess.DragNode()
	if !ok {
		return "idle"
	}
	label := fmt.Sprintf("#%d", id)
	for _, n := range m.view.Nodes {
		if n.ID == id && n.Label != "" {
			label = n.Label
			break
		}
	}
	if m.sess.DragPhase() == drag.Dragging {
		return "dragging " + label
	}
	return "armed " + label
}

func toggle(name string, on bool) string {
	st := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	mark := "○"
	if on {
		st = lipgloss.NewStyle().Foreground(CurrentTheme.Accent)
		mark = "●"
	}
	return st.Render(mark + " " + name)
}
