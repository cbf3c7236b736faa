package viz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/graphsim/internal/config"
	"github.com/san-kum/graphsim/internal/session"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	pink   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
)

var presetInfo = map[string]string{
	"default":       "balanced springs",
	"clustered":     "group by category",
	"loose":         "strong repulsion",
	"tight":         "compact layout",
	"pinned-author": "author stays put",
}

const (
	stateMenu = iota
	stateSim
)

// picker lets the user choose a force preset before the live view starts.
type picker struct {
	state   int
	cursor  int
	presets []string
	keys    KeyMap
	live    Model
	width   int
	height  int
}

func newPicker(live Model) picker {
	return picker{state: stateMenu, presets: live.presets, keys: DefaultKeyMap, live: live}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.live.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Pause):
			return m.start()
		}
	case SettingsMsg:
		next, _ := m.live.Update(msg)
		m.live = next.(Model)
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	if len(m.presets) > 0 {
		name := m.presets[m.cursor]
		if s, ok := config.GetPreset(name); ok {
			m.live.sess.UpdateForceSettings(s)
			m.live.preset = m.cursor
		}
	}
	m.state = stateSim
	return m, m.live.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + cyan.Render("GRAPHSIM") + "\n    " + dim.Render("force-directed layout") + "\n    " + dim.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", cyan.Render("▸"), white.Render(fmt.Sprintf("%-16s", name)), pink.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", dim.Render(fmt.Sprintf("  %-16s", name)), dimmer.Render(desc))
		}
	}
	b.WriteString("\n    " + cyan.Render("j/k") + dim.Render(" navigate  ") + cyan.Render("enter") + dim.Render(" select  ") + cyan.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

type Options struct {
	// ScenePath, when set, is watched and force settings are reloaded on
	// every write.
	ScenePath string
	Theme     string
	// PickPreset shows the preset menu before the layout starts.
	PickPreset bool
	Logger     *slog.Logger
}

// Run opens the live view on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	live := NewModel(sess, opts.Logger)
	var root tea.Model = live
	if opts.PickPreset {
		root = newPicker(live)
	}
	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if opts.ScenePath != "" {
		w := config.NewWatcher(opts.ScenePath, func(sc *config.Scene) {
			p.Send(SettingsMsg(sc.Forces))
		}, opts.Logger)
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				opts.Logger.Warn("scene watcher stopped", "error", err)
			}
		}()
	}

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
