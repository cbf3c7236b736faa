package session

import (
	"context"
	"time"

	"github.com/san-kum/graphsim/internal/drag"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
)

// Command mutates the session from inside Run's goroutine.
type Command func(*Session)

func Down(ev drag.Event) Command { return func(s *Session) { s.PointerDown(ev) } }
func Move(ev drag.Event) Command { return func(s *Session) { s.PointerMove(ev) } }
func Up(ev drag.Event) Command   { return func(s *Session) { s.PointerUp(ev) } }

func Pan(delta dynamo.Vec2) Command { return func(s *Session) { s.Pan(delta) } }

func Zoom(anchor dynamo.Vec2, factor float64) Command {
	return func(s *Session) { s.ZoomAt(anchor, factor) }
}

func Resize(bound dynamo.ContainerBound) Command {
	return func(s *Session) { s.Resize(bound) }
}

func Settings(settings dynamo.ForceSettings) Command {
	return func(s *Session) { s.UpdateForceSettings(settings) }
}

type NodeView struct {
	ID       graph.NodeID `json:"id"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Radius   float64      `json:"radius"` // screen pixels
	Kind     string       `json:"kind"`
	Label    string       `json:"label"`
	Category string       `json:"category,omitempty"`
	Slug     string       `json:"slug,omitempty"`
	Dragged  bool         `json:"dragged,omitempty"`
}

type EdgeView struct {
	A    graph.NodeID `json:"a"`
	B    graph.NodeID `json:"b"`
	Kind string       `json:"kind"`
}

// View is a read-only copy of the layout for presenters.
type View struct {
	Step     int        `json:"step"`
	Time     float64    `json:"time"`
	Nodes    []NodeView `json:"nodes"`
	Edges    []EdgeView `json:"edges,omitempty"`
	Navigate []string   `json:"navigate,omitempty"`
}

// View copies the registry. Edges are included only when connection lines
// are enabled. Pending navigations are drained into the view.
func (s *Session) View() View {
	v := View{
		Step:     s.stepper.Steps(),
		Time:     s.stepper.Time(),
		Navigate: s.DrainNavigations(),
	}
	dragged, dragging := s.drag.Node()
	dragging = dragging && s.drag.Phase() == drag.Dragging

	for n := range s.registry.All() {
		nv := NodeView{
			ID:       n.ID,
			X:        n.Position.X,
			Y:        n.Position.Y,
			Radius:   n.Radius * s.viewport.Scale,
			Kind:     graph.ContentKind(n.Content),
			Label:    graph.Label(n.Content),
			Category: n.Category,
			Dragged:  dragging && n.ID == dragged,
		}
		if s.index != nil {
			nv.Slug, _ = s.index.Slug(n.ID)
		}
		v.Nodes = append(v.Nodes, nv)
	}

	if s.stepper.Settings().ShowConnectionLines {
		for e := range s.registry.Edges() {
			if !s.registry.Has(e.A) || !s.registry.Has(e.B) {
				continue
			}
			v.Edges = append(v.Edges, EdgeView{A: e.A, B: e.B, Kind: e.Kind.String()})
		}
	}
	return v
}

// Run is the only goroutine that touches the session while it executes.
// Commands are applied in arrival order between ticks; after every tick
// emit receives a fresh View. A closed cmds channel stops command intake
// but not ticking.
func (s *Session) Run(ctx context.Context, interval time.Duration, cmds <-chan Command, emit func(View)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				cmds = nil
				continue
			}
			cmd(s)
		case <-ticker.C:
			s.Tick()
			if emit != nil {
				emit(s.View())
			}
		}
	}
}
