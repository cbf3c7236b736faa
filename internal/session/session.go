// Package session owns one live layout: registry, stepper, drag
// controller, viewport and container. A Session is not safe for concurrent
// use; drive it from a single event loop or through Run.
package session

import (
	"log/slog"

	"github.com/san-kum/graphsim/internal/config"
	"github.com/san-kum/graphsim/internal/content"
	"github.com/san-kum/graphsim/internal/drag"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/sim"
)

type Options struct {
	Settings dynamo.ForceSettings
	Viewport dynamo.Viewport
	Bound    dynamo.ContainerBound
	Sim      sim.Config
	// Navigate is called with the slug of a clicked article.
	Navigate func(slug string)
}

type Session struct {
	registry *graph.Registry
	index    *content.Index
	stepper  *sim.Stepper
	drag     *drag.Controller
	viewport dynamo.Viewport
	bound    dynamo.ContainerBound
	log      *slog.Logger

	navigate func(slug string)
	pending  []string
}

func New(reg *graph.Registry, index *content.Index, opts Options) *Session {
	if opts.Viewport.Scale <= 0 {
		opts.Viewport = dynamo.DefaultViewport()
	}
	if opts.Sim.Logger == nil {
		opts.Sim.Logger = slog.Default()
	}
	s := &Session{
		registry: reg,
		index:    index,
		viewport: opts.Viewport,
		bound:    opts.Bound,
		log:      opts.Sim.Logger,
		navigate: opts.Navigate,
	}
	s.stepper = sim.New(reg, opts.Viewport, opts.Settings, opts.Bound, opts.Sim)
	s.drag = drag.NewController(s.stepper, reg, navigator{s})
	return s
}

// FromScene builds the registry from the scene's articles and wraps it in
// a session.
func FromScene(sc *config.Scene, logger *slog.Logger, navigate func(string)) (*Session, error) {
	articles := content.WithInboundCounts(sc.Articles)
	bound := sc.Container.Bound()
	reg, index, err := content.Build(articles, sc.Author, bound, sc.ContentOptions())
	if err != nil {
		return nil, err
	}
	return New(reg, index, Options{
		Settings: sc.Forces,
		Viewport: sc.Viewport,
		Bound:    bound,
		Sim:      sc.SimConfig(logger),
		Navigate: navigate,
	}), nil
}

type navigator struct{ s *Session }

func (n navigator) NodeActivated(id graph.NodeID) {
	if n.s.index == nil {
		return
	}
	slug, ok := n.s.index.Slug(id)
	if !ok {
		n.s.log.Debug("click on node without slug", "id", id)
		return
	}
	n.s.log.Info("node activated", "id", id, "slug", slug)
	n.s.pending = append(n.s.pending, slug)
	if n.s.navigate != nil {
		n.s.navigate(slug)
	}
}

func (s *Session) PointerDown(ev drag.Event) { s.drag.Down(ev, s.viewport) }
func (s *Session) PointerMove(ev drag.Event) { s.drag.Move(ev, s.viewport) }
func (s *Session) PointerUp(ev drag.Event)   { s.drag.Up(ev, s.viewport) }

func (s *Session) Tick() {
	s.stepper.Step(s.viewport)
}

// Pan and zoom only move the camera; bodies keep their physics positions
// and the registry follows on the next tick.
func (s *Session) Pan(delta dynamo.Vec2) {
	s.viewport = s.viewport.Pan(delta)
}

func (s *Session) ZoomAt(anchor dynamo.Vec2, factor float64) {
	if factor <= 0 {
		return
	}
	s.viewport = s.viewport.ZoomAt(anchor, factor)
}

func (s *Session) SetViewport(vp dynamo.Viewport) {
	if vp.Scale <= 0 {
		return
	}
	s.viewport = vp
}

func (s *Session) Resize(bound dynamo.ContainerBound) {
	s.bound = bound
	s.stepper.UpdateContainerBound(bound)
}

func (s *Session) UpdateForceSettings(settings dynamo.ForceSettings) {
	s.stepper.UpdateForceSettings(settings)
}

// ResizeNode changes a node's radius in both the registry and the world.
func (s *Session) ResizeNode(id graph.NodeID, radius float64) {
	s.stepper.UpdateNodeSize(id, radius)
}

// DrainNavigations returns and clears the slugs activated since the last
// call.
func (s *Session) DrainNavigations() []string {
	out := s.pending
	s.pending = nil
	return out
}

func (s *Session) Registry() *graph.Registry      { return s.registry }
func (s *Session) Index() *content.Index          { return s.index }
func (s *Session) Stepper() *sim.Stepper          { return s.stepper }
func (s *Session) Viewport() dynamo.Viewport      { return s.viewport }
func (s *Session) Bound() dynamo.ContainerBound   { return s.bound }
func (s *Session) Settings() dynamo.ForceSettings { return s.stepper.Settings() }
func (s *Session) DragPhase() drag.Phase          { return s.drag.Phase() }
func (s *Session) DragNode() (graph.NodeID, bool) { return s.drag.Node() }
