// Package drag turns pointer events into body state changes and tells a
// click apart from a drag.
package drag

import (
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
)

const DefaultThreshold = 5.0

type Phase uint8

const (
	Idle Phase = iota
	Armed
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Event is a pointer sample in screen pixels. Scroll is the ambient page
// scroll added to Position before hit testing and thresholding.
type Event struct {
	Position dynamo.Vec2
	Scroll   dynamo.Vec2
}

func (e Event) screen() dynamo.Vec2 {
	return e.Position.Add(e.Scroll)
}

// Body is the subset of the stepper the controller drives.
type Body interface {
	SetNodeKinematic(id graph.NodeID)
	SetNodeDynamic(id graph.NodeID)
	SetNodePosition(id graph.NodeID, screen dynamo.Vec2, vp dynamo.Viewport)
}

type HitTester interface {
	NodeAt(screen dynamo.Vec2, scale float64) (graph.NodeID, bool)
}

// Navigator receives completed clicks.
type Navigator interface {
	NodeActivated(id graph.NodeID)
}

type NavigatorFunc func(id graph.NodeID)

func (fn NavigatorFunc) NodeActivated(id graph.NodeID) { fn(id) }

type Controller struct {
	Threshold float64

	body Body
	hit  HitTester
	nav  Navigator

	phase Phase
	node  graph.NodeID
	start dynamo.Vec2
}

func NewController(body Body, hit HitTester, nav Navigator) *Controller {
	return &Controller{
		Threshold: DefaultThreshold,
		body:      body,
		hit:       hit,
		nav:       nav,
	}
}

func (c *Controller) Phase() Phase { return c.phase }

// Node returns the armed or dragged node.
func (c *Controller) Node() (graph.NodeID, bool) {
	return c.node, c.phase != Idle
}

// Down arms the node under the pointer. A down that arrives while a drag
// is still active (the previous up was lost) releases that body first.
func (c *Controller) Down(ev Event, vp dynamo.Viewport) {
	if c.phase == Dragging {
		c.body.SetNodeDynamic(c.node)
	}
	c.reset()

	p := ev.screen()
	id, ok := c.hit.NodeAt(p, vp.Scale)
	if !ok {
		return
	}
	c.phase = Armed
	c.node = id
	c.start = p
}

func (c *Controller) Move(ev Event, vp dynamo.Viewport) {
	p := ev.screen()
	switch c.phase {
	case Armed:
		if p.Dist(c.start) <= c.Threshold {
			return
		}
		c.phase = Dragging
		c.body.SetNodeKinematic(c.node)
		c.body.SetNodePosition(c.node, p, vp)
	case Dragging:
		c.body.SetNodePosition(c.node, p, vp)
	}
}

func (c *Controller) Up(ev Event, vp dynamo.Viewport) {
	switch c.phase {
	case Dragging:
		c.body.SetNodeDynamic(c.node)
	case Armed:
		if c.nav != nil {
			c.nav.NodeActivated(c.node)
		}
	}
	c.reset()
}

func (c *Controller) reset() {
	c.phase = Idle
	c.node = 0
	c.start = dynamo.Vec2{}
}
