package metrics

import (
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/sim"
)

// Containment is the fraction of steps in which every node stayed inside
// the container.
type Containment struct {
	name       string
	bound      dynamo.ContainerBound
	vp         dynamo.Viewport
	violations int
	samples    int
}

func NewContainment(bound dynamo.ContainerBound, vp dynamo.Viewport) *Containment {
	return &Containment{
		name:  "containment",
		bound: bound,
		vp:    vp,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f *sim.Frame) {
	c.samples++
	for _, b := range f.Bodies {
		if !c.bound.Contains(c.vp.PhysicsToScreen(b.Pos)) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
