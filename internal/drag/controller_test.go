package drag_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/graphsim/internal/drag"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
)

type recorder struct {
	calls []string
}

func (r *recorder) SetNodeKinematic(id graph.NodeID) {
	r.calls = append(r.calls, fmt.Sprintf("kinematic %d", id))
}

func (r *recorder) SetNodeDynamic(id graph.NodeID) {
	r.calls = append(r.calls, fmt.Sprintf("dynamic %d", id))
}

func (r *recorder) SetNodePosition(id graph.NodeID, p dynamo.Vec2, _ dynamo.Viewport) {
	r.calls = append(r.calls, fmt.Sprintf("position %d %v,%v", id, p.X, p.Y))
}

func at(x, y float64) drag.Event {
	return drag.Event{Position: dynamo.V(x, y)}
}

var _ = Describe("Controller", func() {
	var (
		reg       *graph.Registry
		body      *recorder
		activated []graph.NodeID
		c         *drag.Controller
		vp        dynamo.Viewport
	)

	BeforeEach(func() {
		reg = graph.NewRegistry()
		Expect(reg.AddNode(1, dynamo.V(100, 100), 20, graph.Text{})).To(Succeed())
		Expect(reg.AddNode(2, dynamo.V(300, 100), 20, graph.Text{})).To(Succeed())
		body = &recorder{}
		activated = nil
		vp = dynamo.DefaultViewport()
		c = drag.NewController(body, reg, drag.NavigatorFunc(func(id graph.NodeID) {
			activated = append(activated, id)
		}))
	})

	It("arms on down without touching the body", func() {
		c.Down(at(100, 100), vp)
		Expect(c.Phase()).To(Equal(drag.Armed))
		id, ok := c.Node()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(graph.NodeID(1)))
		Expect(body.calls).To(BeEmpty())
	})

	It("stays idle when the pointer misses every node", func() {
		c.Down(at(500, 500), vp)
		Expect(c.Phase()).To(Equal(drag.Idle))
		c.Up(at(500, 500), vp)
		Expect(activated).To(BeEmpty())
	})

	It("treats small movement as a click", func() {
		c.Down(at(100, 100), vp)
		c.Move(at(103, 103), vp)
		Expect(c.Phase()).To(Equal(drag.Armed))
		c.Up(at(103, 103), vp)

		Expect(activated).To(Equal([]graph.NodeID{1}))
		Expect(body.calls).To(BeEmpty())
		Expect(c.Phase()).To(Equal(drag.Idle))
	})

	It("starts a drag only past the threshold", func() {
		c.Down(at(100, 100), vp)
		c.Move(at(110, 100), vp)
		Expect(c.Phase()).To(Equal(drag.Dragging))
		c.Move(at(140, 120), vp)
		c.Up(at(140, 120), vp)

		Expect(body.calls).To(Equal([]string{
			"kinematic 1",
			"position 1 110,100",
			"position 1 140,120",
			"dynamic 1",
		}))
		Expect(activated).To(BeEmpty())
	})

	It("adds the scroll offset before measuring", func() {
		c.Down(drag.Event{Position: dynamo.V(100, 60), Scroll: dynamo.V(0, 40)}, vp)
		Expect(c.Phase()).To(Equal(drag.Armed))

		c.Move(drag.Event{Position: dynamo.V(100, 60), Scroll: dynamo.V(0, 50)}, vp)
		Expect(c.Phase()).To(Equal(drag.Dragging))
		Expect(body.calls).To(ContainElement("position 1 100,110"))
	})

	It("releases a stale drag when a new down arrives", func() {
		c.Down(at(100, 100), vp)
		c.Move(at(120, 100), vp)

		c.Down(at(300, 100), vp)
		Expect(body.calls).To(HaveLen(3))
		Expect(body.calls[2]).To(Equal("dynamic 1"))
		id, _ := c.Node()
		Expect(id).To(Equal(graph.NodeID(2)))
		Expect(c.Phase()).To(Equal(drag.Armed))
	})

	It("ignores moves and ups while idle", func() {
		c.Move(at(100, 100), vp)
		c.Up(at(100, 100), vp)
		Expect(body.calls).To(BeEmpty())
		Expect(activated).To(BeEmpty())
	})

	It("honours a custom threshold", func() {
		c.Threshold = 50
		c.Down(at(100, 100), vp)
		c.Move(at(130, 100), vp)
		Expect(c.Phase()).To(Equal(drag.Armed))
	})

	It("works without a navigator", func() {
		c = drag.NewController(body, reg, nil)
		c.Down(at(100, 100), vp)
		Expect(func() { c.Up(at(100, 100), vp) }).NotTo(Panic())
	})
})
