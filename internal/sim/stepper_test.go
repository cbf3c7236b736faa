package sim_test

import (
	"context"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/sim"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func config() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Logger = quiet
	return cfg
}

func position(reg *graph.Registry, id graph.NodeID) dynamo.Vec2 {
	n, ok := reg.Node(id)
	Expect(ok).To(BeTrue())
	return n.Position
}

func stepN(s *sim.Stepper, vp dynamo.Viewport, n int) {
	for range n {
		s.Step(vp)
	}
}

var _ = Describe("Stepper", func() {
	var (
		reg   *graph.Registry
		vp    dynamo.Viewport
		bound dynamo.ContainerBound
	)

	BeforeEach(func() {
		reg = graph.NewRegistry()
		vp = dynamo.DefaultViewport()
		bound = dynamo.NewContainerBound(-200, -200, 400, 400)
	})

	Describe("repulsion", func() {
		BeforeEach(func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{Body: "A"})).To(Succeed())
			Expect(reg.AddNode(2, dynamo.V(5, 0), 10, graph.Text{Body: "B"})).To(Succeed())
		})

		It("pushes overlapping nodes apart after one step", func() {
			settings := dynamo.DefaultForceSettings()
			settings.RepulsionMinDistance = 20
			s := sim.New(reg, vp, settings, bound, config())

			s.Step(vp)

			Expect(position(reg, 1).Dist(position(reg, 2))).To(BeNumerically(">", 5))
		})

		It("increases the distance monotonically until the threshold", func() {
			settings := dynamo.DefaultForceSettings()
			settings.CenterStrength = 0
			settings.CenterDamping = 0
			settings.EnableAuthorAttraction = false
			s := sim.New(reg, vp, settings, bound, config())

			threshold := 10 + 10 + settings.RepulsionMinDistance
			prev := position(reg, 1).Dist(position(reg, 2))
			for range 600 {
				s.Step(vp)
				d := position(reg, 1).Dist(position(reg, 2))
				if prev >= threshold {
					break
				}
				Expect(d).To(BeNumerically(">", prev))
				prev = d
			}
			Expect(prev).To(BeNumerically(">=", threshold*0.95))
		})
	})

	Describe("kinematic bodies", func() {
		BeforeEach(func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 20, graph.Text{})).To(Succeed())
			Expect(reg.AddNode(2, dynamo.V(30, 0), 20, graph.Text{})).To(Succeed())
			Expect(reg.AddNode(3, dynamo.V(-30, 10), 20, graph.Text{})).To(Succeed())
			reg.AddEdge(1, 2)
			reg.AddEdge(1, 3)
		})

		It("keeps an explicit position regardless of forces", func() {
			settings := dynamo.DefaultForceSettings()
			settings.RepulsionStrength = 1e5
			settings.CenterStrength = 50
			s := sim.New(reg, vp, settings, bound, config())

			s.SetNodeKinematic(1)
			Expect(s.IsKinematic(1)).To(BeTrue())
			target := dynamo.V(123, -45)
			s.SetNodePosition(1, target, vp)

			s.Step(vp)
			Expect(position(reg, 1)).To(Equal(target))

			stepN(s, vp, 30)
			Expect(position(reg, 1)).To(Equal(target))
		})

		It("does not spring back to the pre-drag position after release", func() {
			settings := dynamo.DefaultForceSettings()
			s := sim.New(reg, vp, settings, bound, config())
			stepN(s, vp, 30)
			before := position(reg, 1)

			s.SetNodeKinematic(1)
			s.SetNodePosition(1, dynamo.V(150, 150), vp)
			stepN(s, vp, 5)
			s.SetNodeDynamic(1)
			Expect(s.IsKinematic(1)).To(BeFalse())

			v, ok := s.Velocity(1)
			Expect(ok).To(BeTrue())
			Expect(v.Len()).To(BeNumerically("<", 1e3))

			stepN(s, vp, 20)
			Expect(position(reg, 1)).NotTo(Equal(before))
		})

		It("zeroes velocity on an explicit position override", func() {
			s := sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, config())
			stepN(s, vp, 10)

			s.SetNodePosition(2, dynamo.V(80, 80), vp)

			v, _ := s.Velocity(2)
			Expect(v.IsZero()).To(BeTrue())
			Expect(position(reg, 2)).To(Equal(dynamo.V(80, 80)))
		})
	})

	Describe("author pin", func() {
		It("never moves a fixed author", func() {
			Expect(reg.AddNode(0, dynamo.V(10, 10), 40, graph.Author{Name: "me"})).To(Succeed())
			for id := graph.NodeID(1); id <= 4; id++ {
				Expect(reg.AddNode(id, dynamo.V(float64(id)*12, 5), 15, graph.Text{})).To(Succeed())
				reg.AddEdge(0, id)
			}

			settings := dynamo.DefaultForceSettings()
			settings.AuthorFixedPosition = true
			s := sim.New(reg, vp, settings, bound, config())

			start := position(reg, 0)
			for range 200 {
				s.Step(vp)
				Expect(position(reg, 0)).To(Equal(start))
			}
		})

		It("releases the author when the setting is cleared", func() {
			Expect(reg.AddNode(0, dynamo.V(150, 150), 40, graph.Author{Name: "me"})).To(Succeed())
			settings := dynamo.DefaultForceSettings()
			settings.AuthorFixedPosition = true
			s := sim.New(reg, vp, settings, bound, config())
			stepN(s, vp, 5)
			Expect(position(reg, 0)).To(Equal(dynamo.V(150, 150)))

			settings.AuthorFixedPosition = false
			s.UpdateForceSettings(settings)
			stepN(s, vp, 5)
			Expect(position(reg, 0)).NotTo(Equal(dynamo.V(150, 150)))
		})
	})

	Describe("topology", func() {
		It("drops edges to nodes that were never added", func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{})).To(Succeed())
			Expect(reg.AddNode(2, dynamo.V(50, 0), 10, graph.Text{})).To(Succeed())
			reg.AddEdge(1, 2)
			reg.AddEdge(1, 99)

			var s *sim.Stepper
			Expect(func() {
				s = sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, config())
			}).NotTo(Panic())
			Expect(s.JointCount()).To(Equal(1))
			Expect(func() { s.Step(vp) }).NotTo(Panic())
		})

		It("rebuilds joints when link settings change", func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{})).To(Succeed())
			Expect(reg.AddNode(2, dynamo.V(50, 0), 10, graph.Text{})).To(Succeed())
			s := sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, config())
			Expect(s.JointCount()).To(Equal(0))

			reg.AddEdgeKind(1, 2, graph.EdgeDirect)
			settings := dynamo.DefaultForceSettings()
			settings.RepulsionStrength = 10
			s.UpdateForceSettings(settings)
			Expect(s.JointCount()).To(Equal(0))

			settings.DirectLinkStrength = 4
			s.UpdateForceSettings(settings)
			Expect(s.JointCount()).To(Equal(1))
		})

		It("treats every operation on an unknown id as a no-op", func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{})).To(Succeed())
			s := sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, config())

			Expect(func() {
				s.SetNodeKinematic(42)
				s.SetNodeDynamic(42)
				s.SetNodePosition(42, dynamo.V(1, 1), vp)
				s.UpdateNodeSize(42, 30)
				s.RemoveNode(42)
				s.AddNode(42, vp)
			}).NotTo(Panic())
			Expect(s.IsKinematic(42)).To(BeFalse())
			Expect(reg.Len()).To(Equal(1))
		})

		It("adds and removes nodes after construction", func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{})).To(Succeed())
			s := sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, config())

			Expect(reg.AddNode(2, dynamo.V(100, 0), 10, graph.Text{})).To(Succeed())
			reg.AddEdge(1, 2)
			s.AddNode(2, vp)
			s.RebuildJoints()
			Expect(s.JointCount()).To(Equal(1))

			s.RemoveNode(2)
			Expect(s.JointCount()).To(Equal(0))
			Expect(reg.Has(2)).To(BeFalse())
			Expect(func() { s.Step(vp) }).NotTo(Panic())
		})
	})

	Describe("viewport write-back", func() {
		It("writes screen coordinates through the viewport", func() {
			Expect(reg.AddNode(1, dynamo.V(300, 200), 10, graph.Text{})).To(Succeed())
			zoomed := dynamo.Viewport{Offset: dynamo.V(100, 50), Scale: 2}
			settings := dynamo.DefaultForceSettings()
			s := sim.New(reg, zoomed, settings, bound, config())

			s.SetNodeKinematic(1)
			s.SetNodePosition(1, dynamo.V(300, 200), zoomed)
			s.Step(zoomed)

			p := position(reg, 1)
			Expect(p.X).To(BeNumerically("~", 300, 1e-9))
			Expect(p.Y).To(BeNumerically("~", 200, 1e-9))
		})
	})

	Describe("resize", func() {
		It("updates collider and registry radius", func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{})).To(Succeed())
			Expect(reg.AddNode(2, dynamo.V(40, 0), 10, graph.Text{})).To(Succeed())
			settings := dynamo.DefaultForceSettings()
			settings.RepulsionStrength = 0
			settings.CenterStrength = 0
			settings.CenterDamping = 0
			s := sim.New(reg, vp, settings, bound, config())

			s.UpdateNodeSize(1, 45)
			n, _ := reg.Node(1)
			Expect(n.Radius).To(Equal(45.0))

			stepN(s, vp, 30)
			Expect(position(reg, 1).Dist(position(reg, 2))).To(BeNumerically(">", 54))
		})
	})

	Describe("observers and runs", func() {
		It("reports frames and collects the energy trace", func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{})).To(Succeed())
			Expect(reg.AddNode(2, dynamo.V(5, 0), 10, graph.Text{})).To(Succeed())
			s := sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, config())

			var frames []int
			s.AddObserver(sim.ObserverFunc(func(f *sim.Frame) {
				Expect(f.Bodies).To(HaveLen(2))
				frames = append(frames, f.Step)
			}))

			res, err := s.Run(context.Background(), 10, vp)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(10))
			Expect(res.Energy).To(HaveLen(10))
			Expect(res.Errors).To(BeEmpty())
			Expect(frames).To(Equal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
			Expect(s.Time()).To(BeNumerically("~", 10*sim.DefaultDt, 1e-12))
		})

		It("stops on cancellation", func() {
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{})).To(Succeed())
			s := sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, config())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, 100, vp)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.StepsTaken).To(Equal(0))
		})

		It("rejects a non-positive step count", func() {
			s := sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, config())
			_, err := s.Run(context.Background(), 0, vp)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("falls back to the default integrator for unknown names", func() {
			cfg := config()
			cfg.Integrator = "bogus"
			Expect(reg.AddNode(1, dynamo.V(0, 0), 10, graph.Text{})).To(Succeed())
			Expect(func() { sim.New(reg, vp, dynamo.DefaultForceSettings(), bound, cfg).Step(vp) }).NotTo(Panic())
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs members independently and picks the calmest", func() {
		build := func(seed int64) (*sim.Stepper, error) {
			reg := graph.NewRegistry()
			for id := graph.NodeID(1); id <= 3; id++ {
				if err := reg.AddNode(id, dynamo.V(float64(seed)*float64(id), 0), 10, graph.Text{}); err != nil {
					return nil, err
				}
			}
			return sim.New(reg, dynamo.DefaultViewport(), dynamo.DefaultForceSettings(),
				dynamo.NewContainerBound(-100, -100, 200, 200), config()), nil
		}

		members, err := sim.NewEnsemble(build, 4, 1).Run(context.Background(), 20, dynamo.DefaultViewport())
		Expect(err).NotTo(HaveOccurred())
		Expect(members).To(HaveLen(4))
		for i, m := range members {
			Expect(m.Seed).To(Equal(int64(i + 1)))
			Expect(m.Result.StepsTaken).To(Equal(20))
		}
		Expect(sim.Best(members)).To(BeNumerically(">=", 0))
	})

	It("reports no best member for an empty set", func() {
		Expect(sim.Best(nil)).To(Equal(-1))
	})
})
