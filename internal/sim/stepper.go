package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/forces"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/integrators"
	"github.com/san-kum/graphsim/internal/physics"
)

// Stepper advances the layout one fixed tick at a time and mirrors body
// positions into the registry. It is not safe for concurrent use.
type Stepper struct {
	registry *graph.Registry
	world    *physics.World
	handles  map[graph.NodeID]physics.Handle
	ids      map[physics.Handle]graph.NodeID

	settings dynamo.ForceSettings
	bound    dynamo.ContainerBound
	cfg      Config
	log      *slog.Logger

	forces   []forces.Force
	snap     forces.Snapshot
	impulses []dynamo.Vec2

	metrics   []Metric
	observers []Observer
	frame     Frame

	steps int
	time  float64
}

// New creates one body per registry node and one spring per edge whose
// endpoints both exist. Edges to unknown nodes are dropped.
func New(reg *graph.Registry, vp dynamo.Viewport, settings dynamo.ForceSettings, bound dynamo.ContainerBound, cfg Config) *Stepper {
	cfg = cfg.withDefaults()

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		cfg.Logger.Warn("falling back to default integrator", "error", err)
		integ, _ = integrators.New(integrators.Default)
	}

	s := &Stepper{
		registry: reg,
		world:    physics.NewWorld(integ),
		handles:  make(map[graph.NodeID]physics.Handle),
		ids:      make(map[physics.Handle]graph.NodeID),
		settings: settings,
		bound:    bound,
		cfg:      cfg,
		log:      cfg.Logger,
		forces:   forces.Set(),
	}

	for n := range reg.All() {
		s.addBody(n, vp)
	}
	s.RebuildJoints()
	s.applyAuthorPin()

	s.log.Debug("stepper ready",
		"bodies", s.world.Len(),
		"joints", s.world.JointCount(),
		"integrator", integ.Name(),
		"dt", cfg.Dt)
	return s
}

func (s *Stepper) addBody(n graph.Node, vp dynamo.Viewport) {
	h := s.world.AddBody(physics.Body{
		Pos:           vp.ScreenToPhysics(n.Position),
		Mass:          1,
		LinearDamping: s.cfg.LinearDamping,
		Collider:      physics.Collider{Radius: n.Radius, Restitution: s.cfg.Restitution},
	})
	s.handles[n.ID] = h
	s.ids[h] = n.ID
}

func (s *Stepper) body(id graph.NodeID) *physics.Body {
	h, ok := s.handles[id]
	if !ok {
		return nil
	}
	return s.world.Body(h)
}

// AddNode creates a body for a node added to the registry after
// construction. Unknown or already simulated ids are ignored.
func (s *Stepper) AddNode(id graph.NodeID, vp dynamo.Viewport) {
	if _, ok := s.handles[id]; ok {
		return
	}
	n, ok := s.registry.Node(id)
	if !ok {
		return
	}
	s.addBody(n, vp)
	s.applyAuthorPin()
}

// RemoveNode destroys the body, its springs and the registry entry.
func (s *Stepper) RemoveNode(id graph.NodeID) {
	if h, ok := s.handles[id]; ok {
		s.world.RemoveBody(h)
		delete(s.handles, id)
		delete(s.ids, h)
	}
	s.registry.RemoveNode(id)
}

// RebuildJoints recreates every spring from the registry's current edges.
func (s *Stepper) RebuildJoints() {
	s.world.ClearJoints()
	author, hasAuthor := s.registry.AuthorID()

	dropped := 0
	for e := range s.registry.Edges() {
		ha, okA := s.handles[e.A]
		hb, okB := s.handles[e.B]
		if !okA || !okB {
			dropped++
			continue
		}

		stiffness := s.settings.LinkStrength
		switch {
		case hasAuthor && e.Touches(author):
			stiffness = s.settings.AuthorLinkStrength
		case e.Kind == graph.EdgeDirect:
			stiffness = s.settings.DirectLinkStrength
		}

		s.world.AddJoint(physics.Joint{
			A:         ha,
			B:         hb,
			Stiffness: stiffness,
			Damping:   s.settings.LinkDamping,
		})
	}

	if s.settings.DebugMode {
		s.log.Debug("joints rebuilt", "joints", s.world.JointCount(), "dropped", dropped)
	}
}

func (s *Stepper) applyAuthorPin() {
	author, ok := s.registry.AuthorID()
	if !ok {
		return
	}
	if b := s.body(author); b != nil {
		b.Pinned = s.settings.AuthorFixedPosition
		if b.Pinned {
			b.Vel = dynamo.Vec2{}
		}
	}
}

func (s *Stepper) SetNodeKinematic(id graph.NodeID) {
	if b := s.body(id); b != nil {
		b.Type = physics.Kinematic
		b.Vel = dynamo.Vec2{}
	}
}

func (s *Stepper) SetNodeDynamic(id graph.NodeID) {
	if b := s.body(id); b != nil {
		b.Type = physics.Dynamic
	}
}

func (s *Stepper) IsKinematic(id graph.NodeID) bool {
	b := s.body(id)
	return b != nil && b.Type == physics.Kinematic
}

// SetNodePosition teleports a body and clears its velocity so it does not
// spring back on release.
func (s *Stepper) SetNodePosition(id graph.NodeID, screen dynamo.Vec2, vp dynamo.Viewport) {
	b := s.body(id)
	if b == nil {
		return
	}
	b.Pos = vp.ScreenToPhysics(screen)
	b.Vel = dynamo.Vec2{}
	s.registry.SetPosition(id, screen)
}

func (s *Stepper) UpdateForceSettings(settings dynamo.ForceSettings) {
	old := s.settings
	s.settings = settings
	if !old.LinksEqual(settings) {
		s.RebuildJoints()
	}
	s.applyAuthorPin()
}

func (s *Stepper) UpdateContainerBound(bound dynamo.ContainerBound) {
	s.bound = bound
}

// UpdateNodeSize swaps the collider for one with the new radius.
func (s *Stepper) UpdateNodeSize(id graph.NodeID, radius float64) {
	h, ok := s.handles[id]
	if !ok {
		return
	}
	s.world.ReplaceCollider(h, physics.Collider{Radius: radius, Restitution: s.cfg.Restitution})
	s.registry.UpdateNodeRadius(id, radius)
}

func (s *Stepper) Settings() dynamo.ForceSettings { return s.settings }
func (s *Stepper) Bound() dynamo.ContainerBound   { return s.bound }
func (s *Stepper) Registry() *graph.Registry      { return s.registry }
func (s *Stepper) Config() Config                 { return s.cfg }
func (s *Stepper) Steps() int                     { return s.steps }
func (s *Stepper) Time() float64                  { return s.time }
func (s *Stepper) JointCount() int                { return s.world.JointCount() }
func (s *Stepper) KineticEnergy() float64         { return s.world.KineticEnergy() }

// Velocity returns the body's velocity in physics units per second.
func (s *Stepper) Velocity(id graph.NodeID) (dynamo.Vec2, bool) {
	b := s.body(id)
	if b == nil {
		return dynamo.Vec2{}, false
	}
	return b.Vel, true
}

func (s *Stepper) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Stepper) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step runs one tick: forces from a single snapshot, one world step, then
// write-back of every body position through vp.
func (s *Stepper) Step(vp dynamo.Viewport) {
	dt := s.cfg.Dt
	bodies := s.world.Bodies()

	s.snapshot(bodies, vp)
	if cap(s.impulses) < len(bodies) {
		s.impulses = make([]dynamo.Vec2, len(bodies))
	}
	s.impulses = s.impulses[:len(bodies)]
	forces.Accumulate(s.forces, &s.snap, s.settings, dt, s.impulses)

	for i, b := range bodies {
		b.ApplyImpulse(s.impulses[i])
	}

	s.world.Step(dt)

	for _, b := range bodies {
		s.registry.SetPosition(s.ids[b.Handle()], vp.PhysicsToScreen(b.Pos))
	}

	s.steps++
	s.time += dt
	s.emit(bodies)
}

func (s *Stepper) snapshot(bodies []*physics.Body, vp dynamo.Viewport) {
	s.snap.Reset()
	author, hasAuthor := s.registry.AuthorID()
	for i, b := range bodies {
		id := s.ids[b.Handle()]
		n, _ := s.registry.Node(id)
		s.snap.Append(id, b.Pos, b.Vel, b.Collider.Radius, b.Movable(), n.Category)
		if hasAuthor && id == author {
			s.snap.Author = i
		}
	}
	s.snap.Center = vp.ScreenToPhysics(s.bound.Center())
}

func (s *Stepper) emit(bodies []*physics.Body) {
	if len(s.metrics) == 0 && len(s.observers) == 0 && !s.settings.DebugMode {
		return
	}

	f := &s.frame
	f.Step = s.steps
	f.Time = s.time
	f.KineticEnergy = s.world.KineticEnergy()
	f.Contacts = len(s.world.Contacts())
	f.Bodies = f.Bodies[:0]
	for _, b := range bodies {
		f.Bodies = append(f.Bodies, BodyState{
			ID:        s.ids[b.Handle()],
			Pos:       b.Pos,
			Vel:       b.Vel,
			Radius:    b.Collider.Radius,
			Kinematic: b.Type == physics.Kinematic,
			Pinned:    b.Pinned,
		})
	}

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}

	if s.settings.DebugMode {
		s.log.Debug("step",
			"n", f.Step,
			"t", f.Time,
			"kinetic_energy", f.KineticEnergy,
			"contacts", f.Contacts)
	}
}

// Validate reports the first body whose state is NaN or Inf.
func (s *Stepper) Validate() error {
	for _, b := range s.world.Bodies() {
		if !b.Pos.IsValid() || !b.Vel.IsValid() {
			return dynamo.SimError{
				Time:    s.time,
				Step:    s.steps,
				Message: fmt.Sprintf("node %d has invalid state", s.ids[b.Handle()]),
			}
		}
	}
	return nil
}

// Run advances a headless layout by steps ticks.
func (s *Stepper) Run(ctx context.Context, steps int, vp dynamo.Viewport) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrInvalidConfig, steps)
	}

	result := &Result{
		Energy:  make([]float64, 0, steps),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.Step(vp)
		result.StepsTaken++
		result.Energy = append(result.Energy, s.world.KineticEnergy())

		if err := s.Validate(); err != nil {
			result.Errors = append(result.Errors, err)
			s.log.Error("layout diverged", "error", err)
			break
		}
	}

	result.Time = s.time
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
