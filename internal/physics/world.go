package physics

import "github.com/san-kum/graphsim/internal/dynamo"

// AccelFunc writes the acceleration of bodies[i] into acc[i] given the
// bodies' current positions and velocities.
type AccelFunc func(bodies []*Body, acc []dynamo.Vec2)

// Integrator advances movable bodies by dt. Immovable bodies must be left
// untouched.
type Integrator interface {
	Name() string
	Integrate(bodies []*Body, accel AccelFunc, dt float64)
}

type World struct {
	// Iterations is the number of positional correction passes per step.
	Iterations int

	integrator Integrator

	bodies   map[Handle]*Body
	order    []*Body
	joints   map[JointHandle]*Joint
	jointIDs []JointHandle

	nextBody  Handle
	nextJoint JointHandle

	index    map[*Body]int
	sorted   []*Body
	pairs    [][2]*Body
	contacts []Contact
}

func NewWorld(integ Integrator) *World {
	return &World{
		Iterations: 4,
		integrator: integ,
		bodies:     make(map[Handle]*Body),
		joints:     make(map[JointHandle]*Joint),
		index:      make(map[*Body]int),
	}
}

func (w *World) Integrator() Integrator { return w.integrator }

// AddBody copies b into the world. A zero mass defaults to 1.
func (w *World) AddBody(b Body) Handle {
	w.nextBody++
	if b.Mass <= 0 {
		b.Mass = 1
	}
	b.handle = w.nextBody
	body := &b
	w.bodies[b.handle] = body
	w.order = append(w.order, body)
	return b.handle
}

// Body returns the live body for h, or nil.
func (w *World) Body(h Handle) *Body {
	return w.bodies[h]
}

func (w *World) Bodies() []*Body {
	return w.order
}

func (w *World) Len() int {
	return len(w.order)
}

// RemoveBody destroys the body and every joint attached to it.
func (w *World) RemoveBody(h Handle) {
	b, ok := w.bodies[h]
	if !ok {
		return
	}
	delete(w.bodies, h)
	for i, v := range w.order {
		if v == b {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	kept := w.jointIDs[:0]
	for _, jh := range w.jointIDs {
		j := w.joints[jh]
		if j.A == h || j.B == h {
			delete(w.joints, jh)
			continue
		}
		kept = append(kept, jh)
	}
	w.jointIDs = kept
}

// ReplaceCollider swaps the body's collider shape in place.
func (w *World) ReplaceCollider(h Handle, c Collider) {
	if b, ok := w.bodies[h]; ok {
		b.Collider = c
	}
}

// AddJoint returns 0 when either endpoint is missing.
func (w *World) AddJoint(j Joint) JointHandle {
	if w.bodies[j.A] == nil || w.bodies[j.B] == nil {
		return 0
	}
	w.nextJoint++
	jj := j
	w.joints[w.nextJoint] = &jj
	w.jointIDs = append(w.jointIDs, w.nextJoint)
	return w.nextJoint
}

func (w *World) RemoveJoint(h JointHandle) {
	if _, ok := w.joints[h]; !ok {
		return
	}
	delete(w.joints, h)
	for i, v := range w.jointIDs {
		if v == h {
			w.jointIDs = append(w.jointIDs[:i], w.jointIDs[i+1:]...)
			return
		}
	}
}

func (w *World) ClearJoints() {
	clear(w.joints)
	w.jointIDs = w.jointIDs[:0]
}

func (w *World) JointCount() int {
	return len(w.jointIDs)
}

// Contacts returns the contacts found during the last step.
func (w *World) Contacts() []Contact {
	return w.contacts
}

func (w *World) KineticEnergy() float64 {
	var e float64
	for _, b := range w.order {
		if b.Movable() {
			e += b.KineticEnergy()
		}
	}
	return e
}

func (w *World) Step(dt float64) {
	if len(w.order) == 0 {
		return
	}

	w.integrator.Integrate(w.order, w.springAccel, dt)

	for _, b := range w.order {
		if b.Movable() && b.LinearDamping > 0 {
			b.Vel = b.Vel.Scale(1 / (1 + dt*b.LinearDamping))
		}
	}

	w.broadPhase()
	w.narrowPhase()
	w.solveContacts()
}

func (w *World) springAccel(bodies []*Body, acc []dynamo.Vec2) {
	clear(w.index)
	for i, b := range bodies {
		w.index[b] = i
		acc[i] = dynamo.Vec2{}
	}
	for _, jh := range w.jointIDs {
		j := w.joints[jh]
		a, b := w.bodies[j.A], w.bodies[j.B]
		ia, okA := w.index[a]
		ib, okB := w.index[b]
		if !okA || !okB {
			continue
		}
		f := j.force(a, b)
		acc[ia] = acc[ia].AddScaled(f, a.InvMass())
		acc[ib] = acc[ib].AddScaled(f, -b.InvMass())
	}
}
