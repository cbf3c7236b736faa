package integrators

import (
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/physics"
)

// SemiImplicitEuler updates velocity first and moves with the new velocity.
type SemiImplicitEuler struct {
	acc []dynamo.Vec2
}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "euler" }

func (e *SemiImplicitEuler) Integrate(bodies []*physics.Body, accel physics.AccelFunc, dt float64) {
	e.acc = grow(e.acc, len(bodies))
	accel(bodies, e.acc)
	for i, b := range bodies {
		if !b.Movable() {
			continue
		}
		b.Vel = b.Vel.AddScaled(e.acc[i], dt)
		b.Pos = b.Pos.AddScaled(b.Vel, dt)
	}
}

func grow(s []dynamo.Vec2, n int) []dynamo.Vec2 {
	if cap(s) < n {
		return make([]dynamo.Vec2, n)
	}
	return s[:n]
}
