package integrators

import (
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/physics"
)

type Verlet struct {
	acc    []dynamo.Vec2
	accNew []dynamo.Vec2
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Integrate(bodies []*physics.Body, accel physics.AccelFunc, dt float64) {
	n := len(bodies)
	v.acc = grow(v.acc, n)
	v.accNew = grow(v.accNew, n)

	accel(bodies, v.acc)
	halfDt2 := 0.5 * dt * dt
	for i, b := range bodies {
		if !b.Movable() {
			continue
		}
		b.Pos = b.Pos.AddScaled(b.Vel, dt).AddScaled(v.acc[i], halfDt2)
	}

	accel(bodies, v.accNew)
	halfDt := 0.5 * dt
	for i, b := range bodies {
		if !b.Movable() {
			continue
		}
		b.Vel = b.Vel.AddScaled(v.acc[i].Add(v.accNew[i]), halfDt)
	}
}
