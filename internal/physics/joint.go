package physics

import "github.com/san-kum/graphsim/internal/dynamo"

type JointHandle uint32

// Joint is a damped spring between two bodies.
type Joint struct {
	A, B      Handle
	Rest      float64
	Stiffness float64
	Damping   float64
}

// force returns the force acting on a; b receives the negation.
func (j *Joint) force(a, b *Body) dynamo.Vec2 {
	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	if dist < 1e-9 {
		return dynamo.Vec2{}
	}
	n := d.Scale(1 / dist)
	relVel := b.Vel.Sub(a.Vel).Dot(n)
	return n.Scale(j.Stiffness*(dist-j.Rest) + j.Damping*relVel)
}
