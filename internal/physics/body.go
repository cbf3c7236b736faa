package physics

import "github.com/san-kum/graphsim/internal/dynamo"

type BodyType uint8

const (
	Dynamic BodyType = iota
	Kinematic
)

func (t BodyType) String() string {
	if t == Kinematic {
		return "kinematic"
	}
	return "dynamic"
}

type Handle uint32

type Collider struct {
	Radius      float64
	Restitution float64
}

type Body struct {
	Pos  dynamo.Vec2
	Vel  dynamo.Vec2
	Type BodyType

	// Pinned freezes a dynamic body in place without changing its type.
	Pinned bool

	Mass          float64
	LinearDamping float64
	Collider      Collider

	handle Handle
}

func (b *Body) Handle() Handle { return b.handle }

// Movable reports whether forces, springs and contacts may move the body.
func (b *Body) Movable() bool {
	return b.Type == Dynamic && !b.Pinned
}

func (b *Body) InvMass() float64 {
	if !b.Movable() || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// ApplyImpulse changes velocity by j/m. Immovable bodies ignore it.
func (b *Body) ApplyImpulse(j dynamo.Vec2) {
	inv := b.InvMass()
	if inv == 0 {
		return
	}
	b.Vel = b.Vel.AddScaled(j, inv)
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Vel.Dot(b.Vel)
}

func (b *Body) aabb() (minX, minY, maxX, maxY float64) {
	r := b.Collider.Radius
	return b.Pos.X - r, b.Pos.Y - r, b.Pos.X + r, b.Pos.Y + r
}
