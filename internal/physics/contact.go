package physics

import (
	"math"
	"sort"

	"github.com/san-kum/graphsim/internal/dynamo"
)

const (
	correctionPercent = 0.2
	correctionSlop    = 0.5
)

type Contact struct {
	A, B        *Body
	Normal      dynamo.Vec2 // from A towards B
	Penetration float64
}

// broadPhase sorts bodies along x and collects pairs whose AABBs overlap.
// Pairs where neither body can move are skipped.
func (w *World) broadPhase() {
	w.sorted = w.sorted[:0]
	for _, b := range w.order {
		if b.Collider.Radius > 0 {
			w.sorted = append(w.sorted, b)
		}
	}
	sort.Slice(w.sorted, func(i, j int) bool {
		return w.sorted[i].Pos.X-w.sorted[i].Collider.Radius < w.sorted[j].Pos.X-w.sorted[j].Collider.Radius
	})

	w.pairs = w.pairs[:0]
	for i, a := range w.sorted {
		_, aMinY, aMaxX, aMaxY := a.aabb()
		for _, b := range w.sorted[i+1:] {
			bMinX, bMinY, _, bMaxY := b.aabb()
			if bMinX > aMaxX {
				break
			}
			if bMinY > aMaxY || aMinY > bMaxY {
				continue
			}
			if !a.Movable() && !b.Movable() {
				continue
			}
			w.pairs = append(w.pairs, [2]*Body{a, b})
		}
	}
}

func (w *World) narrowPhase() {
	w.contacts = w.contacts[:0]
	for _, p := range w.pairs {
		if c, ok := collide(p[0], p[1]); ok {
			w.contacts = append(w.contacts, c)
		}
	}
}

func collide(a, b *Body) (Contact, bool) {
	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	pen := a.Collider.Radius + b.Collider.Radius - dist
	if pen <= 0 {
		return Contact{}, false
	}
	n := dynamo.V(1, 0)
	if dist > 1e-9 {
		n = d.Scale(1 / dist)
	}
	return Contact{A: a, B: b, Normal: n, Penetration: pen}, true
}

func (w *World) solveContacts() {
	for _, c := range w.contacts {
		invA, invB := c.A.InvMass(), c.B.InvMass()
		sum := invA + invB
		if sum == 0 {
			continue
		}

		rv := c.B.Vel.Sub(c.A.Vel).Dot(c.Normal)
		if rv < 0 {
			e := (c.A.Collider.Restitution + c.B.Collider.Restitution) / 2
			j := -(1 + e) * rv / sum
			c.A.Vel = c.A.Vel.AddScaled(c.Normal, -j*invA)
			c.B.Vel = c.B.Vel.AddScaled(c.Normal, j*invB)
		}
	}

	for range w.Iterations {
		for _, c := range w.contacts {
			invA, invB := c.A.InvMass(), c.B.InvMass()
			sum := invA + invB
			if sum == 0 {
				continue
			}
			cur, ok := collide(c.A, c.B)
			if !ok {
				continue
			}
			corr := math.Max(cur.Penetration-correctionSlop, 0) / sum * correctionPercent
			c.A.Pos = c.A.Pos.AddScaled(cur.Normal, -corr*invA)
			c.B.Pos = c.B.Pos.AddScaled(cur.Normal, corr*invB)
		}
	}
}
