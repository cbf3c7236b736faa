package integrators

import (
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/physics"
)

type RK4 struct {
	p0, v0         []dynamo.Vec2
	k1, k2, k3, k4 []dynamo.Vec2 // accelerations
	v1, v2, v3, v4 []dynamo.Vec2 // velocities
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	r.p0, r.v0 = grow(r.p0, n), grow(r.v0, n)
	r.k1, r.k2, r.k3, r.k4 = grow(r.k1, n), grow(r.k2, n), grow(r.k3, n), grow(r.k4, n)
	r.v1, r.v2, r.v3, r.v4 = grow(r.v1, n), grow(r.v2, n), grow(r.v3, n), grow(r.v4, n)
}

func (r *RK4) Integrate(bodies []*physics.Body, accel physics.AccelFunc, dt float64) {
	n := len(bodies)
	r.ensureScratch(n)
	for i, b := range bodies {
		r.p0[i], r.v0[i] = b.Pos, b.Vel
	}

	stage := func(vs, ks []dynamo.Vec2, prevV, prevK []dynamo.Vec2, h float64) {
		if prevV != nil {
			for i, b := range bodies {
				if !b.Movable() {
					continue
				}
				b.Pos = r.p0[i].AddScaled(prevV[i], h)
				b.Vel = r.v0[i].AddScaled(prevK[i], h)
			}
		}
		for i, b := range bodies {
			vs[i] = b.Vel
		}
		accel(bodies, ks)
	}

	stage(r.v1, r.k1, nil, nil, 0)
	stage(r.v2, r.k2, r.v1, r.k1, dt*0.5)
	stage(r.v3, r.k3, r.v2, r.k2, dt*0.5)
	stage(r.v4, r.k4, r.v3, r.k3, dt)

	dt6 := dt / 6.0
	for i, b := range bodies {
		if !b.Movable() {
			b.Pos, b.Vel = r.p0[i], r.v0[i]
			continue
		}
		dp := r.v1[i].Add(r.v2[i].Scale(2)).Add(r.v3[i].Scale(2)).Add(r.v4[i])
		dv := r.k1[i].Add(r.k2[i].Scale(2)).Add(r.k3[i].Scale(2)).Add(r.k4[i])
		b.Pos = r.p0[i].AddScaled(dp, dt6)
		b.Vel = r.v0[i].AddScaled(dv, dt6)
	}
}
