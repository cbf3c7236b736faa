package forces

import (
	"github.com/san-kum/graphsim/internal/dynamo"
)

// Force accumulates impulses into out, one entry per snapshot body. Forces
// never overwrite out and never read each other's output, so the order they
// run in does not matter.
type Force interface {
	Name() string
	Enabled(s dynamo.ForceSettings) bool
	Apply(snap *Snapshot, s dynamo.ForceSettings, dt float64, out []dynamo.Vec2)
}

// Set is the default field stack in application order.
func Set() []Force {
	return []Force{
		Centering{},
		Repulsion{},
		AuthorAttraction{},
		CategoryClustering{},
	}
}

// Accumulate zeroes out and runs every enabled force against snap.
func Accumulate(fs []Force, snap *Snapshot, s dynamo.ForceSettings, dt float64, out []dynamo.Vec2) {
	clear(out)
	for _, f := range fs {
		if f.Enabled(s) {
			f.Apply(snap, s, dt, out)
		}
	}
}

type Centering struct{}

func (Centering) Name() string                      { return "centering" }
func (Centering) Enabled(dynamo.ForceSettings) bool { return true }

func (Centering) Apply(snap *Snapshot, s dynamo.ForceSettings, dt float64, out []dynamo.Vec2) {
	for i := range snap.IDs {
		if !snap.Movable[i] {
			continue
		}
		f := snap.Center.Sub(snap.Pos[i]).Scale(s.CenterStrength).
			Sub(snap.Vel[i].Scale(s.CenterDamping))
		out[i] = out[i].AddScaled(f, dt)
	}
}

type Repulsion struct{}

func (Repulsion) Name() string                      { return "repulsion" }
func (Repulsion) Enabled(dynamo.ForceSettings) bool { return true }

// Apply pushes apart every pair closer than the sum of their radii plus
// RepulsionMinDistance. Coincident pairs (distance < 1) are skipped.
func (Repulsion) Apply(snap *Snapshot, s dynamo.ForceSettings, dt float64, out []dynamo.Vec2) {
	n := snap.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := snap.Pos[j].Sub(snap.Pos[i])
			dist := d.Len()
			if dist < 1 {
				continue
			}
			minDist := snap.Radius[i] + snap.Radius[j] + s.RepulsionMinDistance
			if dist >= minDist {
				continue
			}
			mag := s.RepulsionStrength * (minDist - dist) / minDist * dt
			push := d.Scale(mag / dist)
			out[i] = out[i].Sub(push)
			out[j] = out[j].Add(push)
		}
	}
}

// authorDeadZone is the radius around the author inside which attraction
// stops, so the closest nodes settle instead of orbiting.
const authorDeadZone = 50.0

type AuthorAttraction struct{}

func (AuthorAttraction) Name() string { return "author_attraction" }

func (AuthorAttraction) Enabled(s dynamo.ForceSettings) bool {
	return s.EnableAuthorAttraction
}

func (AuthorAttraction) Apply(snap *Snapshot, s dynamo.ForceSettings, dt float64, out []dynamo.Vec2) {
	if snap.Author < 0 || snap.Author >= snap.Len() {
		return
	}
	center := snap.Pos[snap.Author]
	for i := range snap.IDs {
		if i == snap.Author || !snap.Movable[i] {
			continue
		}
		d := center.Sub(snap.Pos[i])
		dist := d.Len()
		if dist < authorDeadZone {
			continue
		}
		dir := d.Scale(1 / dist)
		f := dir.Scale(s.AuthorAttractionStrength / dist).
			Sub(snap.Vel[i].Scale(s.AuthorAttractionDamping))
		out[i] = out[i].AddScaled(f, dt)
	}
}

// clusterSoftening keeps the pull finite for close pairs.
const clusterSoftening = 50.0

type CategoryClustering struct{}

func (CategoryClustering) Name() string { return "category_clustering" }

func (CategoryClustering) Enabled(s dynamo.ForceSettings) bool {
	return s.EnableCategoryClustering
}

func (CategoryClustering) Apply(snap *Snapshot, s dynamo.ForceSettings, dt float64, out []dynamo.Vec2) {
	n := snap.Len()
	for i := 0; i < n; i++ {
		if snap.Category[i] == "" || i == snap.Author {
			continue
		}
		for j := i + 1; j < n; j++ {
			if j == snap.Author || snap.Category[j] != snap.Category[i] {
				continue
			}
			d := snap.Pos[j].Sub(snap.Pos[i])
			dist := d.Len()
			if dist < 1 || dist > s.CategoryAttractionRange {
				continue
			}
			mag := s.CategoryAttractionStrength / (dist + clusterSoftening) * dt
			pull := d.Scale(mag / dist)
			out[i] = out[i].Add(pull)
			out[j] = out[j].Sub(pull)
		}
	}
}
