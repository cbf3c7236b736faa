package storage

import (
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/sim"
)

// Sample is one node position in screen space.
type Sample struct {
	Step int
	Time float64
	ID   graph.NodeID
	Pos  dynamo.Vec2
}

// Recorder is a sim.Observer that keeps every Every-th frame.
type Recorder struct {
	Every   int
	vp      dynamo.Viewport
	samples []Sample
}

func NewRecorder(every int, vp dynamo.Viewport) *Recorder {
	return &Recorder{Every: max(every, 1), vp: vp}
}

func (r *Recorder) OnStep(f *sim.Frame) {
	if f.Step%r.Every != 0 {
		return
	}
	for _, b := range f.Bodies {
		r.samples = append(r.samples, Sample{
			Step: f.Step,
			Time: f.Time,
			ID:   b.ID,
			Pos:  r.vp.PhysicsToScreen(b.Pos),
		})
	}
}

func (r *Recorder) Samples() []Sample {
	return r.samples
}
