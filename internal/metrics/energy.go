package metrics

import (
	"github.com/san-kum/graphsim/internal/sim"
)

// Energy is the mean kinetic energy of the layout over all observed steps.
type Energy struct {
	name    string
	total   float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *sim.Frame) {
	e.total += f.KineticEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// Settle records the first step after which kinetic energy stayed below
// threshold for window consecutive steps. Value is -1 until then.
type Settle struct {
	name      string
	threshold float64
	window    int
	run       int
	settledAt int
}

func NewSettle(threshold float64, window int) *Settle {
	return &Settle{
		name:      "settle_step",
		threshold: threshold,
		window:    max(window, 1),
		settledAt: -1,
	}
}

func (s *Settle) Name() string { return s.name }

func (s *Settle) Observe(f *sim.Frame) {
	if s.settledAt >= 0 {
		return
	}
	if f.KineticEnergy >= s.threshold {
		s.run = 0
		return
	}
	s.run++
	if s.run >= s.window {
		s.settledAt = f.Step - s.window + 1
	}
}

func (s *Settle) Value() float64 {
	return float64(s.settledAt)
}

func (s *Settle) Settled() bool { return s.settledAt >= 0 }

func (s *Settle) Reset() {
	s.run = 0
	s.settledAt = -1
}
