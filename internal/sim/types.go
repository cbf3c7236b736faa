package sim

import (
	"log/slog"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/integrators"
)

const (
	DefaultDt            = 1.0 / 60
	DefaultLinearDamping = 3.0
	DefaultRestitution   = 0.7
)

type Config struct {
	Dt            float64
	LinearDamping float64
	Restitution   float64
	Integrator    string
	Logger        *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Dt:            DefaultDt,
		LinearDamping: DefaultLinearDamping,
		Restitution:   DefaultRestitution,
		Integrator:    integrators.Default,
	}
}

func (c Config) withDefaults() Config {
	if c.Dt <= 0 {
		c.Dt = DefaultDt
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// BodyState is one body as seen after a step. Pos is in physics space.
type BodyState struct {
	ID        graph.NodeID
	Pos       dynamo.Vec2
	Vel       dynamo.Vec2
	Radius    float64
	Kinematic bool
	Pinned    bool
}

// Frame describes the world after a step. Its Bodies slice is reused by the
// next step; observers that keep it must copy.
type Frame struct {
	Step          int
	Time          float64
	KineticEnergy float64
	Contacts      int
	Bodies        []BodyState
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Frame)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnStep(f *Frame) { fn(f) }

type Result struct {
	StepsTaken int
	Time       float64
	Energy     []float64
	Metrics    map[string]float64
	Errors     []error
}
