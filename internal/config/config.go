package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/graphsim/internal/content"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/integrators"
	"github.com/san-kum/graphsim/internal/sim"
)

const (
	DefaultSteps  = 600
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Scene is everything needed to build and run a layout. Files ending in
// .toml are read as TOML, anything else as YAML.
type Scene struct {
	Dt        float64              `yaml:"dt" toml:"dt"`
	Steps     int                  `yaml:"steps" toml:"steps"`
	Seed      int64                `yaml:"seed" toml:"seed"`
	Viewport  dynamo.Viewport      `yaml:"viewport" toml:"viewport"`
	Container Container            `yaml:"container" toml:"container"`
	Forces    dynamo.ForceSettings `yaml:"forces" toml:"forces"`
	Body      BodyConfig           `yaml:"body" toml:"body"`
	Sizing    content.Sizing       `yaml:"sizing" toml:"sizing"`
	Author    *content.Author      `yaml:"author,omitempty" toml:"author,omitempty"`
	Articles  []content.Article    `yaml:"articles" toml:"articles"`
}

type Container struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

func (c Container) Bound() dynamo.ContainerBound {
	return dynamo.NewContainerBound(c.X, c.Y, c.Width, c.Height)
}

type BodyConfig struct {
	LinearDamping float64 `yaml:"linear_damping" toml:"linear_damping"`
	Restitution   float64 `yaml:"restitution" toml:"restitution"`
	Integrator    string  `yaml:"integrator" toml:"integrator"`
}

func DefaultScene() *Scene {
	return &Scene{
		Dt:        sim.DefaultDt,
		Steps:     DefaultSteps,
		Viewport:  dynamo.DefaultViewport(),
		Container: Container{Width: DefaultWidth, Height: DefaultHeight},
		Forces:    dynamo.DefaultForceSettings(),
		Body: BodyConfig{
			LinearDamping: sim.DefaultLinearDamping,
			Restitution:   sim.DefaultRestitution,
			Integrator:    integrators.Default,
		},
		Sizing: content.DefaultSizing(),
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a scene on top of DefaultScene and validates it.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := DefaultScene()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), sc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, sc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return sc, nil
}

func Save(path string, sc *Scene) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(sc); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(sc)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (sc *Scene) Validate() error {
	if sc.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidConfig, sc.Dt)
	}
	if sc.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", dynamo.ErrInvalidConfig, sc.Steps)
	}
	if sc.Viewport.Scale <= 0 {
		return fmt.Errorf("%w: viewport scale must be positive, got %g", dynamo.ErrInvalidConfig, sc.Viewport.Scale)
	}
	if sc.Container.Width <= 0 || sc.Container.Height <= 0 {
		return fmt.Errorf("%w: container must have a positive size", dynamo.ErrInvalidConfig)
	}
	if sc.Body.LinearDamping < 0 {
		return fmt.Errorf("%w: linear_damping must be non-negative", dynamo.ErrInvalidConfig)
	}
	if sc.Body.Restitution < 0 || sc.Body.Restitution > 1 {
		return fmt.Errorf("%w: restitution must be within [0, 1], got %g", dynamo.ErrInvalidConfig, sc.Body.Restitution)
	}
	if _, err := integrators.New(sc.Body.Integrator); err != nil {
		return err
	}
	return sc.Forces.Validate()
}

// SimConfig derives the stepper configuration.
func (sc *Scene) SimConfig(logger *slog.Logger) sim.Config {
	return sim.Config{
		Dt:            sc.Dt,
		LinearDamping: sc.Body.LinearDamping,
		Restitution:   sc.Body.Restitution,
		Integrator:    sc.Body.Integrator,
		Logger:        logger,
	}
}

func (sc *Scene) ContentOptions() content.Options {
	opts := content.DefaultOptions()
	opts.Seed = sc.Seed
	opts.Sizing = sc.Sizing
	return opts
}
