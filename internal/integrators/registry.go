package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/physics"
)

const Default = "euler"

var registry = map[string]func() physics.Integrator{
	"euler":  func() physics.Integrator { return NewSemiImplicitEuler() },
	"verlet": func() physics.Integrator { return NewVerlet() },
	"rk4":    func() physics.Integrator { return NewRK4() },
}

// New returns a fresh integrator by name. An empty name selects Default.
func New(name string) (physics.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
