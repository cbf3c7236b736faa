package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/sim"
)

var ErrNoCandidate = errors.New("optim: no candidate completed")

// Build makes a fresh stepper for one candidate.
type Build func(settings dynamo.ForceSettings) (*sim.Stepper, error)

// Objective scores a finished run; lower is better.
type Objective func(*sim.Result) float64

// Metric scores by a named metric. Negative values mean the metric never
// triggered (an unsettled layout) and score as +Inf.
func Metric(name string) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok || v < 0 || math.IsNaN(v) {
			return math.Inf(1)
		}
		return v
	}
}

// GridSearch tries every combination of the given force parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size is the number of candidates Search will run.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

type Best struct {
	Settings dynamo.ForceSettings
	Params   map[string]float64
	Value    float64
	Trials   int
}

func (g *GridSearch) Search(
	ctx context.Context,
	base dynamo.ForceSettings,
	build Build,
	steps int,
	vp dynamo.Viewport,
	score Objective,
) (*Best, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%w: %d parameters but %d ranges", dynamo.ErrInvalidConfig, len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if _, ok := base.GetParams()[name]; !ok {
			return nil, fmt.Errorf("%w: unknown force parameter %q", dynamo.ErrInvalidConfig, name)
		}
	}

	best := &Best{Value: math.Inf(1)}
	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), build, steps, vp, score, best)
	if err != nil {
		return nil, err
	}
	if best.Params == nil {
		return nil, ErrNoCandidate
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	settings dynamo.ForceSettings,
	current map[string]float64,
	build Build,
	steps int,
	vp dynamo.Viewport,
	score Objective,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		best.Trials++
		st, err := build(settings)
		if err != nil {
			return nil
		}
		result, err := st.Run(ctx, steps, vp)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		if len(result.Errors) > 0 {
			return nil
		}

		val := score(result)
		if best.Params == nil || val < best.Value {
			best.Value = val
			best.Settings = settings
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := settings
		if err := next.SetParam(paramName, val); err != nil {
			return err
		}
		params := make(map[string]float64, len(current)+1)
		for k, v := range current {
			params[k] = v
		}
		params[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, params, build, steps, vp, score, best); err != nil {
			return err
		}
	}
	return nil
}
