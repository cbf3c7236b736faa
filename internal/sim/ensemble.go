package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/graphsim/internal/dynamo"
)

// Factory builds an independent stepper for one ensemble member. Each
// member owns its own registry; nothing is shared between goroutines.
type Factory func(seed int64) (*Stepper, error)

// Ensemble runs several layouts from different initial placements in
// parallel so the calmest one can be kept.
type Ensemble struct {
	build     Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

type Member struct {
	Seed    int64
	Stepper *Stepper
	Result  *Result
}

func (e *Ensemble) Run(ctx context.Context, steps int, vp dynamo.Viewport) ([]Member, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("%w: ensemble size must be positive, got %d", dynamo.ErrInvalidConfig, e.numRuns)
	}

	members := make([]Member, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	for i := range members {
		g.Go(func() error {
			seed := e.seedStart + int64(i)
			st, err := e.build(seed)
			if err != nil {
				return fmt.Errorf("ensemble member %d: %w", i, err)
			}
			res, err := st.Run(ctx, steps, vp)
			if err != nil {
				return fmt.Errorf("ensemble member %d: %w", i, err)
			}
			members[i] = Member{Seed: seed, Stepper: st, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return members, nil
}

// Best returns the index of the member with the lowest final kinetic
// energy, skipping members that reported errors. It returns -1 if none
// qualify.
func Best(members []Member) int {
	best := -1
	bestEnergy := 0.0
	for i, m := range members {
		if m.Result == nil || len(m.Result.Errors) > 0 || len(m.Result.Energy) == 0 {
			continue
		}
		e := m.Result.Energy[len(m.Result.Energy)-1]
		if best < 0 || e < bestEnergy {
			best, bestEnergy = i, e
		}
	}
	return best
}
