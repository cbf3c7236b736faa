package forces

import (
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
)

// Snapshot is the pre-step state every force reads. Positions and the
// center are in physics space. Slices are indexed by body.
type Snapshot struct {
	IDs      []graph.NodeID
	Pos      []dynamo.Vec2
	Vel      []dynamo.Vec2
	Radius   []float64
	Movable  []bool
	Category []string

	// Author is the index of the author body, or -1.
	Author int
	Center dynamo.Vec2
}

func (s *Snapshot) Len() int { return len(s.IDs) }

// Reset truncates every slice to zero length while keeping capacity.
func (s *Snapshot) Reset() {
	s.IDs = s.IDs[:0]
	s.Pos = s.Pos[:0]
	s.Vel = s.Vel[:0]
	s.Radius = s.Radius[:0]
	s.Movable = s.Movable[:0]
	s.Category = s.Category[:0]
	s.Author = -1
	s.Center = dynamo.Vec2{}
}

func (s *Snapshot) Append(id graph.NodeID, pos, vel dynamo.Vec2, radius float64, movable bool, category string) {
	s.IDs = append(s.IDs, id)
	s.Pos = append(s.Pos, pos)
	s.Vel = append(s.Vel, vel)
	s.Radius = append(s.Radius, radius)
	s.Movable = append(s.Movable, movable)
	s.Category = append(s.Category, category)
}
