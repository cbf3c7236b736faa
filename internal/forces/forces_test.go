package forces

import (
	"math"
	"testing"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
)

type body struct {
	pos      dynamo.Vec2
	vel      dynamo.Vec2
	radius   float64
	pinned   bool
	category string
}

func snapshotOf(center dynamo.Vec2, author int, bodies ...body) *Snapshot {
	s := &Snapshot{}
	s.Reset()
	for i, b := range bodies {
		s.Append(graph.NodeID(i), b.pos, b.vel, b.radius, !b.pinned, b.category)
	}
	s.Author = author
	s.Center = center
	return s
}

func zeroSettings() dynamo.ForceSettings {
	return dynamo.ForceSettings{}
}

const dt = 1.0 / 60

func approx(a, b dynamo.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestRepulsion(t *testing.T) {
	s := zeroSettings()
	s.RepulsionStrength = 1500
	s.RepulsionMinDistance = 20

	tests := []struct {
		name  string
		b     body
		wantA dynamo.Vec2
	}{
		{"overlapping", body{pos: dynamo.V(5, 0), radius: 10}, dynamo.V(-1500*35.0/40*dt, 0)},
		{"at threshold", body{pos: dynamo.V(40, 0), radius: 10}, dynamo.Vec2{}},
		{"coincident guard", body{pos: dynamo.V(0.5, 0), radius: 10}, dynamo.Vec2{}},
		{"far", body{pos: dynamo.V(0, 400), radius: 10}, dynamo.Vec2{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshotOf(dynamo.Vec2{}, -1, body{radius: 10}, tt.b)
			out := make([]dynamo.Vec2, 2)
			Repulsion{}.Apply(snap, s, dt, out)

			if !approx(out[0], tt.wantA) {
				t.Errorf("impulse on A = %v, want %v", out[0], tt.wantA)
			}
			if !approx(out[0].Add(out[1]), dynamo.Vec2{}) {
				t.Errorf("impulses not equal and opposite: %v %v", out[0], out[1])
			}
		})
	}
}

func TestCentering(t *testing.T) {
	s := zeroSettings()
	s.CenterStrength = 0.8
	s.CenterDamping = 0.5

	snap := snapshotOf(dynamo.V(100, 0), -1,
		body{pos: dynamo.V(0, 0), vel: dynamo.V(2, 0)},
		body{pos: dynamo.V(0, 0), pinned: true},
	)
	out := make([]dynamo.Vec2, 2)
	Centering{}.Apply(snap, s, dt, out)

	want := dynamo.V((0.8*100-0.5*2)*dt, 0)
	if !approx(out[0], want) {
		t.Errorf("impulse = %v, want %v", out[0], want)
	}
	if !out[1].IsZero() {
		t.Errorf("pinned body got impulse %v", out[1])
	}
}

func TestAuthorAttraction(t *testing.T) {
	s := zeroSettings()
	s.EnableAuthorAttraction = true
	s.AuthorAttractionStrength = 2000
	s.AuthorAttractionDamping = 0.2

	snap := snapshotOf(dynamo.Vec2{}, 0,
		body{pos: dynamo.V(0, 0)},
		body{pos: dynamo.V(100, 0)},
		body{pos: dynamo.V(30, 0)},
		body{pos: dynamo.V(0, 200), pinned: true},
	)
	out := make([]dynamo.Vec2, 4)
	AuthorAttraction{}.Apply(snap, s, dt, out)

	if !out[0].IsZero() {
		t.Errorf("author got impulse %v", out[0])
	}
	want := dynamo.V(-2000.0/100*dt, 0)
	if !approx(out[1], want) {
		t.Errorf("impulse = %v, want %v", out[1], want)
	}
	if !out[2].IsZero() {
		t.Errorf("node inside dead zone got %v", out[2])
	}
	if !out[3].IsZero() {
		t.Errorf("pinned node got %v", out[3])
	}

	noAuthor := snapshotOf(dynamo.Vec2{}, -1, body{pos: dynamo.V(100, 0)})
	out = make([]dynamo.Vec2, 1)
	AuthorAttraction{}.Apply(noAuthor, s, dt, out)
	if !out[0].IsZero() {
		t.Errorf("no author should be a no-op, got %v", out[0])
	}
}

func TestCategoryClustering(t *testing.T) {
	s := zeroSettings()
	s.EnableCategoryClustering = true
	s.CategoryAttractionStrength = 300
	s.CategoryAttractionRange = 300

	snap := snapshotOf(dynamo.Vec2{}, 3,
		body{pos: dynamo.V(0, 0), category: "go"},
		body{pos: dynamo.V(150, 0), category: "go"},
		body{pos: dynamo.V(0, 100), category: "rust"},
		body{pos: dynamo.V(10, 0), category: "go"},
		body{pos: dynamo.V(0, -50), category: ""},
		body{pos: dynamo.V(0, 400), category: "go"},
	)
	out := make([]dynamo.Vec2, snap.Len())
	CategoryClustering{}.Apply(snap, s, dt, out)

	pull := 300.0 / (150 + 50) * dt
	if !approx(out[0], dynamo.V(pull, 0)) {
		t.Errorf("impulse on 0 = %v, want (%v, 0)", out[0], pull)
	}
	if !approx(out[1], dynamo.V(-pull, 0)) {
		t.Errorf("impulse on 1 = %v, want (%v, 0)", out[1], -pull)
	}
	for _, i := range []int{2, 3, 4, 5} {
		if !out[i].IsZero() {
			t.Errorf("body %d got %v, want zero", i, out[i])
		}
	}
}

func TestAccumulate_DisabledClusteringContributesNothing(t *testing.T) {
	s := zeroSettings()
	s.CategoryAttractionStrength = 300
	s.CategoryAttractionRange = 300

	snap := snapshotOf(dynamo.Vec2{}, -1,
		body{pos: dynamo.V(0, 0), category: "go"},
		body{pos: dynamo.V(100, 0), category: "go"},
	)
	out := []dynamo.Vec2{dynamo.V(9, 9), dynamo.V(9, 9)}
	Accumulate(Set(), snap, s, dt, out)

	for i, v := range out {
		if !v.IsZero() {
			t.Errorf("body %d impulse = %v, want zero", i, v)
		}
	}
}

func TestAccumulate_OrderIndependent(t *testing.T) {
	s := dynamo.DefaultForceSettings()
	s.EnableCategoryClustering = true

	snap := snapshotOf(dynamo.V(50, 50), 0,
		body{pos: dynamo.V(0, 0), radius: 40},
		body{pos: dynamo.V(30, 10), vel: dynamo.V(1, -1), radius: 20, category: "a"},
		body{pos: dynamo.V(120, 80), radius: 20, category: "a"},
		body{pos: dynamo.V(-60, 30), radius: 15, category: "b"},
	)
	fs := Set()
	forward := make([]dynamo.Vec2, snap.Len())
	Accumulate(fs, snap, s, dt, forward)

	reversed := []Force{fs[3], fs[2], fs[1], fs[0]}
	backward := make([]dynamo.Vec2, snap.Len())
	Accumulate(reversed, snap, s, dt, backward)

	for i := range forward {
		if !approx(forward[i], backward[i]) {
			t.Errorf("body %d: %v vs %v", i, forward[i], backward[i])
		}
	}
}

func TestEnabled(t *testing.T) {
	s := dynamo.DefaultForceSettings()
	tests := []struct {
		f    Force
		want bool
	}{
		{Centering{}, true},
		{Repulsion{}, true},
		{AuthorAttraction{}, true},
		{CategoryClustering{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.f.Name(), func(t *testing.T) {
			if got := tt.f.Enabled(s); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
