package graph

import (
	"errors"
	"slices"
	"testing"

	"github.com/san-kum/graphsim/internal/dynamo"
)

func TestRegistry_AddNode(t *testing.T) {
	r := NewRegistry()
	if err := r.AddNode(1, dynamo.V(10, 20), 30, Text{Body: "a"}); err != nil {
		t.Fatalf("AddNode() = %v", err)
	}

	err := r.AddNode(1, dynamo.V(0, 0), 5, Text{Body: "b"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("AddNode() duplicate = %v, want ErrDuplicateID", err)
	}
	var dup *DuplicateIDError
	if !errors.As(err, &dup) || dup.ID != 1 {
		t.Errorf("errors.As() = %v, want id 1", dup)
	}

	n, ok := r.Node(1)
	if !ok || n.Radius != 30 || n.Position != dynamo.V(10, 20) {
		t.Errorf("Node(1) = %+v, %v", n, ok)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_AuthorFlag(t *testing.T) {
	r := NewRegistry()
	_ = r.AddNode(3, dynamo.Vec2{}, 10, Link{Text: "x", URL: "/x"})
	_ = r.AddNode(0, dynamo.Vec2{}, 60, Author{Name: "me"})

	id, ok := r.AuthorID()
	if !ok || id != 0 {
		t.Errorf("AuthorID() = %d, %v, want 0, true", id, ok)
	}
	n, _ := r.Node(0)
	if !n.Author {
		t.Error("author flag not set")
	}

	empty := NewRegistry()
	if _, ok := empty.AuthorID(); ok {
		t.Error("AuthorID() on empty registry should be false")
	}
}

func TestRegistry_SettersIgnoreUnknown(t *testing.T) {
	r := NewRegistry()
	_ = r.AddNode(1, dynamo.Vec2{}, 10, Text{})

	r.SetNodeImportance(99, 5)
	r.SetNodeInboundCount(99, 7)
	r.UpdateNodeRadius(99, 40)
	r.SetNodeCategory(99, "go")
	r.SetPosition(99, dynamo.V(1, 1))
	r.RemoveNode(99)

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	r.SetNodeImportance(1, 4)
	r.SetNodeInboundCount(1, 2)
	r.UpdateNodeRadius(1, 25)
	r.SetNodeCategory(1, "go")
	r.SetPosition(1, dynamo.V(5, 6))

	n, _ := r.Node(1)
	want := Node{ID: 1, Position: dynamo.V(5, 6), Radius: 25, Content: Text{}, Importance: 4, InboundCount: 2, Category: "go"}
	if n != want {
		t.Errorf("Node(1) = %+v, want %+v", n, want)
	}
}

func TestRegistry_NodesByCategory(t *testing.T) {
	r := NewRegistry()
	cats := []string{"go", "rust", "go", "", "go"}
	for i, c := range cats {
		id := NodeID(i + 1)
		_ = r.AddNode(id, dynamo.Vec2{}, 10, Text{})
		r.SetNodeCategory(id, c)
	}

	tests := []struct {
		category string
		want     []NodeID
	}{
		{"go", []NodeID{1, 3, 5}},
		{"rust", []NodeID{2}},
		{"", []NodeID{4}},
		{"zig", nil},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := r.NodesByCategory(tt.category)
			if !slices.Equal(got, tt.want) {
				t.Errorf("NodesByCategory(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestRegistry_AllIsLiveAndRestartable(t *testing.T) {
	r := NewRegistry()
	_ = r.AddNode(2, dynamo.Vec2{}, 10, Text{})
	_ = r.AddNode(1, dynamo.Vec2{}, 10, Text{})

	seq := r.All()
	var first []NodeID
	for n := range seq {
		first = append(first, n.ID)
	}
	if !slices.Equal(first, []NodeID{2, 1}) {
		t.Errorf("first pass = %v, want [2 1]", first)
	}

	r.SetPosition(1, dynamo.V(7, 7))
	_ = r.AddNode(9, dynamo.Vec2{}, 10, Text{})

	var second []Node
	for n := range seq {
		second = append(second, n)
	}
	if len(second) != 3 || second[1].Position != dynamo.V(7, 7) {
		t.Errorf("second pass not live: %+v", second)
	}

	for range r.All() {
		break
	}
}

func TestRegistry_RemoveNodeDropsEdges(t *testing.T) {
	r := NewRegistry()
	for id := NodeID(1); id <= 3; id++ {
		_ = r.AddNode(id, dynamo.Vec2{}, 10, Text{})
	}
	r.AddEdge(1, 2)
	r.AddEdgeKind(2, 3, EdgeDirect)
	r.AddEdge(1, 3)

	r.RemoveNode(2)

	var edges []Edge
	for e := range r.Edges() {
		edges = append(edges, e)
	}
	if len(edges) != 1 || edges[0] != (Edge{A: 1, B: 3, Kind: EdgeRelated}) {
		t.Errorf("Edges() = %v, want [{1 3 related}]", edges)
	}
	if r.Has(2) {
		t.Error("node 2 still present")
	}
	if !slices.Equal(r.IDs(), []NodeID{1, 3}) {
		t.Errorf("IDs() = %v", r.IDs())
	}
}

func TestRegistry_NodeAt(t *testing.T) {
	r := NewRegistry()
	_ = r.AddNode(1, dynamo.V(100, 100), 20, Text{})
	_ = r.AddNode(2, dynamo.V(110, 100), 20, Text{})

	tests := []struct {
		name   string
		p      dynamo.Vec2
		scale  float64
		want   NodeID
		wantOK bool
	}{
		{"overlap picks topmost", dynamo.V(105, 100), 1, 2, true},
		{"only first", dynamo.V(82, 100), 1, 1, true},
		{"miss", dynamo.V(300, 300), 1, 0, false},
		{"scaled radius", dynamo.V(150, 100), 2, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.NodeAt(tt.p, tt.scale)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NodeAt(%v) = %d, %v, want %d, %v", tt.p, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestContentKind(t *testing.T) {
	tests := []struct {
		c    Content
		want string
	}{
		{Text{Body: "hi"}, "text"},
		{Image{URL: "a.png"}, "image"},
		{Link{Text: "t", URL: "/t"}, "link"},
		{Author{Name: "n"}, "author"},
		{nil, "none"},
	}
	for _, tt := range tests {
		if got := ContentKind(tt.c); got != tt.want {
			t.Errorf("ContentKind(%T) = %q, want %q", tt.c, got, tt.want)
		}
	}
	if Label(Link{Text: "t"}) != "t" || Label(Author{Name: "n"}) != "n" {
		t.Error("Label() wrong")
	}
}
