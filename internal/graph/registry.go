package graph

import (
	"errors"
	"fmt"
	"iter"

	"github.com/san-kum/graphsim/internal/dynamo"
)

var ErrDuplicateID = errors.New("graph: duplicate node id")

type NodeID uint32

type DuplicateIDError struct {
	ID NodeID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("graph: node %d already exists", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

type Node struct {
	ID           NodeID
	Position     dynamo.Vec2 // screen space
	Radius       float64     // simulation units
	Content      Content
	Importance   int // 0 = unrated, otherwise 1..5
	InboundCount uint
	Category     string
	Author       bool
}

type EdgeKind uint8

const (
	EdgeRelated EdgeKind = iota
	EdgeDirect
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeDirect:
		return "direct"
	default:
		return "related"
	}
}

type Edge struct {
	A, B NodeID
	Kind EdgeKind
}

// Touches reports whether id is one of the edge endpoints.
func (e Edge) Touches(id NodeID) bool {
	return e.A == id || e.B == id
}

// Registry stores nodes and undirected edges. Iteration follows insertion
// order. It is not safe for concurrent use.
type Registry struct {
	nodes map[NodeID]*Node
	order []NodeID
	edges []Edge
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[NodeID]*Node)}
}

func (r *Registry) AddNode(id NodeID, pos dynamo.Vec2, radius float64, content Content) error {
	if _, ok := r.nodes[id]; ok {
		return &DuplicateIDError{ID: id}
	}
	_, author := content.(Author)
	r.nodes[id] = &Node{
		ID:       id,
		Position: pos,
		Radius:   radius,
		Content:  content,
		Author:   author,
	}
	r.order = append(r.order, id)
	return nil
}

// AddEdge records a related edge. Endpoints are not validated; edges to
// missing nodes are dropped later when springs are built.
func (r *Registry) AddEdge(a, b NodeID) {
	r.AddEdgeKind(a, b, EdgeRelated)
}

func (r *Registry) AddEdgeKind(a, b NodeID, kind EdgeKind) {
	r.edges = append(r.edges, Edge{A: a, B: b, Kind: kind})
}

func (r *Registry) SetNodeImportance(id NodeID, importance int) {
	if n, ok := r.nodes[id]; ok {
		n.Importance = importance
	}
}

func (r *Registry) SetNodeInboundCount(id NodeID, count uint) {
	if n, ok := r.nodes[id]; ok {
		n.InboundCount = count
	}
}

func (r *Registry) UpdateNodeRadius(id NodeID, radius float64) {
	if n, ok := r.nodes[id]; ok {
		n.Radius = radius
	}
}

func (r *Registry) SetNodeCategory(id NodeID, category string) {
	if n, ok := r.nodes[id]; ok {
		n.Category = category
	}
}

func (r *Registry) SetPosition(id NodeID, pos dynamo.Vec2) {
	if n, ok := r.nodes[id]; ok {
		n.Position = pos
	}
}

func (r *Registry) Node(id NodeID) (Node, bool) {
	n, ok := r.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (r *Registry) Has(id NodeID) bool {
	_, ok := r.nodes[id]
	return ok
}

// AuthorID returns the first author node in insertion order.
func (r *Registry) AuthorID() (NodeID, bool) {
	for _, id := range r.order {
		if r.nodes[id].Author {
			return id, true
		}
	}
	return 0, false
}

func (r *Registry) Len() int {
	return len(r.order)
}

// RemoveNode deletes the node and every edge touching it.
func (r *Registry) RemoveNode(id NodeID) {
	if _, ok := r.nodes[id]; !ok {
		return
	}
	delete(r.nodes, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	kept := r.edges[:0]
	for _, e := range r.edges {
		if !e.Touches(id) {
			kept = append(kept, e)
		}
	}
	r.edges = kept
}

func (r *Registry) NodesByCategory(category string) []NodeID {
	var ids []NodeID
	for _, id := range r.order {
		if r.nodes[id].Category == category {
			ids = append(ids, id)
		}
	}
	return ids
}

// All yields a copy of every node. Each iteration reads the registry as it
// is at that moment.
func (r *Registry) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, id := range r.order {
			n, ok := r.nodes[id]
			if !ok {
				continue
			}
			if !yield(*n) {
				return
			}
		}
	}
}

func (r *Registry) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range r.edges {
			if !yield(e) {
				return
			}
		}
	}
}

func (r *Registry) IDs() []NodeID {
	return append([]NodeID(nil), r.order...)
}

// NodeAt returns the node whose on-screen disc contains p. When discs
// overlap the most recently inserted node wins, matching paint order.
func (r *Registry) NodeAt(p dynamo.Vec2, scale float64) (NodeID, bool) {
	for i := len(r.order) - 1; i >= 0; i-- {
		n := r.nodes[r.order[i]]
		if n.Position.Dist(p) <= n.Radius*scale {
			return n.ID, true
		}
	}
	return 0, false
}
