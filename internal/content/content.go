// Package content turns a list of articles into a populated node registry.
//
// The author becomes node 0 at the container center and articles are
// numbered from 1 in input order, placed on a ring around it. Outbound
// links become direct edges; the author is linked to every article shown on
// the home page. Links to unknown slugs are dropped.
package content

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
)

var (
	ErrEmptySlug     = errors.New("content: empty slug")
	ErrDuplicateSlug = errors.New("content: duplicate slug")
)

const AuthorID graph.NodeID = 0

type Article struct {
	Slug         string   `json:"slug" yaml:"slug" toml:"slug"`
	Title        string   `json:"title" yaml:"title" toml:"title"`
	Category     string   `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Importance   int      `json:"importance,omitempty" yaml:"importance,omitempty" toml:"importance,omitempty"`
	InboundCount uint     `json:"inbound_count,omitempty" yaml:"inbound_count,omitempty" toml:"inbound_count,omitempty"`
	Links        []string `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
	ShowOnHome   bool     `json:"show_on_home" yaml:"show_on_home" toml:"show_on_home"`
}

type Author struct {
	Name     string  `json:"name" yaml:"name" toml:"name"`
	ImageURL string  `json:"image_url,omitempty" yaml:"image_url,omitempty" toml:"image_url,omitempty"`
	Radius   float64 `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
}

type Options struct {
	// Seed drives the placement jitter; equal seeds give equal layouts.
	Seed int64
	// RingRadius defaults to a third of the smaller container side.
	RingRadius float64
	Jitter     float64
	Sizing     Sizing
}

func DefaultOptions() Options {
	return Options{Jitter: 10, Sizing: DefaultSizing()}
}

// Index maps node ids to article slugs and back.
type Index struct {
	bySlug map[string]graph.NodeID
	byID   map[graph.NodeID]string
}

func newIndex() *Index {
	return &Index{
		bySlug: make(map[string]graph.NodeID),
		byID:   make(map[graph.NodeID]string),
	}
}

func (ix *Index) Slug(id graph.NodeID) (string, bool) {
	s, ok := ix.byID[id]
	return s, ok
}

func (ix *Index) ID(slug string) (graph.NodeID, bool) {
	id, ok := ix.bySlug[slug]
	return id, ok
}

func (ix *Index) Len() int { return len(ix.byID) }

func (ix *Index) add(id graph.NodeID, slug string) {
	ix.bySlug[slug] = id
	ix.byID[id] = slug
}

// Build registers the author (if any) and every article, then resolves
// links into edges.
func Build(articles []Article, author *Author, bound dynamo.ContainerBound, opts Options) (*graph.Registry, *Index, error) {
	if opts.Sizing == (Sizing{}) {
		opts.Sizing = DefaultSizing()
	}
	ring := opts.RingRadius
	if ring <= 0 {
		ring = math.Min(bound.Width, bound.Height) / 3
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	center := bound.Center()

	reg := graph.NewRegistry()
	ix := newIndex()

	if author != nil {
		radius := author.Radius
		if radius <= 0 {
			radius = opts.Sizing.Author
		}
		content := graph.Author{Name: author.Name, ImageURL: author.ImageURL}
		if err := reg.AddNode(AuthorID, center, radius, content); err != nil {
			return nil, nil, err
		}
	}

	n := len(articles)
	for i, a := range articles {
		if a.Slug == "" {
			return nil, nil, fmt.Errorf("%w: article %d (%q)", ErrEmptySlug, i, a.Title)
		}
		if _, dup := ix.ID(a.Slug); dup {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, a.Slug)
		}

		id := graph.NodeID(i + 1)
		angle := 2 * math.Pi * float64(i) / float64(n)
		pos := dynamo.V(
			center.X+ring*math.Cos(angle)+(rng.Float64()*2-1)*opts.Jitter,
			center.Y+ring*math.Sin(angle)+(rng.Float64()*2-1)*opts.Jitter,
		)
		label := a.Title
		if label == "" {
			label = a.Slug
		}
		radius := opts.Sizing.Radius(a.Importance, a.InboundCount)
		if err := reg.AddNode(id, pos, radius, graph.Link{Text: label, URL: "/article/" + a.Slug}); err != nil {
			return nil, nil, err
		}
		reg.SetNodeImportance(id, a.Importance)
		reg.SetNodeInboundCount(id, a.InboundCount)
		reg.SetNodeCategory(id, a.Category)
		ix.add(id, a.Slug)
	}

	for _, a := range articles {
		from, _ := ix.ID(a.Slug)
		if author != nil && a.ShowOnHome {
			reg.AddEdge(AuthorID, from)
		}
		for _, target := range a.Links {
			to, ok := ix.ID(target)
			if !ok {
				continue
			}
			reg.AddEdgeKind(from, to, graph.EdgeDirect)
		}
	}

	return reg, ix, nil
}

// CountInbound counts links pointing at each known slug. Repeated links
// count every time.
func CountInbound(articles []Article) map[string]uint {
	known := make(map[string]bool, len(articles))
	for _, a := range articles {
		known[a.Slug] = true
	}
	counts := make(map[string]uint, len(articles))
	for _, a := range articles {
		for _, target := range a.Links {
			if known[target] {
				counts[target]++
			}
		}
	}
	return counts
}

// WithInboundCounts returns a copy of articles with InboundCount recomputed.
func WithInboundCounts(articles []Article) []Article {
	counts := CountInbound(articles)
	out := make([]Article, len(articles))
	for i, a := range articles {
		a.InboundCount = counts[a.Slug]
		out[i] = a
	}
	return out
}
