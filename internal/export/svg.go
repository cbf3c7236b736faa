package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/graphsim/internal/analysis"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/storage"
)

var palette = []string{"#00ccff", "#ff00ff", "#ffcc00", "#00ff88", "#ff8800", "#8888ff"}

type Options struct {
	// Scale converts stored radii (simulation units) into pixels.
	Scale      float64
	Labels     bool
	Edges      bool
	Background string
}

func DefaultOptions() Options {
	return Options{Scale: 1, Labels: true, Edges: true, Background: "#0a0a0a"}
}

// LayoutToSVG draws the final node positions of a run. The view box is the
// run's container, or the node extents when no container was recorded.
func LayoutToSVG(meta storage.RunMetadata, opts Options) string {
	if len(meta.Nodes) == 0 {
		return ""
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	x, y, w, h := meta.Container.X, meta.Container.Y, meta.Container.Width, meta.Container.Height
	if w <= 0 || h <= 0 {
		x, y, w, h = extents(meta.Nodes, opts.Scale)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.1f %.1f %.1f %.1f">
`, w, h, x, y, w, h)
	if opts.Background != "" {
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, w, h, opts.Background)
	}

	pos := make(map[graph.NodeID]storage.NodeRecord, len(meta.Nodes))
	for _, n := range meta.Nodes {
		pos[n.ID] = n
	}

	if opts.Edges && len(meta.Edges) > 0 {
		sb.WriteString(`<g stroke="#444466" stroke-width="1">` + "\n")
		for _, e := range meta.Edges {
			a, okA := pos[e.A]
			b, okB := pos[e.B]
			if !okA || !okB {
				continue
			}
			dash := ""
			if e.Kind == graph.EdgeRelated.String() {
				dash = ` stroke-dasharray="4 3"`
			}
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"%s/>
`, a.X, a.Y, b.X, b.Y, dash)
		}
		sb.WriteString("</g>\n")
	}

	colors := map[string]string{}
	sb.WriteString("<g>\n")
	for _, n := range meta.Nodes {
		fill := "#ffffff"
		if n.Kind != "author" {
			c, ok := colors[n.Category]
			if !ok {
				c = palette[len(colors)%len(palette)]
				colors[n.Category] = c
			}
			fill = c
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.8"/>
`, n.X, n.Y, n.Radius*opts.Scale, fill)
		if opts.Labels && n.Label != "" {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#cccccc" font-size="10" text-anchor="middle">%s</text>
`, n.X, n.Y+n.Radius*opts.Scale+12, html.EscapeString(n.Label))
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func extents(nodes []storage.NodeRecord, scale float64) (x, y, w, h float64) {
	const pad = 20
	minX, minY := nodes[0].X, nodes[0].Y
	maxX, maxY := minX, minY
	for _, n := range nodes {
		r := n.Radius * scale
		minX, maxX = min(minX, n.X-r), max(maxX, n.X+r)
		minY, maxY = min(minY, n.Y-r), max(maxY, n.Y+r)
	}
	return minX - pad, minY - pad, maxX - minX + 2*pad, maxY - minY + 2*pad
}

// TrajectoryToSVG draws one node's path in screen orientation.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
