package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/storage"
)

type Point struct{ X, Y float64 }

// Trajectory extracts the recorded path of one node in step order.
func Trajectory(samples []storage.Sample, id graph.NodeID) []Point {
	var pts []Point
	for _, s := range samples {
		if s.ID == id {
			pts = append(pts, Point{X: s.Pos.X, Y: s.Pos.Y})
		}
	}
	return pts
}

// PathLength is the total distance travelled along pts.
func PathLength(pts []Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	return total
}

// TrajectoryToASCII plots pts on a width×height grid. Screen y grows
// downward, so the first row is the smallest y. The final point is drawn
// as 'o'.
func TrajectoryToASCII(pts []Point, width, height int) string {
	if len(pts) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range pts {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := int((p.Y - minY) / rangeY * float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		if i == len(pts)-1 {
			canvas[row][col] = 'o'
		} else {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
