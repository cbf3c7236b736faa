package dynamo

import (
	"fmt"
	"math"
)

type Vec2 struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2                  { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2                  { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2             { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64               { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64                     { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64              { return v.Sub(o).Len() }
func (v Vec2) IsZero() bool                     { return v.X == 0 && v.Y == 0 }
func (v Vec2) String() string                   { return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y) }
func (v Vec2) AddScaled(o Vec2, f float64) Vec2 { return Vec2{v.X + o.X*f, v.Y + o.Y*f} }

// IsValid reports whether both components are finite.
func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Viewport maps simulation units to screen pixels: screen = world*Scale + Offset.
type Viewport struct {
	Offset Vec2    `json:"offset" yaml:"offset" toml:"offset"`
	Scale  float64 `json:"scale" yaml:"scale" toml:"scale"`
}

func DefaultViewport() Viewport {
	return Viewport{Scale: 1.0}
}

func (vp Viewport) ScreenToPhysics(p Vec2) Vec2 {
	return Vec2{
		X: (p.X - vp.Offset.X) / vp.Scale,
		Y: (p.Y - vp.Offset.Y) / vp.Scale,
	}
}

func (vp Viewport) PhysicsToScreen(p Vec2) Vec2 {
	return Vec2{
		X: p.X*vp.Scale + vp.Offset.X,
		Y: p.Y*vp.Scale + vp.Offset.Y,
	}
}

// Pan shifts the camera by a screen-space delta.
func (vp Viewport) Pan(delta Vec2) Viewport {
	vp.Offset = vp.Offset.Add(delta)
	return vp
}

// ZoomAt multiplies the scale by factor while keeping the simulation point
// under the screen anchor in place.
func (vp Viewport) ZoomAt(anchor Vec2, factor float64) Viewport {
	world := vp.ScreenToPhysics(anchor)
	vp.Scale *= factor
	vp.Offset = anchor.Sub(world.Scale(vp.Scale))
	return vp
}

// ContainerBound is the layout rectangle in screen space. The edge fields
// mirror the rectangle and are kept for presenters that report them directly.
type ContainerBound struct {
	X      float64 `json:"x" yaml:"x" toml:"x"`
	Y      float64 `json:"y" yaml:"y" toml:"y"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
	Top    float64 `json:"top" yaml:"top" toml:"top"`
	Left   float64 `json:"left" yaml:"left" toml:"left"`
	Bottom float64 `json:"bottom" yaml:"bottom" toml:"bottom"`
	Right  float64 `json:"right" yaml:"right" toml:"right"`
}

func NewContainerBound(x, y, width, height float64) ContainerBound {
	return ContainerBound{
		X: x, Y: y, Width: width, Height: height,
		Top: y, Left: x, Bottom: y + height, Right: x + width,
	}
}

func (b ContainerBound) Center() Vec2 {
	return Vec2{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

func (b ContainerBound) Contains(p Vec2) bool {
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}
