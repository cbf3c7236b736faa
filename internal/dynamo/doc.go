// Package dynamo provides the shared primitives of the layout engine.
//
// Every other package speaks in these types:
//
//   - [Vec2]: 2D vector used for positions, velocities and impulses
//   - [Viewport]: camera transform between screen pixels and simulation units
//   - [ContainerBound]: layout rectangle supplied by the presenter
//   - [ForceSettings]: tunable parameters of every force generator
//
// # Coordinate spaces
//
// Node positions held by the registry are in screen space. Bodies, radii and
// all force parameters live in simulation space. Conversion always goes
// through a [Viewport]:
//
//	vp := dynamo.DefaultViewport()
//	world := vp.ScreenToPhysics(dynamo.Vec2{X: 400, Y: 300})
//	screen := vp.PhysicsToScreen(world)
//
// A viewport's Scale must be positive. This is a caller precondition and is
// not checked.
package dynamo
