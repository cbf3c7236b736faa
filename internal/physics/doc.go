// Package physics is a small 2D rigid-body world for circular bodies.
//
// A [World] owns bodies, circle colliders and spring joints. Each call to
// [World.Step] advances it by one fixed time step:
//
//   - spring joints produce accelerations and an [Integrator] moves the
//     dynamic bodies
//   - linear damping is applied to every movable body
//   - a sweep-and-prune broad phase and a circle narrow phase find contacts
//   - contacts are resolved with positional correction and a restitution impulse
//
// Kinematic and pinned bodies are never moved by the world. They act as
// immovable obstacles and spring anchors; only the caller repositions them.
//
//	w := physics.NewWorld(integrators.NewSemiImplicitEuler())
//	h := w.AddBody(physics.Body{Pos: dynamo.V(0, 0), Collider: physics.Collider{Radius: 20}})
//	w.Step(1.0 / 60)
package physics
