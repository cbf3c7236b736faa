// Package analysis inspects recorded layouts after the fact.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation in an energy trace
//   - [SettleStep] and [DecayRate]: how quickly a layout comes to rest
//   - [Trajectory] and [TrajectoryToASCII]: the path one node took
//
// A layout that still rings after many steps usually has springs that are
// too stiff for the damping:
//
//	freq := analysis.DominantFrequency(energy, dt)
//	if freq > 0 && analysis.DecayRate(energy, dt) < 0.1 {
//	    // raise link_damping or lower link_strength
//	}
package analysis
