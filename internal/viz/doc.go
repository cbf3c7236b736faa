// Package viz is the terminal presenter for a layout session.
//
// The live view draws nodes and connection lines on a Braille [Canvas] and
// routes mouse input to the session as pointer events, so nodes can be
// dragged and clicked in the terminal. The viewport eases toward pan and
// zoom targets on a spring.
//
// # Key Bindings
//
//	Space - Pause/Resume layout
//	Arrows, hjkl - Pan
//	+/-   - Zoom around the centre (mouse wheel zooms at the cursor)
//	0     - Reset view
//	E     - Toggle connection lines
//	A     - Pin author
//	C     - Toggle category clustering
//	P     - Next force preset
//	T     - Cycle color themes
//	?     - Show help
package viz
