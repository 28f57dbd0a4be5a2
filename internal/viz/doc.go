// Package viz renders traced rays in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [Project]: flattens ray positions onto a coordinate plane
//   - [Camera]: rotating perspective view of the spatial trajectory
//   - [Model]: Bubble Tea viewer that pulls one ray per tick from a trace
//
// # Key Bindings
//
//	Space - Pause/Resume the trace
//	R     - Restart with the initial parameters
//	Tab   - Select mass or charge
//	↑/↓   - Change the selected parameter and restart
//	P     - Cycle projection plane
//	V     - Toggle the 3D view (X/Y/Z rotate, +/- zoom)
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
