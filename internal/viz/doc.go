// Package viz replays arm trajectories in the terminal.
//
// A [Canvas] is a Braille pixel grid (2x4 dots per cell) onto which the arm,
// its end-effector path and the target are drawn in world coordinates. A
// [Model] is a Bubble Tea program that steps through a recorded trajectory.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	[ ]   - Step one frame back/forward (pauses)
//	R     - Restart from the first frame
//	Q     - Quit
package viz
