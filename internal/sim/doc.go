// Package sim runs the closed-loop position control of the arm.
//
// A [Simulator] solves inverse kinematics once per run, then for a fixed
// number of steps feeds joint errors to the controller bank, integrates the
// commanded joint velocities with explicit Euler and records a [Snapshot] of
// the pose and end-effector position. The arm is massless: controller output
// is angular velocity, applied instantly.
//
// An unreachable target aborts the run before any step, leaving the pose and
// the trajectory untouched. Otherwise every requested step runs unless the
// early-exit tolerance in [Config] is set.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Observers run on the stepping
// goroutine and may retune the bank between steps.
package sim
