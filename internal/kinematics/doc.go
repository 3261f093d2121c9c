// Package kinematics maps between joint angles and Cartesian positions for a
// planar arm with three revolute joints.
//
// [Arm] is the forward model and [Solver] the inverse one. Both are built from
// the same [Links] value; mixing link sets gives inconsistent results.
//
// The solver folds the second and third links into one effective link of
// length l2+l3 and always returns a zero third angle, so only end-effector
// position is controlled, not orientation. Of the two elbow configurations it
// returns the one from the non-negative arccosine.
package kinematics
