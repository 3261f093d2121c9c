package kinematics

import "math"

// Arm is the forward kinematics model for a fixed set of links.
type Arm struct {
	links Links
}

func NewArm(links Links) *Arm {
	return &Arm{links: links}
}

func (a *Arm) Links() Links { return a.links }

func (a *Arm) Reach() float64 { return a.links.Reach() }

// EndEffector returns the tip position for the given joint angles.
func (a *Arm) EndEffector(q Angles) Point {
	return a.JointPositions(q)[3]
}

// JointPositions returns base, joint 1, joint 2 and end effector, in that order.
// Any angle is valid; joints rotate fully.
func (a *Arm) JointPositions(q Angles) [4]Point {
	var pts [4]Point
	phi := 0.0
	for i, l := range [3]float64{a.links.L1, a.links.L2, a.links.L3} {
		phi += q[i]
		sin, cos := math.Sincos(phi)
		pts[i+1] = Point{
			X: pts[i].X + l*cos,
			Y: pts[i].Y + l*sin,
		}
	}
	return pts
}
