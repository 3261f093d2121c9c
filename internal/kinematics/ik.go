package kinematics

import "math"

// Solver is the analytic inverse kinematics for the arm built from the same links.
type Solver struct {
	links Links
}

func NewSolver(links Links) *Solver {
	return &Solver{links: links}
}

func (s *Solver) Links() Links { return s.links }

// Reachable reports whether target lies within the workspace disk.
func (s *Solver) Reachable(target Point) bool {
	return target.Norm() <= s.links.Reach()
}

// Solve returns joint angles placing the end effector at target, or an
// *UnreachableError when target is beyond the reach of the arm or not a
// finite point.
func (s *Solver) Solve(target Point) (Angles, error) {
	l1 := s.links.L1
	l23 := s.links.L2 + s.links.L3
	r := target.Norm()

	if reach := s.links.Reach(); !(r <= reach) {
		return Angles{}, &UnreachableError{Target: target, Distance: r, Reach: reach}
	}

	// clamp absorbs rounding exactly on the boundary
	cosA2 := (r*r - l1*l1 - l23*l23) / (2 * l1 * l23)
	cosA2 = math.Max(-1, math.Min(1, cosA2))
	a2 := math.Acos(cosA2)

	sinA2 := math.Sin(a2)
	a1 := math.Atan2(target.Y, target.X) - math.Atan2(l23*sinA2, l1+l23*cosA2)

	return Angles{a1, a2, 0}, nil
}
