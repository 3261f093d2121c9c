package kinematics

import (
	"fmt"
	"math"
)

// Links are the three link lengths, base to tip.
type Links struct {
	L1 float64 `json:"l1" yaml:"l1"`
	L2 float64 `json:"l2" yaml:"l2"`
	L3 float64 `json:"l3" yaml:"l3"`
}

// DefaultLinks matches the reference arm used throughout the tests and presets.
var DefaultLinks = Links{L1: 1.0, L2: 0.8, L3: 0.6}

func (l Links) Validate() error {
	for i, v := range [3]float64{l.L1, l.L2, l.L3} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: link %d has length %g", ErrInvalidLinks, i+1, v)
		}
	}
	return nil
}

// Reach is the radius of the workspace disk centred at the base.
func (l Links) Reach() float64 {
	return l.L1 + (l.L2 + l.L3)
}

// Angles is a joint-angle vector in radians.
type Angles [3]float64

// Sub returns a - b element-wise.
func (a Angles) Sub(b Angles) Angles {
	return Angles{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a Angles) Slice() []float64 {
	return []float64{a[0], a[1], a[2]}
}

func (a Angles) IsValid() bool {
	for _, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// IsValid reports whether both coordinates are finite.
func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y)
}
