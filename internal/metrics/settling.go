package metrics

import (
	"math"

	"github.com/san-kum/armsim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// SettlingStep reports the first step after which the largest joint error
// stays within threshold for the rest of the run, or -1 if it never settles.
type SettlingStep struct {
	threshold float64
	settledAt int
	samples   int
}

func NewSettlingStep(threshold float64) *SettlingStep {
	return &SettlingStep{
		threshold: threshold,
		settledAt: -1,
	}
}

func (s *SettlingStep) Name() string { return "settling_step" }

func (s *SettlingStep) Observe(info sim.StepInfo) {
	s.samples++

	// error remaining after this step's integration
	remaining := info.Desired.Sub(info.Snapshot.Angles).Slice()
	worst := math.Max(math.Abs(floats.Max(remaining)), math.Abs(floats.Min(remaining)))

	if worst > s.threshold {
		s.settledAt = -1
		return
	}
	if s.settledAt < 0 {
		s.settledAt = info.Step
	}
}

func (s *SettlingStep) Value() float64 {
	return float64(s.settledAt)
}

func (s *SettlingStep) Reset() {
	s.settledAt = -1
	s.samples = 0
}
