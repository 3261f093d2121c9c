package metrics

import (
	"math"

	"github.com/san-kum/armsim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// TrackingError is the RMS joint error over every observed step.
type TrackingError struct {
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{}
}

func (e *TrackingError) Name() string { return "tracking_rms" }

func (e *TrackingError) Observe(info sim.StepInfo) {
	n := floats.Norm(info.Errors, 2)
	e.sumSq += n * n
	e.samples += len(info.Errors)
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.samples = 0
}

// PositionError is the end-effector distance to the target after the last observed step.
type PositionError struct {
	last    float64
	samples int
}

func NewPositionError() *PositionError {
	return &PositionError{}
}

func (e *PositionError) Name() string { return "position_error" }

func (e *PositionError) Observe(info sim.StepInfo) {
	e.last = info.Snapshot.EndEffector.Dist(info.Target)
	e.samples++
}

func (e *PositionError) Value() float64 {
	if e.samples == 0 {
		return math.NaN()
	}
	return e.last
}

func (e *PositionError) Reset() {
	e.last = 0
	e.samples = 0
}
