package sim

import (
	"github.com/san-kum/armsim/internal/kinematics"
)

// Snapshot is the pose after one completed step.
type Snapshot struct {
	Step        int               `json:"step"`
	Time        float64           `json:"time"`
	Angles      kinematics.Angles `json:"angles"`
	EndEffector kinematics.Point  `json:"end_effector"`
}

// Trajectory is the append-only log of snapshots, one per step.
type Trajectory []Snapshot

func (t Trajectory) Clone() Trajectory {
	if t == nil {
		return nil
	}
	c := make(Trajectory, len(t))
	copy(c, t)
	return c
}

func (t Trajectory) Last() (Snapshot, bool) {
	if len(t) == 0 {
		return Snapshot{}, false
	}
	return t[len(t)-1], true
}

// EndEffectorPath returns the end-effector positions in step order.
func (t Trajectory) EndEffectorPath() []kinematics.Point {
	path := make([]kinematics.Point, len(t))
	for i, s := range t {
		path[i] = s.EndEffector
	}
	return path
}

// JointSeries returns the angle of joint j over time.
func (t Trajectory) JointSeries(j int) []float64 {
	series := make([]float64, len(t))
	for i, s := range t {
		series[i] = s.Angles[j]
	}
	return series
}

func (t Trajectory) Times() []float64 {
	times := make([]float64, len(t))
	for i, s := range t {
		times[i] = s.Time
	}
	return times
}

type Config struct {
	Steps int
	Dt    float64
	// Tolerance enables early exit once every joint error is below it. Zero runs all steps.
	Tolerance float64
}

func DefaultConfig() Config {
	return Config{
		Steps: 100,
		Dt:    0.05,
	}
}

// StepInfo is handed to metrics and observers after each step.
type StepInfo struct {
	Step     int
	Time     float64
	Target   kinematics.Point
	Desired  kinematics.Angles
	Errors   []float64
	Outputs  []float64
	Snapshot Snapshot
}

type Metric interface {
	Name() string
	Observe(info StepInfo)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(info StepInfo)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(StepInfo)

func (f ObserverFunc) OnStep(info StepInfo) { f(info) }

type Result struct {
	Target     kinematics.Point
	Desired    kinematics.Angles
	Trajectory Trajectory
	StepsTaken int
	Converged  bool
	Metrics    map[string]float64
}

type Phase int

const (
	Idle Phase = iota
	Stepping
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Stepping:
		return "stepping"
	default:
		return "unknown"
	}
}
