package sim

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/kinematics"
)

const dof = 3

type Simulator struct {
	arm        *kinematics.Arm
	solver     *kinematics.Solver
	bank       *control.Bank
	logger     *zap.Logger
	initial    kinematics.Angles
	angles     kinematics.Angles
	trajectory Trajectory
	metrics    []Metric
	observers  []Observer
	phase      Phase
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInitialAngles sets the pose the arm starts from and returns to on Reset.
func WithInitialAngles(q kinematics.Angles) Option {
	return func(s *Simulator) {
		s.initial = q
		s.angles = q
	}
}

func New(arm *kinematics.Arm, solver *kinematics.Solver, bank *control.Bank, opts ...Option) (*Simulator, error) {
	if arm.Links() != solver.Links() {
		return nil, fmt.Errorf("%w: arm %+v, solver %+v", ErrLinkMismatch, arm.Links(), solver.Links())
	}
	if bank.Len() != dof {
		return nil, fmt.Errorf("%w: bank has %d controllers, arm has %d joints", control.ErrDimensionMismatch, bank.Len(), dof)
	}

	s := &Simulator{
		arm:       arm,
		solver:    solver,
		bank:      bank,
		logger:    zap.NewNop(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Arm() *kinematics.Arm { return s.arm }
func (s *Simulator) Bank() *control.Bank  { return s.bank }
func (s *Simulator) Phase() Phase         { return s.phase }

// Angles returns the current pose.
func (s *Simulator) Angles() kinematics.Angles { return s.angles }

// Trajectory returns a copy of every snapshot recorded since construction or the last Reset.
func (s *Simulator) Trajectory() Trajectory { return s.trajectory.Clone() }

// Reset returns the arm to its initial pose, clears the trajectory and the controller state.
func (s *Simulator) Reset() {
	s.angles = s.initial
	s.trajectory = nil
	s.bank.ResetAll()
}

// Run drives the arm toward target. An unreachable target returns an error
// wrapping kinematics.ErrUnreachable and changes nothing.
func (s *Simulator) Run(target kinematics.Point, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	desired, err := s.solver.Solve(target)
	if err != nil {
		s.logger.Warn("target unreachable, run aborted",
			zap.Float64("x", target.X),
			zap.Float64("y", target.Y),
			zap.Float64("reach", s.arm.Reach()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("run started",
		zap.Stringer("target", target),
		zap.Float64s("desired", desired.Slice()),
		zap.Int("steps", cfg.Steps),
		zap.Float64("dt", cfg.Dt),
	)

	for _, m := range s.metrics {
		m.Reset()
	}

	s.phase = Stepping
	defer func() { s.phase = Idle }()

	result := &Result{
		Target:     target,
		Desired:    desired,
		Trajectory: make(Trajectory, 0, cfg.Steps),
		Metrics:    make(map[string]float64),
	}

	errs := make([]float64, dof)
	for i := 0; i < cfg.Steps; i++ {
		floats.SubTo(errs, desired[:], s.angles[:])

		out, err := s.bank.UpdateAll(errs, cfg.Dt)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		// explicit Euler: controller output is joint velocity
		floats.AddScaled(s.angles[:], cfg.Dt, out)

		snap := Snapshot{
			Step:        i,
			Time:        float64(i+1) * cfg.Dt,
			Angles:      s.angles,
			EndEffector: s.arm.EndEffector(s.angles),
		}
		s.trajectory = append(s.trajectory, snap)
		result.Trajectory = append(result.Trajectory, snap)
		result.StepsTaken++

		info := StepInfo{
			Step:     i,
			Time:     snap.Time,
			Target:   target,
			Desired:  desired,
			Errors:   append([]float64(nil), errs...),
			Outputs:  out,
			Snapshot: snap,
		}
		for _, m := range s.metrics {
			m.Observe(info)
		}
		for _, obs := range s.observers {
			obs.OnStep(info)
		}

		if cfg.Tolerance > 0 && maxAbsError(desired, s.angles) < cfg.Tolerance {
			result.Converged = true
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	last, _ := result.Trajectory.Last()
	s.logger.Debug("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Bool("converged", result.Converged),
		zap.Stringer("end_effector", last.EndEffector),
		zap.Float64("position_error", last.EndEffector.Dist(target)),
	)

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: %w: dt must be positive, got %g", ErrInvalidConfig, control.ErrInvalidTimestep, cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be non-negative, got %g", ErrInvalidConfig, cfg.Tolerance)
	}
	return nil
}

func maxAbsError(desired, current kinematics.Angles) float64 {
	m := 0.0
	for i := range desired {
		m = math.Max(m, math.Abs(desired[i]-current[i]))
	}
	return m
}
