// Package experiment wires a configuration into a ready-to-run simulator.
package experiment

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	logger    *zap.Logger
}

// New validates cfg and builds the arm, solver, controller bank and simulator
// it describes, with the default metrics attached.
func New(cfg *config.Config, logger *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts []control.BankOption
	if cfg.IntegralLimit > 0 {
		opts = append(opts, control.WithIntegralLimit(cfg.IntegralLimit))
	}
	if cfg.Parallel {
		opts = append(opts, control.WithParallel())
	}
	bank := control.NewBank(cfg.JointGains(), opts...)

	s, err := sim.New(
		kinematics.NewArm(cfg.Links),
		kinematics.NewSolver(cfg.Links),
		bank,
		sim.WithLogger(logger.Named("sim")),
		sim.WithInitialAngles(cfg.InitialAngles()),
	)
	if err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}
	for _, m := range metrics.Default(cfg.SettleThreshold) {
		s.AddMetric(m)
	}

	return &Experiment{cfg: cfg, simulator: s, logger: logger}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator returns the underlying simulator for adding observers
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Run drives the arm to the configured target.
func (e *Experiment) Run() (*sim.Result, error) {
	return e.RunTo(e.cfg.Target)
}

// RunTo drives the arm to target with the configured step count, dt and tolerance.
func (e *Experiment) RunTo(target kinematics.Point) (*sim.Result, error) {
	return e.simulator.Run(target, sim.Config{
		Steps:     e.cfg.Steps,
		Dt:        e.cfg.Dt,
		Tolerance: e.cfg.Tolerance,
	})
}
