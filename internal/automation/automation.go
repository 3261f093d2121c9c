// Package automation runs scripted waypoint sequences and randomized trials.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/experiment"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
)

// Scenario is a sequence of targets visited by one arm. Each waypoint starts
// from the pose the previous one ended in.
type Scenario struct {
	Name            string     `yaml:"name"`
	Description     string     `yaml:"description"`
	SkipUnreachable bool       `yaml:"skip_unreachable"`
	Waypoints       []Waypoint `yaml:"waypoints"`
}

// Waypoint overrides the base config's steps and tolerance when non-zero.
type Waypoint struct {
	Target    kinematics.Point `yaml:"target"`
	Steps     int              `yaml:"steps"`
	Tolerance float64          `yaml:"tolerance"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Waypoints) == 0 {
		return nil, fmt.Errorf("scenario %s has no waypoints", path)
	}
	return &scenario, nil
}

// ScenarioResult holds one result per attempted waypoint (nil when skipped)
// and the trajectory accumulated over every leg.
type ScenarioResult struct {
	Legs       []*sim.Result
	Trajectory sim.Trajectory
}

// Attempted counts the waypoints that were run, skipped ones excluded.
func (r *ScenarioResult) Attempted() int {
	n := 0
	for _, leg := range r.Legs {
		if leg != nil {
			n++
		}
	}
	return n
}

// Reached counts the legs whose final end-effector position lies within
// tolerance of the waypoint.
func (r *ScenarioResult) Reached(tolerance float64) int {
	n := 0
	for _, leg := range r.Legs {
		if leg == nil {
			continue
		}
		if last, ok := leg.Trajectory.Last(); ok && last.EndEffector.Dist(leg.Target) <= tolerance {
			n++
		}
	}
	return n
}

// RunScenario visits every waypoint in order on a single simulator.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, logger *zap.Logger) (*ScenarioResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	exp, err := experiment.New(base, logger)
	if err != nil {
		return nil, err
	}
	s := exp.Simulator()
	out := &ScenarioResult{Legs: make([]*sim.Result, 0, len(scenario.Waypoints))}

	for i, wp := range scenario.Waypoints {
		if err := ctx.Err(); err != nil {
			out.Trajectory = s.Trajectory()
			return out, err
		}

		cfg := sim.Config{Steps: base.Steps, Dt: base.Dt, Tolerance: base.Tolerance}
		if wp.Steps > 0 {
			cfg.Steps = wp.Steps
		}
		if wp.Tolerance > 0 {
			cfg.Tolerance = wp.Tolerance
		}

		logger.Info("waypoint",
			zap.Int("index", i+1),
			zap.Int("of", len(scenario.Waypoints)),
			zap.Stringer("target", wp.Target),
		)

		result, err := s.Run(wp.Target, cfg)
		if err != nil {
			if scenario.SkipUnreachable && errors.Is(err, kinematics.ErrUnreachable) {
				out.Legs = append(out.Legs, nil)
				continue
			}
			out.Trajectory = s.Trajectory()
			return out, fmt.Errorf("waypoint %d: %w", i+1, err)
		}
		out.Legs = append(out.Legs, result)
	}

	out.Trajectory = s.Trajectory()
	return out, nil
}

// MonteCarloConfig draws targets uniformly over the annulus between
// MinRadius and MaxRadius (defaults 0 and the arm's reach).
type MonteCarloConfig struct {
	Trials    int
	Seed      int64
	MinRadius float64
	MaxRadius float64
}

type MonteCarloResult struct {
	TrialID       int
	Target        kinematics.Point
	Converged     bool
	StepsTaken    int
	PositionError float64
}

// RunMonteCarlo runs one fresh experiment per random target.
func RunMonteCarlo(ctx context.Context, mc MonteCarloConfig, base *config.Config, logger *zap.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mc.Trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", mc.Trials)
	}

	// stay a hair inside the boundary so rounding never makes a target unreachable
	reach := base.Links.Reach() * (1 - 1e-9)
	maxR := mc.MaxRadius
	if maxR <= 0 || maxR > reach {
		maxR = reach
	}
	minR := math.Max(0, mc.MinRadius)
	if minR > maxR {
		return nil, fmt.Errorf("min radius %g exceeds max radius %g", minR, maxR)
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, 0, mc.Trials)
	for trial := 0; trial < mc.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		// sqrt keeps the draw uniform over area
		r := math.Sqrt(minR*minR + rng.Float64()*(maxR*maxR-minR*minR))
		phi := rng.Float64() * 2 * math.Pi
		target := kinematics.Point{X: r * math.Cos(phi), Y: r * math.Sin(phi)}

		exp, err := experiment.New(base, logger)
		if err != nil {
			return results, err
		}
		result, err := exp.RunTo(target)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		posErr := math.NaN()
		if last, ok := result.Trajectory.Last(); ok {
			posErr = last.EndEffector.Dist(target)
		}
		results = append(results, MonteCarloResult{
			TrialID:       trial,
			Target:        target,
			Converged:     result.Converged,
			StepsTaken:    result.StepsTaken,
			PositionError: posErr,
		})

		if (trial+1)%10 == 0 {
			logger.Debug("monte carlo progress", zap.Int("done", trial+1), zap.Int("trials", mc.Trials))
		}
	}
	return results, nil
}

// MonteCarloStats summarises trials; meanErr ignores trials with no steps.
func MonteCarloStats(results []MonteCarloResult) (converged int, meanErr, maxErr float64) {
	var sum float64
	var n int
	for _, r := range results {
		if r.Converged {
			converged++
		}
		if math.IsNaN(r.PositionError) {
			continue
		}
		sum += r.PositionError
		n++
		maxErr = math.Max(maxErr, r.PositionError)
	}
	if n > 0 {
		meanErr = sum / float64(n)
	}
	return converged, meanErr, maxErr
}
