// Package optim searches controller gains for the best run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no candidate produced a result")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search evaluates every grid point and returns the parameters minimising metricName.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, []Candidate, error) {

	best := math.Inf(1)
	var bestParams map[string]float64
	var evaluated []Candidate

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		c := Candidate{Params: params, Value: math.NaN()}
		defer func() { evaluated = append(evaluated, c) }()

		exp, err := buildExperiment(params)
		if err != nil {
			c.Err = err
			return
		}
		result, err := exp.Run()
		if err != nil {
			c.Err = err
			return
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			c.Err = fmt.Errorf("optim: metric %q not reported", metricName)
			return
		}
		c.Value = val
		if val < best {
			best = val
			bestParams = params
		}
	})
	if err != nil {
		return bestParams, best, evaluated, err
	}
	if bestParams == nil {
		return nil, math.NaN(), evaluated, ErrNoCandidate
	}
	return bestParams, best, evaluated, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	evaluate func(map[string]float64),
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		evaluate(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, evaluate); err != nil {
			return err
		}
	}
	return nil
}

// GainBuilder returns a builder that applies kp/ki/kd from params to every
// joint of a copy of base. Missing names keep the base joint-0 gains.
func GainBuilder(base *config.Config) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		g := cfg.JointGains()[0]
		for name, v := range params {
			switch name {
			case "kp":
				g.Kp = v
			case "ki":
				g.Ki = v
			case "kd":
				g.Kd = v
			default:
				return nil, fmt.Errorf("%w: %q", control.ErrUnknownParam, name)
			}
		}
		cfg.SetAllGains(g)
		return experiment.New(cfg, nil)
	}
}
