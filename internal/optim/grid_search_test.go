package optim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/kinematics"
)

func TestGridSearchFindsStifferGain(t *testing.T) {
	g, err := NewGridSearch([]string{"kp"}, [][]float64{{0.5, 1, 4, 8}})
	require.NoError(t, err)

	best, val, evaluated, err := g.Search(context.Background(), GainBuilder(config.DefaultConfig()), "tracking_rms")
	require.NoError(t, err)

	assert.Equal(t, 8.0, best["kp"])
	assert.Len(t, evaluated, 4)
	for _, c := range evaluated {
		assert.GreaterOrEqual(t, c.Value, val)
	}
}

func TestGridSearchCartesianProduct(t *testing.T) {
	g, err := NewGridSearch([]string{"kp", "ki"}, [][]float64{{1, 2, 3}, {0, 0.1}})
	require.NoError(t, err)

	_, _, evaluated, err := g.Search(context.Background(), GainBuilder(config.DefaultConfig()), "control_effort")
	require.NoError(t, err)
	assert.Len(t, evaluated, 6)
}

func TestGridSearchUnreachableTarget(t *testing.T) {
	base := config.DefaultConfig()
	base.Target = kinematics.Point{X: 5, Y: 5}

	g, err := NewGridSearch([]string{"kp"}, [][]float64{{1, 2}})
	require.NoError(t, err)

	_, _, evaluated, err := g.Search(context.Background(), GainBuilder(base), "tracking_rms")
	assert.ErrorIs(t, err, ErrNoCandidate)
	for _, c := range evaluated {
		assert.ErrorIs(t, c.Err, kinematics.ErrUnreachable)
	}
}

func TestGridSearchUnknownParam(t *testing.T) {
	g, err := NewGridSearch([]string{"target"}, [][]float64{{1}})
	require.NoError(t, err)

	_, _, evaluated, err := g.Search(context.Background(), GainBuilder(config.DefaultConfig()), "tracking_rms")
	assert.ErrorIs(t, err, ErrNoCandidate)
	require.Len(t, evaluated, 1)
	assert.ErrorIs(t, evaluated[0].Err, control.ErrUnknownParam)
}

func TestGridSearchCanceled(t *testing.T) {
	g, err := NewGridSearch([]string{"kp"}, [][]float64{{1, 2, 3}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, evaluated, err := g.Search(ctx, GainBuilder(config.DefaultConfig()), "tracking_rms")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, evaluated)
}

func TestNewGridSearchValidation(t *testing.T) {
	_, err := NewGridSearch([]string{"kp", "ki"}, [][]float64{{1}})
	assert.Error(t, err)

	_, err = NewGridSearch([]string{"kp"}, [][]float64{{}})
	assert.Error(t, err)
}

func TestGainBuilderLeavesBaseUntouched(t *testing.T) {
	base := config.DefaultConfig()
	build := GainBuilder(base)

	exp, err := build(map[string]float64{"kp": 3, "kd": 0.1})
	require.NoError(t, err)

	got, err := exp.Simulator().Bank().Gains(2)
	require.NoError(t, err)
	assert.Equal(t, control.Gains{Kp: 3, Kd: 0.1}, got)
	assert.Empty(t, base.Gains)
}
