package control

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBankDimensionInvariant(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			bank := NewDefaultBank(n)

			out, err := bank.UpdateAll(make([]float64, n), 0.05)
			require.NoError(t, err)
			assert.Len(t, out, n)

			_, err = bank.UpdateAll(make([]float64, n+1), 0.05)
			assert.ErrorIs(t, err, ErrDimensionMismatch)

			_, err = bank.UpdateAll(make([]float64, n-1), 0.05)
			assert.ErrorIs(t, err, ErrDimensionMismatch)
		})
	}
}

func TestBankIndexAlignedOutputs(t *testing.T) {
	bank := NewBank([]Gains{{Kp: 1}, {Kp: 2}, {Kp: 3}})

	out, err := bank.UpdateAll([]float64{1, 1, 1}, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, out)
	assert.Equal(t, out, bank.LastOutputs())
}

func TestBankLastOutputsBeforeUpdate(t *testing.T) {
	bank := NewDefaultBank(3)
	assert.Nil(t, bank.LastOutputs())
}

func TestBankLastOutputsIsCopy(t *testing.T) {
	bank := NewDefaultBank(2)
	out, err := bank.UpdateAll([]float64{1, 2}, 0.1)
	require.NoError(t, err)

	out[0] = 99
	last := bank.LastOutputs()
	last[1] = 99
	assert.Equal(t, []float64{1, 2}, bank.LastOutputs())
}

func TestBankTuneResetsState(t *testing.T) {
	g := Gains{Kp: 0.5, Ki: 2, Kd: 0.1}

	fresh := NewBank([]Gains{g, g, g})
	want, err := fresh.UpdateAll([]float64{0.2, 0.2, 0.2}, 0.05)
	require.NoError(t, err)

	bank := NewDefaultBank(3)
	for i := 0; i < 20; i++ {
		_, err := bank.UpdateAll([]float64{1, -1, 2}, 0.05)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, bank.Tune(i, g))
	}

	got, err := bank.UpdateAll([]float64{0.2, 0.2, 0.2}, 0.05)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	gains, err := bank.Gains(1)
	require.NoError(t, err)
	assert.Equal(t, g, gains)
}

func TestBankTuneOutOfRange(t *testing.T) {
	bank := NewDefaultBank(3)

	for _, idx := range []int{-1, 3, 100} {
		err := bank.Tune(idx, Gains{Kp: 2})
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)

		_, err = bank.Gains(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)

		err = bank.SetParam(idx, "kp", 2)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)
	}
}

func TestBankInvalidTimestep(t *testing.T) {
	for _, bank := range []*Bank{NewDefaultBank(3), NewDefaultBank(3, WithParallel())} {
		_, err := bank.UpdateAll([]float64{1, 2, 3}, 0)
		assert.ErrorIs(t, err, ErrInvalidTimestep)
		assert.Nil(t, bank.LastOutputs())
	}
}

func TestBankParallelMatchesSequential(t *testing.T) {
	gains := []Gains{{Kp: 1, Ki: 0.1}, {Kp: 2, Kd: 0.05}, {Kp: 0.5, Ki: 1, Kd: 0.2}, {Kp: 3}}
	seq := NewBank(gains)
	par := NewBank(gains, WithParallel())

	errs := []float64{0.4, -0.3, 1.1, 0.05}
	for step := 0; step < 50; step++ {
		a, err := seq.UpdateAll(errs, 0.02)
		require.NoError(t, err)
		b, err := par.UpdateAll(errs, 0.02)
		require.NoError(t, err)
		require.Equal(t, a, b, "step %d", step)

		for i := range errs {
			errs[i] *= 0.9
		}
	}
}

func TestBankIntegralLimitOption(t *testing.T) {
	bank := NewBank([]Gains{{Ki: 1}, {Ki: 1}}, WithIntegralLimit(1))
	var out []float64
	for i := 0; i < 5; i++ {
		var err error
		out, err = bank.UpdateAll([]float64{1, -1}, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, []float64{1, -1}, out)
}

func TestBankConcurrentTune(t *testing.T) {
	bank := NewDefaultBank(3, WithParallel())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = bank.UpdateAll([]float64{0.1, 0.2, 0.3}, 0.01)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = bank.Tune(i%3, Gains{Kp: float64(i)})
		}
	}()
	wg.Wait()

	assert.Len(t, bank.LastOutputs(), 3)
}

func TestBankResetAll(t *testing.T) {
	bank := NewBank([]Gains{{Ki: 1}, {Ki: 1}})
	_, err := bank.UpdateAll([]float64{1, 1}, 1)
	require.NoError(t, err)

	bank.ResetAll()
	assert.Nil(t, bank.LastOutputs())

	out, err := bank.UpdateAll([]float64{1, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, out)
}
