package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
)

type StepMetrics struct {
	Initial          float64
	Final            float64
	Setpoint         float64
	Overshoot        float64 // fraction of the step beyond the setpoint
	PeakTime         float64
	RiseTime         float64 // 10% to 90% of the step; NaN if never reached
	SteadyStateError float64
}

// StepResponse measures a series sampled every dt moving from initial
// toward setpoint. The first sample is taken at t = dt.
func StepResponse(initial float64, series []float64, setpoint, dt float64) StepMetrics {
	m := StepMetrics{
		Initial:  initial,
		Final:    initial,
		Setpoint: setpoint,
		RiseTime: math.NaN(),
	}
	if len(series) == 0 {
		m.SteadyStateError = setpoint - initial
		return m
	}
	m.Final = series[len(series)-1]
	m.SteadyStateError = setpoint - m.Final

	step := setpoint - initial
	if step == 0 {
		return m
	}

	t10, t90 := math.NaN(), math.NaN()
	peak := 0.0
	for i, v := range series {
		progress := (v - initial) / step
		t := float64(i+1) * dt
		if math.IsNaN(t10) && progress >= 0.1 {
			t10 = t
		}
		if math.IsNaN(t90) && progress >= 0.9 {
			t90 = t
		}
		if progress-1 > peak {
			peak = progress - 1
			m.PeakTime = t
		}
	}
	m.Overshoot = peak
	if !math.IsNaN(t90) {
		m.RiseTime = t90 - t10
	}
	return m
}

// DominantFrequency returns the frequency in Hz with the largest spectral
// magnitude after removing the mean, and that magnitude. Signals shorter
// than four samples or with no variation return zeros.
func DominantFrequency(series []float64, dt float64) (float64, float64) {
	n := len(series)
	if n < 4 || dt <= 0 {
		return 0, 0
	}

	mean := stat.Mean(series, nil)
	centred := make([]float64, n)
	for i, v := range series {
		centred[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centred)

	best, bestMag := 0, 0.0
	for i := 1; i < len(coeffs); i++ {
		if mag := cmplx.Abs(coeffs[i]); mag > bestMag {
			best, bestMag = i, mag
		}
	}
	if bestMag < 1e-12 {
		return 0, 0
	}
	return fft.Freq(best) / dt, bestMag
}

type JointAnalysis struct {
	Joint     int
	Step      StepMetrics
	Frequency float64
	Magnitude float64
}

// Analyze reports every joint of traj against desired, starting from initial.
func Analyze(traj sim.Trajectory, initial, desired kinematics.Angles, dt float64) []JointAnalysis {
	out := make([]JointAnalysis, len(desired))
	for j := range desired {
		series := traj.JointSeries(j)
		errs := make([]float64, len(series))
		for i, v := range series {
			errs[i] = desired[j] - v
		}
		freq, mag := DominantFrequency(errs, dt)
		out[j] = JointAnalysis{
			Joint:     j + 1,
			Step:      StepResponse(initial[j], series, desired[j], dt),
			Frequency: freq,
			Magnitude: mag,
		}
	}
	return out
}
