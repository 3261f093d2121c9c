package control

import (
	"fmt"
	"math"
)

// Gains are the proportional, integral and derivative multipliers of a PID.
// Any real values are accepted; choosing stable gains is the caller's job.
type Gains struct {
	Kp float64 `json:"kp" yaml:"kp"`
	Ki float64 `json:"ki" yaml:"ki"`
	Kd float64 `json:"kd" yaml:"kd"`
}

// DefaultGains is the proportional-only unit gain used when none are configured.
var DefaultGains = Gains{Kp: 1}

type PID struct {
	Gains

	// IntegralLimit bounds the accumulated integral to [-IntegralLimit, IntegralLimit].
	// Zero leaves the integral unbounded.
	IntegralLimit float64

	integral float64
	lastErr  float64
}

func NewPID(g Gains) *PID {
	return &PID{Gains: g}
}

// Update advances the controller by dt with the current error and returns the command.
func (p *PID) Update(err, dt float64) (float64, error) {
	if dt <= 0 || math.IsNaN(dt) {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidTimestep, dt)
	}

	p.integral += err * dt
	if p.IntegralLimit > 0 {
		p.integral = math.Max(-p.IntegralLimit, math.Min(p.IntegralLimit, p.integral))
	}
	derivative := (err - p.lastErr) / dt
	p.lastErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative, nil
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.lastErr = 0
}

// SetGains replaces the gains and resets the accumulated state.
func (p *PID) SetGains(g Gains) {
	p.Gains = g
	p.Reset()
}

func (p *PID) Integral() float64 { return p.integral }

// Params returns tunable parameters for live adjustment
func (p *PID) Params() map[string]float64 {
	return map[string]float64{
		"kp": p.Kp,
		"ki": p.Ki,
		"kd": p.Kd,
	}
}

// SetParam adjusts a single gain by name and resets the controller.
func (p *PID) SetParam(name string, value float64) error {
	g := p.Gains
	switch name {
	case "kp":
		g.Kp = value
	case "ki":
		g.Ki = value
	case "kd":
		g.Kd = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	p.SetGains(g)
	return nil
}
