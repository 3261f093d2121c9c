package control

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Bank owns one PID per joint. Index i of every error and output vector is joint i.
// The controllers are never handed out; all access goes through bounds-checked methods.
type Bank struct {
	mu       sync.Mutex
	pids     []*PID
	outputs  []float64
	parallel bool
}

type BankOption func(*Bank)

// WithParallel updates the joints concurrently. Output order is unchanged.
func WithParallel() BankOption {
	return func(b *Bank) { b.parallel = true }
}

// WithIntegralLimit applies the same integral bound to every joint.
func WithIntegralLimit(limit float64) BankOption {
	return func(b *Bank) {
		for _, p := range b.pids {
			p.IntegralLimit = limit
		}
	}
}

func NewBank(gains []Gains, opts ...BankOption) *Bank {
	b := &Bank{pids: make([]*PID, len(gains))}
	for i, g := range gains {
		b.pids[i] = NewPID(g)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewDefaultBank creates n controllers with DefaultGains.
func NewDefaultBank(n int, opts ...BankOption) *Bank {
	gains := make([]Gains, n)
	for i := range gains {
		gains[i] = DefaultGains
	}
	return NewBank(gains, opts...)
}

func (b *Bank) Len() int { return len(b.pids) }

// UpdateAll feeds errors[i] to controller i with the shared dt and returns the commands.
func (b *Bank) UpdateAll(errors []float64, dt float64) ([]float64, error) {
	if len(errors) != len(b.pids) {
		return nil, fmt.Errorf("%w: got %d errors for %d controllers", ErrDimensionMismatch, len(errors), len(b.pids))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]float64, len(b.pids))
	if b.parallel {
		var g errgroup.Group
		for i, p := range b.pids {
			g.Go(func() error {
				u, err := p.Update(errors[i], dt)
				if err != nil {
					return fmt.Errorf("joint %d: %w", i, err)
				}
				out[i] = u
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, p := range b.pids {
			u, err := p.Update(errors[i], dt)
			if err != nil {
				return nil, fmt.Errorf("joint %d: %w", i, err)
			}
			out[i] = u
		}
	}

	b.outputs = out
	return cloneFloats(out), nil
}

// Tune overwrites the gains of one joint and resets that joint's state.
func (b *Bank) Tune(index int, g Gains) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkIndex(index); err != nil {
		return err
	}
	b.pids[index].SetGains(g)
	return nil
}

// SetParam adjusts one named gain of one joint. See PID.SetParam.
func (b *Bank) SetParam(index int, name string, value float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkIndex(index); err != nil {
		return err
	}
	return b.pids[index].SetParam(name, value)
}

func (b *Bank) Gains(index int) (Gains, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkIndex(index); err != nil {
		return Gains{}, err
	}
	return b.pids[index].Gains, nil
}

// LastOutputs returns the commands from the most recent UpdateAll, or nil before the first.
func (b *Bank) LastOutputs() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return cloneFloats(b.outputs)
}

// ResetAll clears the state of every controller without touching gains.
func (b *Bank) ResetAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.pids {
		p.Reset()
	}
	b.outputs = nil
}

func (b *Bank) checkIndex(index int) error {
	if index < 0 || index >= len(b.pids) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(b.pids))
	}
	return nil
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
