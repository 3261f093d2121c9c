package control

import "errors"

var (
	// ErrInvalidTimestep indicates a non-positive dt was passed to an update.
	ErrInvalidTimestep = errors.New("control: timestep must be positive")

	// ErrDimensionMismatch indicates an error vector whose length differs from the controller count.
	ErrDimensionMismatch = errors.New("control: dimension mismatch between errors and controllers")

	// ErrIndexOutOfRange indicates a joint index outside the bank.
	ErrIndexOutOfRange = errors.New("control: joint index out of range")

	// ErrUnknownParam indicates a tuning parameter name the controller does not expose.
	ErrUnknownParam = errors.New("control: unknown parameter")
)
