package sim

import "errors"

var (
	// ErrInvalidConfig indicates a run configuration that cannot be stepped.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")

	// ErrLinkMismatch indicates an arm and solver built from different link lengths.
	ErrLinkMismatch = errors.New("sim: arm and solver link lengths differ")
)
