package kinematics

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable indicates a target outside the workspace disk.
	ErrUnreachable = errors.New("kinematics: target unreachable")

	// ErrInvalidLinks indicates a non-positive or non-finite link length.
	ErrInvalidLinks = errors.New("kinematics: invalid link lengths")
)

// UnreachableError carries the rejected target and the arm's reach.
type UnreachableError struct {
	Target   Point
	Distance float64
	Reach    float64
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("kinematics: target %s at distance %.4f exceeds reach %.4f", e.Target, e.Distance, e.Reach)
}

func (e *UnreachableError) Unwrap() error {
	return ErrUnreachable
}
