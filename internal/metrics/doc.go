// Package metrics holds run metrics observed by the simulator after each step.
package metrics

import "github.com/san-kum/armsim/internal/sim"

// Default returns the metric set attached to every experiment.
func Default(settleThreshold float64) []sim.Metric {
	return []sim.Metric{
		NewControlEffort(),
		NewTrackingError(),
		NewPositionError(),
		NewSettlingStep(settleThreshold),
	}
}
