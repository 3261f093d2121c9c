// Package control provides per-joint feedback controllers for the arm.
//
// A [PID] holds the gains and integral/derivative state of one joint. A [Bank]
// owns one PID per degree of freedom and fans error vectors in and command
// vectors out, index-aligned with the joints:
//
//	bank := control.NewDefaultBank(3) // (1, 0, 0) per joint
//	out, err := bank.UpdateAll([]float64{0.5, -0.2, 0.1}, 0.05)
//	err = bank.Tune(0, control.Gains{Kp: 2, Ki: 0.1, Kd: 0.05})
//
// Tuning always resets the tuned controller so state accumulated under the old
// gains never leaks into later output.
package control
