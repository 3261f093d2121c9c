// Package analysis characterises how each joint approached its setpoint.
//
//   - [StepResponse]: overshoot, rise time and steady-state error of one joint
//   - [DominantFrequency]: strongest oscillation in a signal, via gonum's FFT
//   - [Analyze]: both, for every joint of a trajectory
//
// A loop with kp*dt above 1 overshoots on every step; its error alternates in
// sign and the dominant frequency sits at the Nyquist rate 1/(2*dt).
package analysis
