// Package analysis extracts periods, spectra and phase-space pictures from
// integrated trajectories.
//
//   - [PowerSpectrum] and [DominantFrequency]: windowed FFT of a sampled signal
//   - [CrossingPeriod]: mean period from interpolated upward crossings
//   - [NewPortrait]: two state components plotted against each other
//   - [NewSection]: stroboscopic section at a threshold crossing
//
// # Example
//
//	traj, _ := integrators.Integrate(integrators.NewRK4(), pendulum, x0, span)
//	period, err := analysis.CrossingPeriod(traj.Times, traj.Column(0), 0)
package analysis
