// Package quantum defines the value types shared by the wave simulation:
// the validated parameter set, the uniform spatial grid, and the complex
// wavefunction state, together with the error taxonomy for setup and
// mid-run numerical failures.
package quantum
