// Package recorder captures engine output under a caller-selected storage
// policy. The engine itself never accumulates: keeping the full trajectory
// is an explicit O(steps * nodes) choice made here, not an engine default.
package recorder

import (
	"github.com/san-kum/qwave/internal/engine"
	"github.com/san-kum/qwave/internal/quantum"
)

// Trajectory is an ordered, time-indexed sequence of retained states.
type Trajectory struct {
	Steps  []int
	Times  []float64
	States []quantum.WaveState
}

// Recorder observes engine states through a StepFunc. every == 0 keeps only
// the final state; every == n keeps every nth state (the initial state
// always included).
type Recorder struct {
	every int

	final     quantum.WaveState
	finalStep int
	finalTime float64
	traj      Trajectory
}

// NewFinalOnly keeps only the last state, with an O(nodes) memory floor.
func NewFinalOnly() *Recorder {
	return &Recorder{every: 0}
}

// NewFull keeps every state.
func NewFull() *Recorder {
	return &Recorder{every: 1}
}

// NewEveryN keeps every nth state. n < 1 falls back to final-only.
func NewEveryN(n int) *Recorder {
	if n < 1 {
		n = 0
	}
	return &Recorder{every: n}
}

// Callback returns the StepFunc wired into the engine run.
func (r *Recorder) Callback() engine.StepFunc {
	return func(step int, t float64, psi quantum.WaveState) bool {
		if r.final == nil {
			r.final = make(quantum.WaveState, len(psi))
		}
		copy(r.final, psi)
		r.finalStep = step
		r.finalTime = t

		if r.every > 0 && step%r.every == 0 {
			r.traj.Steps = append(r.traj.Steps, step)
			r.traj.Times = append(r.traj.Times, t)
			r.traj.States = append(r.traj.States, psi.Clone())
		}
		return true
	}
}

// Final returns the last observed state, or nil before any state was seen.
func (r *Recorder) Final() quantum.WaveState { return r.final }

// FinalStep returns the step index of the last observed state.
func (r *Recorder) FinalStep() int { return r.finalStep }

// FinalTime returns the simulated time of the last observed state.
func (r *Recorder) FinalTime() float64 { return r.finalTime }

// Trajectory returns the retained sequence. Empty in final-only mode.
func (r *Recorder) Trajectory() *Trajectory { return &r.traj }
