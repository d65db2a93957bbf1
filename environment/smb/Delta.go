package smb

// Delta holds the change in game state over one step
type Delta struct {
	XSpeed int
	YSpeed int

	// ClockDelta is the number of in-game clock ticks which elapsed,
	// positive as the clock counts down
	ClockDelta int
}

// NewDelta returns the change from baseline to current. Deltas are not
// clamped. Directly after a reset the baseline is the current state, so
// every delta of the first step is measured from the starting state.
func NewDelta(baseline, current State) Delta {
	return Delta{
		XSpeed:     current.XPos - baseline.XPos,
		YSpeed:     current.YPos - baseline.YPos,
		ClockDelta: baseline.Time - current.Time,
	}
}

// deathTransition returns whether the player died between baseline and
// current. A death is counted when the lives counter drops. Stage
// episodes end as soon as the player starts dying, so there the onset
// of dying also counts; it cannot be counted twice since the episode
// ends on that step.
func deathTransition(baseline, current State, singleStage bool) bool {
	if current.Life < baseline.Life {
		return true
	}
	if !singleStage {
		return false
	}
	wasDying := baseline.Dying || baseline.Dead
	return !wasDying && (current.Dying || current.Dead)
}
