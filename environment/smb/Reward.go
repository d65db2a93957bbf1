package smb

import (
	"github.com/samuelfneumann/gomario/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// DeathPenalty is added to the reward of the step on which the
	// player dies
	DeathPenalty float64 = -15.0

	MinReward float64 = -15.0
	MaxReward float64 = 15.0
)

// RewardRange is the interval rewards are clipped into. The interval
// is closed at Min and open at Max: -15 is attainable, 15 is not, and
// the largest reward is the float64 immediately below 15.
var RewardRange = r1.Interval{Min: MinReward, Max: MaxReward}

// Reward returns the reward for one step. Moving right is rewarded,
// each elapsed clock tick costs one, and a death costs DeathPenalty:
//
//	r = xSpeed - clockDelta + (DeathPenalty if dead else 0)
//
// and r is clipped into [-15, 15).
func Reward(xSpeed, clockDelta int, dead bool) float64 {
	velocity := float64(xSpeed)
	clock := -float64(clockDelta)

	death := 0.0
	if dead {
		death = DeathPenalty
	}

	return floatutils.ClipIntervalHalfOpen(velocity+clock+death, RewardRange)
}
