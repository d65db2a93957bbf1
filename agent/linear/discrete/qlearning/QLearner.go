package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/gomario/timestep"
	"gonum.org/v1/gonum/mat"
)

// QLearner implements the update functionality for the Q-Learning
// algorithm over binary features, given as the indices of the non-zero
// features of each state.
//
// The learning rate is split evenly between the non-zero features.
// Episodes which terminate do not bootstrap from their last state,
// while truncated episodes do.
type QLearner struct {
	weights      *mat.Dense
	state        []float64
	action       int
	nextStep     timestep.TimeStep
	learningRate float64
	discount     float64
	observed     bool
}

// NewQLearner creates a new QLearner which updates weights in place
func NewQLearner(weights *mat.Dense, learningRate,
	discount float64) *QLearner {
	return &QLearner{
		weights:      weights,
		learningRate: learningRate,
		discount:     discount,
	}
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep %d is not the first",
			t.Number)
	}
	q.nextStep = t
	q.observed = false
	return nil
}

// Observe observes and records any timestep other than the first timestep
func (q *QLearner) Observe(action mat.Vector, nextStep timestep.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: actions should be 1-dimensional, "+
			"have %d dimensions", action.Len())
	}

	state, err := indices(q.nextStep)
	if err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	q.state = state
	q.action = int(action.AtVec(0))
	q.nextStep = nextStep
	q.observed = true
	return nil
}

// Step updates the weights of the Agent's Learner and Policy
func (q *QLearner) Step() error {
	if !q.observed {
		return nil
	}
	q.observed = false

	target := q.nextStep.Reward
	if !q.nextStep.Terminated() {
		next, err := indices(q.nextStep)
		if err != nil {
			return fmt.Errorf("step: %w", err)
		}
		numActions, _ := q.weights.Dims()
		maxVal := q.value(next, 0)
		for a := 1; a < numActions; a++ {
			if v := q.value(next, a); v > maxVal {
				maxVal = v
			}
		}
		target += q.discount * maxVal
	}

	// Gradient descent on the active features of the taken action
	scale := q.learningRate / float64(len(q.state))
	scale *= target - q.value(q.state, q.action)
	for _, i := range q.state {
		col := int(i)
		q.weights.Set(q.action, col, q.weights.At(q.action, col)+scale)
	}
	return nil
}

// EndEpisode performs cleanup at the end of an episode
func (q *QLearner) EndEpisode() {}

// value returns the value of an action in a state with the given
// feature indices
func (q *QLearner) value(state []float64, action int) float64 {
	var v float64
	for _, i := range state {
		v += q.weights.At(action, int(i))
	}
	return v
}

// Weights gets and returns the weights of the learner
func (q *QLearner) Weights() map[string]*mat.Dense {
	return map[string]*mat.Dense{"weights": q.weights}
}

func indices(t timestep.TimeStep) ([]float64, error) {
	if t.Observation == nil {
		return nil, fmt.Errorf("timestep %d has no observation", t.Number)
	}
	state, ok := t.Observation.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("observation has type %v, expected float64 "+
			"indices", t.Observation.Dtype())
	}
	return state, nil
}
