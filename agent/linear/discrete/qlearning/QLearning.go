// Package qlearning implements the Q-Learning algorithm with linear
// function approximation over tile-coded features.
//
// Observations must hold the indices of the non-zero features of each
// state, as returned by wrappers.IndexTileCoding.
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/gomario/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// QLearning implements the Q-Learning algorithm
type QLearning struct {
	*QLearner
	*policy.EGreedy
	target *policy.EGreedy
	seed   uint64
}

// New creates a new QLearning agent acting in env. The weights of the
// agent are initialized by init.
func New(env environment.Environment, c Config, init weights.Initializer,
	seed uint64) (*QLearning, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	behaviour, err := policy.NewEGreedy(c.Epsilon, seed, env)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	target, err := policy.NewGreedy(seed, env)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	// The behaviour and target policies share weights
	w := behaviour.Weights()
	init.Initialize(w[policy.WeightsKey])
	if err := target.SetWeights(w); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	learner := NewQLearner(w[policy.WeightsKey], c.LearningRate, c.Discount)
	return &QLearning{learner, behaviour, target, seed}, nil
}

// Weights returns the weights of the agent
func (q *QLearning) Weights() map[string]*mat.Dense {
	return q.EGreedy.Weights()
}

// TargetPolicy returns the greedy policy the agent learns about
func (q *QLearning) TargetPolicy() *policy.EGreedy {
	return q.target
}
