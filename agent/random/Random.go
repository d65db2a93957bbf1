// Package random implements an agent which selects discrete actions at
// random and never learns
package random

import (
	"fmt"

	"github.com/samuelfneumann/gomario/agent"
	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config configures a Random agent
type Config struct {
	// Weights are the relative probabilities of selecting each action.
	// If empty, actions are selected uniformly.
	Weights []float64 `yaml:"weights" json:"weights"`
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c Config) Validate() error {
	total := 0.0
	for i, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("validate: weight %d is negative: %v", i, w)
		}
		total += w
	}
	if len(c.Weights) > 0 && total == 0 {
		return fmt.Errorf("validate: weights sum to zero")
	}
	return nil
}

// CreateAgent creates the Random agent that the config describes
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}

// Random selects actions from a fixed categorical distribution over
// the discrete actions of an environment
type Random struct {
	dist distuv.Categorical
	eval bool
}

// New returns a new Random agent acting in env
func New(env environment.Environment, c Config, seed uint64) (*Random,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	spec := env.ActionSpec()
	if spec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: cannot use random agent with %v "+
			"actions", spec.Cardinality)
	}
	if spec.Shape.TotalSize() != 1 {
		return nil, fmt.Errorf("new: actions should be 1-dimensional, "+
			"have shape %v", spec.Shape)
	}

	numActions := int(spec.UpperBound.AtVec(0)) + 1
	weights := c.Weights
	if len(weights) == 0 {
		weights = make([]float64, numActions)
		for i := range weights {
			weights[i] = 1.0
		}
	}
	if len(weights) != numActions {
		return nil, fmt.Errorf("new: have %d weights for %d actions",
			len(weights), numActions)
	}

	dist := distuv.NewCategorical(weights, rand.NewSource(seed))
	return &Random{dist: dist}, nil
}

// SelectAction selects a random action
func (r *Random) SelectAction(timestep.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{r.dist.Rand()})
}

// Eval sets the policy to evaluation mode, which has no effect
func (r *Random) Eval() { r.eval = true }

// Train sets the policy to training mode, which has no effect
func (r *Random) Train() { r.eval = false }

// IsEval indicates if the policy is in evaluation mode
func (r *Random) IsEval() bool { return r.eval }

// Step performs no update
func (r *Random) Step() error { return nil }

// Observe does nothing
func (r *Random) Observe(mat.Vector, timestep.TimeStep) error { return nil }

// ObserveFirst does nothing
func (r *Random) ObserveFirst(timestep.TimeStep) error { return nil }

// EndEpisode does nothing
func (r *Random) EndEpisode() {}
