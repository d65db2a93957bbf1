package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/gomario/agent"
	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/utils/matutils/initializers/weights"
)

// Config represents a configuration for the QLearning agent
type Config struct {
	// Epsilon is the probability of a random action of the behaviour
	// policy
	Epsilon      float64 `yaml:"epsilon" json:"epsilon"`
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
	Discount     float64 `yaml:"discount" json:"discount"`

	// InitialValue initializes every weight
	InitialValue float64 `yaml:"initial_value" json:"initial_value"`
}

// CreateAgent creates the agent from the Config. Every weight is
// initialized to InitialValue. To initialize from some other
// distribution, use the agent's constructor manually.
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	init := weights.NewLinearUV(weights.ConstantUV(c.InitialValue))
	return New(env, c, init, seed)
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon %v not in [0, 1]", c.Epsilon)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate %v must be positive",
			c.LearningRate)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount %v not in [0, 1]", c.Discount)
	}
	return nil
}
