// Package policy implements policies using linear function
// approximation over tile-coded features
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/timestep"
	"github.com/samuelfneumann/gomario/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WeightsKey is the key of the weights in the map returned by Weights
const WeightsKey string = "weights"

// EGreedy implements an ε-greedy policy using linear function
// approximation. Observations must hold the indices of the non-zero
// features of a binary feature vector, as returned by
// wrappers.IndexTileCoding, and the value of an action is the sum of
// its weights at those indices.
//
// In evaluation mode the greedy action is always selected.
type EGreedy struct {
	weights *mat.Dense
	epsilon float64
	source  rand.Source
	eval    bool
}

// NewEGreedy constructs a new EGreedy policy, where e=epsilon is the
// probability with which a random action is selected. The weights have
// one row per action of env and one column per feature.
func NewEGreedy(e float64, seed uint64, env environment.Environment) (*EGreedy,
	error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon %v not in [0, 1]", e)
	}

	actionSpec := env.ActionSpec()
	if actionSpec.Shape.TotalSize() != 1 {
		return nil, fmt.Errorf("newEGreedy: actions should be "+
			"1-dimensional, have shape %v", actionSpec.Shape)
	}
	if actionSpec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newEGreedy: cannot use %v actions",
			actionSpec.Cardinality)
	}

	obsSpec := env.ObservationSpec()
	if len(obsSpec.Shape) != 1 || obsSpec.Cardinality != environment.Discrete ||
		obsSpec.UpperBound.Len() != 1 {
		return nil, fmt.Errorf("newEGreedy: observations should be " +
			"feature indices")
	}

	actions := int(actionSpec.UpperBound.AtVec(0)) + 1
	features := int(obsSpec.UpperBound.AtVec(0)) + 1
	weights := mat.NewDense(actions, features, nil)

	return &EGreedy{
		weights: weights,
		epsilon: e,
		source:  rand.NewSource(seed),
	}, nil
}

// Weights gets and returns the weights of the EGreedy policy as a
// string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	return map[string]*mat.Dense{WeightsKey: p.weights}
}

// SetWeights sets the weight pointers to point to a new set of weights.
// The SetWeights function can take the output of a call to Weights()
// on another EGreedy Policy directly
func (p *EGreedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named %q", WeightsKey)
	}
	r, c := newWeights.Dims()
	wantR, wantC := p.weights.Dims()
	if r != wantR || c != wantC {
		return fmt.Errorf("setWeights: weights have shape (%d, %d), want "+
			"(%d, %d)", r, c, wantR, wantC)
	}

	p.weights = newWeights
	return nil
}

// ActionValues returns the value of each action given the indices of
// the non-zero features of a state
func (p *EGreedy) ActionValues(indices []float64) *mat.VecDense {
	return matutils.SumCols(p.weights, indices)
}

// SelectAction selects an action from an ε-greedy policy
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	indices, ok := t.Observation.Data().([]float64)
	if !ok {
		panic(fmt.Sprintf("selectAction: observation has type %v, "+
			"expected float64 indices", t.Observation.Dtype()))
	}

	actionValues := p.ActionValues(indices)
	greedyAction := matutils.MaxVec(actionValues)
	if p.eval || p.epsilon == 0 {
		return mat.NewVecDense(1, []float64{float64(greedyAction)})
	}

	numActions := actionValues.Len()
	probs := make([]float64, numActions)
	for i := range probs {
		probs[i] = p.epsilon / float64(numActions)
	}
	probs[greedyAction] += 1.0 - p.epsilon

	dist := distuv.NewCategorical(probs, p.source)
	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Eval sets the policy to evaluation mode
func (p *EGreedy) Eval() { p.eval = true }

// Train sets the policy to training mode
func (p *EGreedy) Train() { p.eval = false }

// IsEval returns whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool { return p.eval }
