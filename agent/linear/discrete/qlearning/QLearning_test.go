package qlearning

import (
	"math"
	"testing"

	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/environment/smb"
	"github.com/samuelfneumann/gomario/environment/smb/simulator"
	"github.com/samuelfneumann/gomario/environment/wrappers"
	ts "github.com/samuelfneumann/gomario/timestep"
	"github.com/samuelfneumann/gomario/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// specs is an environment with 2 actions and 2 active features out of 4
type specs struct {
	environment.Environment
}

func (specs) ActionSpec() environment.Spec {
	return environment.Scalar(environment.Action, 0, 1, environment.Discrete)
}

func (specs) ObservationSpec() environment.Spec {
	return environment.NewSpec(tensor.Shape{2}, environment.Observation,
		mat.NewVecDense(1, []float64{0}), mat.NewVecDense(1, []float64{3}),
		environment.Discrete)
}

func step(t ts.StepType, reward float64, indices ...float64) ts.TimeStep {
	obs := tensor.New(tensor.WithShape(len(indices)),
		tensor.WithBacking(indices))
	return ts.New(t, reward, obs, nil, 0)
}

func action(a float64) *mat.VecDense {
	return mat.NewVecDense(1, []float64{a})
}

func newAgent(t *testing.T, c Config) *QLearning {
	t.Helper()
	q, err := New(specs{}, c, weights.NewLinearUV(weights.NewZeroUV()), 1)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestUpdate(t *testing.T) {
	q := newAgent(t, Config{LearningRate: 0.5, Discount: 0.9})

	if err := q.ObserveFirst(step(ts.First, 0, 0, 1)); err != nil {
		t.Fatal(err)
	}
	q.Observe(action(1), step(ts.Mid, 2, 0, 2))
	if err := q.Step(); err != nil {
		t.Fatal(err)
	}

	w := q.Weights()["weights"]
	if w.At(1, 0) != 0.5 || w.At(1, 1) != 0.5 || w.At(1, 2) != 0 {
		t.Errorf("weights after first update:\n%v", mat.Formatted(w))
	}

	last := step(ts.Mid, -1, 0, 3)
	last.SetEnd(ts.Terminated)
	q.Observe(action(0), last)
	q.Step()

	// Terminated episodes do not bootstrap
	if w.At(0, 0) != -0.25 || w.At(0, 2) != -0.25 {
		t.Errorf("weights after terminal update:\n%v", mat.Formatted(w))
	}

	// Stepping again without observing does nothing
	q.Step()
	if w.At(0, 0) != -0.25 {
		t.Error("weights updated twice for one observation")
	}

	if a := q.SelectAction(step(ts.First, 0, 0, 1)); a.AtVec(0) != 1 {
		t.Errorf("greedy action = %v, want 1", a.AtVec(0))
	}
	if a := q.TargetPolicy().SelectAction(step(ts.First, 0, 0, 1)); a.AtVec(0) != 1 {
		t.Errorf("target policy action = %v, want 1", a.AtVec(0))
	}
}

func TestTruncatedBootstraps(t *testing.T) {
	q := newAgent(t, Config{LearningRate: 1, Discount: 0.5})
	w := q.Weights()["weights"]
	w.Set(0, 3, 4)

	q.ObserveFirst(step(ts.First, 0, 0, 1))
	last := step(ts.Mid, 1, 0, 3)
	last.SetEnd(ts.Truncated)
	q.Observe(action(1), last)
	q.Step()

	// target = 1 + 0.5 * 4 = 3, split between two features
	if w.At(1, 0) != 1.5 || w.At(1, 1) != 1.5 {
		t.Errorf("weights after truncated update:\n%v", mat.Formatted(w))
	}
}

func TestExploration(t *testing.T) {
	q := newAgent(t, Config{Epsilon: 1, LearningRate: 0.1})
	q.Weights()["weights"].Set(1, 0, 10)
	s := step(ts.First, 0, 0, 1)

	const n = 4000
	ones := 0
	for i := 0; i < n; i++ {
		ones += int(q.SelectAction(s).AtVec(0))
	}
	if freq := float64(ones) / n; math.Abs(freq-0.5) > 0.05 {
		t.Errorf("selected action 1 with frequency %v, want 0.5", freq)
	}

	q.Eval()
	if !q.IsEval() || q.SelectAction(s).AtVec(0) != 1 {
		t.Error("evaluation mode does not act greedily")
	}
	q.Train()
	if q.IsEval() {
		t.Error("still in evaluation mode")
	}
}

func TestErrors(t *testing.T) {
	bad := []Config{
		{Epsilon: -0.1, LearningRate: 0.1},
		{Epsilon: 1.5, LearningRate: 0.1},
		{LearningRate: 0},
		{LearningRate: 0.1, Discount: 2},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("config %d: expected an error", i)
		}
	}

	q := newAgent(t, Config{LearningRate: 0.1})
	if err := q.ObserveFirst(step(ts.Mid, 0, 0, 1)); err == nil {
		t.Error("expected an error observing a middle timestep first")
	}
	if err := q.Observe(mat.NewVecDense(2, nil), step(ts.Mid, 0, 0, 1)); err == nil {
		t.Error("expected an error for a 2-dimensional action")
	}

	env, _, err := smb.New(simulator.Loader(simulator.DefaultConfig()),
		smb.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (Config{LearningRate: 0.1}).CreateAgent(env, 1); err == nil {
		t.Error("expected an error learning from image observations")
	}
}

func TestLearnOnMario(t *testing.T) {
	env, _, err := smb.New(simulator.Loader(simulator.DefaultConfig()),
		smb.Config{MaxEpisodeSteps: 50, Actions: smb.RightOnly})
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	f, err := wrappers.NewFeatures(env, wrappers.MarioFeatures)
	if err != nil {
		t.Fatal(err)
	}
	tc, step, err := wrappers.NewIndexTileCoding(f,
		[][]int{{16, 4, 2, 2}, {16, 4, 2, 2}}, 1)
	if err != nil {
		t.Fatal(err)
	}

	a, err := Config{Epsilon: 0.1, LearningRate: 0.1, Discount: 0.9}.
		CreateAgent(tc, 1)
	if err != nil {
		t.Fatal(err)
	}

	a.ObserveFirst(step)
	for !step.Last() {
		act := a.SelectAction(step)
		step, _, err = tc.Step(act)
		if err != nil {
			t.Fatal(err)
		}
		if err := a.Observe(act, step); err != nil {
			t.Fatal(err)
		}
		if err := a.Step(); err != nil {
			t.Fatal(err)
		}
	}

	// Moving right is rewarded, so some weight must have grown
	w := a.(*QLearning).Weights()["weights"]
	if mat.Max(w) <= 0 {
		t.Error("no weight grew after rewarded steps")
	}
}
