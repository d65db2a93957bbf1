package environment

import (
	"errors"
	"math"
	"testing"

	"github.com/samuelfneumann/gomario/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)
	for n := 0; n < 5; n++ {
		step := timestep.New(timestep.Mid, 0, nil, nil, n)
		end, err := limit.End(&step)
		if err != nil {
			t.Fatal(err)
		}
		if end != (n >= 3) {
			t.Errorf("step %d: end = %v", n, end)
		}
		if end && (!step.Last() || !step.Truncated()) {
			t.Errorf("step %d: %v not marked truncated", n, step)
		}
	}

	step := timestep.New(timestep.Mid, 0, nil, nil, 1<<30)
	if end, _ := NewStepLimit(0).End(&step); end {
		t.Error("zero step limit ended an episode")
	}
}

func TestFunctionEnder(t *testing.T) {
	errEnd := errors.New("end failed")
	f := func(step *timestep.TimeStep) (bool, error) {
		switch {
		case step.Number < 0:
			return true, errEnd
		case step.Reward > 1:
			return true, nil
		}
		return false, nil
	}
	ender := NewFunctionEnder(f, timestep.Terminated)

	step := timestep.New(timestep.Mid, 0, nil, nil, 1)
	if end, _ := ender.End(&step); end || step.Last() {
		t.Errorf("ended %v", step)
	}

	step = timestep.New(timestep.Mid, 2, nil, nil, 1)
	if end, _ := ender.End(&step); !end || !step.Terminated() {
		t.Errorf("did not terminate %v", step)
	}

	step = timestep.New(timestep.Mid, 2, nil, nil, -1)
	end, err := ender.End(&step)
	if err != errEnd || end || step.Last() {
		t.Errorf("error case: end = %v, err = %v, step = %v", end, err,
			step)
	}
}

func TestCategoricalStarter(t *testing.T) {
	if _, err := NewCategoricalStarter(nil, rand.NewSource(0)); err == nil {
		t.Error("expected an error for no weights")
	}
	if _, err := NewCategoricalStarter([]float64{1, -1},
		rand.NewSource(0)); err == nil {
		t.Error("expected an error for negative weights")
	}
	if _, err := NewCategoricalStarter([]float64{0, 0},
		rand.NewSource(0)); err == nil {
		t.Error("expected an error for zero weights")
	}

	s, err := NewCategoricalStarter([]float64{1, 0, 3}, rand.NewSource(5))
	if err != nil {
		t.Fatal(err)
	}
	const n = 10000
	counts := make([]int, s.Len())
	for i := 0; i < n; i++ {
		counts[s.Start()]++
	}
	if counts[1] != 0 {
		t.Errorf("zero weight category sampled %d times", counts[1])
	}
	if freq := float64(counts[2]) / n; math.Abs(freq-0.75) > 0.03 {
		t.Errorf("category 2 frequency %.3f, want 0.75", freq)
	}
}

func TestCategoricalStarterSharedSource(t *testing.T) {
	source := rand.NewSource(0)
	s, err := NewUniformStarter(10, source)
	if err != nil {
		t.Fatal(err)
	}

	sample := func() []int {
		source.Seed(11)
		starts := make([]int, 20)
		for i := range starts {
			starts[i] = s.Start()
		}
		return starts
	}

	a, b := sample(), sample()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("reseeding the source did not reseed the starter")
		}
	}
}

func TestNewSpec(t *testing.T) {
	shape := tensor.Shape{2, 3}
	one := mat.NewVecDense(1, []float64{0})
	six := mat.NewVecDense(6, nil)

	NewSpec(shape, Observation, one, one, Continuous)
	NewSpec(shape, Observation, six, six, Continuous)

	panics := func(f func()) (panicked bool) {
		defer func() { panicked = recover() != nil }()
		f()
		return
	}
	if !panics(func() { NewSpec(shape, Observation, one, six, Continuous) }) {
		t.Error("mismatched bounds did not panic")
	}
	two := mat.NewVecDense(2, nil)
	if !panics(func() { NewSpec(shape, Observation, two, two, Continuous) }) {
		t.Error("bounds not matching the shape did not panic")
	}
}
