package wrappers

import (
	"testing"

	"github.com/samuelfneumann/gomario/environment/smb"
	"github.com/samuelfneumann/gomario/environment/smb/simulator"
	"gonum.org/v1/gonum/mat"
)

func newEnv(t testing.TB, c smb.Config) *smb.Env {
	t.Helper()
	env, _, err := smb.New(simulator.Loader(simulator.DefaultConfig()), c)
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestSkipFrame(t *testing.T) {
	env := newEnv(t, smb.Config{})
	skip, err := NewSkipFrame(env, 4)
	if err != nil {
		t.Fatal(err)
	}

	right := mat.NewVecDense(1, []float64{1})
	step, done, err := skip.Step(right)
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Fatal("episode ended")
	}
	if step.Reward != 8 {
		t.Errorf("summed reward = %v, want 8", step.Reward)
	}
	if step.Number != 4 {
		t.Errorf("step number = %d, want 4", step.Number)
	}
	if skip.CurrentTimeStep().Reward != 8 {
		t.Error("current timestep does not carry the summed reward")
	}

	spec := skip.RewardSpec()
	if spec.LowerBound.AtVec(0) != 4*smb.MinReward ||
		spec.UpperBound.AtVec(0) != 4*smb.MaxReward {
		t.Errorf("reward bounds = [%v, %v)", spec.LowerBound.AtVec(0),
			spec.UpperBound.AtVec(0))
	}
	if env.RewardSpec().UpperBound.AtVec(0) != smb.MaxReward {
		t.Error("scaling the reward spec modified the wrapped spec")
	}
}

func TestSkipFrameStopsAtEpisodeEnd(t *testing.T) {
	env := newEnv(t, smb.Config{MaxEpisodeSteps: 6})
	skip, err := NewSkipFrame(env, 4)
	if err != nil {
		t.Fatal(err)
	}

	noop := mat.NewVecDense(1, []float64{0})
	if _, done, _ := skip.Step(noop); done {
		t.Fatal("episode ended after 4 of 6 steps")
	}
	step, done, err := skip.Step(noop)
	if err != nil {
		t.Fatal(err)
	}
	if !done || !step.Truncated() || step.Number != 6 {
		t.Errorf("second step: done = %v, end = %v, number = %d", done,
			step.EndType, step.Number)
	}

	step, err = skip.Reset()
	if err != nil || !step.First() {
		t.Errorf("reset: %v, %v", step, err)
	}
	if err := skip.Close(); err != nil {
		t.Error(err)
	}
}

func TestNewSkipFrameErrors(t *testing.T) {
	if _, err := NewSkipFrame(newEnv(t, smb.Config{}), 0); err == nil {
		t.Error("expected an error for skip 0")
	}
}

func BenchmarkSkipFrame(b *testing.B) {
	skip, err := NewSkipFrame(newEnv(b, smb.Config{}), 4)
	if err != nil {
		b.Fatal(err)
	}

	right := mat.NewVecDense(1, []float64{1})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, done, _ := skip.Step(right); done {
			skip.Reset()
		}
	}
}
