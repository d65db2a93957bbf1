package experiment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gomario/agent/random"
	"github.com/samuelfneumann/gomario/environment/smb"
	"github.com/samuelfneumann/gomario/environment/smb/simulator"
	"github.com/samuelfneumann/gomario/experiment/tracker"
	"github.com/samuelfneumann/gomario/experiment/trackers"
	ts "github.com/samuelfneumann/gomario/timestep"
)

func newOnline(t *testing.T, steps, episodeSteps int) *Online {
	t.Helper()
	env, _, err := smb.New(simulator.Loader(simulator.DefaultConfig()),
		smb.Config{MaxEpisodeSteps: episodeSteps})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { env.Close() })

	a, err := random.New(env, random.Config{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	o, err := NewOnline(env, a, steps, nil)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestOnlineRun(t *testing.T) {
	o := newOnline(t, 50, 10)

	dir := t.TempDir()
	returns := trackers.NewReturn(filepath.Join(dir, "returns.bin"))
	lengths := trackers.NewEpisodeLength(filepath.Join(dir, "lengths.bin"))
	o.Register(returns)
	o.Register(lengths)

	calls := 0
	o.OnStep = func(ts.TimeStep) { calls++ }

	if err := o.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if o.Steps() != 50 || calls != 50 {
		t.Errorf("ran %d steps with %d callbacks, want 50", o.Steps(), calls)
	}
	if o.Episodes() != 5 {
		t.Errorf("ran %d episodes, want 5", o.Episodes())
	}

	if err := o.Save(); err != nil {
		t.Fatal(err)
	}
	saved, err := tracker.LoadData[int](filepath.Join(dir, "lengths.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 5 {
		t.Fatalf("saved %d episode lengths, want 5", len(saved))
	}
	for _, n := range saved {
		if n != 10 {
			t.Errorf("episode length %d, want 10", n)
		}
	}

	rets, err := tracker.LoadData[float64](filepath.Join(dir, "returns.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rets) != 5 {
		t.Errorf("saved %d returns, want 5", len(rets))
	}
}

func TestOnlineCancel(t *testing.T) {
	o := newOnline(t, 1000, 0)

	ctx, cancel := context.WithCancel(context.Background())
	o.OnStep = func(step ts.TimeStep) {
		if step.Number == 3 {
			cancel()
		}
	}

	err := o.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, have %v", err)
	}
	if o.Steps() != 3 {
		t.Errorf("ran %d steps after cancelling, want 3", o.Steps())
	}
}

func TestNewOnlineErrors(t *testing.T) {
	if _, err := NewOnline(nil, nil, 0, nil); err == nil {
		t.Error("expected an error for zero steps")
	}
}
