package tracker

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gomario/environment"
	ts "github.com/samuelfneumann/gomario/timestep"
)

type recorder struct {
	steps []ts.TimeStep
}

func (r *recorder) Track(t ts.TimeStep) { r.steps = append(r.steps, t) }
func (r *recorder) Save() error        { return nil }

// current is an Environment whose most recent TimeStep is fixed
type current struct {
	environment.Environment
	step ts.TimeStep
}

func (c current) CurrentTimeStep() ts.TimeStep { return c.step }

func TestRegister(t *testing.T) {
	rec := &recorder{}
	env := current{step: ts.New(ts.Mid, 7, nil, nil, 3)}
	tr := Register(rec, env)

	tr.Track(ts.New(ts.Mid, 100, nil, nil, 3))
	if len(rec.steps) != 1 || rec.steps[0].Reward != 7 {
		t.Errorf("registered tracker tracked %v, want the environment's "+
			"timestep", rec.steps)
	}
}

func TestSaveLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data.bin")
	if err := SaveData(filename, []float64{1, -2.5, 3}); err != nil {
		t.Fatal(err)
	}

	data, err := LoadData[float64](filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 3 || data[1] != -2.5 {
		t.Errorf("loaded %v", data)
	}

	if _, err := LoadData[float64](filepath.Join(t.TempDir(), "none")); err == nil {
		t.Error("expected an error loading a missing file")
	}
}
