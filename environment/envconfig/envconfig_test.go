package envconfig

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gomario/environment/nes"
	"github.com/samuelfneumann/gomario/environment/smb"
	"github.com/samuelfneumann/gomario/environment/smb/simulator"
	"github.com/samuelfneumann/gomario/environment/wrappers"
	"gonum.org/v1/gonum/mat"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		id   string
		want ID
	}{
		{"SuperMarioBros-Vanilla", ID{Variant: smb.SuperMarioBros}},
		{"SuperMarioBros2-Downsample", ID{Variant: smb.LostLevels,
			ROMMode: smb.Downsample}},
		{"SuperMarioBros-4-2-Pixel", ID{Variant: smb.SuperMarioBros,
			ROMMode: smb.Pixel, Target: &smb.Stage{World: 4, Stage: 2}}},
		{"SuperMarioBros2-3-4-Vanilla", ID{Variant: smb.LostLevels,
			Target: &smb.Stage{World: 3, Stage: 4}}},
		{"SuperMarioBrosRandomStages-Rectangle-SmbOnly", ID{
			ROMMode: smb.Rectangle, RandomMode: smb.SmbOnly}},
		{"SuperMarioBrosRandomStages-Vanilla-LostLevelsOnly", ID{
			Variant: smb.LostLevels, RandomMode: smb.LostLevelsOnly}},
		{"SuperMarioBrosRandomStages-Downsample-Both", ID{
			ROMMode: smb.Downsample, RandomMode: smb.Both}},
	}

	for _, test := range tests {
		id, err := ParseID(test.id)
		if err != nil {
			t.Errorf("%v: %v", test.id, err)
			continue
		}
		if id.Variant != test.want.Variant || id.ROMMode != test.want.ROMMode ||
			id.RandomMode != test.want.RandomMode {
			t.Errorf("%v: parsed %+v, want %+v", test.id, id, test.want)
		}
		if (id.Target == nil) != (test.want.Target == nil) ||
			(id.Target != nil && *id.Target != *test.want.Target) {
			t.Errorf("%v: target %v, want %v", test.id, id.Target,
				test.want.Target)
		}
		if id.String() != test.id {
			t.Errorf("%v: formatted as %v", test.id, id)
		}
	}
}

func TestParseIDErrors(t *testing.T) {
	bad := []string{
		"",
		"SuperMarioBros",
		"SuperMarioBros-Shiny",
		"SuperMarioBros3-Vanilla",
		"SuperMarioBros-9-1-Vanilla",
		"SuperMarioBros-1-5-Vanilla",
		"SuperMarioBros-a-1-Vanilla",
		"SuperMarioBros2-5-1-Vanilla",
		"SuperMarioBros2-Pixel",
		"SuperMarioBros2-1-1-Rectangle",
		"SuperMarioBrosRandomStages-Vanilla",
		"SuperMarioBrosRandomStages-Vanilla-None",
		"SuperMarioBrosRandomStages-Pixel-Both",
		"SuperMarioBrosRandomStages-Pixel-LostLevelsOnly",
	}

	for _, id := range bad {
		if _, err := ParseID(id); err == nil {
			t.Errorf("%q: expected an error", id)
		}
	}

	if _, err := ParseID("SuperMarioBros-9-1-Vanilla"); !smb.IsInvalidStage(err) {
		t.Errorf("expected an invalid stage error, have %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	// Every SuperMarioBros stage and game in four modes, every Lost
	// Levels stage and game in two modes, and the random stage IDs
	want := 4*33 + 2*17 + 2*3 + 2*1
	ids := r.IDs()
	if len(ids) != want {
		t.Errorf("registered %d IDs, want %d", len(ids), want)
	}

	for _, name := range ids {
		id, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("listed ID %v not found", name)
		}
		parsed, err := ParseID(name)
		if err != nil || parsed.String() != id.String() {
			t.Errorf("%v: parsed %v, %v", name, parsed, err)
		}
	}

	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("IDs not sorted: %v >= %v", ids[i-1], ids[i])
		}
	}

	if _, ok := r.Lookup("SuperMarioBros2-Pixel"); ok {
		t.Error("registry holds an ID of a ROM which does not exist")
	}
	if err := r.Register(ID{Variant: smb.LostLevels,
		Target: &smb.Stage{World: 6, Stage: 1}}); err == nil {
		t.Error("expected an error registering an invalid stage")
	}
}

func TestMake(t *testing.T) {
	r := NewRegistry()
	loader := simulator.Loader(simulator.DefaultConfig())

	env, step, err := r.Make("SuperMarioBros-5-3-Vanilla", loader,
		WithMaxEpisodeSteps(3), WithActions(smb.RightOnly))
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	info := step.Info.(smb.Info)
	if info.World != 5 || info.Stage != 3 {
		t.Errorf("started at %d-%d, want 5-3", info.World, info.Stage)
	}
	if n := len(env.Actions()); n != len(smb.RightOnly) {
		t.Errorf("have %d actions, want %d", n, len(smb.RightOnly))
	}

	done := false
	steps := 0
	for !done {
		_, done, err = env.Step(mat.NewVecDense(1, []float64{0}))
		if err != nil {
			t.Fatal(err)
		}
		steps++
	}
	if steps != 3 {
		t.Errorf("episode lasted %d steps, want 3", steps)
	}

	if _, _, err := r.Make("SuperMarioBros-0-1-Vanilla", loader); err == nil {
		t.Error("expected an error making an unregistered ID")
	}
}

func TestConfigFile(t *testing.T) {
	seed := uint64(42)
	c := Config{
		ID:              "SuperMarioBrosRandomStages-Vanilla-Both",
		MaxEpisodeSteps: 100,
		CustomActions:   [][]string{{"NOOP"}, {"right", "B"}},
		Stages: smb.StageSubset{
			SuperMarioBros: []smb.Stage{{World: 1, Stage: 4}},
			LostLevels:     []smb.Stage{{World: 2, Stage: 1}},
		},
		Seed:       &seed,
		SkipFrames: 4,
	}

	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := c.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ID != c.ID || *loaded.Seed != seed ||
		len(loaded.Stages.LostLevels) != 1 || loaded.SkipFrames != 4 {
		t.Errorf("loaded %+v, want %+v", loaded, c)
	}

	actions, err := loaded.ActionSet()
	if err != nil {
		t.Fatal(err)
	}
	if len(actions) != 2 || actions[1] != nes.ButtonRight|nes.ButtonB {
		t.Errorf("actions = %v", actions)
	}

	env, step, err := loaded.Create(NewRegistry(),
		simulator.Loader(simulator.DefaultConfig()), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	if _, ok := env.(*wrappers.SkipFrame); !ok {
		t.Errorf("environment has type %T, want *wrappers.SkipFrame", env)
	}
	info := step.Info.(smb.Info)
	if !(info.World == 1 && info.Stage == 4) &&
		!(info.World == 2 && info.Stage == 1) {
		t.Errorf("started at %d-%d, outside the stage subset", info.World,
			info.Stage)
	}
}

func TestConfigErrors(t *testing.T) {
	bad := []Config{
		{ID: "SuperMarioBros-Vanilla", Actions: "Moonwalk"},
		{ID: "SuperMarioBros-Vanilla", CustomActions: [][]string{{"turbo"}}},
		{ID: "SuperMarioBros-Vanilla", Stages: smb.StageSubset{
			LostLevels: []smb.Stage{{World: 7, Stage: 1}}}},
		{ID: "SuperMarioBros-Vanilla", SkipFrames: 1,
			MaxEpisodeSteps: -4},
		{ID: "Tetris"},
	}

	loader := simulator.Loader(simulator.DefaultConfig())
	for i, c := range bad {
		if _, _, err := c.Create(NewRegistry(), loader, nil); err == nil {
			t.Errorf("config %d: expected an error", i)
		}
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error loading a missing file")
	}
}
