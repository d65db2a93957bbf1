package smb

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestSamplerSingleStage(t *testing.T) {
	subset := StageSubset{SuperMarioBros: []Stage{{1, 4}}}
	s, err := NewSampler(SmbOnly, subset, rand.NewSource(42))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		v, stage := s.Select()
		if v != SuperMarioBros || stage != (Stage{1, 4}) {
			t.Fatalf("sample %d: %v %v, want SuperMarioBros 1-4", i, v,
				stage)
		}
	}
}

func TestSamplerDeterministic(t *testing.T) {
	sample := func(seed uint64) []Stage {
		s, err := NewSampler(Both, StageSubset{}, rand.NewSource(0))
		if err != nil {
			t.Fatal(err)
		}
		s.Seed(seed)

		stages := make([]Stage, 50)
		for i := range stages {
			_, stages[i] = s.Select()
		}
		return stages
	}

	a, b := sample(7), sample(7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for the same seed: %v != %v", i,
				a[i], b[i])
		}
	}

	c := sample(8)
	same := true
	for i := range a {
		same = same && a[i] == c[i]
	}
	if same {
		t.Error("different seeds produced the same 50 samples")
	}
}

func TestSamplerVariantWeights(t *testing.T) {
	subset := StageSubset{
		SuperMarioBros: []Stage{{1, 1}, {2, 1}, {3, 1}},
		LostLevels:     []Stage{{1, 1}},
	}
	s, err := NewSampler(Both, subset, rand.NewSource(1))
	if err != nil {
		t.Fatal(err)
	}

	const n = 20000
	counts := make(map[Variant]int)
	for i := 0; i < n; i++ {
		v, stage := s.Select()
		counts[v]++
		if err := stage.Validate(v); err != nil {
			t.Fatalf("sampled invalid stage: %v", err)
		}
	}

	freq := float64(counts[SuperMarioBros]) / n
	if math.Abs(freq-0.75) > 0.02 {
		t.Errorf("SuperMarioBros sampled with frequency %.3f, want 0.75",
			freq)
	}
}

func TestSamplerOnlyUsesModeVariant(t *testing.T) {
	s, err := NewSampler(LostLevelsOnly, StageSubset{}, rand.NewSource(3))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		v, stage := s.Select()
		if v != LostLevels || stage.World > 4 {
			t.Fatalf("sampled %v %v in LostLevelsOnly mode", v, stage)
		}
	}
}

func TestSamplerErrors(t *testing.T) {
	if _, err := NewSampler(None, StageSubset{}, rand.NewSource(0)); err == nil {
		t.Error("expected an error for random mode None")
	}

	subset := StageSubset{LostLevels: []Stage{{5, 1}}}
	_, err := NewSampler(Both, subset, rand.NewSource(0))
	if !IsInvalidStage(err) {
		t.Errorf("expected invalid stage error, have %v", err)
	}

	s, _ := NewSampler(SmbOnly, StageSubset{}, rand.NewSource(0))
	bad := StageSubset{SuperMarioBros: []Stage{{1, 9}}}
	if err := s.SetSubset(bad); !IsInvalidStage(err) {
		t.Errorf("expected invalid stage error, have %v", err)
	}
	if len(s.Eligible(SuperMarioBros)) != 32 {
		t.Error("a rejected subset replaced the eligible stages")
	}
}
