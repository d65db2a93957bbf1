package smb

import (
	"fmt"

	"github.com/samuelfneumann/gomario/environment"
	"golang.org/x/exp/rand"
)

// Sampler samples the stage played in each episode of a random stage
// environment.
//
// In Both mode the variant is chosen with probability proportional to
// the number of stages eligible in each variant, so every eligible
// stage across both variants is equally likely. Within a variant,
// stages are chosen uniformly.
//
// Samples are drawn from the source passed to NewSampler. For a fixed
// seed of the source, the sequence of samples is reproducible.
type Sampler struct {
	mode     RandomMode
	subset   StageSubset
	source   rand.Source
	variants []Variant
	variant  environment.CategoricalStarter
	stages   map[Variant]environment.CategoricalStarter
	eligible map[Variant][]Stage
}

// NewSampler returns a new Sampler drawing from source. The subset
// restricts which stages may be sampled; stages outside their
// variant's range result in an error.
func NewSampler(mode RandomMode, subset StageSubset,
	source rand.Source) (*Sampler, error) {
	if mode == None {
		return nil, fmt.Errorf("newSampler: random mode %v samples no "+
			"stages", mode)
	}

	s := &Sampler{mode: mode, source: source}
	if err := s.SetSubset(subset); err != nil {
		return nil, fmt.Errorf("newSampler: %w", err)
	}
	return s, nil
}

// SetSubset replaces the stages which may be sampled
func (s *Sampler) SetSubset(subset StageSubset) error {
	if err := subset.Validate(); err != nil {
		return err
	}

	variants := make([]Variant, 0, len(Variants))
	weights := make([]float64, 0, len(Variants))
	stages := make(map[Variant]environment.CategoricalStarter)
	eligible := make(map[Variant][]Stage)

	for _, v := range Variants {
		if !s.mode.Uses(v) {
			continue
		}
		eligible[v] = subset.Eligible(v)

		starter, err := environment.NewUniformStarter(len(eligible[v]),
			s.source)
		if err != nil {
			return fmt.Errorf("setSubset: %v: %w", v, err)
		}
		stages[v] = starter

		variants = append(variants, v)
		weights = append(weights, float64(len(eligible[v])))
	}

	variant, err := environment.NewCategoricalStarter(weights, s.source)
	if err != nil {
		return fmt.Errorf("setSubset: %w", err)
	}

	s.subset = subset
	s.variants = variants
	s.variant = variant
	s.stages = stages
	s.eligible = eligible
	return nil
}

// Subset returns the stage subset sampled from
func (s *Sampler) Subset() StageSubset {
	return s.subset
}

// Eligible returns the stages which may be sampled for variant v
func (s *Sampler) Eligible(v Variant) []Stage {
	return s.eligible[v]
}

// Seed reinitializes the random source with seed
func (s *Sampler) Seed(seed uint64) {
	s.source.Seed(seed)
}

// Select samples a variant and one of its stages
func (s *Sampler) Select() (Variant, Stage) {
	v := s.variants[0]
	if len(s.variants) > 1 {
		v = s.variants[s.variant.Start()]
	}

	stage := s.eligible[v][s.stages[v].Start()]
	return v, stage
}
