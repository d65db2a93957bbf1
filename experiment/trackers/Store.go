package trackers

import (
	"fmt"

	"github.com/samuelfneumann/gomario/environment/smb"
	"github.com/samuelfneumann/gomario/experiment/store"
	ts "github.com/samuelfneumann/gomario/timestep"
)

// Store records each finished episode of an experiment in an episode
// results store. Episodes are written when Save is called.
type Store struct {
	store   *store.Store
	envID   string
	run     string
	ret     *Return
	pending []store.Episode
}

// NewStore returns a new Store tracker recording episodes of the
// environment envID as part of run
func NewStore(s *store.Store, envID, run string) *Store {
	return &Store{store: s, envID: envID, run: run, ret: NewReturn("")}
}

// Track caches the result of an episode when its last TimeStep is
// tracked
func (s *Store) Track(step ts.TimeStep) {
	s.ret.Track(step)
	if !step.Last() {
		return
	}

	returns := s.ret.Returns()
	e := store.Episode{
		EnvID:   s.envID,
		Run:     s.run,
		Episode: len(returns) - 1,
		Steps:   step.Number,
		Return:  returns[len(returns)-1],
		End:     step.EndType.String(),
	}
	if info, ok := step.Info.(smb.Info); ok {
		e.World = info.World
		e.Stage = info.Stage
		e.XPos = info.XPos
		e.Life = info.Life
		e.FlagGet = info.FlagGet
	}
	s.pending = append(s.pending, e)
}

// Save writes the cached episodes to the store
func (s *Store) Save() error {
	for len(s.pending) > 0 {
		if _, err := s.store.SaveEpisode(s.pending[0]); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		s.pending = s.pending[1:]
	}
	return nil
}
