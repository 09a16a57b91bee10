package show

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Show is the engine the presentation layer drives. Every mutator keeps the store's
// numbering and the aggregator's totals in step and leaves state untouched on error.
type Show struct {
	store      *Store
	totals     *Aggregator
	randomizer *Randomizer
	path       string
	dirty      bool
}

// Option configures a Show.
type Option func(*Show)

// WithSeed makes Randomize reproducible. Zero keeps it nondeterministic.
func WithSeed(seed uint64) Option {
	return func(s *Show) {
		s.randomizer = NewRandomizer(seed)
	}
}

// New creates an empty show.
func New(opts ...Option) *Show {
	s := &Show{
		store:      NewStore(),
		totals:     NewAggregator(),
		randomizer: NewRandomizer(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCue validates raw operator input and appends the firework.
func (s *Show) AddCue(name, runtimeRaw, category string) (Cue, error) {
	runtime, err := ParseSeconds(runtimeRaw)
	if err != nil {
		return Cue{}, err
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return Cue{}, err
	}
	return s.Add(name, runtime, cat)
}

// Add appends a firework with an already-parsed runtime.
func (s *Show) Add(name string, runtime float64, category Category) (Cue, error) {
	cue, err := s.store.Add(name, runtime, category)
	if err != nil {
		return Cue{}, err
	}
	s.totals.Added(cue)
	s.dirty = true
	return cue, nil
}

// RemoveCue removes the firework at index. Pass NoSelection when nothing is selected.
func (s *Show) RemoveCue(index int) (Cue, error) {
	cue, err := s.store.Remove(index)
	if err != nil {
		return Cue{}, err
	}
	// resum rather than subtract so totals never drift from the cues
	s.totals.Recompute(s.store)
	s.dirty = true
	return cue, nil
}

// Randomize shuffles the Main Event fireworks and moves the Grand Finale block to the end.
func (s *Show) Randomize() {
	s.randomizer.Randomize(s.store)
	s.dirty = true
}

// NewShow discards every firework and forgets the current file.
func (s *Show) NewShow() {
	s.store.Clear()
	s.totals.Reset()
	s.path = ""
	s.dirty = false
	log.Debug("Started new show")
}

// LoadShow replaces the show with the contents of path. On error the current show is kept.
func (s *Show) LoadShow(path string) error {
	store, totals, err := LoadFile(path)
	if err != nil {
		return err
	}
	s.store = store
	s.totals = totals
	s.path = path
	s.dirty = false
	return nil
}

// SaveShow writes the show to path.
func (s *Show) SaveShow(path string) error {
	if path == "" {
		return fmt.Errorf("%w: no file name given", ErrValidation)
	}
	if err := SaveFile(path, s.store, s.totals); err != nil {
		return err
	}
	s.path = path
	s.dirty = false
	return nil
}

// Cues returns the fireworks in running order.
func (s *Show) Cues() []Cue {
	return s.store.Cues()
}

// Rows returns the fireworks formatted for display.
func (s *Show) Rows() []Row {
	rows := make([]Row, 0, s.store.Len())
	for _, c := range s.store.cues {
		rows = append(rows, c.Row())
	}
	return rows
}

// Totals returns the running time per category.
func (s *Show) Totals() Totals {
	return s.totals.Totals()
}

// Len returns the number of fireworks.
func (s *Show) Len() int {
	return s.store.Len()
}

// Ordered reports whether every Main Event firework precedes every Grand Finale firework.
func (s *Show) Ordered() bool {
	return s.store.Ordered()
}

// Path is the file the show was last loaded from or saved to.
func (s *Show) Path() string {
	return s.path
}

// Dirty reports whether the show changed since it was last loaded, saved or cleared.
func (s *Show) Dirty() bool {
	return s.dirty
}
