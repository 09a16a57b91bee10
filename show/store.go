package show

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NoSelection is the index callers pass when no cue is selected.
const NoSelection = -1

// Store is the ordered collection of cues. A cue's sequence number is always its
// position plus one; every structural change renumbers the whole list.
type Store struct {
	cues []Cue
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a new cue and returns it with its assigned ID and sequence number.
// The store is unchanged when the cue is rejected.
func (s *Store) Add(name string, runtime float64, category Category) (Cue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Cue{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateRuntime(runtime); err != nil {
		return Cue{}, err
	}
	if !category.Valid() {
		return Cue{}, fmt.Errorf("%w: unknown firework type %d", ErrValidation, int(category))
	}

	cue := Cue{
		ID:       uuid.NewString(),
		Name:     name,
		Runtime:  runtime,
		Category: category,
		Sequence: s.NextSequence(),
	}
	s.cues = append(s.cues, cue)

	log.Debug("Added cue", "name", cue.Name, "sequence", cue.Sequence, "type", cue.Category)
	return cue, nil
}

// Remove deletes the cue at index and renumbers the rest. The removed cue is returned
// so aggregates can be updated.
func (s *Store) Remove(index int) (Cue, error) {
	if index == NoSelection {
		return Cue{}, fmt.Errorf("%w: no firework selected", ErrSelection)
	}
	if index < 0 || index >= len(s.cues) {
		return Cue{}, fmt.Errorf("%w: index %d out of range for %d fireworks", ErrSelection, index, len(s.cues))
	}

	removed := s.cues[index]
	s.cues = append(s.cues[:index], s.cues[index+1:]...)
	s.renumber()

	log.Debug("Removed cue", "name", removed.Name, "index", index, "remaining", len(s.cues))
	return removed, nil
}

// ReplaceAll swaps in a new ordered list of cues. Sequence numbers are re-derived from
// position and cues without an ID are given one.
func (s *Store) ReplaceAll(cues []Cue) {
	next := make([]Cue, len(cues))
	copy(next, cues)
	for i := range next {
		if next[i].ID == "" {
			next[i].ID = uuid.NewString()
		}
	}
	s.cues = next
	s.renumber()
}

// Clear empties the store; the next cue added gets sequence number 1.
func (s *Store) Clear() {
	s.cues = nil
}

// Len returns the number of cues.
func (s *Store) Len() int {
	return len(s.cues)
}

// At returns the cue at index.
func (s *Store) At(index int) (Cue, error) {
	if index < 0 || index >= len(s.cues) {
		return Cue{}, fmt.Errorf("%w: index %d out of range for %d fireworks", ErrSelection, index, len(s.cues))
	}
	return s.cues[index], nil
}

// Cues returns a copy of the cues in running order.
func (s *Store) Cues() []Cue {
	out := make([]Cue, len(s.cues))
	copy(out, s.cues)
	return out
}

// NextSequence is the sequence number the next added cue will receive.
func (s *Store) NextSequence() int {
	return len(s.cues) + 1
}

// Ordered reports whether every Main Event cue precedes every Grand Finale cue.
func (s *Store) Ordered() bool {
	seenFinale := false
	for _, c := range s.cues {
		switch c.Category {
		case GrandFinale:
			seenFinale = true
		case MainEvent:
			if seenFinale {
				return false
			}
		}
	}
	return true
}

func (s *Store) renumber() {
	for i := range s.cues {
		s.cues[i].Sequence = i + 1
	}
}
