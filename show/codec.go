package show

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
)

// totalsTolerance is how far persisted totals may drift from the recomputed sums
// before a load logs a warning.
const totalsTolerance = 1e-6

// Document is the persisted form of a show.
type Document struct {
	Fireworks      []Record `json:"fireworks"`
	TotalMainTime  float64  `json:"total_main_time"`
	TotalGrandTime float64  `json:"total_grand_time"`
}

// Record is one firework in a Document. Runtime is raw seconds, not the display string.
type Record struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Runtime  float64 `json:"runtime"`
	Type     string  `json:"type"`
	Sequence int     `json:"sequence"`
}

// wire types use pointers so missing fields can be told apart from zero values
type wireDocument struct {
	Fireworks      *[]wireRecord `json:"fireworks"`
	TotalMainTime  *float64      `json:"total_main_time"`
	TotalGrandTime *float64      `json:"total_grand_time"`
}

type wireRecord struct {
	ID       string   `json:"id"`
	Name     *string  `json:"name"`
	Runtime  *float64 `json:"runtime"`
	Type     *string  `json:"type"`
	Sequence *int     `json:"sequence"`
}

// ToDocument captures the store and totals as a Document.
func ToDocument(store *Store, totals *Aggregator) Document {
	doc := Document{
		Fireworks:      make([]Record, 0, store.Len()),
		TotalMainTime:  totals.main,
		TotalGrandTime: totals.grand,
	}
	for _, c := range store.cues {
		doc.Fireworks = append(doc.Fireworks, Record{
			ID:       c.ID,
			Name:     c.Name,
			Runtime:  c.Runtime,
			Type:     c.Category.String(),
			Sequence: c.Sequence,
		})
	}
	return doc
}

// Serialize encodes the show as indented JSON.
func Serialize(store *Store, totals *Aggregator) ([]byte, error) {
	data, err := json.MarshalIndent(ToDocument(store, totals), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal show: %w", err)
	}
	return append(data, '\n'), nil
}

// Deserialize decodes a show document into a fresh store and aggregator. Sequence
// numbers are re-derived from array order and totals are recomputed from the cues;
// persisted totals that disagree are logged and ignored.
func Deserialize(data []byte) (*Store, *Aggregator, error) {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid show document: %v", ErrFormat, err)
	}

	if doc.Fireworks == nil {
		return nil, nil, fmt.Errorf("%w: missing \"fireworks\"", ErrFormat)
	}
	if doc.TotalMainTime == nil {
		return nil, nil, fmt.Errorf("%w: missing \"total_main_time\"", ErrFormat)
	}
	if doc.TotalGrandTime == nil {
		return nil, nil, fmt.Errorf("%w: missing \"total_grand_time\"", ErrFormat)
	}

	cues := make([]Cue, 0, len(*doc.Fireworks))
	for i, rec := range *doc.Fireworks {
		cue, err := rec.toCue()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: firework %d: %v", ErrFormat, i, err)
		}
		cues = append(cues, cue)
	}

	store := NewStore()
	store.ReplaceAll(cues)
	totals := NewAggregator()
	totals.Recompute(store)

	if math.Abs(totals.main-*doc.TotalMainTime) > totalsTolerance ||
		math.Abs(totals.grand-*doc.TotalGrandTime) > totalsTolerance {
		log.Warn("Persisted totals disagree with fireworks, using recomputed totals",
			"persisted_main", *doc.TotalMainTime, "persisted_grand", *doc.TotalGrandTime,
			"main", totals.main, "grand", totals.grand)
	}

	return store, totals, nil
}

func (r wireRecord) toCue() (Cue, error) {
	switch {
	case r.Name == nil:
		return Cue{}, fmt.Errorf("missing \"name\"")
	case r.Runtime == nil:
		return Cue{}, fmt.Errorf("missing \"runtime\"")
	case r.Type == nil:
		return Cue{}, fmt.Errorf("missing \"type\"")
	case r.Sequence == nil:
		return Cue{}, fmt.Errorf("missing \"sequence\"")
	}

	if *r.Name == "" {
		return Cue{}, fmt.Errorf("empty \"name\"")
	}
	if err := validateRuntime(*r.Runtime); err != nil {
		return Cue{}, err
	}
	category, err := ParseCategory(*r.Type)
	if err != nil {
		return Cue{}, err
	}
	if *r.Sequence < 1 {
		return Cue{}, fmt.Errorf("sequence must be positive, got %d", *r.Sequence)
	}

	return Cue{
		ID:       r.ID,
		Name:     *r.Name,
		Runtime:  *r.Runtime,
		Category: category,
	}, nil
}
