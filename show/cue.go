// Package show keeps the running order of a fireworks display: an ordered list of cues,
// each either a Main Event or a Grand Finale item, with per-category running totals and
// a JSON document form that round-trips the whole show.
package show

import (
	"fmt"
	"strings"
)

// Category tags a cue as part of the main event or the grand finale.
type Category int

const (
	MainEvent Category = iota
	GrandFinale
)

// Display and wire names for each category
const (
	CategoryMainEvent   = "Main Event"
	CategoryGrandFinale = "Grand Finale"
)

// Categories lists every category in running order.
var Categories = []Category{MainEvent, GrandFinale}

func (c Category) String() string {
	switch c {
	case MainEvent:
		return CategoryMainEvent
	case GrandFinale:
		return CategoryGrandFinale
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == MainEvent || c == GrandFinale
}

// ParseCategory maps a display name ("Main Event", "Grand Finale") to its Category.
func ParseCategory(name string) (Category, error) {
	switch strings.TrimSpace(name) {
	case CategoryMainEvent:
		return MainEvent, nil
	case CategoryGrandFinale:
		return GrandFinale, nil
	}
	return 0, fmt.Errorf("%w: unknown firework type %q", ErrValidation, name)
}

// Cue is one firework in the show.
type Cue struct {
	ID       string   // stable identity, survives reordering and save/load
	Name     string   // display name, never empty
	Runtime  float64  // seconds, never negative
	Category Category // main event or grand finale
	Sequence int      // 1-based position in the show
}

// Row is the render-ready form of a cue.
type Row struct {
	Name     string
	Runtime  string
	Category string
	Sequence int
}

// Row formats the cue for display.
func (c Cue) Row() Row {
	return Row{
		Name:     c.Name,
		Runtime:  FormatRuntime(c.Runtime),
		Category: c.Category.String(),
		Sequence: c.Sequence,
	}
}
