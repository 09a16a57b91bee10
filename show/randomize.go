package show

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

// Randomizer shuffles the Main Event cues of a store. Grand Finale cues keep their
// relative order and always follow every Main Event cue.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns a Randomizer. A zero seed draws from the runtime's random
// source; any other seed gives a reproducible order.
func NewRandomizer(seed uint64) *Randomizer {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
	return &Randomizer{rng: rand.New(src)}
}

// Randomize reorders store as a uniform shuffle of its Main Event cues followed by
// its Grand Finale cues in their existing order.
func (r *Randomizer) Randomize(store *Store) {
	mainEvents, grandFinales := Partition(store.cues)

	// Fisher-Yates
	r.rng.Shuffle(len(mainEvents), func(i, j int) {
		mainEvents[i], mainEvents[j] = mainEvents[j], mainEvents[i]
	})

	store.ReplaceAll(append(mainEvents, grandFinales...))
	log.Debug("Randomized main event order", "main_events", len(mainEvents), "grand_finales", len(grandFinales))
}

// Partition splits cues by category, keeping relative order within each.
func Partition(cues []Cue) (mainEvents, grandFinales []Cue) {
	mainEvents = make([]Cue, 0, len(cues))
	for _, c := range cues {
		if c.Category == GrandFinale {
			grandFinales = append(grandFinales, c)
		} else {
			mainEvents = append(mainEvents, c)
		}
	}
	return mainEvents, grandFinales
}
