package show

// Totals is a snapshot of the running time per category.
type Totals struct {
	MainSeconds  float64
	GrandSeconds float64
}

// TotalSeconds is the overall run time.
func (t Totals) TotalSeconds() float64 {
	return t.MainSeconds + t.GrandSeconds
}

// Main is the formatted Main Event total.
func (t Totals) Main() string {
	return FormatRuntime(t.MainSeconds)
}

// Grand is the formatted Grand Finale total.
func (t Totals) Grand() string {
	return FormatRuntime(t.GrandSeconds)
}

// Overall is the formatted total run time.
func (t Totals) Overall() string {
	return FormatRuntime(t.TotalSeconds())
}

// Aggregator tracks running totals incrementally as cues are added and removed.
type Aggregator struct {
	main  float64
	grand float64
}

// NewAggregator returns an aggregator with zero totals.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Added accounts for a newly added cue.
func (a *Aggregator) Added(c Cue) {
	switch c.Category {
	case MainEvent:
		a.main += c.Runtime
	case GrandFinale:
		a.grand += c.Runtime
	}
}

// Removed takes a removed cue out of its category's total.
func (a *Aggregator) Removed(c Cue) {
	switch c.Category {
	case MainEvent:
		a.main = nonNegative(a.main - c.Runtime)
	case GrandFinale:
		a.grand = nonNegative(a.grand - c.Runtime)
	}
}

// Recompute resums both totals from the store.
func (a *Aggregator) Recompute(store *Store) {
	a.Reset()
	for _, c := range store.cues {
		a.Added(c)
	}
}

// Reset zeroes both totals.
func (a *Aggregator) Reset() {
	a.main, a.grand = 0, 0
}

// Totals returns the current totals.
func (a *Aggregator) Totals() Totals {
	return Totals{MainSeconds: a.main, GrandSeconds: a.grand}
}

// floating point subtraction can leave a tiny negative remainder
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
