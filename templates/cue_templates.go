package templates

import "github.com/zenibako/fireworks-golang/show"

// CueTemplate describes how a firework category is represented as a QLab cue
type CueTemplate struct {
	Type         string `json:"type"`          // QLab cue type: "memo", "group", etc.
	ColorName    string `json:"color_name"`    // QLab colour label
	ContinueMode int    `json:"continue_mode"` // 0=none, 1=auto-continue, 2=auto-follow
	Notes        string `json:"notes"`         // Written to the cue's notes field
}

// QLab continue modes used by the templates
const (
	ContinueModeNone       = 0
	ContinueModeAutoFollow = 2
)

// Main Event cues follow each other automatically; Grand Finale cues are red so the
// operator can see the finale block at a glance.
var categoryTemplates = map[show.Category]CueTemplate{
	show.MainEvent: {
		Type:         "memo",
		ColorName:    "none",
		ContinueMode: ContinueModeAutoFollow,
		Notes:        show.CategoryMainEvent,
	},
	show.GrandFinale: {
		Type:         "memo",
		ColorName:    "red",
		ContinueMode: ContinueModeAutoFollow,
		Notes:        show.CategoryGrandFinale,
	},
}

// ForCategory returns the cue template for a firework category. Unknown categories
// fall back to the Main Event template.
func ForCategory(category show.Category) CueTemplate {
	if tmpl, ok := categoryTemplates[category]; ok {
		return tmpl
	}
	return categoryTemplates[show.MainEvent]
}

// ForCue returns the template for c, with the last cue in the show left without a
// continue mode so playback stops there.
func ForCue(c show.Cue, last bool) CueTemplate {
	tmpl := ForCategory(c.Category)
	if last {
		tmpl.ContinueMode = ContinueModeNone
	}
	return tmpl
}

// CueGenerationResult represents the result of pushing a show to QLab
type CueGenerationResult struct {
	Success     bool         `json:"success"`
	CuesCreated []CreatedCue `json:"cues_created,omitempty"`
	Errors      []string     `json:"errors,omitempty"`
}

// CreatedCue represents a successfully created cue
type CreatedCue struct {
	UniqueID   string `json:"unique_id"`
	CueNumber  string `json:"cue_number"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	FireworkID string `json:"firework_id"`
}
