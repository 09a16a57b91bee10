package qlab

// Cue is the subset of QLab cue properties a fireworks show is exported with.
type Cue struct {
	Type         string  `json:"type"`
	Name         string  `json:"name,omitempty"`
	Number       string  `json:"number,omitempty"`
	UniqueID     string  `json:"uniqueID,omitempty"`
	ColorName    string  `json:"colorName,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	ContinueMode int     `json:"continueMode,omitempty"` // 0=none, 1=auto-continue, 2=auto-follow
}

// WorkspaceData represents the exported workspace structure
type WorkspaceData struct {
	Name string `json:"name"`
	Cues []Cue  `json:"cues"`
}

// CueTypeMemo is the cue type used when a cue has none
const CueTypeMemo = "memo"
