package qlab

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zenibako/fireworks-golang/show"
	"github.com/zenibako/fireworks-golang/templates"
)

// CuesFromShow converts the running order into QLab cues, one per firework, numbered by
// sequence and styled from the category templates.
func CuesFromShow(s *show.Show) []Cue {
	fireworks := s.Cues()
	cues := make([]Cue, 0, len(fireworks))
	for i, fw := range fireworks {
		tmpl := templates.ForCue(fw, i == len(fireworks)-1)
		cue := Cue{
			Type:         tmpl.Type,
			Name:         fw.Name,
			Number:       strconv.Itoa(fw.Sequence),
			ColorName:    tmpl.ColorName,
			Notes:        tmpl.Notes,
			Duration:     fw.Runtime,
			ContinueMode: tmpl.ContinueMode,
		}
		NormalizeCue(&cue)
		cues = append(cues, cue)
	}
	return cues
}

// ToWorkspaceData converts a show to structured workspace data.
// The caller can serialize this to JSON, YAML, TOML, or any other format.
func ToWorkspaceData(workspaceName string, s *show.Show) WorkspaceData {
	return WorkspaceData{
		Name: workspaceName,
		Cues: CuesFromShow(s),
	}
}

// ToJSON converts a show to QLab workspace JSON.
// The caller can write this to a .json file if needed.
func ToJSON(workspaceName string, s *show.Show, indent bool) (string, error) {
	data := ToWorkspaceData(workspaceName, s)
	var result []byte
	var err error

	if indent {
		result, err = json.MarshalIndent(data, "", "  ")
	} else {
		result, err = json.Marshal(data)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal workspace data: %w", err)
	}

	return string(result), nil
}
