package qlab

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zenibako/fireworks-golang/messages"
	"github.com/zenibako/fireworks-golang/show"
	"github.com/zenibako/fireworks-golang/templates"

	"github.com/charmbracelet/log"
)

// Sender is the part of a QLab connection the exporter needs. *Workspace implements it.
type Sender interface {
	Send(address string, input string) []any
	GetAddress(msg string) string
}

// Exporter creates a show's running order as cues in QLab
type Exporter struct {
	sender  Sender
	builder *messages.OSCAddressBuilder
}

// NewExporter creates an exporter that sends through sender
func NewExporter(sender Sender) *Exporter {
	return &Exporter{
		sender:  sender,
		builder: messages.NewOSCAddressBuilder(""),
	}
}

// Push creates one cue per firework, in running order. A failure to create a cue stops
// the push; a failure to set a single property is recorded in the result and skipped.
func (e *Exporter) Push(ctx context.Context, s *show.Show) (templates.CueGenerationResult, error) {
	result := templates.CueGenerationResult{
		Success:     true,
		CuesCreated: []templates.CreatedCue{},
		Errors:      []string{},
	}

	cues := CuesFromShow(s)
	fireworks := s.Cues()
	for i, cue := range cues {
		if err := ctx.Err(); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, err.Error())
			return result, fmt.Errorf("push cancelled after %d of %d cues: %w", i, len(cues), err)
		}

		uniqueID, err := e.createCue(cue.Type)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, err.Error())
			return result, fmt.Errorf("failed to create cue %s (%s): %w", cue.Number, cue.Name, err)
		}

		for _, propErr := range e.setCueProperties(uniqueID, cue) {
			result.Errors = append(result.Errors, propErr.Error())
		}

		log.Info("Created cue", "type", cue.Type, "uniqueID", uniqueID, "cueNumber", cue.Number, "name", cue.Name)
		result.CuesCreated = append(result.CuesCreated, templates.CreatedCue{
			UniqueID:   uniqueID,
			CueNumber:  cue.Number,
			Name:       cue.Name,
			Type:       cue.Type,
			FireworkID: fireworks[i].ID,
		})
	}

	log.Info("Pushed show to QLab", "cues", len(result.CuesCreated), "warnings", len(result.Errors))
	return result, nil
}

// createCue creates a single cue in QLab and returns its unique ID
func (e *Exporter) createCue(cueType string) (string, error) {
	address := e.sender.GetAddress(e.builder.BuildAddress(messages.MsgNewCue, nil))
	reply := e.sender.Send(address, cueType)

	if err := replyError(reply); err != nil {
		return "", err
	}
	uniqueID := extractUniqueIDFromResult(reply)
	if uniqueID == "" {
		return "", fmt.Errorf("failed to extract unique ID from result: %v", reply)
	}
	return uniqueID, nil
}

// setCueProperties sets every exported property of a created cue
func (e *Exporter) setCueProperties(uniqueID string, cue Cue) []error {
	values := []struct {
		msgType messages.MessageType
		value   string
	}{
		{messages.MsgCueNumber, cue.Number},
		{messages.MsgCueName, cue.Name},
		{messages.MsgCueDuration, strconv.FormatFloat(cue.Duration, 'f', -1, 64)},
		{messages.MsgCueNotes, cue.Notes},
		{messages.MsgCueColorName, cue.ColorName},
		{messages.MsgCueContinueMode, strconv.Itoa(cue.ContinueMode)},
	}

	var errs []error
	for _, v := range values {
		address := e.sender.GetAddress(e.builder.BuildAddress(v.msgType, map[string]string{"unique_id": uniqueID}))
		if err := replyError(e.sender.Send(address, v.value)); err != nil {
			log.Warn("Failed to set property", "property", v.msgType, "uniqueID", uniqueID, "error", err)
			errs = append(errs, fmt.Errorf("cue %s: %s: %w", cue.Number, v.msgType, err))
		}
	}
	return errs
}

// extractUniqueIDFromResult extracts the unique ID from an OSC result
func extractUniqueIDFromResult(result []any) string {
	if len(result) == 0 {
		return ""
	}

	// Format: {"data":"UNIQUE-ID","status":"ok"}
	replyStr, ok := result[0].(string)
	if !ok {
		return ""
	}

	var replyData map[string]any
	if err := json.Unmarshal([]byte(replyStr), &replyData); err != nil {
		return ""
	}

	if uniqueID, ok := replyData["data"].(string); ok {
		return uniqueID
	}
	return ""
}
