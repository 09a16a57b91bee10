package messages

import (
	"fmt"
	"strings"
)

// OSC messages sent to QLab when a show is pushed

// Message types
type MessageType string

const (
	// Application messages
	MsgConnect     MessageType = "connect"
	MsgDisconnect  MessageType = "disconnect"
	MsgAlwaysReply MessageType = "always_reply"

	// Workspace messages
	MsgNewCue MessageType = "new_cue"

	// Cue messages (by uniqueID)
	MsgCueName         MessageType = "cue_name"
	MsgCueNumber       MessageType = "cue_number"
	MsgCueDuration     MessageType = "cue_duration"
	MsgCueNotes        MessageType = "cue_notes"
	MsgCueColorName    MessageType = "cue_color_name"
	MsgCueContinueMode MessageType = "cue_continue_mode"
)

// OSC Address patterns
const (
	// Application level
	AddrConnect     = "/connect"
	AddrDisconnect  = "/disconnect"
	AddrAlwaysReply = "/alwaysReply"

	// Workspace level
	AddrNewCue = "/new"

	// Cue level (by uniqueID), relative to the workspace
	AddrCueIDName         = "/cue_id/{unique_id}/name"
	AddrCueIDNumber       = "/cue_id/{unique_id}/number"
	AddrCueIDDuration     = "/cue_id/{unique_id}/duration"
	AddrCueIDNotes        = "/cue_id/{unique_id}/notes"
	AddrCueIDColorName    = "/cue_id/{unique_id}/colorName"
	AddrCueIDContinueMode = "/cue_id/{unique_id}/continueMode"
)

var addresses = map[MessageType]string{
	MsgConnect:         AddrConnect,
	MsgDisconnect:      AddrDisconnect,
	MsgAlwaysReply:     AddrAlwaysReply,
	MsgNewCue:          AddrNewCue,
	MsgCueName:         AddrCueIDName,
	MsgCueNumber:       AddrCueIDNumber,
	MsgCueDuration:     AddrCueIDDuration,
	MsgCueNotes:        AddrCueIDNotes,
	MsgCueColorName:    AddrCueIDColorName,
	MsgCueContinueMode: AddrCueIDContinueMode,
}

// OSCAddressBuilder builds OSC addresses from message types and parameters
type OSCAddressBuilder struct {
	workspaceID string
}

// NewOSCAddressBuilder creates a new address builder
func NewOSCAddressBuilder(workspaceID string) *OSCAddressBuilder {
	return &OSCAddressBuilder{
		workspaceID: workspaceID,
	}
}

// BuildAddress builds an OSC address from a message type and parameters.
// Workspace-relative addresses are returned unprefixed; see WithWorkspace.
func (b *OSCAddressBuilder) BuildAddress(msgType MessageType, params map[string]string) string {
	address, ok := addresses[msgType]
	if !ok {
		return ""
	}

	for key, value := range params {
		placeholder := fmt.Sprintf("{%s}", key)
		address = strings.ReplaceAll(address, placeholder, value)
	}

	return address
}

// IsApplicationLevel reports whether address is sent to QLab itself rather than a workspace
func IsApplicationLevel(address string) bool {
	for _, cmd := range []string{
		AddrConnect,
		AddrDisconnect,
		AddrAlwaysReply,
		"/version",
		"/updates",
		"/udpReplyPort",
		"/workspaces",
	} {
		if strings.HasPrefix(address, cmd) {
			return true
		}
	}
	return false
}

// WithWorkspace prefixes a workspace-relative address with the workspace ID
func (b *OSCAddressBuilder) WithWorkspace(address string) string {
	if b.workspaceID == "" || !strings.HasPrefix(address, "/") {
		return address
	}
	if strings.HasPrefix(address, "/workspace/") || IsApplicationLevel(address) {
		return address
	}
	return b.GetWorkspacePrefix() + address
}

// BuildReplyAddress builds a reply address for a given request address
func (b *OSCAddressBuilder) BuildReplyAddress(requestAddress string) string {
	return "/reply" + requestAddress
}

// GetWorkspacePrefix returns the workspace prefix for addresses that need it
func (b *OSCAddressBuilder) GetWorkspacePrefix() string {
	if b.workspaceID == "" {
		return ""
	}
	return fmt.Sprintf("/workspace/%s", b.workspaceID)
}
