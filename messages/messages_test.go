package messages

import "testing"

func TestBuildAddress(t *testing.T) {
	b := NewOSCAddressBuilder("WS-1")

	tests := []struct {
		msgType MessageType
		params  map[string]string
		want    string
	}{
		{MsgConnect, nil, "/connect"},
		{MsgNewCue, nil, "/new"},
		{MsgCueName, map[string]string{"unique_id": "ABC"}, "/cue_id/ABC/name"},
		{MsgCueDuration, map[string]string{"unique_id": "ABC"}, "/cue_id/ABC/duration"},
		{MsgCueContinueMode, map[string]string{"unique_id": "X"}, "/cue_id/X/continueMode"},
		{MessageType("bogus"), nil, ""},
	}

	for _, tt := range tests {
		if got := b.BuildAddress(tt.msgType, tt.params); got != tt.want {
			t.Errorf("BuildAddress(%s): expected %q, got %q", tt.msgType, tt.want, got)
		}
	}
}

func TestWithWorkspace(t *testing.T) {
	b := NewOSCAddressBuilder("WS-1")

	tests := map[string]string{
		"/new":                "/workspace/WS-1/new",
		"/cue_id/A/name":      "/workspace/WS-1/cue_id/A/name",
		"/connect":            "/connect",
		"/alwaysReply":        "/alwaysReply",
		"/workspace/WS-2/new": "/workspace/WS-2/new",
		"relative/no/slash":   "relative/no/slash",
	}
	for in, want := range tests {
		if got := b.WithWorkspace(in); got != want {
			t.Errorf("WithWorkspace(%q): expected %q, got %q", in, want, got)
		}
	}

	if got := NewOSCAddressBuilder("").WithWorkspace("/new"); got != "/new" {
		t.Errorf("Expected no prefix without a workspace, got %q", got)
	}
}

func TestBuildReplyAddress(t *testing.T) {
	b := NewOSCAddressBuilder("")
	if got := b.BuildReplyAddress("/workspace/W/new"); got != "/reply/workspace/W/new" {
		t.Errorf("Unexpected reply address %q", got)
	}
}
