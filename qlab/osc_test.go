package qlab

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

const mockHost = "127.0.0.1"

// freePortPair finds a UDP port whose successor is also free, for the mock server and
// the workspace reply listener.
func freePortPair(t *testing.T) int {
	t.Helper()
	for range 20 {
		conn, err := net.ListenPacket("udp", mockHost+":0")
		if err != nil {
			t.Fatalf("Failed to find a free UDP port: %v", err)
		}
		port := conn.LocalAddr().(*net.UDPAddr).Port
		next, err := net.ListenPacket("udp", fmt.Sprintf("%s:%d", mockHost, port+1))
		_ = conn.Close()
		if err == nil {
			_ = next.Close()
			return port
		}
	}
	t.Fatal("Failed to find two adjacent free UDP ports")
	return 0
}

// startMockQLab starts a mock server and a workspace pointed at it
func startMockQLab(t *testing.T) (*MockOSCServer, *Workspace) {
	t.Helper()
	port := freePortPair(t)

	mock := NewMockOSCServer(mockHost, port)
	if err := mock.Start(); err != nil {
		t.Fatalf("Failed to start mock server: %v", err)
	}
	t.Cleanup(func() { _ = mock.Stop() })

	workspace := NewWorkspace(mockHost, port)
	workspace.SetTimeout(2)
	t.Cleanup(workspace.Close)

	return mock, workspace
}

func TestWorkspaceInitOverOSC(t *testing.T) {
	mock, workspace := startMockQLab(t)

	if err := workspace.Init(""); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	if !workspace.IsConnected() {
		t.Error("Expected workspace to be connected after Init")
	}
	if workspace.WorkspaceID() != mock.GetWorkspaceID() {
		t.Errorf("Expected workspace ID %q, got %q", mock.GetWorkspaceID(), workspace.WorkspaceID())
	}
	if !mock.AlwaysReply() {
		t.Error("Expected Init to enable alwaysReply")
	}
	if got := len(mock.GetMessagesForAddress("/connect")); got != 1 {
		t.Errorf("Expected 1 connect message, got %d", got)
	}
}

func TestWorkspaceInitBadPasscode(t *testing.T) {
	mock, workspace := startMockQLab(t)
	mock.SetPasscode("1234")

	err := workspace.Init("4321")
	if err == nil || !strings.Contains(err.Error(), "incorrect passcode") {
		t.Fatalf("Expected a passcode error, got %v", err)
	}
	if workspace.IsConnected() {
		t.Error("Expected workspace to stay disconnected after a bad passcode")
	}
}

func TestWorkspaceInitWithPasscode(t *testing.T) {
	mock, workspace := startMockQLab(t)
	mock.SetPasscode("1234")

	if err := workspace.Init("1234"); err != nil {
		t.Fatalf("Init with the right passcode returned error: %v", err)
	}
	connects := mock.GetMessagesForAddress("/connect")
	if len(connects) != 1 || len(connects[0].Arguments) != 1 || connects[0].Arguments[0] != "1234" {
		t.Errorf("Expected the passcode sent with /connect, got %+v", connects)
	}
}

func TestExporterPushOverOSC(t *testing.T) {
	mock, workspace := startMockQLab(t)
	if err := workspace.Init(""); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	s := sampleShow(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := NewExporter(workspace).Push(ctx, s)
	if err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	if !result.Success || len(result.Errors) != 0 {
		t.Fatalf("Expected a clean push, got %+v", result)
	}
	if len(result.CuesCreated) != 3 || mock.GetCueCount() != 3 {
		t.Fatalf("Expected 3 cues created, got %d (mock has %d)", len(result.CuesCreated), mock.GetCueCount())
	}

	cues := mock.Cues()
	for i, cue := range cues {
		if cue.UniqueID != result.CuesCreated[i].UniqueID {
			t.Errorf("Cue %d: expected unique ID %q, got %q", i, result.CuesCreated[i].UniqueID, cue.UniqueID)
		}
		if cue.Type != CueTypeMemo {
			t.Errorf("Cue %d: expected memo cue, got %q", i, cue.Type)
		}
		if cue.Properties["number"] != fmt.Sprint(i+1) {
			t.Errorf("Cue %d: expected number %d, got %q", i, i+1, cue.Properties["number"])
		}
	}

	first, last := cues[0].Properties, cues[2].Properties
	if first["name"] != "Opener" || first["duration"] != "12.5" || first["continueMode"] != "2" {
		t.Errorf("Unexpected first cue properties: %v", first)
	}
	if last["name"] != "Closer" || last["colorName"] != "red" || last["continueMode"] != "0" {
		t.Errorf("Unexpected finale cue properties: %v", last)
	}

	if got := len(mock.GetMessagesForAddress("/new")); got != 3 {
		t.Errorf("Expected 3 /new messages, got %d", got)
	}
	if got := len(mock.GetMessagesForAddress("/cue_id/")); got != 18 {
		t.Errorf("Expected 18 property messages, got %d", got)
	}
	for _, msg := range mock.GetMessagesForAddress("/new") {
		if !strings.HasPrefix(msg.Address, "/workspace/"+mock.GetWorkspaceID()) {
			t.Errorf("Expected workspace-prefixed address, got %q", msg.Address)
		}
	}
}

func TestPropertySetOnUnknownCueReturnsError(t *testing.T) {
	mock, workspace := startMockQLab(t)
	if err := workspace.Init(""); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	// Property sets for a cue QLab does not know come back as error replies
	reply := workspace.Send(workspace.GetAddress("/cue_id/NOPE/name"), "x")
	err := replyError(reply)
	if err == nil || !strings.Contains(err.Error(), "cue NOPE not found") {
		t.Errorf("Expected a not-found error reply, got %v", err)
	}
	if mock.GetCueCount() != 0 {
		t.Errorf("Expected no cues created, got %d", mock.GetCueCount())
	}
}

func TestSendTimesOutWithoutReply(t *testing.T) {
	port := freePortPair(t)
	workspace := NewWorkspace(mockHost, port)
	workspace.SetTimeout(1)
	workspace.SetMaxRetries(1)
	defer workspace.Close()

	start := time.Now()
	reply := workspace.Send("/connect", "")
	elapsed := time.Since(start)

	err := replyError(reply)
	if err == nil || !strings.Contains(err.Error(), timeoutError) {
		t.Errorf("Expected a timeout error reply, got %v", err)
	}
	if elapsed < 2*time.Second {
		t.Errorf("Expected one retry after the first timeout, returned after %v", elapsed)
	}
	if len(workspace.replyHandlers) != 0 {
		t.Errorf("Expected reply handlers cleaned up, got %d", len(workspace.replyHandlers))
	}
}
