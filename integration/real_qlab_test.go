package integration

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/zenibako/fireworks-golang/config"
	"github.com/zenibako/fireworks-golang/qlab"
	"github.com/zenibako/fireworks-golang/show"
)

// isQLabAvailable checks if QLab is running and accessible on the given host:port
func isQLabAvailable(host string, port int) bool {
	// Try a simple TCP connection to see if something is listening on the port
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", host, port), 2*time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()

	workspace := qlab.NewWorkspace(host, port)
	workspace.SetTimeout(2)
	defer workspace.Close()

	ch := make(chan error, 1)
	go func() {
		ch <- workspace.Init("")
	}()

	select {
	case err := <-ch:
		// A badpass reply still means QLab answered
		return err == nil || strings.Contains(err.Error(), "passcode")
	case <-time.After(3 * time.Second):
		return false
	}
}

// loadQLabConfig reads the QLab address from FIREWORKS_* variables, defaulting to localhost:53000
func loadQLabConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// TestRealQLabPush pushes a small show to a real QLab instance.
// This test automatically detects if QLab is available and skips if not.
// Run with: go test ./integration -run TestRealQLabPush -v
func TestRealQLabPush(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping real QLab test in short mode")
	}

	cfg := loadQLabConfig(t)

	t.Log("--- Checking if QLab is available ---")
	if !isQLabAvailable(cfg.QLabHost, cfg.QLabPort) {
		t.Skipf("QLab is not available on %s:%d - skipping real QLab test", cfg.QLabHost, cfg.QLabPort)
	}
	t.Logf("QLab detected on %s:%d", cfg.QLabHost, cfg.QLabPort)

	workspace := qlab.NewWorkspace(cfg.QLabHost, cfg.QLabPort)
	workspace.SetTimeout(cfg.QLabTimeoutSeconds)
	workspace.SetMaxRetries(cfg.QLabMaxRetries)
	defer workspace.Close()

	t.Log("--- Connecting to QLab ---")
	if err := workspace.Init(cfg.QLabPasscode); err != nil {
		if strings.Contains(err.Error(), "passcode") {
			t.Skipf("QLab workspace requires a passcode - set FIREWORKS_QLAB_PASSCODE. Error: %v", err)
		}
		t.Fatalf("Failed to initialize connection to QLab: %v", err)
	}
	if !workspace.IsConnected() {
		t.Fatal("Workspace should be connected after successful Init")
	}

	s := show.New(show.WithSeed(1))
	for _, in := range []struct{ name, runtime, category string }{
		{"Integration Opener", "5", show.CategoryMainEvent},
		{"Integration Peony", "7.5", show.CategoryMainEvent},
		{"Integration Finale", "10", show.CategoryGrandFinale},
	} {
		if _, err := s.AddCue(in.name, in.runtime, in.category); err != nil {
			t.Fatalf("AddCue(%q): %v", in.name, err)
		}
	}
	s.Randomize()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Log("--- Pushing show ---")
	result, err := qlab.NewExporter(workspace).Push(ctx, s)
	if err != nil {
		t.Fatalf("Push failed: %v (errors: %v)", err, result.Errors)
	}
	if len(result.CuesCreated) != s.Len() {
		t.Fatalf("Expected %d cues created, got %d", s.Len(), len(result.CuesCreated))
	}
	for _, e := range result.Errors {
		t.Logf("Property warning: %s", e)
	}

	last := result.CuesCreated[len(result.CuesCreated)-1]
	if last.Name != "Integration Finale" {
		t.Errorf("Expected the Grand Finale cue last, got %q", last.Name)
	}
	t.Logf("Created %d cues; delete them from the workspace when done", len(result.CuesCreated))
}
