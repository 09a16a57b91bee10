package show

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShowOpenerCloserExample(t *testing.T) {
	s := New()

	opener, err := s.AddCue("Opener", "12.5", CategoryMainEvent)
	if err != nil {
		t.Fatalf("AddCue returned error: %v", err)
	}
	closer, err := s.AddCue("Closer", "30", CategoryGrandFinale)
	if err != nil {
		t.Fatalf("AddCue returned error: %v", err)
	}

	if opener.Sequence != 1 || closer.Sequence != 2 {
		t.Errorf("Expected sequences 1 and 2, got %d and %d", opener.Sequence, closer.Sequence)
	}

	totals := s.Totals()
	if totals.MainSeconds != 12.5 || totals.GrandSeconds != 30 || totals.TotalSeconds() != 42.5 {
		t.Errorf("Expected totals 12.5/30/42.5, got %+v", totals)
	}
	if totals.Overall() != "0:42" {
		t.Errorf("Expected overall 0:42, got %s", totals.Overall())
	}

	rows := s.Rows()
	if rows[0] != (Row{Name: "Opener", Runtime: "0:12", Category: "Main Event", Sequence: 1}) {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
	if rows[1] != (Row{Name: "Closer", Runtime: "0:30", Category: "Grand Finale", Sequence: 2}) {
		t.Errorf("Unexpected second row: %+v", rows[1])
	}
}

func TestShowAddThenRemoveRestoresTotals(t *testing.T) {
	inputs := []struct {
		name     string
		runtime  string
		category string
	}{
		{"Comet", "0", CategoryMainEvent},
		{"Willow", "0.1", CategoryMainEvent},
		{"Strobe", "33.3", CategoryGrandFinale},
		{"Kamuro", "3600", CategoryGrandFinale},
	}

	s := New()
	_, _ = s.AddCue("Base main", "17.7", CategoryMainEvent)
	_, _ = s.AddCue("Base grand", "2.2", CategoryGrandFinale)

	for _, in := range inputs {
		before := s.Totals()
		beforeLen := s.Len()

		if _, err := s.AddCue(in.name, in.runtime, in.category); err != nil {
			t.Fatalf("AddCue(%q) returned error: %v", in.name, err)
		}
		removed, err := s.RemoveCue(s.Len() - 1)
		if err != nil {
			t.Fatalf("RemoveCue returned error: %v", err)
		}
		if removed.Name != in.name {
			t.Errorf("Expected to remove %q, got %q", in.name, removed.Name)
		}

		after := s.Totals()
		if after != before {
			t.Errorf("%s: expected totals %+v restored, got %+v", in.name, before, after)
		}
		if s.Len() != beforeLen {
			t.Errorf("%s: expected %d cues, got %d", in.name, beforeLen, s.Len())
		}
	}
}

func TestShowRemoveDoesNotDriftTotals(t *testing.T) {
	s := New()
	_, _ = s.AddCue("Willow", "0.1", CategoryMainEvent)
	_, _ = s.AddCue("Palm", "0.2", CategoryMainEvent)

	if _, err := s.RemoveCue(1); err != nil {
		t.Fatalf("RemoveCue returned error: %v", err)
	}
	if got := s.Totals().MainSeconds; got != 0.1 {
		t.Errorf("Expected main total exactly 0.1, got %v", got)
	}

	data, err := Serialize(s.store, s.totals)
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}
	if !strings.Contains(string(data), `"total_main_time": 0.1,`) {
		t.Errorf("Expected persisted main total 0.1, got:\n%s", data)
	}
}

func TestShowValidationLeavesStateUnchanged(t *testing.T) {
	s := New()
	_, _ = s.AddCue("Keep", "5", CategoryMainEvent)

	bad := []struct{ name, runtime, category string }{
		{"", "5", CategoryMainEvent},
		{"x", "", CategoryMainEvent},
		{"x", "abc", CategoryMainEvent},
		{"x", "-2", CategoryGrandFinale},
		{"x", "5", "Intermission"},
	}
	for _, b := range bad {
		if _, err := s.AddCue(b.name, b.runtime, b.category); !errors.Is(err, ErrValidation) {
			t.Errorf("AddCue(%q, %q, %q): expected ErrValidation, got %v", b.name, b.runtime, b.category, err)
		}
	}

	if s.Len() != 1 || s.Totals().MainSeconds != 5 {
		t.Errorf("Expected state unchanged, got %d cues and totals %+v", s.Len(), s.Totals())
	}
}

func TestShowRemoveWithoutSelection(t *testing.T) {
	s := New()

	if _, err := s.RemoveCue(NoSelection); !errors.Is(err, ErrSelection) {
		t.Errorf("Expected ErrSelection on empty show, got %v", err)
	}
	if _, err := s.RemoveCue(0); !errors.Is(err, ErrSelection) {
		t.Errorf("Expected ErrSelection removing index 0 of empty show, got %v", err)
	}
	if s.Dirty() {
		t.Error("Expected failed removal not to mark the show dirty")
	}
}

func TestShowRandomizeKeepsTotals(t *testing.T) {
	s := New(WithSeed(11))
	_, _ = s.AddCue("Finale", "40", CategoryGrandFinale)
	for _, name := range []string{"A", "B", "C", "D"} {
		_, _ = s.AddCue(name, "10", CategoryMainEvent)
	}
	if s.Ordered() {
		t.Fatal("Expected a finale entered first to leave the show unordered")
	}
	before := s.Totals()

	s.Randomize()

	if !s.Ordered() {
		t.Error("Expected randomize to move the grand finale after the main events")
	}
	if s.Totals() != before {
		t.Errorf("Expected totals %+v unchanged, got %+v", before, s.Totals())
	}
	rows := s.Rows()
	if rows[len(rows)-1].Name != "Finale" || rows[len(rows)-1].Sequence != 5 {
		t.Errorf("Expected Finale last with sequence 5, got %+v", rows[len(rows)-1])
	}
}

func TestShowSaveLoadNewShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fourth.json")

	s := New()
	_, _ = s.AddCue("Opener", "12.5", CategoryMainEvent)
	_, _ = s.AddCue("Mid", "20", CategoryMainEvent)
	_, _ = s.AddCue("Closer", "30", CategoryGrandFinale)
	want := s.Cues()

	if !s.Dirty() {
		t.Error("Expected show to be dirty after adds")
	}
	if err := s.SaveShow(path); err != nil {
		t.Fatalf("SaveShow returned error: %v", err)
	}
	if s.Dirty() || s.Path() != path {
		t.Errorf("Expected clean show at %s, got dirty=%v path=%s", path, s.Dirty(), s.Path())
	}

	s.NewShow()
	if s.Len() != 0 || s.Totals().TotalSeconds() != 0 || s.Path() != "" {
		t.Errorf("Expected NewShow to empty everything, got %d cues, totals %+v, path %q", s.Len(), s.Totals(), s.Path())
	}

	if err := s.LoadShow(path); err != nil {
		t.Fatalf("LoadShow returned error: %v", err)
	}
	got := s.Cues()
	if len(got) != len(want) {
		t.Fatalf("Expected %d cues, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cue %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if s.Totals().MainSeconds != 32.5 || s.Totals().GrandSeconds != 30 {
		t.Errorf("Expected totals 32.5/30, got %+v", s.Totals())
	}

	next, _ := s.AddCue("Encore", "5", CategoryGrandFinale)
	if next.Sequence != 4 {
		t.Errorf("Expected the next cue after load to get sequence 4, got %d", next.Sequence)
	}
}

func TestShowFailedLoadKeepsCurrentShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"fireworks": [{"name": "x"}]}`), 0644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	s := New()
	_, _ = s.AddCue("Keep me", "9", CategoryMainEvent)

	if err := s.LoadShow(path); !errors.Is(err, ErrFormat) {
		t.Errorf("Expected ErrFormat, got %v", err)
	}
	if s.Len() != 1 || s.Rows()[0].Name != "Keep me" || s.Totals().MainSeconds != 9 {
		t.Errorf("Expected current show kept after failed load, got %+v", s.Rows())
	}
}

func TestShowSaveRequiresPath(t *testing.T) {
	if err := New().SaveShow(""); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for an empty path, got %v", err)
	}
}
