package palette

import (
	"testing"

	"github.com/yazi-go/yazi/internal/bus"
	"github.com/yazi-go/yazi/internal/keymap"
)

func TestFormatCommandID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"stage-file", "Stage file"},
		{"commit", "Commit"},
		{"show-diff-staged", "Show diff staged"},
		{"", ""},
	}

	for _, tt := range tests {
		got := formatCommandID(tt.input)
		if got != tt.want {
			t.Errorf("formatCommandID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildEntriesFlattensAndDeduplicates(t *testing.T) {
	r := keymap.NewResolver()
	r.Bind(keymap.LayerManager, keymap.Chord{
		On:  []keymap.Key{{Code: "q"}},
		Run: []bus.Cmd{{Name: "quit"}},
	})
	r.Bind(keymap.LayerManager, keymap.Chord{
		On:  []keymap.Key{{Code: "q"}},
		Run: []bus.Cmd{{Name: "quit"}},
	})
	r.Bind(keymap.LayerInput, keymap.Chord{
		On:   []keymap.Key{{Code: "enter"}},
		Run:  []bus.Cmd{{Name: "submit"}},
		Desc: "Submit input",
	})

	entries := BuildEntries(r)
	if len(entries) != 2 {
		t.Fatalf("expected duplicate chord to be deduplicated, got %d entries: %+v", len(entries), entries)
	}

	var sawSubmit bool
	for _, e := range entries {
		if e.CommandID == "submit" {
			sawSubmit = true
			if e.Desc != "Submit input" {
				t.Errorf("expected explicit Desc to be preserved, got %q", e.Desc)
			}
			if e.Layer != keymap.LayerInput {
				t.Errorf("expected submit entry on LayerInput, got %v", e.Layer)
			}
		}
	}
	if !sawSubmit {
		t.Fatalf("expected a submit entry, got %+v", entries)
	}
}

func TestBuildEntriesFallsBackToFormattedCommandID(t *testing.T) {
	r := keymap.NewResolver()
	r.Bind(keymap.LayerManager, keymap.Chord{
		On:  []keymap.Key{{Code: "q"}},
		Run: []bus.Cmd{{Name: "quit-app"}},
	})

	entries := BuildEntries(r)
	if len(entries) != 1 || entries[0].Desc != "Quit app" {
		t.Fatalf("expected a formatted fallback description, got %+v", entries)
	}
}

func TestFilterEntriesForContextIncludesManagerLayer(t *testing.T) {
	entries := []PaletteEntry{
		{CommandID: "a", Layer: keymap.LayerManager},
		{CommandID: "b", Layer: keymap.LayerInput},
		{CommandID: "c", Layer: keymap.LayerConfirm},
	}

	got := FilterEntriesForContext(entries, keymap.LayerInput)
	if len(got) != 2 {
		t.Fatalf("expected manager + input entries, got %+v", got)
	}
	for _, e := range got {
		if e.Layer != keymap.LayerManager && e.Layer != keymap.LayerInput {
			t.Errorf("unexpected layer %v leaked through filter", e.Layer)
		}
	}
}
