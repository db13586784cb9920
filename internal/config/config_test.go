package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yazi-go/yazi/internal/keymap"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	want := Default()
	want.finalize()
	assert.Equal(t, want.Mgr.SortBy, cfg.Mgr.SortBy)
	assert.Equal(t, want.Tasks.WorkersPerPriority, cfg.Tasks.WorkersPerPriority)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	raw := `
[mgr]
sort_by = "modified"
show_hidden = true

[tasks]
workers = 7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yazi.toml"), []byte(raw), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "modified", cfg.Mgr.SortBy)
	assert.True(t, cfg.Mgr.ShowHidden)
	assert.Equal(t, 7, cfg.Tasks.WorkersPerPriority)
}

func TestLoadRejectsUnknownTopLevelKey(t *testing.T) {
	dir := t.TempDir()
	raw := "[bogus]\nfoo = 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yazi.toml"), []byte(raw), 0o644))

	_, err := Load(dir)
	assert.Error(t, err, "expected an error for unrecognized top-level key")
}

func TestLoadKeymapBindsChords(t *testing.T) {
	dir := t.TempDir()
	raw := `
[[mgr]]
on = ["g", "g"]
run = "cd /; arrow top"
desc = "go to top"

[[mgr]]
on = ["ctrl+a"]
run = "select_all"
`
	if err := os.WriteFile(filepath.Join(dir, "keymap.toml"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	r := keymap.NewResolver()
	if err := LoadKeymap(dir, r); err != nil {
		t.Fatalf("LoadKeymap: %v", err)
	}

	all := r.All()
	mgrChords := all[keymap.LayerManager]
	if len(mgrChords) != 2 {
		t.Fatalf("expected 2 bound chords, got %d", len(mgrChords))
	}
	if mgrChords[0].On[0].Code != "g" || mgrChords[0].On[1].Code != "g" {
		t.Fatalf("unexpected key sequence: %+v", mgrChords[0].On)
	}
	if len(mgrChords[0].Run) != 2 {
		t.Fatalf("expected 2 chained commands, got %d: %+v", len(mgrChords[0].Run), mgrChords[0].Run)
	}
	if mgrChords[1].On[0].Code != "a" || !mgrChords[1].On[0].Ctrl {
		t.Fatalf("ctrl+a not parsed correctly: %+v", mgrChords[1].On[0])
	}
}
