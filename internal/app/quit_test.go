package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yazi-go/yazi/internal/core"
	"github.com/yazi-go/yazi/internal/keymap"
	"github.com/yazi-go/yazi/internal/scheduler"
	"github.com/yazi-go/yazi/internal/yzurl"
)

func newTestCore(t *testing.T) *core.Core {
	t.Helper()
	mgr := core.NewManager(yzurl.New(t.TempDir()), nil)
	sched := scheduler.New(1, 1)
	return core.NewCore(mgr, sched, keymap.NewResolver(), "")
}

func TestWriteChooserFiles_BlankPathsAreNoOp(t *testing.T) {
	m := Model{Core: newTestCore(t)}
	if err := m.writeChooserFiles(); err != nil {
		t.Fatalf("writeChooserFiles() with no output paths = %v, want nil", err)
	}
}

func TestWriteChooserFiles_WritesExplicitChoices(t *testing.T) {
	dir := t.TempDir()
	chooser := filepath.Join(dir, "chooser.txt")
	m := Model{
		Core:   newTestCore(t),
		Out:    OutPaths{ChooserFile: chooser},
		chosen: []string{"/a/b", "/a/c"},
	}
	if err := m.writeChooserFiles(); err != nil {
		t.Fatalf("writeChooserFiles() = %v", err)
	}
	got, err := os.ReadFile(chooser)
	if err != nil {
		t.Fatalf("reading chooser file: %v", err)
	}
	want := "/a/b\n/a/c\n"
	if string(got) != want {
		t.Errorf("chooser file content = %q, want %q", got, want)
	}
}

func TestWriteChooserFiles_WritesBothChooserAndSelectedFile(t *testing.T) {
	dir := t.TempDir()
	chooser := filepath.Join(dir, "chooser.txt")
	selected := filepath.Join(dir, "selected.txt")
	m := Model{
		Core:   newTestCore(t),
		Out:    OutPaths{ChooserFile: chooser, SelectedFile: selected},
		chosen: []string{"/x"},
	}
	if err := m.writeChooserFiles(); err != nil {
		t.Fatalf("writeChooserFiles() = %v", err)
	}
	a, _ := os.ReadFile(chooser)
	b, _ := os.ReadFile(selected)
	if string(a) != string(b) {
		t.Errorf("chooser file %q and selected file %q should be identical", a, b)
	}
	if !strings.Contains(string(a), "/x") {
		t.Errorf("chooser file %q missing chosen path", a)
	}
}

func TestWriteChooserFiles_FallsBackToActiveSelection(t *testing.T) {
	dir := t.TempDir()
	chooser := filepath.Join(dir, "chooser.txt")
	c := newTestCore(t)
	picked := yzurl.New(filepath.Join(dir, "picked.txt"))
	c.Manager.Active().Selected.Add(picked)

	m := Model{Core: c, Out: OutPaths{ChooserFile: chooser}}
	if err := m.writeChooserFiles(); err != nil {
		t.Fatalf("writeChooserFiles() = %v", err)
	}
	got, err := os.ReadFile(chooser)
	if err != nil {
		t.Fatalf("reading chooser file: %v", err)
	}
	if !strings.Contains(string(got), "picked.txt") {
		t.Errorf("chooser file %q should contain the selected path", got)
	}
}
