package core

import (
	"testing"
	"time"

	"github.com/yazi-go/yazi/internal/bus"
	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

func TestBuildSpot_File(t *testing.T) {
	f := vfile.File{
		URL: yzurl.New("/tmp/demo/a.txt"),
		Cha: cha.Cha{Len: 2048, Mtime: time.Now().Add(-time.Hour)},
	}
	s := BuildSpot(f, "text/plain")
	if len(s.Lines) < 4 {
		t.Fatalf("expected at least 4 lines, got %d: %v", len(s.Lines), s.Lines)
	}
	if s.Lines[0] != "a.txt" {
		t.Errorf("Lines[0] = %q, want file name", s.Lines[0])
	}
	found := false
	for _, l := range s.Lines {
		if l == "Mime  text/plain" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a mime line, got %v", s.Lines)
	}
}

func TestBuildSpot_Directory(t *testing.T) {
	f := vfile.File{
		URL: yzurl.New("/tmp/demo/b"),
		Cha: cha.Cha{Kind: cha.Dir},
	}
	s := BuildSpot(f, "")
	if s.Lines[1] != "Kind  directory" {
		t.Errorf("Lines[1] = %q, want Kind  directory", s.Lines[1])
	}
	for _, l := range s.Lines {
		if l == "Mime  " {
			t.Errorf("mime line should be omitted when mime is empty, got %v", s.Lines)
		}
	}
}

func TestSpotCmd_TogglesOpenClosed(t *testing.T) {
	cwd := yzurl.New("/tmp/demo")
	m := NewManager(cwd, nil)
	m.Active().Cwd().Apply(filesop.NewFull(cwd, []vfile.File{
		{URL: yzurl.New("/tmp/demo/a.txt")},
	}))

	c := &Core{Manager: m, Bus: bus.NewBus()}

	c.spotCmd()
	if m.Active().Spot == nil {
		t.Fatalf("expected spotCmd to open a Spot")
	}
	c.spotCmd()
	if m.Active().Spot != nil {
		t.Fatalf("expected second spotCmd to close the Spot")
	}
}
