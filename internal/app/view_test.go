package app

import (
	"strings"
	"testing"

	"github.com/yazi-go/yazi/internal/bus"
	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/keymap"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

func fileWithName(name string, dir bool) vfile.File {
	var kind cha.Kind
	if dir {
		kind = cha.Dir
	}
	return vfile.File{URL: yzurl.New("/tmp/" + name), Cha: cha.Cha{Kind: kind}}
}

func TestFileLine_AppendsSlashForDirectories(t *testing.T) {
	line := fileLine(fileWithName("docs", true), 40)
	if !strings.HasSuffix(line, "docs/") {
		t.Errorf("fileLine(dir) = %q, want suffix docs/", line)
	}
}

func TestFileLine_NoSlashForRegularFiles(t *testing.T) {
	line := fileLine(fileWithName("readme.md", false), 40)
	if line != "readme.md" {
		t.Errorf("fileLine(file) = %q, want readme.md", line)
	}
}

func TestFileLine_TruncatesToWidth(t *testing.T) {
	line := fileLine(fileWithName("a-very-long-file-name.txt", false), 10)
	if len(line) != 10 {
		t.Errorf("fileLine truncated length = %d, want 10 (got %q)", len(line), line)
	}
}

func TestClampLines_WithinLimit(t *testing.T) {
	out := clampLines("a\nb\nc", 5)
	if out != "a\nb\nc" {
		t.Errorf("clampLines under limit = %q, want unchanged", out)
	}
}

func TestClampLines_TruncatesExcessLines(t *testing.T) {
	out := clampLines("a\nb\nc\nd", 2)
	if out != "a\nb" {
		t.Errorf("clampLines(4 lines, 2) = %q, want \"a\\nb\"", out)
	}
}

func TestBuildWhichModal_UsesChordDescWhenPresent(t *testing.T) {
	candidates := []keymap.Chord{
		{On: []keymap.Key{{Code: "g"}, {Code: "g"}}, Desc: "Go to top"},
	}
	m := buildWhichModal(candidates)
	if m == nil {
		t.Fatal("buildWhichModal returned nil")
	}
}

func TestBuildWhichModal_FallsBackToCommandName(t *testing.T) {
	candidates := []keymap.Chord{
		{On: []keymap.Key{{Code: "t"}, {Code: "n"}}, Run: []bus.Cmd{{Name: "tab_create"}}},
	}
	m := buildWhichModal(candidates)
	if m == nil {
		t.Fatal("buildWhichModal returned nil")
	}
}
