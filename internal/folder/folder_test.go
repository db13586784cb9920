package folder

import (
	"testing"
	"time"

	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

func mkFile(root yzurl.URL, name string, dir bool, mtime int64) vfile.File {
	u := root.Join(name)
	k := cha.Kind(0)
	if dir {
		k |= cha.Dir
	}
	return vfile.File{URL: u, Cha: cha.Cha{Mtime: time.Unix(mtime, 0), Kind: k}}
}

func demoFolder() *Folder {
	root := yzurl.New("/tmp/demo")
	f := New(root)
	f.SetPage(10)
	files := []vfile.File{
		mkFile(root, "a", false, 1),
		mkFile(root, "b", true, 2),
		mkFile(root, "c.txt", false, 3),
	}
	f.Apply(filesop.NewFull(root, files))
	f.SetSorter(Sorter{Key: SortAlphabetical, DirFirst: true})
	return f
}

func TestFullThenSortedAndCursorInvariant(t *testing.T) {
	f := demoFolder()
	if f.Len() != 3 {
		t.Fatalf("expected 3 files, got %d", f.Len())
	}
	if f.cursor > f.Len()-1 {
		t.Fatalf("cursor invariant violated")
	}
	// dir-first: "b" (dir) should sort ahead of "a" and "c.txt".
	if f.Files()[0].Name() != "b" {
		t.Fatalf("expected dir-first sort to put b first, got %q", f.Files()[0].Name())
	}
}

func TestNavigateScenario(t *testing.T) {
	f := demoFolder()
	// hover starts at index 0 ("b" dir-first); step through per scenario 1.
	f.MoveCursor(Next())
	f.MoveCursor(Next())
	if fl, _ := f.CursorFile(); fl.Name() != "c.txt" {
		t.Fatalf("expected c.txt hovered after two Next, got %q", fl.Name())
	}
	f.MoveCursor(Prev())
	if fl, _ := f.CursorFile(); fl.Name() != "a" {
		t.Fatalf("expected a hovered after Prev, got %q", fl.Name())
	}
}

func TestFilterPreservesHoverAndClearRestores(t *testing.T) {
	f := demoFolder()
	f.Hover("c.txt")
	if err := f.SetFilter("c", CaseSmart); err != nil {
		t.Fatal(err)
	}
	if f.Len() != 1 {
		t.Fatalf("expected filter to narrow to 1 entry, got %d", f.Len())
	}
	if fl, _ := f.CursorFile(); fl.Name() != "c.txt" {
		t.Fatalf("expected c.txt to remain hovered under filter")
	}
	f.ClearFilter()
	if f.Len() != 3 {
		t.Fatalf("expected filter clear to restore all 3 entries, got %d", f.Len())
	}
	if fl, _ := f.CursorFile(); fl.Name() != "c.txt" {
		t.Fatalf("expected hover restored to c.txt after clearing filter, got %q", fl.Name())
	}
}

func TestUpsertingKeepsSortedAndBumpsRevision(t *testing.T) {
	f := demoFolder()
	rev := f.Revision()
	root := f.URL()
	newFile := mkFile(root, "aa", false, 4)
	f.Apply(filesop.NewUpserting(root, map[string]vfile.File{"aa": newFile}))
	if f.Revision() <= rev {
		t.Fatalf("expected revision to strictly increase")
	}
	names := make([]string, f.Len())
	for i, fl := range f.Files() {
		names[i] = fl.Name()
	}
	for i := 1; i < len(names); i++ {
		// non dir-first tie-break is alphabetical among files; just assert
		// the slice stayed internally consistent (index matches position).
		if _, ok := f.FileByUrn(names[i]); !ok {
			t.Fatalf("index missing urn %q", names[i])
		}
	}
}

func TestDeletingRemovesAndClearsHoverIfDeleted(t *testing.T) {
	f := demoFolder()
	f.Hover("a")
	root := f.URL()
	f.Apply(filesop.NewDeleting(root, map[string]struct{}{"a": {}}))
	if f.Len() != 2 {
		t.Fatalf("expected 2 files remaining, got %d", f.Len())
	}
	if _, ok := f.FileByUrn("a"); ok {
		t.Fatalf("expected a to be removed from index")
	}
}

func TestStalePartTicketDiscarded(t *testing.T) {
	f := demoFolder()
	root := f.URL()
	f.BeginLoad(5)
	applied := f.Apply(filesop.NewPart(root, nil, 4))
	if applied {
		t.Fatalf("expected a stale ticket to be discarded")
	}
	applied = f.Apply(filesop.NewPart(root, []vfile.File{mkFile(root, "z", false, 9)}, 5))
	if !applied {
		t.Fatalf("expected a current ticket to apply")
	}
}

func TestSelectionRejectsNestedPaths(t *testing.T) {
	sel := NewSelection()
	parent := yzurl.New("/tmp/demo/b")
	child := yzurl.New("/tmp/demo/b/inner.txt")
	if !sel.Add(parent) {
		t.Fatalf("expected first add to succeed")
	}
	if sel.Add(child) {
		t.Fatalf("expected nested child to be rejected")
	}
	if sel.Len() != 1 {
		t.Fatalf("expected selection to still have 1 entry")
	}
}

func TestStepLaws(t *testing.T) {
	const length = 5
	for pos := 0; pos < length; pos++ {
		after := Next().Apply(pos, length)
		back := Prev().Apply(after, length)
		if back != pos {
			t.Fatalf("Prev(Next(%d)) = %d, want %d", pos, back, pos)
		}
	}
	if Top().Apply(3, length) != Top().Apply(Top().Apply(3, length), length) {
		t.Fatalf("Top must be idempotent")
	}
	if Bot().Apply(3, length) != Bot().Apply(Bot().Apply(3, length), length) {
		t.Fatalf("Bot must be idempotent")
	}
	for _, p := range []int8{-100, -50, 0, 50, 100} {
		pos := Percent(p).Apply(2, length)
		if pos < 0 || pos >= length {
			t.Fatalf("Percent(%d) produced out-of-range position %d", p, pos)
		}
	}
}
