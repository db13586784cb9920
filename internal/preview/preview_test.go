package preview

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

func writeFile(t *testing.T, dir, name, content string) vfile.File {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	c, err := cha.Lstat(p)
	if err != nil {
		t.Fatalf("lstat fixture: %v", err)
	}
	return vfile.File{URL: yzurl.New(p), Cha: c}
}

func TestResetClearsLockAndBumpsGeneration(t *testing.T) {
	var p Preview
	p.Lock = &Lock{Kind: DataText}
	before := p.generation()
	p.Reset()
	if p.Lock != nil || p.FolderLock != nil {
		t.Fatalf("expected Reset to clear locks, got %+v", p)
	}
	if !p.Stale(before) {
		t.Fatalf("expected generation to advance past a pre-Reset token")
	}
}

func TestResetImageOnlyDropsImageLock(t *testing.T) {
	var p Preview
	p.Lock = &Lock{Kind: DataText, Text: "keep me"}
	p.ResetImage()
	if p.Lock == nil || p.Lock.Text != "keep me" {
		t.Fatalf("expected text lock to survive ResetImage, got %+v", p.Lock)
	}

	p.Lock = &Lock{Kind: DataImage}
	p.ResetImage()
	if p.Lock != nil {
		t.Fatalf("expected image lock to be dropped, got %+v", p.Lock)
	}
}

func TestPeekNilHoveredResets(t *testing.T) {
	var p Preview
	p.Lock = &Lock{Kind: DataText}
	cmd := p.Peek(context.Background(), nil, nil, nil, false, Opt{})
	if cmd != nil {
		t.Fatalf("expected nil cmd for nil hovered file")
	}
	if p.Lock != nil {
		t.Fatalf("expected Peek(nil) to reset the lock")
	}
}

func TestPeekHiderHeldOnlyErasesImage(t *testing.T) {
	var p Preview
	p.Lock = &Lock{Kind: DataImage}
	f := vfile.File{URL: yzurl.New("/tmp/x")}
	cmd := p.Peek(context.Background(), &f, nil, nil, true, Opt{})
	if cmd != nil {
		t.Fatalf("expected nil cmd while hider is held")
	}
	if p.Lock != nil {
		t.Fatalf("expected image lock erased while hider held")
	}
}

func TestPeekAwaitsMimeFetch(t *testing.T) {
	var p Preview
	f := vfile.File{URL: yzurl.New("/tmp/x")}
	mimeOf := func(yzurl.URL) (string, bool) { return "", false }
	cmd := p.Peek(context.Background(), &f, mimeOf, &Dispatcher{}, false, Opt{})
	if cmd != nil {
		t.Fatalf("expected no command while mime is unresolved")
	}
}

func TestPeekDirectorySetsFolderLockSynchronously(t *testing.T) {
	dir := t.TempDir()
	f := vfile.File{URL: yzurl.New(dir), Cha: cha.Cha{Kind: cha.Dir}}
	mimeOf := func(yzurl.URL) (string, bool) { return "inode/directory", true }

	var p Preview
	cmd := p.Peek(context.Background(), &f, mimeOf, &Dispatcher{}, false, Opt{})
	if cmd != nil {
		t.Fatalf("expected directory peek to resolve synchronously with no async cmd")
	}
	if p.FolderLock == nil || !yzurl.Equal(p.FolderLock.URL, f.URL) {
		t.Fatalf("expected FolderLock set to %v, got %+v", f.URL, p.FolderLock)
	}
	if p.Lock == nil || p.Lock.Kind != DataFolder {
		t.Fatalf("expected a DataFolder lock, got %+v", p.Lock)
	}
}

func TestPeekOnlyIfCancelsWhenHoverDiffers(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.txt", "hello")
	other := yzurl.New(filepath.Join(dir, "b.txt"))
	mimeOf := func(yzurl.URL) (string, bool) { return "text/plain", true }

	var p Preview
	cmd := p.Peek(context.Background(), &f, mimeOf, &Dispatcher{Rules: []Rule{{MimePattern: "text/*", Previewer: &TextPreviewer{}}}}, false, Opt{OnlyIf: &other})
	if cmd != nil {
		t.Fatalf("expected peek to cancel when only_if names a different file")
	}
}

func TestPeekUpperBoundClampsSkipDownwardOnly(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.txt", "hello\nworld\n")
	mimeOf := func(yzurl.URL) (string, bool) { return "text/plain", true }
	dispatch := &Dispatcher{Rules: []Rule{{MimePattern: "text/*", Previewer: &TextPreviewer{}}}}

	var p Preview
	// Seed a lock already targeting f so SameURL/SameFile hold and the
	// upper-bound comparison below exercises the existing p.Skip rather
	// than the "hover changed, reset skip to 0" branch.
	p.Lock = &Lock{URL: f.URL, Cha: f.Cha, Mime: "text/plain"}
	p.Skip = 5

	nine := 9
	p.Peek(context.Background(), &f, mimeOf, dispatch, false, Opt{Skip: &nine, UpperBound: true})
	if p.Skip != 5 {
		t.Fatalf("expected upper-bound skip to keep the smaller value 5, got %d", p.Skip)
	}

	three := 3
	p.Peek(context.Background(), &f, mimeOf, dispatch, false, Opt{Skip: &three, UpperBound: true})
	if p.Skip != 3 {
		t.Fatalf("expected upper-bound skip to clamp down to 3, got %d", p.Skip)
	}
}

func TestPeekFileDispatchesAsyncAndApplyInstallsLock(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.txt", "package main\n")
	mimeOf := func(yzurl.URL) (string, bool) { return "text/plain", true }
	dispatch := &Dispatcher{Rules: []Rule{{MimePattern: "text/*", Previewer: &TextPreviewer{}}}}

	var p Preview
	cmd := p.Peek(context.Background(), &f, mimeOf, dispatch, false, Opt{})
	if cmd == nil {
		t.Fatalf("expected an async peek command for a text file")
	}

	msg := cmd()
	result, ok := msg.(ResultMsg)
	if !ok {
		t.Fatalf("expected ResultMsg, got %T", msg)
	}
	if result.Err != nil {
		t.Fatalf("unexpected peek error: %v", result.Err)
	}

	p.Apply(result, &f)
	if p.Lock == nil || p.Lock.Kind != DataText {
		t.Fatalf("expected Apply to install a text lock, got %+v", p.Lock)
	}
}

func TestApplyDropsStaleResult(t *testing.T) {
	var p Preview
	stale := ResultMsg{Gen: 0, Lock: Lock{Kind: DataText, Text: "old"}}
	p.generation() // advances past gen 0
	p.Apply(stale, nil)
	if p.Lock != nil {
		t.Fatalf("expected a stale generation's result to be discarded, got %+v", p.Lock)
	}
}

func TestApplyDropsResultWhoseChaNoLongerHitsCurrentFile(t *testing.T) {
	var p Preview
	gen := p.generation()
	current := vfile.File{Cha: cha.Cha{Len: 100, Mtime: time.Unix(100, 0), Btime: time.Unix(100, 0)}}
	stale := ResultMsg{Gen: gen, Lock: Lock{Kind: DataText, Cha: cha.Cha{Len: 1, Mtime: time.Unix(1, 0), Btime: time.Unix(1, 0)}}}
	p.Apply(stale, &current)
	if p.Lock != nil {
		t.Fatalf("expected mismatched cha result to be dropped, got %+v", p.Lock)
	}
}

func TestTextPreviewerDetectsBinary(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "x.bin", "binary\x00data")

	var tp TextPreviewer
	lock, err := tp.Peek(context.Background(), f, "application/octet-stream", Area{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Kind != DataNone {
		t.Fatalf("expected binary file to produce DataNone, got %v", lock.Kind)
	}
}

func TestTextPreviewerHighlightsAndSkips(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "x.go", "line0\nline1\nline2\n")

	var tp TextPreviewer
	lock, err := tp.Peek(context.Background(), f, "text/x-go", Area{}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Kind != DataText || lock.Text == "" {
		t.Fatalf("expected non-empty text lock, got %+v", lock)
	}
}

func TestDispatcherResolvesByMimePattern(t *testing.T) {
	text := &TextPreviewer{}
	md := &MarkdownPreviewer{}
	d := &Dispatcher{Rules: []Rule{
		{MimePattern: "text/markdown", Previewer: md},
		{MimePattern: "text/*", Previewer: text},
	}}

	if d.Resolve("text/markdown") != Previewer(md) {
		t.Fatalf("expected exact pattern to win over the broader text/* rule")
	}
	if d.Resolve("text/plain") != Previewer(text) {
		t.Fatalf("expected text/* to match text/plain")
	}
	if d.Resolve("image/png") != nil {
		t.Fatalf("expected no previewer for an unmatched mime")
	}
}

func TestIsBinaryOnlyChecksFirst512Bytes(t *testing.T) {
	clean := make([]byte, 1000)
	for i := range clean {
		clean[i] = 'a'
	}
	clean[600] = 0 // past the 512-byte sniff window
	if isBinary(clean) {
		t.Fatalf("expected null byte past the sniff window to be ignored")
	}

	dirty := make([]byte, 1000)
	for i := range dirty {
		dirty[i] = 'a'
	}
	dirty[10] = 0
	if !isBinary(dirty) {
		t.Fatalf("expected null byte within the sniff window to be detected")
	}
}
