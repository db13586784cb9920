// Package preview implements the peek/preview pipeline described in
// spec.md §4.4: a per-tab Preview state machine that resolves a previewer
// for the hovered file by (url, mime), cancels superseded loads via a
// generation token, and renders text/image/directory content.
//
// It generalizes the teacher's internal/plugins/filebrowser/preview.go
// (epoch-stamped PreviewLoadedMsg, chroma syntax highlighting, binary
// sniffing) from a single flat "load this path" command into the spec's
// directory-peek + mime-gated + cancellable-previewer-plugin model
// described in original_source/app/src/manager/preview.rs and
// yazi-core/src/mgr/commands/{peek.rs,seek.rs}.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alecthomas/chroma/v2/quick"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/cellbuf"

	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

const (
	maxPreviewSize  = 500 * 1024 // 500KB, per teacher's filebrowser/preview.go
	maxPreviewLines = 10000
)

// Area is the screen rectangle a previewer is asked to fill.
type Area struct {
	X, Y, W, H int
}

// DataKind discriminates the payload carried by a Lock.
type DataKind uint8

const (
	DataNone DataKind = iota
	DataText
	DataImage
	DataFolder
)

// Lock is the result of a successful peek: a snapshot binding a URL at a
// given Cha to rendered content, per spec.md §4.4 "lock = { url, cha,
// mime, skip, area, data }".
type Lock struct {
	URL   yzurl.URL
	Cha   cha.Cha
	Mime  string
	Skip  int
	Area  Area
	Kind  DataKind
	Text  string // rendered (possibly highlighted) text, for DataText
	Error error
}

// FolderLock records which directory a previewer should render for
// DataFolder peeks, resolved against the tab's own folder history by the
// caller (the preview package only carries the target URL).
type FolderLock struct {
	URL yzurl.URL
}

// Preview is the per-tab peek state machine from spec.md §4.4.
type Preview struct {
	Lock       *Lock
	FolderLock *FolderLock
	Skip       int
	Pending    bool // a background Peek is in flight and hasn't Applied yet

	gen uint64 // current generation; used to cancel stale previewer runs
}

// Reset drops the current lock and folder lock, as when nothing is
// hovered or the hover changed to an unrelated file.
func (p *Preview) Reset() {
	p.Lock = nil
	p.FolderLock = nil
	p.Skip = 0
	p.Pending = false
	atomic.AddUint64(&p.gen, 1)
}

// ResetImage drops only image content, keeping any text lock — used when
// the hider semaphore is held by another subsystem (spec.md §4.4 step 2).
func (p *Preview) ResetImage() {
	if p.Lock != nil && p.Lock.Kind == DataImage {
		p.Lock = nil
	}
}

// SameURL reports whether the current lock already targets url.
func (p *Preview) SameURL(url yzurl.URL) bool {
	return p.Lock != nil && yzurl.Equal(p.Lock.URL, url)
}

// SameFile reports whether the current lock already targets url at mime
// with an unchanged Cha (spec.md §4.4's staleness test).
func (p *Preview) SameFile(f vfile.File, mime string) bool {
	return p.Lock != nil && yzurl.Equal(p.Lock.URL, f.URL) && p.Lock.Mime == mime && p.Lock.Cha.Hits(f.Cha)
}

// generation returns the current cancellation generation, bumping it so
// any in-flight previewer started before this call observes a stale
// token on its next check.
func (p *Preview) generation() uint64 {
	return atomic.AddUint64(&p.gen, 1)
}

// Stale reports whether gen is no longer the Preview's current
// generation, i.e. a newer peek has superseded it.
func (p *Preview) Stale(gen uint64) bool {
	return atomic.LoadUint64(&p.gen) != gen
}

// Opt carries the peek(force?, only_if?, skip?, upper_bound?) arguments
// from spec.md §4.4.
type Opt struct {
	Force      bool
	OnlyIf     *yzurl.URL
	Skip       *int
	UpperBound bool
}

// Previewer loads preview content for a single file. Implementations are
// registered by mime pattern in a Dispatcher.
type Previewer interface {
	// Peek loads content for f at the given area/skip. It must respect
	// ctx cancellation promptly: superseding peeks cancel ctx.
	Peek(ctx context.Context, f vfile.File, mime string, area Area, skip int) (Lock, error)
	// Seek adjusts skip by units within whatever content was last peeked
	// (e.g. scrolling within an image or a long text file).
	Seek(units int) int
}

// Rule binds a previewer to files whose mime matches a pattern, mirroring
// yazi.toml's previewer config table referenced by
// yazi-core/src/mgr/commands/peek.rs's "previewer plugin chosen by
// (url, mime) config match".
type Rule struct {
	MimePattern string // glob-ish, e.g. "text/*", "image/*"
	Previewer   Previewer
}

// Dispatcher resolves a Previewer for a (url, mime) pair from an ordered
// rule table, first match wins.
type Dispatcher struct {
	Rules []Rule
}

// Resolve returns the first rule whose MimePattern matches mime.
func (d *Dispatcher) Resolve(mime string) Previewer {
	for _, r := range d.Rules {
		if matchMime(r.MimePattern, mime) {
			return r.Previewer
		}
	}
	return nil
}

func matchMime(pattern, mime string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(mime, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == mime
}

// ResultMsg is delivered back through the app loop's bus once a
// previewer completes, carrying the generation it was started under so
// Apply can discard it if a later peek has since superseded it —
// generalizing the teacher's PreviewLoadedMsg.GetEpoch staleness check
// onto Preview's generation counter.
type ResultMsg struct {
	Gen  uint64
	Lock Lock
	Err  error
}

// Peek runs spec.md §4.4's algorithm: mime-gate, set skip/folder-lock
// state synchronously, and return a tea.Cmd that dispatches to the
// matching previewer off the app loop's goroutine. The returned ResultMsg
// must be routed back through Apply — never mutate Preview's fields from
// inside the returned Cmd's closure directly, since that would race with
// the app loop reading Lock on the next render. hiderHeld reports
// whether the global image-plane hider semaphore is held by something
// else (step 2); mimeOf resolves a cached mime for a URL, returning
// ok=false if the mime hasn't been fetched yet (step 3, "await the mime
// fetch").
func (p *Preview) Peek(
	ctx context.Context,
	hovered *vfile.File,
	mimeOf func(yzurl.URL) (string, bool),
	dispatch *Dispatcher,
	hiderHeld bool,
	opt Opt,
) func() tea.Msg {
	if hovered == nil {
		p.Reset()
		return nil
	}
	if hiderHeld {
		p.ResetImage()
		return nil
	}

	mime, ok := mimeOf(hovered.URL)
	if !ok {
		return nil
	}

	if !p.SameURL(hovered.URL) {
		p.Skip = 0
	}
	if !p.SameFile(*hovered, mime) {
		p.Lock = nil
	}

	if opt.OnlyIf != nil && !yzurl.Equal(*opt.OnlyIf, hovered.URL) {
		return nil
	}

	if opt.Skip != nil {
		if opt.UpperBound {
			if *opt.Skip < p.Skip {
				p.Skip = *opt.Skip
			}
		} else {
			p.Skip = *opt.Skip
		}
	}

	if hovered.IsDir() {
		p.FolderLock = &FolderLock{URL: hovered.URL}
		p.Lock = &Lock{URL: hovered.URL, Cha: hovered.Cha, Mime: mime, Skip: p.Skip, Kind: DataFolder}
		return nil
	}
	p.FolderLock = nil

	previewer := dispatch.Resolve(mime)
	if previewer == nil {
		p.Lock = &Lock{URL: hovered.URL, Cha: hovered.Cha, Mime: mime, Kind: DataNone}
		return nil
	}

	gen := p.generation()
	f := *hovered
	area := Area{}
	skip := p.Skip
	p.Pending = true

	return func() tea.Msg {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		lock, err := previewer.Peek(runCtx, f, mime, area, skip)
		return ResultMsg{Gen: gen, Lock: lock, Err: err}
	}
}

// Apply installs a ResultMsg into the Preview if it is not stale and its
// Cha still hits the file it was requested for (spec.md §4.4 step 8: "if
// the returned cha no longer hits the current file, the lock is
// dropped"). Called from the app loop's Update, never concurrently.
func (p *Preview) Apply(msg ResultMsg, current *vfile.File) {
	if p.Stale(msg.Gen) {
		return
	}
	p.Pending = false
	if msg.Err != nil {
		p.Lock = &Lock{URL: msg.Lock.URL, Mime: msg.Lock.Mime, Error: msg.Err}
		return
	}
	if current != nil && !msg.Lock.Cha.Hits(current.Cha) {
		return
	}
	lock := msg.Lock
	p.Lock = &lock
}

// TextPreviewer renders small text files with chroma syntax highlighting,
// generalizing the teacher's Highlight/isBinary helpers from
// internal/plugins/filebrowser/preview.go onto the Previewer interface.
type TextPreviewer struct {
	SyntaxTheme string
}

// Peek implements Previewer for plain text files.
func (t *TextPreviewer) Peek(_ context.Context, f vfile.File, _ string, area Area, skip int) (Lock, error) {
	data, truncated, err := readCapped(f.URL.Loc(), maxPreviewSize)
	if err != nil {
		return Lock{}, err
	}
	if isBinary(data) {
		return Lock{URL: f.URL, Cha: f.Cha, Kind: DataNone}, nil
	}

	content := string(data)
	lines := strings.Split(content, "\n")
	if len(lines) > maxPreviewLines {
		lines = lines[:maxPreviewLines]
		truncated = true
	}
	_ = truncated

	ext := extOf(f.URL.Name())
	highlighted, herr := highlight(strings.Join(lines, "\n"), ext, t.themeOrDefault())
	if herr != nil {
		highlighted = strings.Join(lines, "\n")
	}

	// Wrap to the previewer's cell width using cellbuf's unicode-aware
	// wrapping rather than leaving long lines for the column renderer to
	// hard-truncate, so e.g. a wide CJK comment doesn't get cut mid-glyph.
	if area.W > 0 {
		highlighted = cellbuf.Wrap(highlighted, area.W, "")
	}

	text := highlighted
	if skip > 0 && skip < len(lines) {
		visible := strings.Split(highlighted, "\n")
		if skip < len(visible) {
			text = strings.Join(visible[skip:], "\n")
		}
	}

	return Lock{URL: f.URL, Cha: f.Cha, Skip: skip, Kind: DataText, Text: text}, nil
}

// Seek scrolls the text previewer's view by units lines.
func (t *TextPreviewer) Seek(units int) int { return units }

func (t *TextPreviewer) themeOrDefault() string {
	if t.SyntaxTheme != "" {
		return t.SyntaxTheme
	}
	return "monokai"
}

// MarkdownPreviewer renders markdown files via glamour, supplementing the
// teacher's plain-text previewer per SPEC_FULL.md's Domain Stack wiring.
type MarkdownPreviewer struct {
	Width int
}

// Peek implements Previewer for markdown files.
func (m *MarkdownPreviewer) Peek(_ context.Context, f vfile.File, _ string, _ Area, skip int) (Lock, error) {
	data, _, err := readCapped(f.URL.Loc(), maxPreviewSize)
	if err != nil {
		return Lock{}, err
	}

	width := m.Width
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return Lock{URL: f.URL, Cha: f.Cha, Kind: DataText, Text: string(data)}, nil
	}
	out, err := renderer.Render(string(data))
	if err != nil {
		out = string(data)
	}
	return Lock{URL: f.URL, Cha: f.Cha, Skip: skip, Kind: DataText, Text: out}, nil
}

// Seek scrolls the markdown previewer's view by units lines.
func (m *MarkdownPreviewer) Seek(units int) int { return units }

func highlight(content, extension, theme string) (string, error) {
	buf := new(bytes.Buffer)
	if err := quick.Highlight(buf, content, extension, "terminal256", theme); err != nil {
		return "", fmt.Errorf("highlight: %w", err)
	}
	return buf.String(), nil
}

// isBinary checks data's first 512 bytes for a null byte, the same
// sniffing heuristic as the teacher's filebrowser/preview.go.
func isBinary(data []byte) bool {
	checkLen := 512
	if len(data) < checkLen {
		checkLen = len(data)
	}
	return bytes.Contains(data[:checkLen], []byte{0})
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
