// Package watcher implements the filesystem change watcher described in
// spec.md §4.6: a watched set of URLs, a linked map fanning symlinked
// directories' events out to every alias that resolves to them, a local
// backend (OS notify with a polling fallback) and a remote backend (a
// coalescing poll stream), both feeding a single 250ms-coalesced Reporter
// that re-stats each touched URL and emits Upserting/Deleting ops.
//
// It is a direct adaptation of the teacher's internal/adapter/tieredwatcher
// package: the same shape (a background goroutine draining fsnotify events
// into a per-path debounce timer, plus a polling ticker for paths the OS
// backend can't or shouldn't watch) is kept, but rewritten from "AI session
// file" semantics (SessionInfo, ExtractID, ScanDir) to spec.md's URL/Cha
// fan-out semantics.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// CoalesceWindow is how long raw events are batched before the Reporter
// re-stats and emits ops, per spec.md §4.6 step 3.
const CoalesceWindow = 250 * time.Millisecond

// RemotePollInterval is how often the remote backend polls its watched set
// when no push notification mechanism is available.
const RemotePollInterval = 500 * time.Millisecond

// Watcher owns the watched set, the linked map, the local (fsnotify) and
// remote (polling) backends, and the coalescing Reporter that turns raw
// touched URLs into filesop.Op values.
type Watcher struct {
	mu      sync.Mutex
	watched map[yzurl.URL]struct{}
	linked  map[yzurl.URL]yzurl.URL   // from -> to
	linkedR map[yzurl.URL][]yzurl.URL // to -> []from, the reverse index

	fsw      *fsnotify.Watcher
	fsDirs   map[string]struct{} // directories currently added to fsw
	pollOnly bool                // true on platforms where OS notify is unreliable (WSL/NetBSD)

	pending map[yzurl.URL]struct{} // URLs touched since the last flush
	timer   *time.Timer

	ops chan filesop.Op

	remoteStop     chan struct{}
	remotePoll     func() []yzurl.URL // caller-supplied remote change source
	remoteInterval time.Duration

	coalesce time.Duration

	closed bool
	wg     sync.WaitGroup
}

// Option configures a Watcher at construction time.
type Option func(*Watcher)

// WithPollOnly forces the local backend to skip OS notify and rely solely
// on the RemotePollInterval ticker, per spec.md §4.6's WSL/NetBSD fallback.
func WithPollOnly() Option { return func(w *Watcher) { w.pollOnly = true } }

// WithRemoteSource installs a function the remote backend calls on every
// RemotePollInterval tick to discover URLs that changed out from under a
// non-local (e.g. SFTP) scheme.
func WithRemoteSource(f func() []yzurl.URL) Option {
	return func(w *Watcher) { w.remotePoll = f }
}

// WithCoalesceWindow overrides CoalesceWindow, mainly so tests don't have to
// wait a quarter second per assertion.
func WithCoalesceWindow(d time.Duration) Option {
	return func(w *Watcher) { w.coalesce = d }
}

// WithRemotePollInterval overrides RemotePollInterval.
func WithRemotePollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.remoteInterval = d }
}

// New creates a Watcher and starts its background goroutines. Ops arrive on
// the returned channel; Close stops everything and closes it.
func New(opts ...Option) (*Watcher, <-chan filesop.Op, error) {
	w := &Watcher{
		watched:        make(map[yzurl.URL]struct{}),
		linked:         make(map[yzurl.URL]yzurl.URL),
		linkedR:        make(map[yzurl.URL][]yzurl.URL),
		fsDirs:         make(map[string]struct{}),
		pending:        make(map[yzurl.URL]struct{}),
		ops:            make(chan filesop.Op, 64),
		coalesce:       CoalesceWindow,
		remoteInterval: RemotePollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.remoteStop = make(chan struct{})

	if !w.pollOnly {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			// Fall back to polling rather than failing outright — the
			// same fallback spec.md prescribes for WSL/NetBSD.
			w.pollOnly = true
		} else {
			w.fsw = fsw
			w.wg.Add(1)
			go w.localLoop()
		}
	}

	w.wg.Add(1)
	go w.remoteLoop()

	return w, w.ops, nil
}

// Close stops all backends and the coalescing timer, closing the ops
// channel once every goroutine has exited.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.remoteStop)
	var err error
	if w.fsw != nil {
		err = w.fsw.Close()
	}
	w.wg.Wait()
	close(w.ops)
	return err
}

// Watch replaces the watched set with urls, diffing against the previous
// set to add/remove directory watches on the local backend per spec.md
// §4.6 step 1. Only directories are ever handed to the OS backend
// (recursive watching is off, matching the spec); individual files are
// tracked for re-stat purposes but watched via their parent directory.
func (w *Watcher) Watch(urls []yzurl.URL) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := make(map[yzurl.URL]struct{}, len(urls))
	for _, u := range urls {
		next[u] = struct{}{}
	}

	for u := range w.watched {
		if _, keep := next[u]; !keep {
			w.removeLocked(u)
		}
	}
	for u := range next {
		if _, already := w.watched[u]; !already {
			w.addLocked(u)
		}
	}
	w.watched = next
}

// fsDirFor returns the directory fsnotify should be asked to watch for u:
// u itself if it is (or was) a directory, otherwise its parent.
func fsDirFor(u yzurl.URL) string {
	if !u.IsRoot() {
		if c, err := cha.Lstat(u.Loc()); err == nil && !c.IsDir() {
			return filepath.Dir(u.Loc())
		}
	}
	return u.Loc()
}

func (w *Watcher) addLocked(u yzurl.URL) {
	if w.fsw == nil || u.Scheme().Kind != yzurl.Regular {
		return
	}
	dir := fsDirFor(u)
	if _, ok := w.fsDirs[dir]; ok {
		return
	}
	if err := w.fsw.Add(dir); err == nil {
		w.fsDirs[dir] = struct{}{}
	}
}

func (w *Watcher) removeLocked(u yzurl.URL) {
	if w.fsw == nil || u.Scheme().Kind != yzurl.Regular {
		return
	}
	dir := fsDirFor(u)
	for watchedURL := range w.watched {
		if watchedURL == u {
			continue
		}
		if fsDirFor(watchedURL) == dir {
			return // another watched URL still needs this directory
		}
	}
	if _, ok := w.fsDirs[dir]; ok {
		w.fsw.Remove(dir)
		delete(w.fsDirs, dir)
	}
}

// Link records that from (an observed directory, typically a symlink) maps
// to to (the real directory it resolves to, or its nearest real ancestor),
// per spec.md §4.6's linked map. Events under either side are fanned out
// to the other by touch.
func (w *Watcher) Link(from, to yzurl.URL) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if old, ok := w.linked[from]; ok {
		w.linkedR[old] = removeURL(w.linkedR[old], from)
	}
	w.linked[from] = to
	w.linkedR[to] = append(w.linkedR[to], from)
}

// Unlink removes a previously recorded from -> to mapping.
func (w *Watcher) Unlink(from yzurl.URL) {
	w.mu.Lock()
	defer w.mu.Unlock()
	to, ok := w.linked[from]
	if !ok {
		return
	}
	delete(w.linked, from)
	w.linkedR[to] = removeURL(w.linkedR[to], from)
}

func removeURL(list []yzurl.URL, u yzurl.URL) []yzurl.URL {
	out := list[:0]
	for _, v := range list {
		if v != u {
			out = append(out, v)
		}
	}
	return out
}

// touch records that raw reported activity under u (the Reporter's input)
// and schedules a coalesced flush CoalesceWindow from now if one isn't
// already pending.
func (w *Watcher) touch(u yzurl.URL) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.fanOutLocked(u)
	if w.timer == nil {
		w.timer = time.AfterFunc(w.coalesce, w.flush)
	}
}

// fanOutLocked implements spec.md §4.6 step 2: a raw URL event fans out to
// the originating URL's parent directory, the URL itself, and every linked
// sibling in both directions.
func (w *Watcher) fanOutLocked(u yzurl.URL) {
	w.pending[u] = struct{}{}
	w.fanLinkedLocked(u)

	if parent, ok := u.Parent(); ok {
		w.pending[parent] = struct{}{}
		w.fanLinkedLocked(parent)
	}
}

// fanLinkedLocked adds every URL linked to or from v, in both directions,
// to the pending set.
func (w *Watcher) fanLinkedLocked(v yzurl.URL) {
	if to, ok := w.linked[v]; ok {
		w.pending[to] = struct{}{}
	}
	for _, from := range w.linkedR[v] {
		w.pending[from] = struct{}{}
	}
}

// flush is the coalescing timer's callback: it re-stats every pending URL
// and emits an Upserting or Deleting op per spec.md §4.6 step 3, grouped
// by parent directory to match filesop.Op's per-folder shape.
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	pending := w.pending
	w.pending = make(map[yzurl.URL]struct{})
	w.timer = nil

	// Every folder a changed entry lands in also needs the same entry
	// mirrored into any folder linked to it (spec.md §4.6's "events under
	// to also synthesize events for every from that maps to it, and
	// vice-versa" applied at the parent-folder level).
	targets := make(map[yzurl.URL][]yzurl.URL)
	for u := range pending {
		parent, ok := u.Parent()
		if !ok {
			continue
		}
		if _, seen := targets[parent]; seen {
			continue
		}
		folders := []yzurl.URL{parent}
		if to, ok := w.linked[parent]; ok {
			folders = append(folders, to)
		}
		folders = append(folders, w.linkedR[parent]...)
		targets[parent] = folders
	}
	w.mu.Unlock()

	upserts := make(map[yzurl.URL]map[string]vfile.File)
	deletes := make(map[yzurl.URL]map[string]struct{})

	for u := range pending {
		parent, ok := u.Parent()
		if !ok {
			continue
		}
		urn := u.Urn()
		folders := targets[parent]

		c, err := cha.Lstat(u.Loc())
		if err != nil {
			if os.IsNotExist(err) {
				for _, folder := range folders {
					if deletes[folder] == nil {
						deletes[folder] = make(map[string]struct{})
					}
					deletes[folder][urn] = struct{}{}
				}
			}
			continue
		}
		f := vfile.File{URL: u, Cha: c}
		if c.IsLink() {
			if target, rerr := os.Readlink(u.Loc()); rerr == nil {
				tu := yzurl.New(target)
				f.LinkTo = &tu
			}
		}
		for _, folder := range folders {
			entry := f
			if folder != parent {
				entry.URL = folder.Join(u.Name())
			}
			if upserts[folder] == nil {
				upserts[folder] = make(map[string]vfile.File)
			}
			upserts[folder][urn] = entry
		}
	}

	for folder, files := range upserts {
		select {
		case w.ops <- filesop.NewUpserting(folder, files):
		default:
		}
	}
	for folder, urns := range deletes {
		select {
		case w.ops <- filesop.NewDeleting(folder, urns):
		default:
		}
	}
}

// localLoop drains fsnotify events, touching the changed URL on every
// Create/Write/Remove/Rename, mirroring the teacher's watchLoop debounce-
// per-path idiom but feeding the shared coalescing Reporter instead of a
// per-path time.AfterFunc.
func (w *Watcher) localLoop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}
			w.touch(yzurl.New(ev.Name))
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// remoteLoop implements spec.md §4.6's remote backend: "polls changed URLs
// on a coalescing stream." If no remote source was configured, it's a
// no-op — the local fsnotify backend covers everything.
func (w *Watcher) remoteLoop() {
	defer w.wg.Done()
	if w.remotePoll == nil {
		return
	}

	ticker := time.NewTicker(w.remoteInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.remoteStop:
			return
		case <-ticker.C:
			for _, u := range w.remotePoll() {
				w.touch(u)
			}
		}
	}
}
