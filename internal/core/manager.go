package core

import (
	"sync"

	"github.com/yazi-go/yazi/internal/folder"
	"github.com/yazi-go/yazi/internal/mime"
	"github.com/yazi-go/yazi/internal/watcher"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// Yanked is the tab-shared "marked for copy/move" set, per spec.md §3:
// "Manager { ..., yanked: {cut, set<url>, revision}, ... }".
type Yanked struct {
	mu       sync.Mutex
	Cut      bool
	set      map[uint64]yzurl.URL
	Revision uint64
}

func newYanked() *Yanked { return &Yanked{set: make(map[uint64]yzurl.URL)} }

// Set replaces the yanked set with urls, marking whether this is a cut
// (move) or copy yank.
func (y *Yanked) Set(cut bool, urls []yzurl.URL) {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.Cut = cut
	y.set = make(map[uint64]yzurl.URL, len(urls))
	for _, u := range urls {
		y.set[u.Hash()] = u
	}
	y.Revision++
}

// Clear empties the yanked set, e.g. after a paste completes.
func (y *Yanked) Clear() {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.set = make(map[uint64]yzurl.URL)
	y.Revision++
}

// All returns a snapshot of the yanked URLs.
func (y *Yanked) All() []yzurl.URL {
	y.mu.Lock()
	defer y.mu.Unlock()
	out := make([]yzurl.URL, 0, len(y.set))
	for _, u := range y.set {
		out = append(out, u)
	}
	return out
}

// Len reports how many URLs are yanked.
func (y *Yanked) Len() int {
	y.mu.Lock()
	defer y.mu.Unlock()
	return len(y.set)
}

// Manager aggregates every tab plus the cross-tab shared state spec.md
// §3 names: the mimetype cache, the yanked set, and the watcher. It is
// the Go analogue of original_source's core/src/manager/manager.rs
// Manager struct.
type Manager struct {
	tabs   []*Tab
	cursor int

	Mimetype *mime.Cache
	Yanked   *Yanked
	Watcher  *watcher.Watcher
}

// NewManager creates a Manager with a single tab rooted at cwd.
func NewManager(cwd yzurl.URL, w *watcher.Watcher) *Manager {
	m := &Manager{
		Mimetype: mime.NewCache(),
		Yanked:   newYanked(),
		Watcher:  w,
	}
	m.tabs = append(m.tabs, NewTab(0, cwd))
	return m
}

// Active returns the currently focused tab.
func (m *Manager) Active() *Tab { return m.tabs[m.cursor] }

// Tabs returns every open tab.
func (m *Manager) Tabs() []*Tab { return m.tabs }

// TabCursor returns the index of the active tab.
func (m *Manager) TabCursor() int { return m.cursor }

// NewTabAt opens a new tab rooted at cwd, focuses it, and returns it.
func (m *Manager) NewTabAt(cwd yzurl.URL) *Tab {
	t := NewTab(len(m.tabs), cwd)
	m.tabs = append(m.tabs, t)
	m.cursor = len(m.tabs) - 1
	return t
}

// CloseTab closes the tab at index i, refusing to close the last
// remaining tab. It focuses the nearest remaining tab.
func (m *Manager) CloseTab(i int) bool {
	if len(m.tabs) <= 1 || i < 0 || i >= len(m.tabs) {
		return false
	}
	m.tabs = append(m.tabs[:i], m.tabs[i+1:]...)
	if m.cursor >= len(m.tabs) {
		m.cursor = len(m.tabs) - 1
	}
	return true
}

// SwitchTab focuses the tab at index i.
func (m *Manager) SwitchTab(i int) {
	if i >= 0 && i < len(m.tabs) {
		m.cursor = i
	}
}

// WatchSet computes the set of URLs every tab's visible folders need
// watched: each tab's cwd and parent, per spec.md §4.6's watch(set) input.
func (m *Manager) WatchSet() []yzurl.URL {
	seen := make(map[uint64]struct{})
	var out []yzurl.URL
	add := func(u yzurl.URL) {
		if _, ok := seen[u.Hash()]; ok {
			return
		}
		seen[u.Hash()] = struct{}{}
		out = append(out, u)
	}
	for _, t := range m.tabs {
		add(t.CwdURL())
		if p := t.Parent(); p != nil {
			add(p.URL())
		}
	}
	return out
}

// FolderByURL finds the Folder for url across every tab's history,
// reporting which tab owns it.
func (m *Manager) FolderByURL(url yzurl.URL) (*folder.Folder, bool) {
	for _, t := range m.tabs {
		if f, ok := t.FolderByURL(url); ok {
			return f, true
		}
	}
	return nil, false
}
