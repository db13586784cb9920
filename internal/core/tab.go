package core

import (
	"github.com/yazi-go/yazi/internal/folder"
	"github.com/yazi-go/yazi/internal/preview"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// Tab mirrors spec.md §3's Tab: a manager-level workspace with its own
// cwd/parent columns, preview lock, selection, visual mode, and folder
// history. Tabs share the Manager's mimetype cache and yanked set.
type Tab struct {
	ID int

	cwd    yzurl.URL
	parent *folder.Folder

	Preview  *preview.Preview
	Spot     *Spot
	Selected *folder.Selection
	Mode     folder.Mode

	// history keeps every Folder this tab has visited, keyed by loc, so
	// revisiting a directory preserves cursor/offset without a reload.
	history map[string]*folder.Folder
}

// NewTab creates a tab rooted at cwd, with an already-loaded (or
// lazily-created) cwd Folder.
func NewTab(id int, cwd yzurl.URL) *Tab {
	t := &Tab{
		ID:       id,
		cwd:      cwd,
		Selected: folder.NewSelection(),
		Preview:  &preview.Preview{},
		history:  make(map[string]*folder.Folder),
	}
	t.folderFor(cwd)
	if parentURL, ok := cwd.Parent(); ok {
		t.parent = t.folderFor(parentURL)
	}
	return t
}

// folderFor returns (creating lazily if needed) the Folder for url from
// this tab's history, per spec.md §3: "Folders are created lazily when a
// tab cds/reveals; they persist in the tab's history until evicted."
func (t *Tab) folderFor(url yzurl.URL) *folder.Folder {
	if f, ok := t.history[url.Loc()]; ok {
		return f
	}
	f := folder.New(url)
	t.history[url.Loc()] = f
	return f
}

// Cwd returns the tab's current-directory Folder.
func (t *Tab) Cwd() *folder.Folder { return t.folderFor(t.cwd) }

// CwdURL returns the tab's current-directory URL.
func (t *Tab) CwdURL() yzurl.URL { return t.cwd }

// Parent returns the parent-directory Folder, or nil at a filesystem root.
func (t *Tab) Parent() *folder.Folder { return t.parent }

// Cd changes the tab's current directory to url, creating its Folder
// lazily if this is the first visit, and refreshing the parent column.
func (t *Tab) Cd(url yzurl.URL) {
	t.cwd = url
	t.folderFor(url)
	if parentURL, ok := url.Parent(); ok {
		t.parent = t.folderFor(parentURL)
	} else {
		t.parent = nil
	}
	t.Preview.Reset()
	t.Spot = nil
}

// Evict drops every history folder with no in-flight load besides the
// current cwd and parent, per spec.md §3's eviction rule.
func (t *Tab) Evict() {
	for loc, f := range t.history {
		if loc == t.cwd.Loc() {
			continue
		}
		if t.parent != nil && loc == t.parent.URL().Loc() {
			continue
		}
		if f.Stage() == folder.Loading {
			continue
		}
		delete(t.history, loc)
	}
}

// FolderByURL returns the history folder for url, if any — used by the
// watcher/mime pipelines to route an update to the right tab without the
// tab needing to be the active cwd.
func (t *Tab) FolderByURL(url yzurl.URL) (*folder.Folder, bool) {
	f, ok := t.history[url.Loc()]
	return f, ok
}

// Folders returns every folder this tab currently tracks, used to build
// the watch set.
func (t *Tab) Folders() []*folder.Folder {
	out := make([]*folder.Folder, 0, len(t.history))
	for _, f := range t.history {
		out = append(out, f)
	}
	return out
}
