// Package core aggregates the Manager (tabs, folders, mimetype cache,
// yanked set, watcher) and the other Core-level popups spec.md §2 names,
// and provides the command dispatch that turns resolved bus.Cmd values
// into mutations on that state. It is the direct analogue of
// original_source's core/src/{manager,tasks}.rs and generalizes the
// teacher's internal/app/model.go top-level Model struct, which played
// the same "owns every subsystem, dispatches bubbletea messages into
// them" role for a different domain.
package core

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// LoadDir lists url's directory entries from disk and builds the
// filesop.Op that replaces a Folder's contents wholesale, per spec.md
// §3's Full(url, files, cha) op. A missing or unreadable directory
// yields an IOErr op instead of an error, matching spec.md §7: "Folder
// loads with NotFound emit FilesOp::IOErr and mark the folder Loaded but
// empty."
func LoadDir(url yzurl.URL) filesop.Op {
	entries, err := os.ReadDir(url.Loc())
	if err != nil {
		return filesop.NewIOErr(url, classifyIOErr(err))
	}

	files := make([]vfile.File, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(url.Loc(), name)
		c, err := cha.Lstat(path)
		if err != nil {
			continue // vanished between readdir and lstat; skip silently
		}

		var link *yzurl.URL
		if c.IsLink() {
			if target, err := os.Readlink(path); err == nil {
				if !filepath.IsAbs(target) {
					target = filepath.Join(url.Loc(), target)
				}
				u := yzurl.New(target)
				link = &u
			}
		}
		files = append(files, vfile.File{URL: url.Join(name), Cha: c, LinkTo: link})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].URL.Name() < files[j].URL.Name() })
	return filesop.NewFull(url, files)
}

func classifyIOErr(err error) filesop.IOErrKind {
	switch {
	case os.IsNotExist(err):
		return filesop.IOErrNotFound
	case os.IsPermission(err):
		return filesop.IOErrPermissionDenied
	default:
		return filesop.IOErrOther
	}
}
