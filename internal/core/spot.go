package core

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/yazi-go/yazi/internal/vfile"
)

// Spot is the small metadata popup spec.md §2/§3 lists alongside Preview
// on each Tab ("spot" field) — a synchronous, no-task-needed summary of
// the hovered file's characteristics, distinct from Preview's (possibly
// async, cancellable) rendered content. Unlike Preview it never needs a
// generation token: building it is a handful of field reads plus one
// optional mime lookup, cheap enough to run inline on every hover move.
type Spot struct {
	Lines []string
}

// BuildSpot formats f's characteristics into display lines, mirroring the
// field order of original_source/yazi-core's Cha-based file info panel:
// name, kind, size, mtime, mode, and (if known) mime/link target.
func BuildSpot(f vfile.File, mime string) *Spot {
	lines := []string{
		f.Name(),
		kindLabel(f),
		fmt.Sprintf("Size  %s", humanize.Bytes(uint64(f.Cha.Len))),
		fmt.Sprintf("Mtime %s", humanize.Time(f.Cha.Mtime)),
		fmt.Sprintf("Mode  %s", f.Cha.Mode),
	}
	if mime != "" {
		lines = append(lines, fmt.Sprintf("Mime  %s", mime))
	}
	if f.LinkTo != nil {
		lines = append(lines, fmt.Sprintf("Link  -> %s", f.LinkTo.Loc()))
	}
	return &Spot{Lines: lines}
}

func kindLabel(f vfile.File) string {
	switch {
	case f.Cha.IsLink() && f.Cha.IsOrphan():
		return "Kind  broken symlink"
	case f.Cha.IsLink():
		return "Kind  symlink"
	case f.IsDir():
		return "Kind  directory"
	default:
		return "Kind  file"
	}
}

// spotCmd toggles the active tab's Spot: if one is already open it is
// dismissed (matching "which"/"help"/"pick" toggle-by-rerun behavior
// elsewhere in Dispatch), otherwise it's built from the current hover.
func (c *Core) spotCmd() {
	tab := c.Manager.Active()
	if tab.Spot != nil {
		tab.Spot = nil
		c.Bus.RequestRender()
		return
	}
	f, ok := tab.Cwd().CursorFile()
	if !ok {
		return
	}
	mime, _ := c.Manager.Mimetype.Get(f.URL)
	tab.Spot = BuildSpot(f, mime)
	c.Bus.RequestRender()
}

// refreshSpot rebuilds the active tab's open Spot after the hover moves,
// so the popup tracks the cursor instead of going stale on the file it
// was opened for. A no-op when no Spot is open.
func (c *Core) refreshSpot() {
	tab := c.Manager.Active()
	if tab.Spot == nil {
		return
	}
	f, ok := tab.Cwd().CursorFile()
	if !ok {
		tab.Spot = nil
		return
	}
	mime, _ := c.Manager.Mimetype.Get(f.URL)
	tab.Spot = BuildSpot(f, mime)
}
