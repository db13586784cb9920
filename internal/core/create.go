package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/folder"
	"github.com/yazi-go/yazi/internal/keymap"
	"github.com/yazi-go/yazi/internal/modal"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// openInput opens the Input popup focused on a single text field seeded
// with initial, wiring Enter's submitted value to onSubmit. This is the
// create/rename entry point spec.md §8 scenario 2 exercises: "press a,
// type x/y, Enter".
func (c *Core) openInput(title, initial string, onSubmit func(string)) {
	ti := textinput.New()
	ti.Placeholder = title
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	c.inputField = &ti
	c.inputOK = onSubmit
	c.Input = modal.New(title, 50,
		modal.Input("value", c.inputField, modal.WithSubmitAction("ok")),
	).SetVariant(modal.VariantInfo)
}

// SubmitInput runs the Input popup's callback with its current field value
// and closes the popup.
func (c *Core) SubmitInput() {
	if c.Input == nil {
		return
	}
	var value string
	if c.inputField != nil {
		value = c.inputField.Value()
	}
	cb := c.inputOK
	c.Input, c.inputField, c.inputOK = nil, nil, nil
	if cb != nil {
		cb(value)
	}
}

// ConfirmYes runs the Confirm popup's "yes" callback, if any, and closes
// the popup.
func (c *Core) ConfirmYes() {
	cb := c.confirmOK
	c.Confirm, c.confirmOK = nil, nil
	if cb != nil {
		cb()
	}
}

// CloseTopPopup closes the highest-priority open popup, per spec.md
// §4.2's which > help > input > confirm > pick > completion precedence,
// and drops any pending popup callback.
func (c *Core) CloseTopPopup() {
	c.closeTopPopup()
	c.inputField, c.inputOK, c.confirmOK, c.pickOK = nil, nil, nil, nil
	c.pickOptions = nil
}

// promptCreate opens the input popup for a new entry name relative to the
// active tab's cwd.
func (c *Core) promptCreate(tab *Tab) tea.Cmd {
	c.openInput("Create", "", func(name string) { c.doCreate(tab, name) })
	return nil
}

// doCreate makes name on disk relative to tab's cwd. A trailing slash
// creates a directory (and any missing parents along the way); otherwise
// an empty file is created, making any missing parent directories first —
// original_source's manager creates "x/y" by mkdir -p "x" then touch "y"
// when there's no trailing slash, and mkdir -p "x/y" when there is.
func (c *Core) doCreate(tab *Tab, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	asDir := strings.HasSuffix(name, "/")
	rel := strings.TrimSuffix(name, "/")
	if rel == "" {
		return
	}
	full := filepath.Join(tab.CwdURL().Loc(), rel)

	var err error
	if asDir {
		err = os.MkdirAll(full, 0o755)
	} else {
		if dir := filepath.Dir(full); dir != "." {
			err = os.MkdirAll(dir, 0o755)
		}
		if err == nil {
			var f *os.File
			f, err = os.OpenFile(full, os.O_CREATE|os.O_EXCL, 0o644)
			if f != nil {
				f.Close()
			}
		}
	}
	if err != nil {
		c.notify(NotifyError, "create", err.Error())
		return
	}

	topName := strings.SplitN(rel, "/", 2)[0]
	c.upsertFromDisk(tab, tab.CwdURL().Join(topName))
	c.watchActive()
	c.Bus.RequestRender()
}

// promptRename opens the input popup prefilled with the hovered file's
// current name.
func (c *Core) promptRename(tab *Tab) tea.Cmd {
	f, ok := tab.Cwd().CursorFile()
	if !ok {
		return nil
	}
	old := f
	c.openInput("Rename", old.Name(), func(name string) { c.doRename(tab, old, name) })
	return nil
}

// doRename renames old to name within tab's cwd, reporting the change to
// the folder as a Deleting of the old urn plus an Upserting of the new
// one so the cursor/trace bookkeeping spec.md §3 describes stays correct
// without waiting on a watcher round-trip.
func (c *Core) doRename(tab *Tab, old vfile.File, name string) {
	name = strings.TrimSpace(name)
	if name == "" || name == old.Name() {
		return
	}
	dst := tab.CwdURL().Join(name)
	if err := os.Rename(old.URL.Loc(), dst.Loc()); err != nil {
		c.notify(NotifyError, "rename", err.Error())
		return
	}
	tab.Cwd().Apply(filesop.NewDeleting(tab.CwdURL(), map[string]struct{}{old.Urn(): {}}))
	c.upsertFromDisk(tab, dst)
	c.watchActive()
	c.Bus.RequestRender()
}

// upsertFromDisk lstats url and, if it still exists, applies an Upserting
// op for it to tab's cwd folder and hovers it.
func (c *Core) upsertFromDisk(tab *Tab, url yzurl.URL) {
	info, err := cha.Lstat(url.Loc())
	if err != nil {
		return
	}
	file := vfile.File{URL: url, Cha: info}
	tab.Cwd().Apply(filesop.NewUpserting(tab.CwdURL(), map[string]vfile.File{file.Urn(): file}))
	tab.Cwd().Hover(file.Urn())
}

// promptFilter opens the input popup for a filter pattern over the active
// tab's cwd; an empty submitted pattern clears the filter, matching Esc's
// behavior when no popup is open (spec.md §8 scenario 4).
func (c *Core) promptFilter(tab *Tab) tea.Cmd {
	cwd := tab.Cwd()
	c.openInput("Filter", "", func(pattern string) {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			cwd.ClearFilter()
		} else if err := cwd.SetFilter(pattern, folder.CaseSmart); err != nil {
			c.notify(NotifyError, "filter", err.Error())
			return
		}
		c.Bus.RequestRender()
	})
	return nil
}

// togglePalette opens the command palette scoped to the active popup
// layer (or the manager layer with none open), or closes it if already
// open — the single entry point Dispatch's "palette" command reaches.
func (c *Core) togglePalette() {
	if c.paletteOpen {
		c.paletteOpen = false
		return
	}
	active := keymap.LayerManager
	if layers := c.PopupLayers(); len(layers) > 0 {
		active = layers[0]
	}
	c.Palette.Open(c.Keymap, active)
	c.paletteOpen = true
}

// PaletteOpen reports whether the command palette is currently visible.
func (c *Core) PaletteOpen() bool { return c.paletteOpen }

// ClosePalette hides the command palette without running any command.
func (c *Core) ClosePalette() { c.paletteOpen = false }
