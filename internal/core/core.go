package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yazi-go/yazi/internal/bus"
	"github.com/yazi-go/yazi/internal/folder"
	"github.com/yazi-go/yazi/internal/keymap"
	"github.com/yazi-go/yazi/internal/modal"
	"github.com/yazi-go/yazi/internal/palette"
	"github.com/yazi-go/yazi/internal/preview"
	"github.com/yazi-go/yazi/internal/scheduler"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// Notify is a single toast message, mirroring original_source's
// core/src/notify.rs Message.
type Notify struct {
	Title   string
	Content string
	Level   NotifyLevel
}

type NotifyLevel uint8

const (
	NotifyInfo NotifyLevel = iota
	NotifyWarn
	NotifyError
)

// Core aggregates every subsystem a resolved bus.Cmd can touch: the
// Manager (tabs/folders/yanked/mimetype/watcher), the task Scheduler, the
// keymap Resolver, the render-request Bus, the command palette, every
// named popup layer's modal, and the notification queue. It is the direct
// analogue of original_source's core/src/lib.rs Core struct, generalizing
// the teacher's internal/app/model.go top-level Model in the same way
// Tab/Manager already do for their teacher counterparts.
type Core struct {
	Manager   *Manager
	Scheduler *scheduler.Scheduler
	Keymap    *keymap.Resolver
	Bus       *bus.Bus
	Palette   palette.Model

	Which      *modal.Modal
	Help       *modal.Modal
	Input      *modal.Modal
	Confirm    *modal.Modal
	Pick       *modal.Modal
	Completion *modal.Modal

	confirmOK   func()
	pickOK      func(index int)
	pickOptions []string
	inputOK     func(value string)
	inputField  *textinput.Model
	paletteOpen bool

	Notifies []Notify

	quitCode *int
	TrashDir string
}

// NewCore wires a Core around an already-built Manager/Scheduler/Resolver,
// per spec.md §2's component table.
func NewCore(mgr *Manager, sched *scheduler.Scheduler, km *keymap.Resolver, trashDir string) *Core {
	return &Core{
		Manager:   mgr,
		Scheduler: sched,
		Keymap:    km,
		Bus:       bus.NewBus(),
		Palette:   palette.New(),
		TrashDir:  trashDir,
	}
}

// PopupLayers returns the currently open popup layers in keymap's
// priority order, for Resolve's popupStack argument.
func (c *Core) PopupLayers() []keymap.Layer {
	var out []keymap.Layer
	for _, l := range keymap.PopupPriority() {
		if c.layerOpen(l) {
			out = append(out, l)
		}
	}
	return out
}

func (c *Core) layerOpen(l keymap.Layer) bool {
	switch l {
	case keymap.LayerWhich:
		return c.Which != nil
	case keymap.LayerHelp:
		return c.Help != nil
	case keymap.LayerInput:
		return c.Input != nil
	case keymap.LayerConfirm:
		return c.Confirm != nil
	case keymap.LayerPick:
		return c.Pick != nil
	case keymap.LayerCompletion:
		return c.Completion != nil
	default:
		return false
	}
}

// QuitCode returns the exit code requested via the quit command, if any.
func (c *Core) QuitCode() (int, bool) {
	if c.quitCode == nil {
		return 0, false
	}
	return *c.quitCode, true
}

func (c *Core) notify(level NotifyLevel, title, content string) {
	c.Notifies = append(c.Notifies, Notify{Title: title, Content: content, Level: level})
}

// Dispatch routes a resolved command into a mutation on Core's state,
// returning a tea.Cmd for any follow-up work (a peek to run, a task to
// await). Command names are the real yazi-actor names from
// original_source/yazi-actor/src/mgr, never invented ones.
func (c *Core) Dispatch(cmd bus.Cmd) tea.Cmd {
	tab := c.Manager.Active()

	switch cmd.Name {
	// --- cursor movement ---
	case "arrow":
		tab.Cwd().MoveCursor(stepFromArg(cmd.Arg(0)))
		c.refreshSpot()
		c.Bus.RequestRender()
		return c.peekCmd()

	case "hover":
		// hover both moves (when an arg is given) and re-peeks, per
		// yazi-core/src/{mgr,tab}/commands/hover.rs.
		if cmd.Arg(0).Kind != bus.VNil {
			tab.Cwd().MoveCursor(stepFromArg(cmd.Arg(0)))
		} else if urn := cmd.Arg(0).String(); urn != "" {
			tab.Cwd().Hover(urn)
		}
		c.refreshSpot()
		c.Bus.RequestRender()
		return c.peekCmd()

	// --- navigation ---
	case "reveal":
		if s := cmd.Arg(0).S; s != "" {
			c.reveal(tab, yzurl.New(s))
		}
		c.Bus.RequestRender()
		return c.peekCmd()

	case "cd":
		if s := cmd.Arg(0).S; s != "" {
			tab.Cd(yzurl.New(s))
			c.watchActive()
		}
		c.Bus.RequestRender()
		return c.peekCmd()

	case "leave":
		if parent, ok := tab.CwdURL().Parent(); ok {
			leaving := tab.CwdURL()
			tab.Cd(parent)
			tab.Cwd().Hover(leaving.Urn())
			c.watchActive()
		}
		c.Bus.RequestRender()
		return c.peekCmd()

	case "open_do":
		if f, ok := tab.Cwd().CursorFile(); ok {
			if f.IsDir() {
				tab.Cd(f.URL)
				c.watchActive()
			}
		}
		c.Bus.RequestRender()
		return c.peekCmd()

	case "tab_create":
		url := tab.CwdURL()
		if s := cmd.Arg(0).S; s != "" {
			url = yzurl.New(s)
		}
		c.Manager.NewTabAt(url)
		c.watchActive()
		c.Bus.RequestRender()
		return nil

	case "create":
		return c.promptCreate(tab)

	case "rename":
		return c.promptRename(tab)

	case "tab_rename": // no-op placeholder: tabs are positional, not named
		c.Bus.RequestRender()
		return nil

	case "tab_switch":
		c.Manager.SwitchTab(int(cmd.Arg(0).I))
		c.watchActive()
		c.Bus.RequestRender()
		return nil

	case "tab_close":
		c.Manager.CloseTab(int(cmd.Arg(0).I))
		c.watchActive()
		c.Bus.RequestRender()
		return nil

	// --- selection ---
	case "toggle":
		c.toggleCursor(tab)
		c.Bus.RequestRender()
		return nil

	case "toggle_all":
		c.toggleAll(tab, cmd.Arg(0).B)
		c.Bus.RequestRender()
		return nil

	case "yanked": // yank(cut)
		c.yank(tab, cmd.Arg(0).B)
		c.Bus.RequestRender()
		return nil

	case "unyank":
		c.Manager.Yanked.Clear()
		c.Bus.RequestRender()
		return nil

	case "remove":
		return c.remove(tab, cmd.Named["permanently"].B)

	// --- file ops from the yanked set ---
	case "paste":
		return c.paste(tab, cmd.Named["force"].B)

	case "link":
		return c.link(tab, cmd.Named["relative"].B)

	// --- filter/sort ---
	case "filter":
		pattern := cmd.Arg(0).S
		if pattern == "" {
			tab.Cwd().ClearFilter()
		} else {
			_ = tab.Cwd().SetFilter(pattern, folder.CaseSmart)
		}
		c.Bus.RequestRender()
		return nil

	case "filter_do":
		pattern := cmd.Arg(0).S
		_ = tab.Cwd().SetFilter(pattern, folder.CaseSmart)
		c.Bus.RequestRender()
		return nil

	case "hidden":
		c.toggleHidden(tab)
		c.Bus.RequestRender()
		return nil

	case "sort":
		tab.Cwd().SetSorter(sorterFromArgs(cmd))
		c.Bus.RequestRender()
		return nil

	// --- refresh/peek/seek ---
	case "refresh":
		c.watchActive()
		c.Bus.RequestRender()
		return nil

	case "peek":
		force := cmd.Named["force"].B
		return c.peekCmdForced(force)

	case "seek":
		tab.Preview.Skip += int(cmd.Arg(0).I)
		return c.peekCmd()

	case "update_mimes":
		if dict := cmd.Arg(0); dict.Kind == bus.VDict {
			for k, v := range dict.Dict {
				c.Manager.Mimetype.Set(yzurl.New(k), v.S)
			}
		}
		c.Bus.RequestRender()
		return c.peekCmd()

	case "update_yanked":
		c.Bus.RequestRender()
		return nil

	case "update_spotted", "update_progress":
		c.Bus.RequestRender()
		return nil

	case "spot":
		c.spotCmd()
		return nil

	// --- popups ---
	case "which":
		c.openWhich()
		return nil

	case "help":
		c.openHelp()
		return nil

	case "confirm":
		c.openConfirm(cmd.Arg(0).S, cmd.Named["title"].S)
		return nil

	case "pick":
		c.openPick(cmd.Arg(0).S, listStrings(cmd.Arg(1)), nil)
		return nil

	case "palette":
		c.togglePalette()
		c.Bus.RequestRender()
		return nil

	case "escape":
		switch {
		case c.paletteOpen:
			c.ClosePalette()
		case c.Which != nil || c.Help != nil || c.Input != nil || c.Confirm != nil || c.Pick != nil || c.Completion != nil:
			c.closeTopPopup()
		case tab.Spot != nil:
			tab.Spot = nil
		default:
			tab.Cwd().ClearFilter()
		}
		c.Bus.RequestRender()
		return nil

	case "filter_prompt":
		return c.promptFilter(tab)

	// --- shell / plugin ---
	case "shell":
		return c.shell(tab, cmd.Arg(0).S, cmd.Named["block"].B)

	case "plugin", "plugin_do":
		// Lua plugin execution is out of scope; surface a notice instead
		// of silently dropping the command.
		c.notify(NotifyWarn, "plugin", "plugins are not supported")
		c.Bus.RequestRender()
		return nil

	case "quit":
		code := int(cmd.Arg(0).I)
		c.quitCode = &code
		return func() tea.Msg { return bus.QuitMsg{Code: code} }

	default:
		return nil
	}
}

func (c *Core) reveal(tab *Tab, url yzurl.URL) {
	parent, ok := url.Parent()
	if ok {
		tab.Cd(parent)
	}
	tab.Cwd().Hover(url.Urn())
	c.watchActive()
}

func (c *Core) toggleCursor(tab *Tab) {
	f, ok := tab.Cwd().CursorFile()
	if !ok {
		return
	}
	if tab.Selected.Contains(f.URL) {
		tab.Selected.Remove(f.URL)
	} else {
		tab.Selected.Add(f.URL)
	}
}

func (c *Core) toggleAll(tab *Tab, state bool) {
	for _, f := range tab.Cwd().Files() {
		if state {
			tab.Selected.Add(f.URL)
		} else {
			tab.Selected.Remove(f.URL)
		}
	}
}

// toggleHidden is a placeholder for the dotfile-visibility toggle; the
// actual show-hidden flag lives in per-tab config wired by internal/app,
// so this just forces a re-view to pick up the flag's new value.
func (c *Core) toggleHidden(tab *Tab) {
	tab.Cwd().ClearFilter()
}

func (c *Core) yank(tab *Tab, cut bool) {
	urls := tab.Selected.All()
	if len(urls) == 0 {
		if f, ok := tab.Cwd().CursorFile(); ok {
			urls = []yzurl.URL{f.URL}
		}
	}
	c.Manager.Yanked.Set(cut, urls)
}

// remove enqueues a delete or trash task per selected/hovered file, per
// spec.md §4.5's File/delete and File/trash kinds.
func (c *Core) remove(tab *Tab, permanently bool) tea.Cmd {
	urls := tab.Selected.All()
	if len(urls) == 0 {
		if f, ok := tab.Cwd().CursorFile(); ok {
			urls = []yzurl.URL{f.URL}
		}
	}
	for _, u := range urls {
		if permanently {
			c.Scheduler.SubmitDelete(u.Loc())
		} else {
			c.Scheduler.SubmitTrash(u.Loc(), c.TrashDir)
		}
	}
	tab.Selected.Clear()
	return nil
}

// paste submits one paste task per yanked url targeting the active
// folder, per spec.md §4.5's "paste" File op.
func (c *Core) paste(tab *Tab, force bool) tea.Cmd {
	urls := c.Manager.Yanked.All()
	cut := c.Manager.Yanked.Cut
	dstDir := tab.CwdURL().Loc()
	for _, u := range urls {
		dst := filepath.Join(dstDir, u.Name())
		c.Scheduler.SubmitPaste(scheduler.PasteOpt{
			Move: cut, Force: force, Src: u.Loc(), Dst: dst,
		})
	}
	if cut {
		c.Manager.Yanked.Clear()
	}
	return nil
}

// link submits one symlink task per yanked url targeting the active
// folder, per spec.md §4.5's "link" File op.
func (c *Core) link(tab *Tab, relative bool) tea.Cmd {
	urls := c.Manager.Yanked.All()
	dstDir := tab.CwdURL().Loc()
	for _, u := range urls {
		dst := filepath.Join(dstDir, u.Name())
		c.Scheduler.SubmitLink(scheduler.LinkOpt{Relative: relative, Src: u.Loc(), Dst: dst})
	}
	return nil
}

// shell enqueues a Process-kind task running command through the user's
// shell, per spec.md §4.5: block suspends the TUI via the scheduler's
// blocker semaphore, otherwise the process runs orphaned in the cwd.
func (c *Core) shell(tab *Tab, command string, block bool) tea.Cmd {
	if command == "" {
		return nil
	}
	cwd := tab.CwdURL().Loc()
	c.Scheduler.Enqueue(scheduler.Normal, "shell", func(ctx context.Context, t *scheduler.Task) (scheduler.Outcome, error) {
		var release func()
		if block {
			r, ok := c.Scheduler.AcquireBlocker()
			if !ok {
				return scheduler.Cancel, nil
			}
			release = r
			defer release()
		}
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = cwd
		t.Found, t.Todo = 1, 1
		if err := cmd.Run(); err != nil {
			return scheduler.Fail, err
		}
		t.Processed, t.Done = 1, 1
		return scheduler.Succ, nil
	})
	return nil
}

// watchActive resets the filesystem watcher to cover exactly the URLs
// every tab's cwd/parent need watched, per spec.md §4.6.
func (c *Core) watchActive() {
	if c.Manager.Watcher == nil {
		return
	}
	c.Manager.Watcher.Watch(c.Manager.WatchSet())
}

// peekCmd resolves and runs a peek for the active tab's hovered file.
func (c *Core) peekCmd() tea.Cmd {
	return c.peekCmdForced(false)
}

func (c *Core) peekCmdForced(force bool) tea.Cmd {
	tab := c.Manager.Active()
	f, ok := tab.Cwd().CursorFile()
	if !ok {
		tab.Preview.Reset()
		return nil
	}
	file := f
	run := tab.Preview.Peek(context.Background(), &file, func(u yzurl.URL) (string, bool) {
		return c.Manager.Mimetype.Get(u)
	}, previewDispatcher, false, preview.Opt{Force: force})
	if run == nil {
		return nil
	}
	return tea.Cmd(run)
}

// previewDispatcher is the process-wide previewer table; internal/app
// swaps it for a config-driven table built from the user's opener rules.
var previewDispatcher = &preview.Dispatcher{
	Rules: []preview.Rule{
		{MimePattern: "text/*", Previewer: &preview.TextPreviewer{}},
		{MimePattern: "application/json", Previewer: &preview.TextPreviewer{}},
		{MimePattern: "text/markdown", Previewer: &preview.MarkdownPreviewer{}},
	},
}

func (c *Core) openWhich() {
	c.Which = modal.New("", 40, modal.Text("which-key"))
}

func (c *Core) openHelp() {
	c.Help = modal.New("Help", 60, modal.Text("keybindings"))
}

func (c *Core) openConfirm(message, title string) {
	c.Confirm = modal.New(title, 50,
		modal.Text(message),
		modal.Spacer(),
		modal.Buttons(modal.Btn("Yes", "yes", modal.BtnDanger()), modal.Btn("No", "no")),
	).SetVariant(modal.VariantWarning)
}

// openPick opens the Pick popup's cursor-navigable candidate list. onPick,
// if non-nil, runs with the chosen index once the user presses enter on a
// candidate (see modal.Candidates); with no callback the choice is simply
// reported as a notify toast.
func (c *Core) openPick(title string, options []string, onPick func(index int)) {
	c.pickOptions = options
	c.pickOK = onPick
	c.Pick = modal.New(title, 50, modal.Text(title), modal.Spacer(), modal.Candidates(options))
}

// PickResolve maps a "candidate:<index>" action (from modal.Candidates'
// Update) back onto the chosen option, runs the Pick popup's callback if
// one was given, and closes the popup.
func (c *Core) PickResolve(action string) {
	var idx int
	if _, err := fmt.Sscanf(action, "candidate:%d", &idx); err != nil {
		return
	}
	if idx < 0 || idx >= len(c.pickOptions) {
		return
	}
	choice := c.pickOptions[idx]
	cb := c.pickOK
	c.CloseTopPopup()
	if cb != nil {
		cb(idx)
		return
	}
	c.notify(NotifyInfo, "pick", choice)
}

func (c *Core) closeTopPopup() {
	switch {
	case c.Which != nil:
		c.Which = nil
	case c.Help != nil:
		c.Help = nil
	case c.Input != nil:
		c.Input = nil
	case c.Confirm != nil:
		c.Confirm = nil
	case c.Pick != nil:
		c.Pick = nil
	case c.Completion != nil:
		c.Completion = nil
	}
}

func stepFromArg(v bus.Value) folder.Step {
	switch v.Kind {
	case bus.VInt:
		return folder.Offset(int(v.I))
	case bus.VString:
		switch v.S {
		case "top":
			return folder.Top()
		case "bot":
			return folder.Bot()
		case "prev":
			return folder.Prev()
		case "next":
			return folder.Next()
		}
	}
	return folder.Offset(0)
}

func sorterFromArgs(cmd bus.Cmd) folder.Sorter {
	return folder.Sorter{
		Key:      sortKeyFromString(cmd.Arg(0).S),
		Reverse:  cmd.Named["reverse"].B,
		DirFirst: cmd.Named["dir_first"].B,
	}
}

func sortKeyFromString(s string) folder.SortKey {
	switch s {
	case "mtime":
		return folder.SortMtime
	case "btime":
		return folder.SortBtime
	case "extension":
		return folder.SortExtension
	case "alphabetical":
		return folder.SortAlphabetical
	case "natural":
		return folder.SortNatural
	case "size":
		return folder.SortSize
	case "random":
		return folder.SortRandom
	default:
		return folder.SortNone
	}
}

func listStrings(v bus.Value) []string {
	if v.Kind != bus.VList {
		return nil
	}
	out := make([]string, 0, len(v.List))
	for _, e := range v.List {
		out = append(out, e.String())
	}
	return out
}

// WriteCwdFile writes the active tab's current directory to path, for
// spec.md §6's --cwd-file shutdown hook. A blank path is a no-op.
func (c *Core) WriteCwdFile(path string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(c.Manager.Active().CwdURL().Loc()+"\n"), 0o644)
}
