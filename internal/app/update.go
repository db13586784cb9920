package app

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yazi-go/yazi/internal/adaptor"
	"github.com/yazi-go/yazi/internal/bus"
	"github.com/yazi-go/yazi/internal/core"
	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/folder"
	"github.com/yazi-go/yazi/internal/keymap"
	"github.com/yazi-go/yazi/internal/modal"
	"github.com/yazi-go/yazi/internal/palette"
	"github.com/yazi-go/yazi/internal/preview"
	"github.com/yazi-go/yazi/internal/ui"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// folderLoadedMsg carries a synchronous directory listing back from the
// tea.Cmd core.LoadDir was wrapped in, so Update is the only place that
// ever calls Folder.Apply.
type folderLoadedMsg struct{ op filesop.Op }

// watcherOpMsg wraps one value read off the watcher's output channel; the
// bridging Cmd re-issues itself after every read so the channel is
// drained one tea.Msg at a time without a dedicated goroutine talking
// directly to the tea.Program.
type watcherOpMsg struct {
	op filesop.Op
	ch <-chan filesop.Op
}

// imageShownMsg/imageHiddenMsg report the result of the adaptor's
// side-effecting Show/Hide calls, issued from a tea.Cmd after a preview
// result is applied — never from View, which must stay pure.
type imageShownMsg struct{ err error }
type imageHiddenMsg struct{ err error }

func loadFolderCmd(url yzurl.URL) tea.Cmd {
	return func() tea.Msg { return folderLoadedMsg{op: core.LoadDir(url)} }
}

func waitForWatcher(ch <-chan filesop.Op) tea.Cmd {
	return func() tea.Msg {
		op, ok := <-ch
		if !ok {
			return nil
		}
		return watcherOpMsg{op: op, ch: ch}
	}
}

// reloadCmds issues a load for every folder the active tab currently
// shows (cwd, parent, and the directory preview lock if one is pending)
// that is still in its lazily-created Loading stage, per spec.md §3:
// "Folders are created lazily ... and must be populated by a load."
func (m Model) reloadCmds() []tea.Cmd {
	tab := m.Core.Manager.Active()
	var cmds []tea.Cmd
	if f := tab.Cwd(); f.Stage() == folder.Loading {
		cmds = append(cmds, loadFolderCmd(f.URL()))
	}
	if p := tab.Parent(); p != nil && p.Stage() == folder.Loading {
		cmds = append(cmds, loadFolderCmd(p.URL()))
	}
	if fl := tab.Preview.FolderLock; fl != nil {
		if f, ok := m.Core.Manager.FolderByURL(fl.URL); ok && f.Stage() == folder.Loading {
			cmds = append(cmds, loadFolderCmd(fl.URL))
		}
	}
	return cmds
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.Core.Palette.SetSize(msg.Width, msg.Height)
		if f := m.Core.Manager.Active().Cwd(); f != nil {
			f.SetPage(msg.Height - 4)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.PasteMsg:
		return m, nil

	case palette.CommandSelectedMsg:
		m.Core.ClosePalette()
		return m, bus.Dispatch(bus.Cmd{Name: msg.CommandID})

	case bus.CmdMsg:
		m.events.emit(msg.Cmd.Name, bus.Format(msg.Cmd))
		cmd := m.Core.Dispatch(msg.Cmd)
		return m, tea.Batch(append([]tea.Cmd{cmd}, m.reloadCmds()...)...)

	case bus.SeqMsg:
		var cmds []tea.Cmd
		for _, c := range msg.Cmds {
			m.events.emit(c.Name, bus.Format(c))
			cmds = append(cmds, m.Core.Dispatch(c))
		}
		cmds = append(cmds, m.reloadCmds()...)
		return m, tea.Batch(cmds...)

	case bus.QuitMsg:
		m.quit = true
		m.code = msg.Code
		return m, tea.Sequence(m.writeShutdownOutputs(), tea.Quit)

	case folderLoadedMsg:
		m.applyFolderOp(msg.op)
		return m, m.peekIfActive(msg.op.URL)

	case watcherOpMsg:
		m.applyWatcherOp(msg.op)
		return m, tea.Batch(waitForWatcher(msg.ch), m.peekIfActive(msg.op.URL))

	case preview.ResultMsg:
		tab := m.Core.Manager.Active()
		var current *vfile.File
		if f, ok := tab.Cwd().CursorFile(); ok {
			current = &f
		}
		tab.Preview.Apply(msg, current)
		m.Core.Bus.RequestRender()
		return m, m.imageCmdFor(tab.Preview.Lock)

	case imageShownMsg, imageHiddenMsg:
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		m.lastTick = now
		// Both calls are debounced internally; bubbletea re-renders on
		// every Update return regardless, so draining the flags here is
		// only about keeping their internal debounce windows honest.
		m.Core.Bus.PollRender(now)
		summary, ok := m.Core.Scheduler.Progress(now)
		if ok && summary.Total > summary.Success+summary.Failed {
			if !m.spinner.IsActive() {
				m.spinner.Start()
			}
			m.spinner.Tick()
		} else {
			m.spinner.Stop()
		}

		cmds := []tea.Cmd{m.tick()}
		pending := m.Core.Manager.Active().Preview.Pending
		if pending && !m.skeleton.IsActive() {
			cmds = append(cmds, m.skeleton.Start())
		} else if !pending {
			m.skeleton.Stop()
		}
		return m, tea.Batch(cmds...)

	case ui.SkeletonTickMsg:
		cmd := m.skeleton.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

// handleKey routes one keypress through, in priority order: the command
// palette, the highest-priority open popup, then the keymap Resolver
// against the manager layer — the exact precedence spec.md §4.2 step 1
// describes.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Core.PaletteOpen() {
		if msg.Type == tea.KeyEsc {
			m.Core.ClosePalette()
			return m, nil
		}
		var cmd tea.Cmd
		m.Core.Palette, cmd = m.Core.Palette.Update(msg)
		return m, cmd
	}

	if mdl, ok := m.topPopup(); ok {
		if msg.Type == tea.KeyEsc {
			m.Core.CloseTopPopup()
			m.Core.Bus.RequestRender()
			return m, nil
		}
		action, cmd := mdl.Update(msg)
		m.applyPopupAction(action)
		return m, cmd
	}

	outcome := m.Core.Keymap.Resolve(m.Core.PopupLayers(), keyFromMsg(msg), time.Now())
	switch {
	case outcome.Fired:
		m.Core.Which = nil
		return m, bus.DispatchSeq(outcome.Cmds)
	case outcome.Which:
		m.Core.Which = buildWhichModal(outcome.Candidates)
		m.Core.Bus.RequestRender()
		return m, nil
	default:
		return m, nil
	}
}

// topPopup returns the highest-priority open popup modal, per the same
// which > help > input > confirm > pick > completion order PopupLayers
// already encodes.
func (m Model) topPopup() (*modal.Modal, bool) {
	for _, l := range keymap.PopupPriority() {
		switch l {
		case keymap.LayerWhich:
			if m.Core.Which != nil {
				return m.Core.Which, true
			}
		case keymap.LayerHelp:
			if m.Core.Help != nil {
				return m.Core.Help, true
			}
		case keymap.LayerInput:
			if m.Core.Input != nil {
				return m.Core.Input, true
			}
		case keymap.LayerConfirm:
			if m.Core.Confirm != nil {
				return m.Core.Confirm, true
			}
		case keymap.LayerPick:
			if m.Core.Pick != nil {
				return m.Core.Pick, true
			}
		case keymap.LayerCompletion:
			if m.Core.Completion != nil {
				return m.Core.Completion, true
			}
		}
	}
	return nil, false
}

// applyPopupAction maps a Modal.Update action id back onto the Core
// methods that know how to run it, per the button ids Core's openInput/
// openConfirm wire up ("ok" for the input field's submit, "yes"/"no" for
// the confirm popup's buttons).
func (m Model) applyPopupAction(action string) {
	switch {
	case action == "":
		return
	case action == "ok":
		m.Core.SubmitInput()
	case action == "yes":
		m.Core.ConfirmYes()
	case action == "no":
		m.Core.CloseTopPopup()
	case strings.HasPrefix(action, "candidate:"):
		m.Core.PickResolve(action)
	default:
		m.Core.CloseTopPopup()
	}
	m.Core.Bus.RequestRender()
}

// buildWhichModal renders the which-key disclosure from the Resolver's
// ambiguous-prefix candidates, replacing Core's placeholder stub with the
// actual candidate list once the app loop has them in hand.
func buildWhichModal(candidates []keymap.Chord) *modal.Modal {
	var lines string
	for _, c := range candidates {
		desc := c.Desc
		if desc == "" {
			if len(c.Run) > 0 {
				desc = c.Run[0].Name
			}
		}
		lines += c.Display() + "  " + desc + "\n"
	}
	return modal.New("", 40, modal.Text(lines)).SetShowHints(false)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.Core.PaletteOpen() {
		var cmd tea.Cmd
		m.Core.Palette, cmd = m.Core.Palette.Update(msg)
		return m, cmd
	}
	if mdl, ok := m.topPopup(); ok {
		action, cmd := mdl.Update(msg)
		m.applyPopupAction(action)
		return m, cmd
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m, bus.Dispatch(bus.Cmd{Name: "arrow", Args: []bus.Value{bus.Int(-1)}})
	case tea.MouseButtonWheelDown:
		return m, bus.Dispatch(bus.Cmd{Name: "arrow", Args: []bus.Value{bus.Int(1)}})
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	region := m.rowHits.Test(msg.X, msg.Y)
	if region == nil {
		return m, nil
	}
	urn, _ := region.Data.(string)
	result := m.mouseHandler.HandleClick(msg.X, msg.Y)
	if result.IsDoubleClick {
		return m, bus.DispatchSeq([]bus.Cmd{
			{Name: "hover", Args: []bus.Value{bus.Str(urn)}},
			{Name: "open_do"},
		})
	}
	return m, bus.Dispatch(bus.Cmd{Name: "hover", Args: []bus.Value{bus.Str(urn)}})
}

// applyFolderOp routes a freshly loaded (or watcher-produced) op to
// whichever folder owns its URL across every tab, mirroring
// Manager.FolderByURL's cross-tab lookup.
func (m Model) applyFolderOp(op filesop.Op) {
	if f, ok := m.Core.Manager.FolderByURL(op.URL); ok {
		f.Apply(op)
		m.Core.Bus.RequestRender()
	}
}

func (m Model) applyWatcherOp(op filesop.Op) { m.applyFolderOp(op) }

// peekIfActive re-runs the peek pipeline when op touched the active tab's
// cwd, since a freshly loaded or watcher-updated folder may change what
// the cursor is now hovering.
func (m Model) peekIfActive(url yzurl.URL) tea.Cmd {
	tab := m.Core.Manager.Active()
	if !yzurl.Equal(url, tab.CwdURL()) {
		if p := tab.Parent(); p == nil || !yzurl.Equal(url, p.URL()) {
			return nil
		}
	}
	return m.Core.Dispatch(bus.Cmd{Name: "peek"})
}

// imageCmdFor issues the adaptor side effect matching lock's kind: Show
// for an image lock, Hide otherwise, per spec.md §4.7's "the image plane
// tracks at most one shown frame at a time."
func (m Model) imageCmdFor(lock *preview.Lock) tea.Cmd {
	if m.adaptor == nil {
		return nil
	}
	if lock == nil || lock.Kind != preview.DataImage {
		ad := m.adaptor
		return func() tea.Msg { return imageHiddenMsg{err: ad.Hide()} }
	}
	ad := m.adaptor
	path := lock.URL.Loc()
	return func() tea.Msg {
		_, err := ad.Show(context.Background(), path, adaptor.Rect{W: 40, H: 20})
		return imageShownMsg{err: err}
	}
}
