package bus

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Event is the union of things the app loop's single consumer can receive,
// per spec.md §4.1: a Cmd, a compound sequence of Cmds, a raw key, a raw
// mouse event, a resize, a paste, a render tick, or a quit request. Each
// concrete type below implements tea.Msg (the empty interface) so the
// bubbletea runtime can carry it through its own FIFO queue.
type (
	// CmdMsg carries a single resolved command.
	CmdMsg struct{ Cmd Cmd }

	// SeqMsg carries a one-shot compound binding's command sequence.
	SeqMsg struct{ Cmds []Cmd }

	// KeyMsg wraps a raw key press the keymap resolver has not yet
	// consumed into a Cmd.
	KeyMsg struct {
		Code  string
		Shift bool
		Ctrl  bool
		Alt   bool
		Super bool
	}

	// MouseMsg wraps a raw mouse event.
	MouseMsg struct {
		X, Y   int
		Button string
		Motion bool
	}

	// ResizeMsg carries a terminal resize.
	ResizeMsg struct{ Width, Height int }

	// PasteMsg carries bracketed-paste text.
	PasteMsg struct{ Text string }

	// RenderTickMsg is emitted by the render debounce timer.
	RenderTickMsg struct{ At time.Time }

	// QuitMsg requests app shutdown with the given exit code.
	QuitMsg struct{ Code int }
)

// Bus serializes "need render" requests from many components into a single
// boolean flag, debounced to at most one RenderTick per 10ms, per spec.md
// §4.1. It generalizes the teacher's internal/bridge/events.go
// EventBus.Publish fan-out into a flag+timer rather than a per-type
// listener list, since the app loop here is the queue's only consumer.
type Bus struct {
	mu          sync.Mutex
	needRender  bool
	lastRender  time.Time
	debounce    time.Duration
}

// NewBus creates a Bus with the spec's 10ms render debounce.
func NewBus() *Bus { return &Bus{debounce: 10 * time.Millisecond} }

// RequestRender flags that a render is needed; the app loop's ticker will
// pick it up on its next tick.
func (b *Bus) RequestRender() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.needRender = true
}

// PollRender reports and clears the "need render" flag if the debounce
// window has elapsed since the last render.
func (b *Bus) PollRender(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.needRender {
		return false
	}
	if now.Sub(b.lastRender) < b.debounce {
		return false
	}
	b.needRender = false
	b.lastRender = now
	return true
}

// Dispatch turns a Cmd into the tea.Cmd that, when run by the program,
// yields a CmdMsg for the Update loop — this is how subsystems ("app loop
// -> scheduler" in spec.md §5 terms run the other direction) post a
// synthetic command back onto the bus.
func Dispatch(c Cmd) tea.Cmd {
	return func() tea.Msg { return CmdMsg{Cmd: c} }
}

// DispatchSeq posts a compound one-shot command sequence.
func DispatchSeq(cmds []Cmd) tea.Cmd {
	return func() tea.Msg { return SeqMsg{Cmds: cmds} }
}
