package modal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yazi-go/yazi/internal/mouse"
)

// Variant tints a Modal's border and title, mirroring spec.md §4.2's
// confirm/pick/help/which popups each carrying a severity for their
// surrounding chrome.
type Variant uint8

const (
	VariantDefault Variant = iota
	VariantInfo
	VariantWarning
	VariantDanger
)

const (
	// MinModalWidth is the narrowest a modal box is ever clamped to.
	MinModalWidth = 30
	// ModalPadding accounts for the rounded border (2 cols) plus the
	// section padding (2 cols either side).
	ModalPadding = 6
)

// Modal is a scrollable, focus-navigable popup built from an ordered list
// of Sections, used for every layer keymap.PopupPriority names (which,
// help, input, confirm, pick, completion). Its geometry and hit-testing
// are computed by buildLayout in layout.go; Modal itself only owns the
// content and focus/scroll state.
type Modal struct {
	title   string
	variant Variant
	width   int

	sections  []Section
	focusIDs  []string
	focusIdx  int
	hoverID   string

	scrollOffset int
	showHints    bool
}

// New creates a Modal with the given title, width, and sections.
func New(title string, width int, sections ...Section) *Modal {
	return &Modal{title: title, width: width, sections: sections, showHints: true}
}

func (m *Modal) SetVariant(v Variant) *Modal { m.variant = v; return m }
func (m *Modal) SetShowHints(show bool) *Modal { m.showHints = show; return m }

// Render lays the modal out against a screenW x screenH canvas, updating
// handler's hit map if handler is non-nil.
func (m *Modal) Render(screenW, screenH int, handler *mouse.Handler) string {
	return m.buildLayout(screenW, screenH, handler)
}

func (m *Modal) currentFocusID() string {
	if m.focusIdx < 0 || m.focusIdx >= len(m.focusIDs) {
		return ""
	}
	return m.focusIDs[m.focusIdx]
}

// FocusNext/FocusPrev cycle the tab order built during the last Render.
func (m *Modal) FocusNext() {
	if len(m.focusIDs) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.focusIDs)
}

func (m *Modal) FocusPrev() {
	if len(m.focusIDs) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx - 1 + len(m.focusIDs)) % len(m.focusIDs)
}

// SetHover records the section id the mouse currently sits over, for
// hover styling on the next Render.
func (m *Modal) SetHover(id string) { m.hoverID = id }

// Scroll adjusts the content scroll offset; buildLayout clamps it to the
// content's actual bounds on the next Render.
func (m *Modal) Scroll(delta int) { m.scrollOffset += delta }

// Update dispatches msg to the section owning the focused element,
// returning any action id the section fired (e.g. a button's id) and a
// tea.Cmd to run.
func (m *Modal) Update(msg tea.Msg) (string, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab":
			m.FocusNext()
			return "", nil
		case "shift+tab":
			m.FocusPrev()
			return "", nil
		}
	}

	focusID := m.currentFocusID()
	for _, s := range m.sections {
		if action, cmd := s.Update(msg, focusID); action != "" || cmd != nil {
			return action, cmd
		}
	}
	return "", nil
}
