package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yazi-go/yazi/internal/core"
	"github.com/yazi-go/yazi/internal/folder"
	"github.com/yazi-go/yazi/internal/preview"
	"github.com/yazi-go/yazi/internal/styles"
	"github.com/yazi-go/yazi/internal/ui"
	"github.com/yazi-go/yazi/internal/vfile"
)

// View renders the three-column layout (parent/current/preview), the tab
// bar, notification toasts, the tasks footer, and any open popup or the
// command palette on top — the frame spec.md §2's component list and §4.2
// describe. It never mutates Core; side effects (image show/hide, popup
// dismissal) are all driven from Update.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	m.rowHits.Clear()

	ratio := m.Config.Mgr.Ratio
	total := ratio[0] + ratio[1] + ratio[2]
	if total == 0 {
		total = 8
		ratio = [3]int{1, 3, 4}
	}
	bodyHeight := m.height - 2 // tab bar + footer
	colW := func(part int) int { return part * (m.width - 2) / total }

	tab := m.Core.Manager.Active()

	var parentCol string
	if p := tab.Parent(); p != nil {
		parentCol = m.renderColumn(p, colW(ratio[0]), bodyHeight, false)
	} else {
		parentCol = lipgloss.NewStyle().Width(colW(ratio[0])).Height(bodyHeight).Render("")
	}
	currentCol := m.renderColumn(tab.Cwd(), colW(ratio[1]), bodyHeight, true)
	previewCol := m.renderPreview(tab.Preview, colW(ratio[2]), bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		parentCol, ui.RenderDivider(bodyHeight), currentCol, ui.RenderDivider(bodyHeight), previewCol)

	header := m.renderTabBar()
	footer := m.renderFooter()

	screen := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if m.Core.PaletteOpen() {
		return overlayCenter(screen, m.renderPalette(), m.width, m.height)
	}
	if mdl, ok := m.topPopup(); ok {
		return overlayCenter(screen, mdl.Render(m.width, m.height, m.mouseHandler), m.width, m.height)
	}
	if tab.Spot != nil {
		return overlayCenter(screen, m.renderSpot(tab.Spot), m.width, m.height)
	}
	return screen
}

// renderSpot draws the hovered file's metadata lines (spec.md §3's
// per-tab "spot" field) in a small bordered box, the same overlay
// mechanism used for popups but without stealing keymap focus — Spot
// stays open across cursor movement until dismissed or a file is opened.
func (m Model) renderSpot(s *core.Spot) string {
	var b strings.Builder
	for _, line := range s.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderActive).
		Padding(0, 1).
		Width(40).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderTabBar() string {
	var parts []string
	for i, t := range m.Core.Manager.Tabs() {
		label := fmt.Sprintf(" %d:%s ", i+1, t.CwdURL().Name())
		if i == m.Core.Manager.TabCursor() {
			parts = append(parts, lipgloss.NewStyle().Foreground(styles.TextPrimary).Background(styles.BgTertiary).Render(label))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(styles.TextMuted).Render(label))
		}
	}
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(parts, ""))
}

func (m Model) renderFooter() string {
	tab := m.Core.Manager.Active()
	left := tab.CwdURL().Loc()
	if n := tab.Selected.Len(); n > 0 {
		left += fmt.Sprintf("  (%d selected)", n)
	}
	if n := m.Core.Manager.Yanked.Len(); n > 0 {
		verb := "copied"
		if m.Core.Manager.Yanked.Cut {
			verb = "cut"
		}
		left += fmt.Sprintf("  %d %s", n, verb)
	}

	var right string
	if summary, ok := m.Core.Scheduler.Progress(m.lastTick); ok && summary.Total > 0 {
		right = fmt.Sprintf("tasks %d/%d %.0f%%", summary.Success+summary.Failed, summary.Total, summary.Percent)
		if m.spinner.IsActive() {
			right = m.spinner.View() + " " + right
		}
	}
	if len(m.Core.Notifies) > 0 {
		last := m.Core.Notifies[len(m.Core.Notifies)-1]
		right = last.Title + ": " + last.Content
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().Foreground(styles.TextMuted).Render(left + strings.Repeat(" ", gap) + right)
}

// renderColumn lists f's visible page of files, highlighting the cursor
// row and every selected entry, and (for the focused column) registers a
// mouse hit region per row so clicks can hover/open that file.
func (m Model) renderColumn(f *folder.Folder, width, height int, focused bool) string {
	if width < 4 {
		width = 4
	}
	var b strings.Builder
	files := f.Files()
	offset := f.Offset()
	rows := height
	if rows < 1 {
		rows = 1
	}

	tab := m.Core.Manager.Active()

	for row := 0; row < rows; row++ {
		i := offset + row
		if i >= len(files) {
			b.WriteString("\n")
			continue
		}
		file := files[i]
		line := fileLine(file, width)

		style := lipgloss.NewStyle().Width(width)
		switch {
		case focused && i == f.Cursor():
			style = style.Background(styles.BgTertiary).Foreground(styles.TextSelectionColor)
		case tab.Selected.Contains(file.URL):
			style = style.Foreground(styles.Accent)
		default:
			style = style.Foreground(styles.TextPrimary)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if focused {
			m.rowHits.AddRect(file.Urn(), 0, row, width, 1, file.Urn())
		}
	}

	scrollbar := ui.RenderScrollbar(ui.ScrollbarParams{
		TotalItems: len(files), ScrollOffset: offset, VisibleItems: rows, TrackHeight: rows,
	})

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(width).Height(rows).Render(strings.TrimRight(b.String(), "\n")),
		scrollbar)
}

// fileLine formats f's display name, truncating by display cell width
// (not byte length) so a wide CJK glyph or multi-byte rune never gets cut
// mid-character the way a naive name[:width] byte slice would.
func fileLine(f vfile.File, width int) string {
	name := f.Name()
	if f.IsDir() {
		name += "/"
	}
	if runewidth.StringWidth(name) > width {
		name = runewidth.Truncate(name, width, "")
	}
	return name
}

// renderPreview renders the hovered file's peek lock: text content for
// DataText, a placeholder for DataImage (the actual pixels are painted
// out-of-band by the adaptor protocol directly to the terminal), and a
// directory listing for DataFolder.
func (m Model) renderPreview(p *preview.Preview, width, height int) string {
	box := lipgloss.NewStyle().Width(width).Height(height)
	if p.Lock == nil {
		if p.Pending {
			return box.Render(m.skeleton.View(width))
		}
		return box.Render("")
	}
	switch p.Lock.Kind {
	case preview.DataText:
		return box.Render(clampLines(p.Lock.Text, height))
	case preview.DataImage:
		return box.Render("")
	case preview.DataFolder:
		if f, ok := m.Core.Manager.FolderByURL(p.FolderLock.URL); ok {
			return m.renderColumn(f, width, height, false)
		}
		return box.Render("")
	default:
		if p.Lock.Error != nil {
			return box.Foreground(styles.Error).Render(p.Lock.Error.Error())
		}
		return box.Render("")
	}
}

func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPalette() string {
	var b strings.Builder
	b.WriteString(m.Core.Palette.Query())
	b.WriteString("\n")
	for i, e := range m.Core.Palette.Filtered() {
		if i >= m.Core.Palette.MaxVisible() {
			break
		}
		line := fmt.Sprintf("%-6s %s", e.Key, e.Desc)
		if i == m.Core.Palette.Cursor() {
			line = lipgloss.NewStyle().Background(styles.BgTertiary).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderActive).
		Width(60).
		Render(b.String())
}

// overlayCenter places content centered over base, matching the
// cursor-preserving overlay the teacher's tty.go and modal.go both use for
// popup layers atop the main view.
func overlayCenter(base, content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
