package palette

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/yazi-go/yazi/internal/styles"
)

// View renders the command palette as a centered modal box, using the
// same modalWidth/modalHeight/modalX/modalY geometry handleMouse expects
// so a click and its rendered row always agree.
func (m *Model) View() string {
	modalWidth := min(80, m.width-4)
	if modalWidth < 40 {
		modalWidth = 40
	}
	modalHeight := 3 + m.maxVisible + 6
	modalX := (m.width - modalWidth) / 2
	modalY := (m.height - modalHeight) / 2

	m.mouseHandler.HitMap.Clear()

	header := styles.ModalTitle.Render("Command Palette")
	query := styles.Body.Render("> " + m.textInput.View())

	innerWidth := modalWidth - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	var rows []string
	end := m.offset + m.maxVisible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		e := m.filtered[i]
		line := fmt.Sprintf("%-28s %s", e.Desc, e.Key)
		style := styles.PaletteEntry
		if i == m.cursor {
			style = styles.PaletteEntrySelected
		}
		rows = append(rows, style.Width(innerWidth).Render(line))

		rowY := modalY + 4 + (i - m.offset)
		m.mouseHandler.HitMap.AddRect(regionPaletteEntry, modalX+1, rowY, modalWidth-2, 1, i)
	}
	if len(m.filtered) == 0 {
		rows = append(rows, styles.Muted.Render("no matching commands"))
	}

	hint := styles.Footer.Render("up/down select . enter run . esc close")
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	content := lipgloss.JoinVertical(lipgloss.Left, header, query, "", body, "", hint)

	box := styles.ModalBox.Width(modalWidth).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
