package app

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// writeShutdownOutputs drains the three output-file hooks spec.md §6
// describes before the program exits: --cwd-file records the final
// working directory, --chooser-file and --selected-file record which
// entries (if any) were chosen. Any path left blank is simply skipped, the
// same "blank means disabled" convention WriteCwdFile already uses.
func (m Model) writeShutdownOutputs() tea.Cmd {
	return func() tea.Msg {
		if err := m.Core.WriteCwdFile(m.Out.CwdFile); err != nil {
			m.log.Error("write cwd file", "path", m.Out.CwdFile, "error", err)
		}
		if err := m.writeChooserFiles(); err != nil {
			m.log.Error("write chooser file", "path", m.Out.ChooserFile, "error", err)
		}
		return nil
	}
}

// writeChooserFiles writes the chosen paths (falling back to the active
// tab's current selection if nothing was explicitly chosen via a
// "choose"-style command) to ChooserFile newline-separated and, if
// SelectedFile is also set, to that path too — mirroring yazi's own
// --chooser-file/--selected-file pair, which both describe the same set
// in different historical formats.
func (m Model) writeChooserFiles() error {
	if m.Out.ChooserFile == "" && m.Out.SelectedFile == "" {
		return nil
	}
	paths := m.chosen
	if len(paths) == 0 {
		tab := m.Core.Manager.Active()
		for _, u := range tab.Selected.All() {
			paths = append(paths, u.Loc())
		}
	}
	content := strings.Join(paths, "\n")
	if len(paths) > 0 {
		content += "\n"
	}
	if m.Out.ChooserFile != "" {
		if err := os.WriteFile(m.Out.ChooserFile, []byte(content), 0o644); err != nil {
			return err
		}
	}
	if m.Out.SelectedFile != "" {
		if err := os.WriteFile(m.Out.SelectedFile, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
