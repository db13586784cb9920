package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yazi-go/yazi/internal/bus"
	"github.com/yazi-go/yazi/internal/keymap"
)

// DefaultKeymap is the built-in keymap.toml shipped with the binary,
// parsed through the exact same config.BindKeymapBytes path a user's own
// keymap.toml goes through — so a user override is just another call to
// config.LoadKeymap layered on top, never a separate code path. The chord
// set mirrors original_source's default keymap.toml closely enough to be
// usable out of the box: hjkl/arrow movement, gg/G extremes, space/v for
// selection, y/x/p/l for yank/cut/paste/link, d/D for trash/delete,
// a/r for create/rename, / for filtering, : for the command palette.
const DefaultKeymap = `
[[mgr]]
on = ["k"]
run = "arrow -1"
desc = "Move cursor up"

[[mgr]]
on = ["j"]
run = "arrow 1"
desc = "Move cursor down"

[[mgr]]
on = ["up"]
run = "arrow -1"

[[mgr]]
on = ["down"]
run = "arrow 1"

[[mgr]]
on = ["h"]
run = "leave"
desc = "Go to parent directory"

[[mgr]]
on = ["left"]
run = "leave"

[[mgr]]
on = ["l"]
run = "open_do"
desc = "Enter directory"

[[mgr]]
on = ["right"]
run = "open_do"

[[mgr]]
on = ["enter"]
run = "open_do"

[[mgr]]
on = ["g", "g"]
run = "arrow top"
desc = "Go to top"

[[mgr]]
on = ["shift+g"]
run = "arrow bot"
desc = "Go to bottom"

[[mgr]]
on = [" "]
run = "toggle; arrow 1"
desc = "Toggle selection"

[[mgr]]
on = ["ctrl+a"]
run = "toggle_all true"
desc = "Select all"

[[mgr]]
on = ["ctrl+r"]
run = "toggle_all false"
desc = "Unselect all"

[[mgr]]
on = ["y"]
run = "yanked false"
desc = "Copy"

[[mgr]]
on = ["x"]
run = "yanked true"
desc = "Cut"

[[mgr]]
on = ["p"]
run = "paste"
desc = "Paste"

[[mgr]]
on = ["shift+p"]
run = "paste --force=true"
desc = "Paste (overwrite)"

[[mgr]]
on = ["ctrl+l"]
run = "link"
desc = "Symlink"

[[mgr]]
on = ["d"]
run = "remove"
desc = "Trash"

[[mgr]]
on = ["shift+d"]
run = "remove --permanently=true"
desc = "Delete permanently"

[[mgr]]
on = ["a"]
run = "create"
desc = "Create"

[[mgr]]
on = ["r"]
run = "rename"
desc = "Rename"

[[mgr]]
on = ["/"]
run = "filter_prompt"
desc = "Filter"

[[mgr]]
on = ["."]
run = "hidden"
desc = "Toggle hidden files"

[[mgr]]
on = ["t", "n"]
run = "tab_create"
desc = "New tab"

[[mgr]]
on = ["t", "c"]
run = "tab_close 0"
desc = "Close tab"

[[mgr]]
on = ["tab"]
run = "tab_switch 1"
desc = "Next tab"

[[mgr]]
on = [":"]
run = "palette"
desc = "Command palette"

[[mgr]]
on = ["?"]
run = "help"
desc = "Help"

[[mgr]]
on = ["s"]
run = "spot"
desc = "Spot info"

[[mgr]]
on = ["esc"]
run = "escape"
desc = "Escape"

[[mgr]]
on = ["q"]
run = "quit 0"
desc = "Quit"

[[mgr]]
on = ["ctrl+c"]
run = "quit 130"
desc = "Quit (interrupt)"
`

// refreshCmd asks Core to re-sync the watcher against the active tab's
// current cwd/parent, the one piece of navigation bookkeeping Dispatch
// already knows how to do internally.
func refreshCmd() bus.Cmd { return bus.Cmd{Name: "refresh"} }

// keyFromMsg converts a bubbletea key event into the keymap package's Key,
// used to drive Resolver.Resolve. bubbletea reports modifiers baked into
// msg.String() (e.g. "ctrl+a", "shift+tab") rather than as separate
// fields, so this re-derives them the same way internal/config/keymap.go's
// parseKey does for keymap.toml tokens.
func keyFromMsg(msg tea.KeyMsg) keymap.Key {
	s := msg.String()
	var k keymap.Key
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '+' {
			part := s[start:i]
			switch part {
			case "ctrl":
				k.Ctrl = true
			case "alt":
				k.Alt = true
			case "shift":
				k.Shift = true
			case "super":
				k.Super = true
			default:
				k.Code = part
			}
			start = i + 1
		}
	}
	return k
}
