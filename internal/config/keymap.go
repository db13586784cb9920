package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml"

	"github.com/yazi-go/yazi/internal/bus"
	"github.com/yazi-go/yazi/internal/keymap"
)

// layerName maps keymap.toml's [[mgr]]/[[select]]/... tables to the
// keymap.Layer they bind, mirroring the layer names spec.md §2 assigns.
var layerName = map[string]keymap.Layer{
	"mgr":        keymap.LayerManager,
	"select":     keymap.LayerSelect,
	"tasks":      keymap.LayerTasks,
	"which":      keymap.LayerWhich,
	"help":       keymap.LayerHelp,
	"input":      keymap.LayerInput,
	"confirm":    keymap.LayerConfirm,
	"pick":       keymap.LayerPick,
	"completion": keymap.LayerCompletion,
}

// chordEntry is one [[<layer>]] table row in keymap.toml.
type chordEntry struct {
	On     []string `toml:"on"`
	Run    string   `toml:"run"`
	Desc   string   `toml:"desc"`
	For    string   `toml:"for"`
	Silent bool     `toml:"silent"`
}

type keymapFile struct {
	Mgr        []chordEntry `toml:"mgr"`
	Select     []chordEntry `toml:"select"`
	Tasks      []chordEntry `toml:"tasks"`
	Which      []chordEntry `toml:"which"`
	Help       []chordEntry `toml:"help"`
	Input      []chordEntry `toml:"input"`
	Confirm    []chordEntry `toml:"confirm"`
	Pick       []chordEntry `toml:"pick"`
	Completion []chordEntry `toml:"completion"`
}

func (kf keymapFile) layerEntries() map[string][]chordEntry {
	return map[string][]chordEntry{
		"mgr": kf.Mgr, "select": kf.Select, "tasks": kf.Tasks,
		"which": kf.Which, "help": kf.Help, "input": kf.Input,
		"confirm": kf.Confirm, "pick": kf.Pick, "completion": kf.Completion,
	}
}

// LoadKeymap reads keymap.toml from dir and binds every chord onto r. A
// missing file leaves r untouched so the caller's built-in bindings
// stand alone.
func LoadKeymap(dir string, r *keymap.Resolver) error {
	path := filepath.Join(dir, "keymap.toml")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := BindKeymapBytes(raw, r); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// BindKeymapBytes parses raw TOML in keymap.toml's layout and binds every
// chord onto r, without touching the filesystem. internal/app uses this to
// bind its built-in default keymap (shipped as a Go string constant) before
// LoadKeymap overlays whatever the user's own keymap.toml adds on top —
// Bind appends, so built-ins registered first remain lower priority only
// in the sense that user chords sharing a prefix are tried after them by
// Resolve's registration-order matching.
func BindKeymapBytes(raw []byte, r *keymap.Resolver) error {
	var kf keymapFile
	if err := toml.Unmarshal(raw, &kf); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	for name, entries := range kf.layerEntries() {
		layer := layerName[name]
		for _, e := range entries {
			chord, err := toChord(e)
			if err != nil {
				return fmt.Errorf("layer %s: %w", name, err)
			}
			r.Bind(layer, chord)
		}
	}
	return nil
}

func toChord(e chordEntry) (keymap.Chord, error) {
	keys := make([]keymap.Key, 0, len(e.On))
	for _, k := range e.On {
		keys = append(keys, parseKey(k))
	}

	var cmds []bus.Cmd
	for _, part := range splitCommands(e.Run) {
		c, err := bus.Parse(part)
		if err != nil {
			return keymap.Chord{}, fmt.Errorf("parsing run %q: %w", part, err)
		}
		cmds = append(cmds, c)
	}

	return keymap.Chord{On: keys, Run: cmds, Desc: e.Desc, For: e.For, Silent: e.Silent}, nil
}

// splitCommands splits a keymap.toml run string on "; " the way the
// original's exec-string grammar chains multiple commands per chord.
func splitCommands(run string) []string {
	var parts []string
	start := 0
	for i := 0; i+1 < len(run); i++ {
		if run[i] == ';' && run[i+1] == ' ' {
			parts = append(parts, run[start:i])
			start = i + 2
			i++
		}
	}
	parts = append(parts, run[start:])
	return parts
}

// parseKey parses a single chord key token such as "ctrl+a", "shift+tab",
// or a bare code like "j".
func parseKey(tok string) keymap.Key {
	var k keymap.Key
	start := 0
	for i := 0; i <= len(tok); i++ {
		if i == len(tok) || tok[i] == '+' {
			part := tok[start:i]
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
