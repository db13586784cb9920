// Package palette implements the command palette: a fuzzy-searchable list
// of every bound command across keymap layers, generalizing the teacher's
// internal/palette package (itself built for a single flat keymap.Registry)
// onto the layered internal/keymap.Resolver from SPEC_FULL.md §4.2.
package palette

import (
	"sort"
	"strings"

	"github.com/yazi-go/yazi/internal/keymap"
)

// PaletteEntry is a single searchable row in the palette.
type PaletteEntry struct {
	Key         string // rendered chord, e.g. "g g"
	CommandID   string
	Desc        string
	Layer       keymap.Layer
	Score       int
	MatchRanges []MatchRange
}

// BuildEntries flattens every chord the resolver knows about into palette
// entries, deduplicating identical (layer, command) pairs.
func BuildEntries(r *keymap.Resolver) []PaletteEntry {
	seen := make(map[string]bool)
	var entries []PaletteEntry
	for layer, chords := range r.All() {
		for _, c := range chords {
			if len(c.Run) == 0 {
				continue
			}
			id := c.Run[0].Name
			key := layer.LayerName() + ":" + id + ":" + c.Display()
			if seen[key] {
				continue
			}
			seen[key] = true
			desc := c.Desc
			if desc == "" {
				desc = formatCommandID(id)
			}
			entries = append(entries, PaletteEntry{
				Key:       c.Display(),
				CommandID: id,
				Desc:      desc,
				Layer:     layer,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Layer != entries[j].Layer {
			return entries[i].Layer < entries[j].Layer
		}
		return entries[i].CommandID < entries[j].CommandID
	})
	return entries
}

// formatCommandID converts a command id to a readable name, e.g.
// "create-dir" -> "Create dir".
func formatCommandID(id string) string {
	if id == "" {
		return ""
	}
	words := strings.Split(id, "-")
	if runes := []rune(words[0]); len(runes) > 0 {
		words[0] = strings.ToUpper(string(runes[:1])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}

// FilterEntriesForContext returns entries belonging to the active layer or
// the manager (global) layer.
func FilterEntriesForContext(entries []PaletteEntry, active keymap.Layer) []PaletteEntry {
	var out []PaletteEntry
	for _, e := range entries {
		if e.Layer == active || e.Layer == keymap.LayerManager {
			out = append(out, e)
		}
	}
	return out
}
