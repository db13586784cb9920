// Package keymap implements the hierarchical keymap resolver described in
// spec.md §4.2: named layers of ordered Chords with prefix (multi-chord)
// matching and which-key disclosure. It generalizes the teacher's
// internal/keymap/registry.go (a single flat context->bindings map with a
// pendingKey/pendingTime sequence timeout) into the spec's eight named
// layers with popup-priority fallthrough.
package keymap

import (
	"time"

	"github.com/yazi-go/yazi/internal/bus"
)

// Layer names the keymap layers from spec.md §2/§4.2, in their popup
// routing priority order (highest first) followed by the base layer.
type Layer uint8

const (
	LayerWhich Layer = iota
	LayerHelp
	LayerInput
	LayerConfirm
	LayerPick
	LayerCompletion
	LayerTasks
	LayerSelect
	LayerManager
)

// PopupPriority lists the popup layers in the routing priority order
// spec.md §4.2 step 1 requires: which > help > input > confirm > pick >
// completion. Callers filter this down to whichever popups are currently
// visible before passing it to Resolve.
func PopupPriority() []Layer {
	return []Layer{LayerWhich, LayerHelp, LayerInput, LayerConfirm, LayerPick, LayerCompletion}
}

// Key is a single keypress: a code (e.g. "j", "enter", "tab") plus
// modifiers.
type Key struct {
	Code  string
	Shift bool
	Ctrl  bool
	Alt   bool
	Super bool
}

func (k Key) equal(o Key) bool {
	return k.Code == o.Code && k.Shift == o.Shift && k.Ctrl == o.Ctrl && k.Alt == o.Alt && k.Super == o.Super
}

// FromEvent converts a raw bus.KeyMsg into a Key.
func FromEvent(e bus.KeyMsg) Key {
	return Key{Code: e.Code, Shift: e.Shift, Ctrl: e.Ctrl, Alt: e.Alt, Super: e.Super}
}

// Chord is a sequence of keys mapped to a sequence of commands.
type Chord struct {
	On     []Key
	Run    []bus.Cmd
	Desc   string
	For    string // optional condition tag, evaluated by the caller
	Silent bool   // suppress which-key even when ambiguous
}

// Resolver holds, per layer, an ordered list of Chords and resolves
// incoming keys into command sequences.
type Resolver struct {
	layers map[Layer][]Chord

	pending        []Key
	pendingStarted time.Time
	timeout        time.Duration
}

// NewResolver creates an empty Resolver with the spec's prefix-disambiguation
// inactivity window.
func NewResolver() *Resolver {
	return &Resolver{layers: make(map[Layer][]Chord), timeout: 600 * time.Millisecond}
}

// Bind registers a chord on a layer. Chords are matched in registration
// order, so more specific bindings should be registered first if they
// should take precedence over a generic prefix.
func (r *Resolver) Bind(layer Layer, c Chord) {
	r.layers[layer] = append(r.layers[layer], c)
}

// Outcome is what Resolve decided to do with an incoming key.
type Outcome struct {
	Fired      bool     // a command sequence fired
	Cmds       []bus.Cmd
	Which      bool     // which-key should now display candidates
	Candidates []Chord  // remaining candidates, only set when Which is true
	Swallowed  bool     // the key was consumed but nothing fired (mid-sequence)
}

// Resolve routes key through the layers visible in popupStack (highest
// priority first, as returned by the caller per which popups are open),
// falling through to LayerManager if none consume it, per spec.md §4.2
// step 1.
func (r *Resolver) Resolve(popupStack []Layer, key Key, now time.Time) Outcome {
	layers := append(append([]Layer{}, popupStack...), LayerManager)
	for _, layer := range layers {
		if out, ok := r.resolveInLayer(layer, key, now); ok {
			return out
		}
	}
	r.pending = nil
	return Outcome{}
}

func (r *Resolver) resolveInLayer(layer Layer, key Key, now time.Time) (Outcome, bool) {
	chords := r.layers[layer]
	if len(chords) == 0 {
		return Outcome{}, false
	}

	if len(r.pending) > 0 && now.Sub(r.pendingStarted) > r.timeout {
		r.pending = nil
	}

	seq := append(append([]Key{}, r.pending...), key)
	var matches []Chord
	for _, c := range chords {
		if len(c.On) < len(seq) {
			continue
		}
		ok := true
		for i, k := range seq {
			if !c.On[i].equal(k) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, c)
		}
	}

	if len(matches) == 0 {
		if len(r.pending) > 0 {
			// The prefix was consumed by this layer but nothing continues
			// it; swallow and reset rather than falling through.
			r.pending = nil
			return Outcome{Swallowed: true}, true
		}
		return Outcome{}, false
	}

	// Exact single-length match with no longer ambiguous sibling fires
	// immediately.
	var exact *Chord
	longer := false
	for i := range matches {
		if len(matches[i].On) == len(seq) {
			exact = &matches[i]
		} else {
			longer = true
		}
	}

	if exact != nil && (len(exact.On) == 1 || !longer) && (exact.Silent || !longer) {
		r.pending = nil
		return Outcome{Fired: true, Cmds: exact.Run}, true
	}

	if exact != nil && !longer {
		r.pending = nil
		return Outcome{Fired: true, Cmds: exact.Run}, true
	}

	// Ambiguous: either no exact match yet, or an exact match but longer
	// chords still share the prefix — enter which-key disclosure.
	r.pending = seq
	r.pendingStarted = now
	return Outcome{Which: true, Candidates: matches, Swallowed: true}, true
}

// Reset clears any in-progress chord (used when a popup dismisses or
// which-key's candidate set becomes empty).
func (r *Resolver) Reset() { r.pending = nil }

// All returns every registered chord grouped by layer, for consumers such
// as the command palette and the help popup that need to enumerate the
// full keymap rather than resolve a single keypress.
func (r *Resolver) All() map[Layer][]Chord {
	out := make(map[Layer][]Chord, len(r.layers))
	for layer, chords := range r.layers {
		out[layer] = append([]Chord(nil), chords...)
	}
	return out
}

// LayerName returns a display name for a layer.
func (l Layer) LayerName() string {
	switch l {
	case LayerWhich:
		return "which"
	case LayerHelp:
		return "help"
	case LayerInput:
		return "input"
	case LayerConfirm:
		return "confirm"
	case LayerPick:
		return "pick"
	case LayerCompletion:
		return "completion"
	case LayerTasks:
		return "tasks"
	case LayerSelect:
		return "select"
	default:
		return "manager"
	}
}

// Display renders a chord's key sequence for UI purposes, e.g. "g g".
func (c Chord) Display() string {
	s := ""
	for i, k := range c.On {
		if i > 0 {
			s += " "
		}
		if k.Ctrl {
			s += "ctrl+"
		}
		if k.Alt {
			s += "alt+"
		}
		if k.Shift {
			s += "shift+"
		}
		s += k.Code
	}
	return s
}
