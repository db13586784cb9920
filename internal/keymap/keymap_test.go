package keymap

import (
	"testing"
	"time"

	"github.com/yazi-go/yazi/internal/bus"
)

func k(code string) Key { return Key{Code: code} }

func TestSingleChordFiresImmediately(t *testing.T) {
	r := NewResolver()
	r.Bind(LayerManager, Chord{On: []Key{k("q")}, Run: []bus.Cmd{{Name: "quit"}}})
	out := r.Resolve(nil, k("q"), time.Now())
	if !out.Fired || out.Cmds[0].Name != "quit" {
		t.Fatalf("expected quit to fire immediately, got %+v", out)
	}
}

func TestAmbiguousPrefixEntersWhichKey(t *testing.T) {
	r := NewResolver()
	r.Bind(LayerManager, Chord{On: []Key{k("g"), k("g")}, Run: []bus.Cmd{{Name: "top"}}})
	r.Bind(LayerManager, Chord{On: []Key{k("g"), k("e")}, Run: []bus.Cmd{{Name: "end"}}})

	now := time.Now()
	out := r.Resolve(nil, k("g"), now)
	if !out.Which {
		t.Fatalf("expected which-key disclosure on ambiguous prefix, got %+v", out)
	}
	if len(out.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out.Candidates))
	}

	out2 := r.Resolve(nil, k("g"), now.Add(10*time.Millisecond))
	if !out2.Fired || out2.Cmds[0].Name != "top" {
		t.Fatalf("expected 'g g' to resolve to top, got %+v", out2)
	}
}

func TestPopupLayerTakesPriorityOverManager(t *testing.T) {
	r := NewResolver()
	r.Bind(LayerManager, Chord{On: []Key{k("enter")}, Run: []bus.Cmd{{Name: "open"}}})
	r.Bind(LayerInput, Chord{On: []Key{k("enter")}, Run: []bus.Cmd{{Name: "submit"}}})

	out := r.Resolve([]Layer{LayerInput}, k("enter"), time.Now())
	if !out.Fired || out.Cmds[0].Name != "submit" {
		t.Fatalf("expected input layer's binding to win, got %+v", out)
	}
}

func TestUnmatchedKeyIsSwallowed(t *testing.T) {
	r := NewResolver()
	r.Bind(LayerManager, Chord{On: []Key{k("q")}, Run: []bus.Cmd{{Name: "quit"}}})
	out := r.Resolve(nil, k("z"), time.Now())
	if out.Fired || out.Which {
		t.Fatalf("expected no match for an unbound key, got %+v", out)
	}
}

func TestSequenceTimeoutResets(t *testing.T) {
	r := NewResolver()
	r.Bind(LayerManager, Chord{On: []Key{k("g"), k("g")}, Run: []bus.Cmd{{Name: "top"}}})
	now := time.Now()
	r.Resolve(nil, k("g"), now)
	// After the timeout, the pending prefix should have been dropped, so a
	// lone 'g' followed by an unrelated key does not fire "top".
	out := r.Resolve(nil, k("x"), now.Add(time.Second))
	if out.Fired {
		t.Fatalf("expected stale prefix to not fire after timeout, got %+v", out)
	}
}
