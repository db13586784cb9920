package bus

import (
	"testing"
	"time"
)

func TestParseFormatRoundTrip(t *testing.T) {
	cases := []string{
		`cd "/tmp/demo"`,
		`rename --force=true`,
		`yank --cut`,
		`seek 5`,
	}
	for _, s := range cases {
		canon, err := Canonicalize(s)
		if err != nil {
			t.Fatalf("canonicalize(%q): %v", s, err)
		}
		c, err := Parse(canon)
		if err != nil {
			t.Fatalf("parse(%q): %v", canon, err)
		}
		if Format(c) != canon {
			t.Fatalf("round-trip mismatch: format(parse(%q)) = %q, want %q", canon, Format(c), canon)
		}
	}
}

func TestParseNamedBoolFlag(t *testing.T) {
	c, err := Parse("yank --cut")
	if err != nil {
		t.Fatal(err)
	}
	v, ok := c.Get("cut")
	if !ok || !v.B {
		t.Fatalf("expected --cut to parse as a true bool flag")
	}
}

func TestRenderDebounce(t *testing.T) {
	b := NewBus()
	b.RequestRender()
	t0 := time.Now()
	if !b.PollRender(t0) {
		t.Fatalf("expected first poll to fire")
	}
	b.RequestRender()
	if b.PollRender(t0.Add(1 * time.Millisecond)) {
		t.Fatalf("expected poll within debounce window to be suppressed")
	}
	if !b.PollRender(t0.Add(11 * time.Millisecond)) {
		t.Fatalf("expected poll after debounce window to fire")
	}
}
