package intern

import "testing"

func TestInternDedup(t *testing.T) {
	p := New()
	a := p.Intern("/tmp/demo")
	b := p.Intern("/tmp/demo")
	if a != b {
		t.Fatalf("expected same handle for equal strings, got %d and %d", a, b)
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 distinct entry, got %d", p.Len())
	}
	if p.String(a) != "/tmp/demo" {
		t.Fatalf("round-trip mismatch: %q", p.String(a))
	}
}

func TestInternRefcountRelease(t *testing.T) {
	p := New()
	a := p.Intern("x")
	_ = p.Intern("x") // rc=2
	p.Release(a)
	if p.String(a) != "x" {
		t.Fatalf("expected entry to survive a single release of 2 refs")
	}
	p.Release(a)
	if p.String(a) != "" {
		t.Fatalf("expected entry evicted after refcount hit zero")
	}
}

func TestInternDistinctStrings(t *testing.T) {
	p := New()
	a := p.Intern("a")
	b := p.Intern("b")
	if a == b {
		t.Fatalf("distinct strings must not share a handle")
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", p.Len())
	}
}
