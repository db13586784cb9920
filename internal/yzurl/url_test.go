package yzurl

import "testing"

func TestParentJoinRoundTrip(t *testing.T) {
	u := New("/tmp/demo/c.txt")
	parent, ok := u.Parent()
	if !ok {
		t.Fatalf("expected a parent")
	}
	got := parent.Join(u.Name())
	if !Equal(got, u) {
		t.Fatalf("parent(u).Join(name(u)) = %v, want %v", got, u)
	}
}

func TestRootHasNoParent(t *testing.T) {
	u := New("/")
	if _, ok := u.Parent(); ok {
		t.Fatalf("root must not have a parent")
	}
}

func TestRelativeResolveRoundTrip(t *testing.T) {
	base := New("/tmp/demo")
	u := New("/tmp/demo/b/inner.txt")
	rel, ok := RelativeTo(base, u)
	if !ok {
		t.Fatalf("expected u to be relative to base")
	}
	back := rel.ResolveAgainst(base)
	if !Equal(back, u) {
		t.Fatalf("resolve_against(relative_to(base,u)) = %v, want %v", back, u)
	}
}

func TestCovariantIgnoresDomain(t *testing.T) {
	a := NewIn(Scheme{Kind: Search, Domain: "q1"}, "/tmp/demo")
	b := NewIn(Scheme{Kind: Search, Domain: "q2"}, "/tmp/demo")
	if !Covariant(a, b) {
		t.Fatalf("expected covariant URLs to ignore domain")
	}
	if Equal(a, b) {
		t.Fatalf("strict equality must distinguish domain")
	}
}

func TestHashRespectsCovariantEquality(t *testing.T) {
	a := NewIn(Scheme{Kind: Archive, Domain: "d1"}, "/tmp/x")
	b := NewIn(Scheme{Kind: Archive, Domain: "d2"}, "/tmp/x")
	if a.Hash() != b.Hash() {
		t.Fatalf("covariant URLs must hash identically")
	}
}

func TestCompareTotalOrder(t *testing.T) {
	a := New("/a")
	b := New("/b")
	if Compare(a, b) >= 0 {
		t.Fatalf("expected a < b")
	}
	if Compare(b, a) <= 0 {
		t.Fatalf("expected b > a")
	}
	if Compare(a, a) != 0 {
		t.Fatalf("expected a == a")
	}
}

func TestUrnAfterJoin(t *testing.T) {
	folder := New("/tmp/demo").WithUrnRoot()
	child := folder.Join("c.txt")
	if child.Urn() != "c.txt" {
		t.Fatalf("expected urn c.txt, got %q", child.Urn())
	}
}
