package xerr

import (
	"errors"
	"testing"
)

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(Task, "op", nil) != nil {
		t.Fatalf("expected Wrap(nil) to return nil")
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := Taskf(errors.New("disk full"), "paste %s", "a.txt")
	if !errors.Is(err, Task) {
		t.Fatalf("expected errors.Is to match the Task kind")
	}
	if errors.Is(err, Config) {
		t.Fatalf("did not expect errors.Is to match an unrelated kind")
	}
}

func TestUnwrapReachesUnderlyingError(t *testing.T) {
	cause := errors.New("boom")
	err := IOf(cause, "read file")
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to unwrap to the original cause")
	}
}

func TestErrorMessageIncludesKindAndOp(t *testing.T) {
	err := Configf(errors.New("bad toml"), "parse %s", "yazi.toml")
	want := "config: parse yazi.toml: bad toml"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}
