package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yazi-go/yazi/internal/filesop"
	"github.com/yazi-go/yazi/internal/yzurl"
)

func drain(t *testing.T, ops <-chan filesop.Op, timeout time.Duration) []filesop.Op {
	t.Helper()
	var got []filesop.Op
	deadline := time.After(timeout)
	for {
		select {
		case op, ok := <-ops:
			if !ok {
				return got
			}
			got = append(got, op)
		case <-deadline:
			return got
		}
	}
}

func TestWatchAddsAndRemovesLocalDirWatches(t *testing.T) {
	dir := t.TempDir()
	w, ops, err := New(WithCoalesceWindow(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	u := yzurl.New(dir)
	w.Watch([]yzurl.URL{u})
	if _, ok := w.fsDirs[dir]; !ok {
		t.Fatalf("expected %q to be registered with the local backend", dir)
	}

	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := drain(t, ops, 500*time.Millisecond)
	if len(got) == 0 {
		t.Fatalf("expected at least one op after creating a file in a watched dir")
	}
	foundUpsert := false
	for _, op := range got {
		if op.Kind == filesop.Upserting {
			if _, ok := op.Upsert["new.txt"]; ok {
				foundUpsert = true
			}
		}
	}
	if !foundUpsert {
		t.Fatalf("expected an Upserting op for new.txt, got %+v", got)
	}

	w.Watch(nil)
	if _, ok := w.fsDirs[dir]; ok {
		t.Fatalf("expected %q to be removed once no longer watched", dir)
	}
}

func TestFlushEmitsDeletingForMissingFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.txt")

	w, ops, err := New(WithPollOnly(), WithCoalesceWindow(5*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	w.touch(yzurl.New(missing))
	got := drain(t, ops, 200*time.Millisecond)

	foundDelete := false
	for _, op := range got {
		if op.Kind == filesop.Deleting {
			if _, ok := op.Deletes["gone.txt"]; ok {
				foundDelete = true
			}
		}
	}
	if !foundDelete {
		t.Fatalf("expected a Deleting op for a nonexistent file, got %+v", got)
	}
}

func TestFanOutReachesParentAndLinkedSiblings(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	alias := filepath.Join(dir, "alias")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(real, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, ops, err := New(WithPollOnly(), WithCoalesceWindow(5*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	realURL := yzurl.New(real)
	aliasURL := yzurl.New(alias)
	w.Link(aliasURL, realURL)

	w.touch(yzurl.New(filepath.Join(real, "f.txt")))
	got := drain(t, ops, 200*time.Millisecond)

	sawRealParent, sawAliasParent := false, false
	for _, op := range got {
		if op.Kind != filesop.Upserting && op.Kind != filesop.Deleting {
			continue
		}
		if op.URL == realURL {
			sawRealParent = true
		}
		if op.URL == aliasURL {
			sawAliasParent = true
		}
	}
	if !sawRealParent {
		t.Fatalf("expected an op against the real directory, got %+v", got)
	}
	if !sawAliasParent {
		t.Fatalf("expected the linked alias directory to also receive an op, got %+v", got)
	}
}

func TestUnlinkStopsFanOut(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	alias := filepath.Join(dir, "alias")
	os.Mkdir(real, 0o755)

	w, ops, err := New(WithPollOnly(), WithCoalesceWindow(5*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	realURL := yzurl.New(real)
	aliasURL := yzurl.New(alias)
	w.Link(aliasURL, realURL)
	w.Unlink(aliasURL)

	w.touch(yzurl.New(filepath.Join(real, "f.txt")))
	got := drain(t, ops, 200*time.Millisecond)

	for _, op := range got {
		if op.URL == aliasURL {
			t.Fatalf("expected no op against the unlinked alias, got %+v", got)
		}
	}
}

func TestRemoteBackendPollsConfiguredSource(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "remote.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	polled := make(chan struct{}, 1)
	source := func() []yzurl.URL {
		select {
		case polled <- struct{}{}:
		default:
		}
		return []yzurl.URL{yzurl.New(target)}
	}

	w, ops, err := New(
		WithPollOnly(),
		WithCoalesceWindow(5*time.Millisecond),
		WithRemotePollInterval(10*time.Millisecond),
		WithRemoteSource(source),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	select {
	case <-polled:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("expected the remote source to be polled")
	}

	got := drain(t, ops, 200*time.Millisecond)
	foundUpsert := false
	for _, op := range got {
		if op.Kind == filesop.Upserting {
			if _, ok := op.Upsert["remote.txt"]; ok {
				foundUpsert = true
			}
		}
	}
	if !foundUpsert {
		t.Fatalf("expected an Upserting op for the remotely-reported file, got %+v", got)
	}
}

func TestCloseStopsBackgroundGoroutinesAndClosesChannel(t *testing.T) {
	w, ops, err := New(WithCoalesceWindow(5 * time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}

	select {
	case _, ok := <-ops:
		if ok {
			t.Fatalf("expected the ops channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected ops to be closed promptly")
	}
}
