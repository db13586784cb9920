package mime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yazi-go/yazi/internal/yzurl"
)

func TestDetectDirectory(t *testing.T) {
	dir := t.TempDir()
	got, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if got != DirMime {
		t.Fatalf("got %q, want %q", got, DirMime)
	}
}

func TestDetectEmptyFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "empty")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Detect(p)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if got != "inode/x-empty" {
		t.Fatalf("got %q, want inode/x-empty", got)
	}
}

func TestDetectTextFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(p, []byte("hello world\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Detect(p)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if KindOf(got) != KindText {
		t.Fatalf("got %q, want a text/* mime", got)
	}
}

func TestCacheGetSetForget(t *testing.T) {
	c := NewCache()
	u := yzurl.New("/tmp/foo.txt")

	if _, ok := c.Get(u); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(u, "text/plain")
	got, ok := c.Get(u)
	if !ok || got != "text/plain" {
		t.Fatalf("got (%q, %v), want (text/plain, true)", got, ok)
	}

	c.Forget(u)
	if _, ok := c.Get(u); ok {
		t.Fatal("expected miss after Forget")
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]Kind{
		"text/plain":          KindText,
		"application/xml":     KindText,
		"image/png":           KindImage,
		"video/mp4":           KindVideo,
		"inode/x-empty":       KindEmpty,
		"application/json":    KindJSON,
		"application/pdf":     KindPDF,
		"application/zip":     KindArchive,
		"application/x-tar":   KindArchive,
		"application/x-thing": KindOthers,
	}
	for mime, want := range cases {
		if got := KindOf(mime); got != want {
			t.Errorf("KindOf(%q) = %v, want %v", mime, got, want)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("inode/x-empty") {
		t.Error("inode/x-empty should be valid")
	}
	if !Valid("text/plain") {
		t.Error("text/plain should be valid")
	}
	if Valid("bogus") {
		t.Error("bogus should be invalid")
	}
	if Valid("nosuchtype/plain") {
		t.Error("unknown top-level type should be invalid")
	}
}
