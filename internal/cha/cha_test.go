package cha

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedTime(sec int64) time.Time { return time.Unix(sec, 0) }

func TestFromFileInfoHidden(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".env")
	if err := os.WriteFile(hidden, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Lstat(hidden)
	if err != nil {
		t.Fatal(err)
	}
	c := FromFileInfo(info.Name(), info)
	if !c.IsHidden() {
		t.Fatalf("expected .env to be classified hidden")
	}
	if c.IsDir() {
		t.Fatalf("regular file must not carry the Dir bit")
	}
}

func TestHitsFreshness(t *testing.T) {
	base := Cha{Len: 10, Btime: fixedTime(1), Mtime: fixedTime(2)}
	same := Cha{Len: 10, Btime: fixedTime(1), Mtime: fixedTime(2)}
	changed := Cha{Len: 11, Btime: fixedTime(1), Mtime: fixedTime(2)}
	if !base.Hits(same) {
		t.Fatalf("expected identical chas to hit")
	}
	if base.Hits(changed) {
		t.Fatalf("expected differing length to miss")
	}
}
