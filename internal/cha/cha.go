// Package cha holds Cha ("characteristics"): the attribute snapshot of a
// file, as described in spec.md §3.
package cha

import (
	"io/fs"
	"os"
	"strings"
	"time"
)

// Kind is a bitmask of characteristic flags.
type Kind uint8

const (
	Dir Kind = 1 << iota
	Hidden
	Link
	Orphan
	Dummy
	System
)

func (k Kind) Has(bit Kind) bool { return k&bit != 0 }

// Cha is an immutable snapshot of a file's attributes.
type Cha struct {
	Len   int64
	Mode  fs.FileMode
	Atime time.Time
	Btime time.Time
	Ctime time.Time
	Mtime time.Time
	Kind  Kind
}

// IsDir reports whether the Dir kind bit is set.
func (c Cha) IsDir() bool { return c.Kind.Has(Dir) }

// IsHidden reports whether the Hidden kind bit is set.
func (c Cha) IsHidden() bool { return c.Kind.Has(Hidden) }

// IsLink reports whether the Link kind bit is set.
func (c Cha) IsLink() bool { return c.Kind.Has(Link) }

// IsOrphan reports whether the file is a symlink whose target is missing.
func (c Cha) IsOrphan() bool { return c.Kind.Has(Orphan) }

// Hits reports "freshness" equality per spec.md §3: two Chas are
// considered to describe the same on-disk state if length, birth time and
// modification time agree.
func (c Cha) Hits(o Cha) bool {
	return c.Len == o.Len && c.Btime.Equal(o.Btime) && c.Mtime.Equal(o.Mtime)
}

// FromFileInfo builds a Cha from a stdlib FileInfo, classifying hidden
// dotfiles by name and marking Dir/Link bits from the mode.
func FromFileInfo(name string, info fs.FileInfo) Cha {
	var k Kind
	if info.IsDir() {
		k |= Dir
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		k |= Link
	}
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		k |= Hidden
	}
	// Birth time isn't exposed by fs.FileInfo portably; fall back to mtime
	// where the platform stat extension isn't consulted.
	btime := info.ModTime()
	return Cha{
		Len:   info.Size(),
		Mode:  info.Mode(),
		Mtime: info.ModTime(),
		Btime: btime,
		Ctime: info.ModTime(),
		Atime: info.ModTime(),
		Kind:  k,
	}
}

// Lstat builds a Cha for path without following a trailing symlink,
// marking Orphan when the link target cannot be statted.
func Lstat(path string) (Cha, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Cha{}, err
	}
	c := FromFileInfo(info.Name(), info)
	if c.IsLink() {
		if _, err := os.Stat(path); err != nil {
			c.Kind |= Orphan
		}
	}
	return c, nil
}
