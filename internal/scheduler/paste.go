package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/yazi-go/yazi/internal/xerr"
)

// tmpName builds the hash-prefixed dotfile name spec.md §4.5 requires for
// the paste protocol: "the scheduler writes to tmp (hash-prefixed
// dotfile) and renames into place on success, guaranteeing at-most-one
// visible partial file."
func tmpName(dst string) string {
	dir, base := filepath.Split(dst)
	h := xxhash.Sum64String(dst)
	return filepath.Join(dir, fmt.Sprintf(".%016x.%s.tmp", h, base))
}

// pasteFile performs a single-file copy (or move) through the tmp-then-
// rename protocol, reporting bytes copied via onProgress as it goes. If
// ctx is cancelled mid-copy, the partial tmp file is removed before
// returning so a cancelled paste never leaves a visible partial file
// behind (spec.md §4.5's Cancel cleanup guarantee).
func pasteFile(ctx context.Context, opt PasteOpt, onProgress func(n int64)) error {
	if !opt.Force {
		if _, err := os.Stat(opt.Dst); err == nil {
			return xerr.Taskf(os.ErrExist, "paste %s", opt.Dst)
		}
	}

	if opt.Move {
		if err := os.Rename(opt.Src, opt.Dst); err == nil {
			return nil
		}
		// Cross-device move falls back to copy+remove below.
	}

	tmp := tmpName(opt.Dst)
	if err := copyToTemp(ctx, opt.Src, tmp, opt.Follow, onProgress); err != nil {
		os.Remove(tmp)
		return xerr.Taskf(err, "copy %s to %s", opt.Src, tmp)
	}

	if opt.Atomic && opt.Force {
		os.Remove(opt.Dst)
	}
	if err := os.Rename(tmp, opt.Dst); err != nil {
		os.Remove(tmp)
		return xerr.Taskf(err, "rename %s to %s", tmp, opt.Dst)
	}

	if opt.Move {
		if err := os.Remove(opt.Src); err != nil {
			return xerr.Taskf(err, "remove source %s after move", opt.Src)
		}
	}
	return nil
}

func copyToTemp(ctx context.Context, src, tmp string, follow bool, onProgress func(n int64)) error {
	if !follow {
		if info, err := os.Lstat(src); err == nil && info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Readlink(src)
			if err != nil {
				return err
			}
			return os.Symlink(target, tmp)
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, 256*1024)
	var total int64
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return werr
			}
			total += int64(n)
			if onProgress != nil {
				onProgress(total)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}
	return nil
}

// linkFile creates a symlink at opt.Dst pointing at opt.Src, relativizing
// the target when opt.Relative is set.
func linkFile(opt LinkOpt) error {
	target := opt.Src
	if opt.Relative {
		dir := filepath.Dir(opt.Dst)
		rel, err := filepath.Rel(dir, opt.Src)
		if err == nil {
			target = rel
		}
	}
	if err := os.Symlink(target, opt.Dst); err != nil {
		return xerr.Taskf(err, "link %s to %s", opt.Dst, target)
	}
	return nil
}

// hardlinkFile creates a hard link at dst pointing at src's inode.
func hardlinkFile(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		return xerr.Taskf(err, "hardlink %s to %s", dst, src)
	}
	return nil
}

// deleteFile permanently removes path (spec.md §4.5's File/delete kind).
func deleteFile(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return xerr.Taskf(err, "delete %s", path)
	}
	return nil
}

// trashFile moves path into trashDir under a hash-disambiguated name,
// falling back to deleteFile if trashDir itself is unusable (e.g. absent
// or on another device with no trash support there).
func trashFile(path, trashDir string) error {
	if trashDir == "" {
		return deleteFile(path)
	}
	if err := os.MkdirAll(trashDir, 0o700); err != nil {
		return deleteFile(path)
	}
	dst := filepath.Join(trashDir, tmpName(filepath.Base(path))[1:])
	if err := os.Rename(path, dst); err != nil {
		return xerr.Taskf(err, "trash %s", path)
	}
	return nil
}
