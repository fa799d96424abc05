package fsutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// CopyFile duplicates a regular file, keeping its permission bits and
// modification time. The destination must not exist yet.
func (r *OSFileSystem) CopyFile(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return &CopyError{Src: src, Dst: dst, Cause: err}
	}
	return nil
}

// CopyTree recursively duplicates the directory src at dst. Symlinks are
// recreated as symlinks rather than followed. Directory modification times
// are restored after their contents have been written.
func (r *OSFileSystem) CopyTree(src, dst string) error {
	type dirTime struct {
		path    string
		modTime time.Time
	}
	var dirs []dirTime

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := os.Mkdir(target, info.Mode().Perm()|0o700); err != nil {
				return err
			}
			dirs = append(dirs, dirTime{path: target, modTime: info.ModTime()})
			return nil
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyFile(path, target)
		default:
			// sockets, devices and pipes are skipped
			return nil
		}
	})
	if err != nil {
		return &CopyError{Src: src, Dst: dst, Cause: err}
	}

	// Children first so writing into a directory doesn't bump its mtime again.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Chtimes(dirs[i].path, dirs[i].modTime, dirs[i].modTime)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}

	// Best effort: some filesystems refuse timestamp changes.
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
