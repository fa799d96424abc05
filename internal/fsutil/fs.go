package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// writeSyncCloser is the part of *os.File an atomic write needs.
type writeSyncCloser interface {
	io.Writer
	Sync() error
	Close() error
	Name() string
}

// OSFileSystem is the workspace's view of the local disk. The function
// fields are swapped out in tests to inject failures.
type OSFileSystem struct {
	createTemp func(dir, pattern string) (writeSyncCloser, error)
	rename     func(oldpath, newpath string) error
	chmod      func(name string, mode os.FileMode) error
	remove     func(name string) error
}

// NewOSFileSystem returns a filesystem backed by the os package.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{
		createTemp: func(dir, pattern string) (writeSyncCloser, error) {
			return os.CreateTemp(dir, pattern)
		},
		rename: os.Rename,
		chmod:  os.Chmod,
		remove: os.Remove,
	}
}

// Stat returns file info for a path (follows symlinks).
func (r *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Lstat returns file info for a path without following symlinks.
func (r *OSFileSystem) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// ReadFile reads a whole regular file, refusing directories and anything
// larger than maxSize bytes (maxSize <= 0 disables the limit).
func (r *OSFileSystem) ReadFile(path string, maxSize int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s (size %d, limit %d)", ErrFileTooLarge, path, info.Size(), maxSize)
	}

	return io.ReadAll(file)
}

// WriteFileAtomic replaces path with content through a temp file in the same
// directory. perm is applied before the rename so the file never appears
// with the wrong mode. On failure the temp file is removed and path keeps
// its previous content.
func (r *OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) (err error) {
	tmp, err := r.createTemp(filepath.Dir(path), ".mizu-save-*")
	if err != nil {
		return &AtomicWriteError{Path: path, Stage: StageCreateTemp, Cause: err}
	}
	tmpPath := tmp.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		_ = r.remove(tmpPath)
	}()

	fail := func(stage WriteStage, cause error) error {
		return &AtomicWriteError{Path: path, Stage: stage, Cause: cause}
	}
	if _, err := tmp.Write(content); err != nil {
		return fail(StageWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(StageSync, err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return fail(StageClose, err)
	}
	if err := r.chmod(tmpPath, perm); err != nil {
		return fail(StageChmod, err)
	}
	if err := r.rename(tmpPath, path); err != nil {
		return fail(StageRename, err)
	}
	return nil
}

// EnsureDirs creates parent directories recursively if they don't exist.
func (r *OSFileSystem) EnsureDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// CreateExclusive creates an empty file, failing with fs.ErrExist if anything
// already occupies the path.
func (r *OSFileSystem) CreateExclusive(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Mkdir creates a single directory level.
func (r *OSFileSystem) Mkdir(path string) error {
	return os.Mkdir(path, 0o755)
}

// RemoveAll deletes a file or a directory with everything below it.
func (r *OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Rename moves oldpath to newpath.
func (r *OSFileSystem) Rename(oldpath, newpath string) error {
	if err := r.rename(oldpath, newpath); err != nil {
		return &RenameError{Old: oldpath, New: newpath, Cause: err}
	}
	return nil
}

// ReadDir lists the entries of a directory sorted by name.
func (r *OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}
