package workspace

import (
	"context"
	"io/fs"
	"os"
)

// DirectoryPicker asks the user for a workspace folder. ok is false when
// the user dismissed the picker.
type DirectoryPicker interface {
	PickDirectory(ctx context.Context) (path string, ok bool, err error)
}

// SaveDialog asks the user where to save, starting in dir with suggested as
// the file name. ok is false when the user dismissed the dialog.
type SaveDialog interface {
	PickSavePath(ctx context.Context, dir, suggested string) (path string, ok bool, err error)
}

// Launcher starts a program without waiting for it.
type Launcher interface {
	Launch(name string, args ...string) error
}

// fileSystem is the subset of fsutil.OSFileSystem the session needs.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadFile(path string, maxSize int64) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
	CreateExclusive(path string) error
	Mkdir(path string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
	ReadDir(path string) ([]fs.DirEntry, error)
	CopyFile(src, dst string) error
	CopyTree(src, dst string) error
}
