// Package mocks holds test doubles shared across packages.
package mocks

import (
	"io/fs"
	"os"
	"sync"

	"github.com/Cyclone1070/mizu/internal/fsutil"
)

// FaultyFileSystem is a real OS filesystem that fails chosen operations on
// demand. Operation names match the method names ("Rename", "RemoveAll", ...).
type FaultyFileSystem struct {
	*fsutil.OSFileSystem

	Mu       sync.RWMutex
	Errors   map[string]error // path -> error to return from any operation
	OpErrors map[string]error // operation -> error to return
	Calls    map[string]int   // operation -> call count
}

// NewFaultyFileSystem creates a filesystem that behaves like the OS until told otherwise.
func NewFaultyFileSystem() *FaultyFileSystem {
	return &FaultyFileSystem{
		OSFileSystem: fsutil.NewOSFileSystem(),
		Errors:       make(map[string]error),
		OpErrors:     make(map[string]error),
		Calls:        make(map[string]int),
	}
}

// SetError sets an error to return for a specific path
func (f *FaultyFileSystem) SetError(path string, err error) {
	f.Mu.Lock()
	defer f.Mu.Unlock()
	f.Errors[path] = err
}

// SetOperationError sets an error to return for a specific operation.
func (f *FaultyFileSystem) SetOperationError(operation string, err error) {
	f.Mu.Lock()
	defer f.Mu.Unlock()
	f.OpErrors[operation] = err
}

// CallCount reports how often operation ran, including failed calls.
func (f *FaultyFileSystem) CallCount(operation string) int {
	f.Mu.RLock()
	defer f.Mu.RUnlock()
	return f.Calls[operation]
}

// fault records the call and returns the configured error, operation errors first.
func (f *FaultyFileSystem) fault(operation string, paths ...string) error {
	f.Mu.Lock()
	defer f.Mu.Unlock()
	f.Calls[operation]++
	if err, ok := f.OpErrors[operation]; ok {
		return err
	}
	for _, p := range paths {
		if err, ok := f.Errors[p]; ok {
			return err
		}
	}
	return nil
}

func (f *FaultyFileSystem) Stat(path string) (os.FileInfo, error) {
	if err := f.fault("Stat", path); err != nil {
		return nil, err
	}
	return f.OSFileSystem.Stat(path)
}

func (f *FaultyFileSystem) Lstat(path string) (os.FileInfo, error) {
	if err := f.fault("Lstat", path); err != nil {
		return nil, err
	}
	return f.OSFileSystem.Lstat(path)
}

func (f *FaultyFileSystem) ReadFile(path string, maxSize int64) ([]byte, error) {
	if err := f.fault("ReadFile", path); err != nil {
		return nil, err
	}
	return f.OSFileSystem.ReadFile(path, maxSize)
}

func (f *FaultyFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	if err := f.fault("WriteFileAtomic", path); err != nil {
		return err
	}
	return f.OSFileSystem.WriteFileAtomic(path, content, perm)
}

func (f *FaultyFileSystem) EnsureDirs(path string) error {
	if err := f.fault("EnsureDirs", path); err != nil {
		return err
	}
	return f.OSFileSystem.EnsureDirs(path)
}

func (f *FaultyFileSystem) CreateExclusive(path string) error {
	if err := f.fault("CreateExclusive", path); err != nil {
		return err
	}
	return f.OSFileSystem.CreateExclusive(path)
}

func (f *FaultyFileSystem) Mkdir(path string) error {
	if err := f.fault("Mkdir", path); err != nil {
		return err
	}
	return f.OSFileSystem.Mkdir(path)
}

func (f *FaultyFileSystem) RemoveAll(path string) error {
	if err := f.fault("RemoveAll", path); err != nil {
		return err
	}
	return f.OSFileSystem.RemoveAll(path)
}

func (f *FaultyFileSystem) Rename(oldpath, newpath string) error {
	if err := f.fault("Rename", oldpath, newpath); err != nil {
		return err
	}
	return f.OSFileSystem.Rename(oldpath, newpath)
}

func (f *FaultyFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	if err := f.fault("ReadDir", path); err != nil {
		return nil, err
	}
	return f.OSFileSystem.ReadDir(path)
}

func (f *FaultyFileSystem) CopyFile(src, dst string) error {
	if err := f.fault("CopyFile", src, dst); err != nil {
		return err
	}
	return f.OSFileSystem.CopyFile(src, dst)
}

func (f *FaultyFileSystem) CopyTree(src, dst string) error {
	if err := f.fault("CopyTree", src, dst); err != nil {
		return err
	}
	return f.OSFileSystem.CopyTree(src, dst)
}
