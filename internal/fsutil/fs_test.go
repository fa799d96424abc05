package fsutil

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// mockWriteSyncCloser implements writeSyncCloser for testing
type mockWriteSyncCloser struct {
	buffer      *bytes.Buffer
	name        string
	writeErr    error
	syncErr     error
	closeErr    error
	writeCalled bool
	closeCalled bool
}

func newMockWriteSyncCloser(name string) *mockWriteSyncCloser {
	return &mockWriteSyncCloser{
		buffer: new(bytes.Buffer),
		name:   name,
	}
}

func (m *mockWriteSyncCloser) Write(p []byte) (n int, err error) {
	m.writeCalled = true
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.buffer.Write(p)
}

func (m *mockWriteSyncCloser) Sync() error { return m.syncErr }

func (m *mockWriteSyncCloser) Close() error {
	m.closeCalled = true
	return m.closeErr
}

func (m *mockWriteSyncCloser) Name() string { return m.name }

func TestWriteFileAtomic(t *testing.T) {
	failures := []struct {
		name      string
		setup     func(fsys *OSFileSystem, file *mockWriteSyncCloser)
		wantStage WriteStage
		wantClose bool
	}{
		{
			name:      "write failure",
			setup:     func(_ *OSFileSystem, file *mockWriteSyncCloser) { file.writeErr = errors.New("write failed") },
			wantStage: StageWrite,
			wantClose: true,
		},
		{
			name:      "sync failure",
			setup:     func(_ *OSFileSystem, file *mockWriteSyncCloser) { file.syncErr = errors.New("io error") },
			wantStage: StageSync,
			wantClose: true,
		},
		{
			name:      "close failure",
			setup:     func(_ *OSFileSystem, file *mockWriteSyncCloser) { file.closeErr = errors.New("close failed") },
			wantStage: StageClose,
			wantClose: true,
		},
		{
			name: "chmod failure",
			setup: func(fsys *OSFileSystem, _ *mockWriteSyncCloser) {
				fsys.chmod = func(string, os.FileMode) error { return errors.New("read-only") }
			},
			wantStage: StageChmod,
			wantClose: true,
		},
		{
			name: "rename failure",
			setup: func(fsys *OSFileSystem, _ *mockWriteSyncCloser) {
				fsys.rename = func(string, string) error { return errors.New("cross-device") }
			},
			wantStage: StageRename,
			wantClose: true,
		},
	}

	for _, tt := range failures {
		t.Run(tt.name+" removes temp file", func(t *testing.T) {
			fsys := NewOSFileSystem()
			mockFile := newMockWriteSyncCloser("/test/.mizu-save-1")
			removed := ""
			fsys.createTemp = func(dir, pattern string) (writeSyncCloser, error) { return mockFile, nil }
			fsys.chmod = func(string, os.FileMode) error { return nil }
			fsys.rename = func(string, string) error { return nil }
			fsys.remove = func(name string) error {
				removed = name
				return nil
			}
			tt.setup(fsys, mockFile)

			err := fsys.WriteFileAtomic("/test/file.txt", []byte("content"), 0o644)

			var writeErr *AtomicWriteError
			if !errors.As(err, &writeErr) {
				t.Fatalf("expected AtomicWriteError, got %v", err)
			}
			if writeErr.Stage != tt.wantStage {
				t.Errorf("expected stage %q, got %q", tt.wantStage, writeErr.Stage)
			}
			if writeErr.Path != "/test/file.txt" {
				t.Errorf("expected target path in error, got %q", writeErr.Path)
			}
			if removed != mockFile.name {
				t.Error("temp file should have been cleaned up")
			}
			if mockFile.closeCalled != tt.wantClose {
				t.Errorf("closeCalled = %v, want %v", mockFile.closeCalled, tt.wantClose)
			}
		})
	}

	t.Run("createTemp failure", func(t *testing.T) {
		fsys := NewOSFileSystem()
		fsys.createTemp = func(dir, pattern string) (writeSyncCloser, error) {
			if dir != "/test" {
				t.Errorf("expected temp file in /test, got %q", dir)
			}
			return nil, errors.New("disk full")
		}

		err := fsys.WriteFileAtomic("/test/file.txt", []byte("content"), 0o644)

		var writeErr *AtomicWriteError
		if !errors.As(err, &writeErr) || writeErr.Stage != StageCreateTemp {
			t.Fatalf("expected create temp failure, got %v", err)
		}
	})

	t.Run("mode is set before rename", func(t *testing.T) {
		fsys := NewOSFileSystem()
		mockFile := newMockWriteSyncCloser("/test/.mizu-save-2")
		var order []string
		fsys.createTemp = func(dir, pattern string) (writeSyncCloser, error) { return mockFile, nil }
		fsys.chmod = func(name string, mode os.FileMode) error {
			if name != mockFile.name || mode != 0o600 {
				t.Errorf("chmod(%q, %v), want temp file with 0600", name, mode)
			}
			order = append(order, "chmod")
			return nil
		}
		fsys.rename = func(oldpath, newpath string) error {
			order = append(order, "rename")
			return nil
		}

		if err := fsys.WriteFileAtomic("/test/file.txt", []byte("x"), 0o600); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "chmod" || order[1] != "rename" {
			t.Errorf("expected chmod then rename, got %v", order)
		}
		if mockFile.buffer.String() != "x" {
			t.Errorf("expected content written to temp file, got %q", mockFile.buffer.String())
		}
	})

	t.Run("real write replaces content", func(t *testing.T) {
		fsys := NewOSFileSystem()
		path := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := fsys.WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != "new" {
			t.Errorf("expected %q, got %q", "new", got)
		}
		entries, _ := os.ReadDir(filepath.Dir(path))
		if len(entries) != 1 {
			t.Errorf("expected temp file to be gone, found %d entries", len(entries))
		}
	})
}

func TestReadFile(t *testing.T) {
	fsys := NewOSFileSystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("within limit", func(t *testing.T) {
		got, err := fsys.ReadFile(path, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != "0123456789" {
			t.Errorf("unexpected content %q", got)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		_, err := fsys.ReadFile(path, 5)
		if !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := fsys.ReadFile(dir, 0)
		if !errors.Is(err, ErrIsDirectory) {
			t.Fatalf("expected ErrIsDirectory, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := fsys.ReadFile(filepath.Join(dir, "nope"), 0)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected fs.ErrNotExist, got %v", err)
		}
	})
}

func TestCreateExclusive(t *testing.T) {
	fsys := NewOSFileSystem()
	path := filepath.Join(t.TempDir(), "new.txt")

	if err := fsys.CreateExclusive(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fsys.CreateExclusive(path); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected fs.ErrExist on second create, got %v", err)
	}
}

func TestCopyFile_PreservesContentModeAndTime(t *testing.T) {
	fsys := NewOSFileSystem()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.sh")
	dst := filepath.Join(dir, "dst.sh")
	if err := os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	past := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(src, past, past); err != nil {
		t.Fatal(err)
	}

	if err := fsys.CopyFile(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(past) {
		t.Errorf("expected mtime %v, got %v", past, info.ModTime())
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o755 {
		t.Errorf("expected mode 0755, got %v", info.Mode().Perm())
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "#!/bin/sh\n" {
		t.Errorf("unexpected content %q", got)
	}

	var copyErr *CopyError
	if err := fsys.CopyFile(src, dst); !errors.As(err, &copyErr) {
		t.Fatalf("expected CopyError when destination exists, got %v", err)
	}
}

func TestCopyTree(t *testing.T) {
	fsys := NewOSFileSystem()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	for _, p := range []string{"a/b", "empty"} {
		if err := os.MkdirAll(filepath.Join(src, p), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	files := map[string]string{
		"top.txt":      "top",
		"a/mid.txt":    "mid",
		"a/b/deep.txt": "deep",
	}
	for p, c := range files {
		if err := os.WriteFile(filepath.Join(src, p), []byte(c), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dst := filepath.Join(dir, "dst")
	if err := fsys.CopyTree(src, dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for p, c := range files {
		got, err := os.ReadFile(filepath.Join(dst, p))
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if string(got) != c {
			t.Errorf("%s: expected %q, got %q", p, c, got)
		}
	}
	if info, err := os.Stat(filepath.Join(dst, "empty")); err != nil || !info.IsDir() {
		t.Errorf("expected empty directory to be copied, err=%v", err)
	}
}
