package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Cyclone1070/mizu/internal/config"
	"github.com/Cyclone1070/mizu/internal/fsutil"
	"github.com/stretchr/testify/require"
)

type fakePicker struct {
	path string
	ok   bool
	err  error
}

func (p *fakePicker) PickDirectory(ctx context.Context) (string, bool, error) {
	return p.path, p.ok, p.err
}

type fakeDialog struct {
	path string
	ok   bool
	err  error

	gotDir       string
	gotSuggested string
}

func (d *fakeDialog) PickSavePath(ctx context.Context, dir, suggested string) (string, bool, error) {
	d.gotDir, d.gotSuggested = dir, suggested
	return d.path, d.ok, d.err
}

type launchCall struct {
	name string
	args []string
}

type fakeLauncher struct {
	calls []launchCall
	err   error
}

func (l *fakeLauncher) Launch(name string, args ...string) error {
	l.calls = append(l.calls, launchCall{name: name, args: args})
	return l.err
}

type fixture struct {
	session  *Session
	root     string
	picker   *fakePicker
	dialog   *fakeDialog
	launcher *fakeLauncher
}

// newFixture opens a fresh temp dir as the workspace.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := newClosedFixture(t)
	root, err := f.session.Open(f.root)
	require.NoError(t, err)
	f.root = root
	return f
}

// newClosedFixture builds a session with no workspace open.
func newClosedFixture(t *testing.T) *fixture {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		root:     root,
		picker:   &fakePicker{},
		dialog:   &fakeDialog{},
		launcher: &fakeLauncher{},
	}
	cfg := config.DefaultConfig().Workspace
	f.session = NewSession(fsutil.NewOSFileSystem(), f.picker, f.dialog, f.launcher, cfg, nil)
	return f
}

func (f *fixture) abs(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) writeFile(t *testing.T, rel, content string) {
	t.Helper()
	p := f.abs(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func (f *fixture) mkdir(t *testing.T, rel string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.abs(rel), 0o755))
}

func (f *fixture) readFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(f.abs(rel))
	require.NoError(t, err)
	return string(data)
}

// snapshot lists every path below root for before/after comparisons.
func snapshot(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		paths = append(paths, rel)
		return nil
	})
	require.NoError(t, err)
	return paths
}
