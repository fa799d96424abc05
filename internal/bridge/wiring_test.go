package bridge_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Cyclone1070/mizu/internal/bridge"
	"github.com/Cyclone1070/mizu/internal/config"
	"github.com/Cyclone1070/mizu/internal/executor"
	"github.com/Cyclone1070/mizu/internal/fsutil"
	"github.com/Cyclone1070/mizu/internal/presence"
	"github.com/Cyclone1070/mizu/internal/terminal"
	"github.com/Cyclone1070/mizu/internal/theme"
	"github.com/Cyclone1070/mizu/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPicker struct{ dir string }

func (p staticPicker) PickDirectory(context.Context) (string, bool, error) {
	return p.dir, p.dir != "", nil
}

type noDialog struct{}

func (noDialog) PickSavePath(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}

type noLauncher struct{}

func (noLauncher) Launch(string, ...string) error { return nil }

type memoryState struct{ state config.State }

func (m *memoryState) LoadState() (*config.State, error) { s := m.state; return &s, nil }
func (m *memoryState) SaveState(s *config.State) error   { m.state = *s; return nil }

func TestBridgeEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Theme.Dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Theme.Dir, "styles.css"), []byte("body{}"), 0o644))

	ws := workspace.NewSession(fsutil.NewOSFileSystem(), staticPicker{dir: root}, noDialog{}, noLauncher{}, cfg.Workspace, nil)
	term := terminal.NewSession(executor.NewOSCommandExecutor(cfg, nil), cfg.Terminal, nil)
	ws.OnOpen(term.Reset)
	catalog, err := theme.NewCatalog(cfg.Theme, &memoryState{}, nil)
	require.NoError(t, err)
	tracker := presence.NewTracker(ws, presence.NewLogPublisher(nil), nil)

	b := bridge.New(ws, term, catalog, tracker, nil)
	ctx := context.Background()
	call := func(method string, args map[string]any) bridge.Response {
		t.Helper()
		resp := b.Call(ctx, method, args)
		require.True(t, resp.Success, "%s: %+v", method, resp.Error)
		return resp
	}

	resp := b.Call(ctx, "get_file_tree", nil)
	assert.Equal(t, "NoWorkspace", resp.Error.Kind)

	call("select_folder", nil)
	assert.Equal(t, root, term.Cwd())

	call("create_folder", map[string]any{"parent_path": "", "foldername": "src"})
	call("create_file", map[string]any{"parent_path": "src", "filename": "note.txt"})
	call("save_file", map[string]any{"path": "src/note.txt", "content": "hello"})

	resp = call("read_file", map[string]any{"path": "src/note.txt"})
	assert.Equal(t, "hello", resp.Data.(map[string]any)["content"])

	call("copy_item", map[string]any{"path": "src/note.txt", "item_type": "file"})
	resp = call("paste_item", map[string]any{"target_path": "src"})
	assert.Equal(t, "note_copy.txt", resp.Data.(map[string]any)["pasted"])

	call("rename_item", map[string]any{"old_path": "src/note_copy.txt", "new_name": "renamed.txt"})

	resp = call("get_file_tree", nil)
	tree := resp.Data.(map[string]any)["tree"].(*workspace.TreeNode)
	require.Len(t, tree.Children, 1)
	names := []string{}
	for _, c := range tree.Children[0].Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"note.txt", "renamed.txt"}, names)

	call("terminal_run", map[string]any{"command": "cd src"})
	resp = call("terminal_run", map[string]any{"command": "cat note.txt"})
	assert.Equal(t, "hello\n", resp.Data.(terminal.Result).Output)

	resp = b.Call(ctx, "save_file", map[string]any{"path": "../escape.txt", "content": "x"})
	assert.Equal(t, "AccessDenied", resp.Error.Kind)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "escape.txt"))

	call("delete_item", map[string]any{"path": "src"})
	assert.NoDirExists(t, filepath.Join(root, "src"))

	resp = call("get_full_path", map[string]any{"path": "a/b"})
	assert.Equal(t, filepath.Join(root, "a", "b"), resp.Data.(map[string]any)["path"])

	resp = call("get_saved_theme", nil)
	assert.Equal(t, "styles.css", resp.Data.(map[string]any)["theme"])

	resp = call("set_presence", map[string]any{"enabled": true})
	status := resp.Data.(presence.Status)
	assert.True(t, status.Enabled)
	assert.Equal(t, "Workspace: "+filepath.Base(root), status.Activity.State)
}
