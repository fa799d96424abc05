package workspace

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFile(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "src")

	require.NoError(t, f.session.CreateFile("src", "main.go"))
	assert.Equal(t, "", f.readFile(t, "src/main.go"))

	require.NoError(t, f.session.CreateFile("", "root.txt"))
	assert.FileExists(t, f.abs("root.txt"))

	err := f.session.CreateFile("src", "main.go")
	assert.Equal(t, KindAlreadyExists, KindOf(err))
	assert.EqualError(t, err, "File already exists")

	err = f.session.CreateFile("missing", "x.txt")
	assert.Equal(t, KindWriteError, KindOf(err))

	err = f.session.CreateFile("..", "x.txt")
	assert.Equal(t, KindAccessDenied, KindOf(err))

	for _, name := range []string{"", "..", "src/x.txt", `a\b`} {
		err = f.session.CreateFile("", name)
		assert.Equal(t, KindInvalidInput, KindOf(err), name)
	}
	assert.NoFileExists(t, f.abs("src/x.txt"))
}

func TestCreateFolder(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.CreateFolder("", "pkg"))
	assert.DirExists(t, f.abs("pkg"))
	require.NoError(t, f.session.CreateFolder("pkg", "inner"))
	assert.DirExists(t, f.abs("pkg/inner"))

	err := f.session.CreateFolder("", "pkg")
	assert.Equal(t, KindAlreadyExists, KindOf(err))
	assert.EqualError(t, err, "Folder already exists")

	err = f.session.CreateFolder("nope", "inner")
	assert.Equal(t, KindWriteError, KindOf(err))

	for _, name := range []string{"pkg/deeper", `a\b`, "."} {
		err = f.session.CreateFolder("", name)
		assert.Equal(t, KindInvalidInput, KindOf(err), name)
	}
	assert.NoDirExists(t, f.abs("pkg/deeper"))
}

// treePaths flattens a listing into the relative paths it contains.
func treePaths(n *TreeNode) []string {
	var paths []string
	for _, child := range n.Children {
		paths = append(paths, child.Path)
		paths = append(paths, treePaths(child)...)
	}
	return paths
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	f.writeFile(t, "tree/a/b/c.txt", "c")
	f.writeFile(t, "tree/d.txt", "d")
	f.writeFile(t, "keep.txt", "k")
	_, err := f.session.ReadFile("tree/a/b/c.txt")
	require.NoError(t, err)

	require.NoError(t, f.session.DeleteItem("tree"))
	_, statErr := os.Stat(f.abs("tree/a/b/c.txt"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
	assert.NoDirExists(t, f.abs("tree"))
	assert.FileExists(t, f.abs("keep.txt"))
	assert.Empty(t, f.session.CurrentFile())

	tree, err := f.session.ListTree(context.Background())
	require.NoError(t, err)
	for _, p := range treePaths(tree) {
		assert.False(t, p == "tree" || strings.HasPrefix(p, "tree/"), p)
	}
	assert.Contains(t, treePaths(tree), "keep.txt")

	require.NoError(t, f.session.DeleteItem("keep.txt"))
	assert.NoFileExists(t, f.abs("keep.txt"))

	err = f.session.DeleteItem("keep.txt")
	assert.Equal(t, KindNotFound, KindOf(err))

	for _, rel := range []string{"", ".", "a/.."} {
		err = f.session.DeleteItem(rel)
		assert.Equal(t, KindAccessDenied, KindOf(err), rel)
	}
	assert.DirExists(t, f.root)

	err = f.session.DeleteItem("../x")
	assert.Equal(t, KindAccessDenied, KindOf(err))
}

func TestCopyItem(t *testing.T) {
	f := newFixture(t)
	f.writeFile(t, "docs/readme.md", "r")

	item, err := f.session.CopyItem("docs/readme.md", ItemFile)
	require.NoError(t, err)
	assert.Equal(t, &ClipboardItem{Path: "docs/readme.md", Kind: ItemFile, Name: "readme.md"}, item)

	item, err = f.session.CopyItem("docs", "")
	require.NoError(t, err)
	assert.Equal(t, ItemFolder, item.Kind)
	assert.Equal(t, item, f.session.Clipboard())

	// the kind on disk wins over the caller's hint
	item, err = f.session.CopyItem("docs", ItemFile)
	require.NoError(t, err)
	assert.Equal(t, ItemFolder, item.Kind)

	_, err = f.session.CopyItem("missing", ItemFile)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.session.CopyItem("docs", "symlink")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestRenameItem(t *testing.T) {
	f := newFixture(t)
	f.writeFile(t, "src/old.go", "package x")
	f.writeFile(t, "src/taken.go", "")
	_, err := f.session.ReadFile("src/old.go")
	require.NoError(t, err)

	require.NoError(t, f.session.RenameItem("src/old.go", "new.go"))
	assert.Equal(t, "package x", f.readFile(t, "src/new.go"))
	assert.NoFileExists(t, f.abs("src/old.go"))
	assert.Equal(t, "src/new.go", f.session.CurrentFile())

	err = f.session.RenameItem("src/new.go", "taken.go")
	assert.Equal(t, KindAlreadyExists, KindOf(err))
	assert.Equal(t, "package x", f.readFile(t, "src/new.go"))
	assert.Equal(t, "", f.readFile(t, "src/taken.go"))

	for _, name := range []string{"", "..", "a/b.go", `a\b.go`} {
		err = f.session.RenameItem("src/new.go", name)
		assert.Equal(t, KindRenameError, KindOf(err), name)
	}

	err = f.session.RenameItem("src/missing.go", "x.go")
	assert.Equal(t, KindRenameError, KindOf(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, f.session.RenameItem("src", "lib"))
	assert.FileExists(t, f.abs("lib/new.go"))
	assert.Equal(t, "lib/new.go", f.session.CurrentFile())

	err = f.session.RenameItem("", "x")
	assert.Equal(t, KindAccessDenied, KindOf(err))
}
