package workspace

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/Cyclone1070/mizu/internal/gitignore"
	"go.uber.org/zap"
)

// TreeNode is one entry of a workspace listing.
type TreeNode struct {
	Name     string      `json:"name"`
	Kind     ItemKind    `json:"type"`
	Path     string      `json:"path"`
	Children []*TreeNode `json:"children"`
	Ignored  bool        `json:"ignored,omitempty"`
}

type pendingDir struct {
	node  *TreeNode
	abs   string
	depth int
}

// ListTree snapshots the workspace as a tree rooted at a folder node with path "".
// Unreadable directories are listed without children. Symlinked directories
// are reported as folders but not descended into.
func (s *Session) ListTree(ctx context.Context) (*TreeNode, error) {
	const op = "list"
	r, err := s.requireRoot(op)
	if err != nil {
		return nil, err
	}
	root := r.Root()
	matcher := s.ignoreMatcher(root)

	tree := &TreeNode{Name: filepath.Base(root), Kind: ItemFolder, Path: "", Children: []*TreeNode{}}
	stack := []pendingDir{{node: tree, abs: root, depth: 0}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, wrapError(KindCancelled, op, "", err)
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := s.fs.ReadDir(dir.abs)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				s.logger.Debug("skipping unreadable directory", zap.String("path", dir.node.Path), zap.Error(err))
				continue
			}
			return nil, wrapError(KindReadError, op, dir.node.Path, err)
		}

		// ReadDir returns entries sorted by name.
		for _, entry := range entries {
			child := &TreeNode{Name: entry.Name(), Kind: ItemFile, Path: joinRel(dir.node.Path, entry.Name())}
			childAbs := filepath.Join(dir.abs, entry.Name())

			isDir, isLink := entry.IsDir(), entry.Type()&fs.ModeSymlink != 0
			if isLink {
				if info, err := s.fs.Stat(childAbs); err == nil && info.IsDir() {
					isDir = true
				}
			}
			if isDir {
				child.Kind = ItemFolder
				child.Children = []*TreeNode{}
				if !isLink && (s.config.MaxTreeDepth <= 0 || dir.depth+1 < s.config.MaxTreeDepth) {
					stack = append(stack, pendingDir{node: child, abs: childAbs, depth: dir.depth + 1})
				}
			}
			child.Ignored = dir.node.Ignored || matcher.ShouldIgnore(child.Path, isDir)
			dir.node.Children = append(dir.node.Children, child)
		}
	}
	return tree, nil
}

func (s *Session) ignoreMatcher(root string) gitignore.Matcher {
	if !s.config.RespectGitignore {
		return gitignore.NoOpMatcher{}
	}
	m, err := gitignore.Load(root, s.fs)
	if err != nil {
		s.logger.Warn("ignoring unreadable .gitignore", zap.Error(err))
		return gitignore.NoOpMatcher{}
	}
	return m
}

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
