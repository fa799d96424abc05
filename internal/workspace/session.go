// Package workspace owns a single rooted folder: tree listing, file reads
// and writes, and create/delete/copy/paste/rename scoped to the root.
package workspace

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/Cyclone1070/mizu/internal/config"
	"github.com/Cyclone1070/mizu/internal/pathutil"
	"go.uber.org/zap"
)

// ItemKind distinguishes files from folders.
type ItemKind string

const (
	ItemFile   ItemKind = "file"
	ItemFolder ItemKind = "folder"
)

// ClipboardItem is the most recent copy source.
type ClipboardItem struct {
	Path string   `json:"path"`
	Kind ItemKind `json:"type"`
	Name string   `json:"name"`
}

// Session holds the open workspace and its per-window state.
type Session struct {
	fs       fileSystem
	picker   DirectoryPicker
	dialog   SaveDialog
	launcher Launcher
	config   config.WorkspaceConfig
	logger   *zap.Logger
	goos     string

	mu          sync.RWMutex
	resolver    *pathutil.Resolver
	clipboard   *ClipboardItem
	currentFile string
	onOpen      []func(root string)
}

// NewSession creates a session with no workspace open.
func NewSession(fs fileSystem, picker DirectoryPicker, dialog SaveDialog, launcher Launcher, cfg config.WorkspaceConfig, logger *zap.Logger) *Session {
	if fs == nil {
		panic("fs is required")
	}
	if picker == nil {
		panic("picker is required")
	}
	if dialog == nil {
		panic("dialog is required")
	}
	if launcher == nil {
		panic("launcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		fs:       fs,
		picker:   picker,
		dialog:   dialog,
		launcher: launcher,
		config:   cfg,
		logger:   logger,
		goos:     runtime.GOOS,
	}
}

// OnOpen registers a hook run after every successful open with the new root.
func (s *Session) OnOpen(hook func(root string)) {
	s.mu.Lock()
	s.onOpen = append(s.onOpen, hook)
	s.mu.Unlock()
}

// OpenWorkspace asks the picker for a folder and opens it.
// A dismissed picker leaves the current workspace untouched.
func (s *Session) OpenWorkspace(ctx context.Context) (string, error) {
	const op = "open"
	dir, ok, err := s.picker.PickDirectory(ctx)
	if err != nil {
		return "", wrapError(KindNotSelected, op, "", err)
	}
	if !ok || dir == "" {
		return "", newError(KindNotSelected, op, "", "No folder selected")
	}
	return s.Open(dir)
}

// Open makes dir the workspace root. The clipboard and current file belong
// to the previous root and are cleared.
func (s *Session) Open(dir string) (string, error) {
	const op = "open"
	root, err := pathutil.CanonicaliseRoot(dir)
	if err != nil {
		return "", wrapError(KindNotFound, op, dir, err)
	}

	s.mu.Lock()
	s.resolver = pathutil.NewResolver(root)
	s.clipboard = nil
	s.currentFile = ""
	hooks := append([]func(string){}, s.onOpen...)
	s.mu.Unlock()

	s.logger.Info("workspace opened", zap.String("root", root))
	for _, hook := range hooks {
		hook(root)
	}
	return root, nil
}

// Root returns the workspace root, or "" when none is open.
func (s *Session) Root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resolver == nil {
		return ""
	}
	return s.resolver.Root()
}

// CurrentFile returns the root-relative path of the file last read or saved.
func (s *Session) CurrentFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentFile
}

// Clipboard returns a copy of the clipboard item, or nil.
func (s *Session) Clipboard() *ClipboardItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.clipboard == nil {
		return nil
	}
	item := *s.clipboard
	return &item
}

// ResolveAbsolutePath joins rel onto the root. No existence or containment check is made.
func (s *Session) ResolveAbsolutePath(rel string) (string, error) {
	r, err := s.requireRoot("resolve")
	if err != nil {
		return "", err
	}
	abs, err := r.Join(rel)
	if err != nil {
		return "", wrapError(KindNoWorkspace, "resolve", rel, err)
	}
	return abs, nil
}

func (s *Session) requireRoot(op string) (*pathutil.Resolver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resolver == nil {
		return nil, noWorkspace(op)
	}
	return s.resolver, nil
}

func (s *Session) setCurrentFile(rel string) {
	s.mu.Lock()
	s.currentFile = rel
	s.mu.Unlock()
}

// forgetCurrentFile clears the current file when it is rel or lies below it.
func (s *Session) forgetCurrentFile(rel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentFile != "" && (rel == "" || isSameOrBelow(rel, s.currentFile)) {
		s.currentFile = ""
	}
}

// moveCurrentFile rewrites the current file after oldRel was renamed to newRel.
func (s *Session) moveCurrentFile(oldRel, newRel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentFile != "" && isSameOrBelow(oldRel, s.currentFile) {
		s.currentFile = newRel + strings.TrimPrefix(cleanRel(s.currentFile), oldRel)
	}
}

// resolve maps a root-relative path to an absolute one inside the root.
func resolve(r *pathutil.Resolver, op, rel string) (string, error) {
	abs, err := r.Abs(rel)
	if err != nil {
		return "", accessDenied(op, rel, err)
	}
	return abs, nil
}

// resolveForWrite is resolve plus symlink canonicalisation of the deepest existing ancestor.
func resolveForWrite(r *pathutil.Resolver, op, rel string) (string, error) {
	abs, err := r.Canonical(rel)
	if err != nil {
		if errors.Is(err, pathutil.ErrOutsideWorkspace) {
			return "", accessDenied(op, rel, err)
		}
		return "", wrapError(KindWriteError, op, rel, err)
	}
	return abs, nil
}

func accessDenied(op, rel string, err error) *Error {
	return &Error{Kind: KindAccessDenied, Op: op, Path: rel, Msg: "Access denied: path is outside workspace", Err: err}
}

// cleanRel normalises a root-relative path to forward slashes without a leading "./".
func cleanRel(rel string) string {
	cleaned := path.Clean(filepath.ToSlash(rel))
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// isSameOrBelow reports whether child equals parent or is nested inside it.
func isSameOrBelow(parent, child string) bool {
	parent, child = cleanRel(parent), cleanRel(child)
	return child == parent || strings.HasPrefix(child, parent+"/")
}
