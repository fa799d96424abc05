package workspace

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/mizu/internal/content"
	"github.com/Cyclone1070/mizu/internal/fsutil"
	"go.uber.org/zap"
)

const defaultFilePerm os.FileMode = 0o644

// SaveResult reports where SaveAs wrote. Path is root-relative unless
// OutsideWorkspace is set, in which case it is absolute.
type SaveResult struct {
	Path             string `json:"path"`
	OutsideWorkspace bool   `json:"outside_workspace,omitempty"`
}

// ReadFile returns the UTF-8 content of rel and makes it the current file.
func (s *Session) ReadFile(rel string) (string, error) {
	const op = "read"
	r, err := s.requireRoot(op)
	if err != nil {
		return "", err
	}
	abs, err := resolve(r, op, rel)
	if err != nil {
		return "", err
	}

	data, err := s.fs.ReadFile(abs, s.config.MaxFileSize)
	if err != nil {
		return "", wrapError(KindReadError, op, rel, err)
	}
	text, err := content.DecodeText(data)
	if err != nil {
		return "", wrapError(KindReadError, op, rel, err)
	}

	s.setCurrentFile(cleanRel(rel))
	return text, nil
}

// WriteFile replaces the content of rel, creating missing parent folders.
// Paths that resolve outside the root are refused before anything is touched.
func (s *Session) WriteFile(rel, text string) error {
	const op = "write"
	r, err := s.requireRoot(op)
	if err != nil {
		return err
	}
	abs, err := resolveForWrite(r, op, rel)
	if err != nil {
		if KindOf(err) == KindAccessDenied {
			s.logger.Warn("refused write outside workspace", zap.String("path", rel))
			return &Error{Kind: KindAccessDenied, Op: op, Path: rel, Msg: "Access denied: Cannot save outside workspace", Err: errors.Unwrap(err)}
		}
		return err
	}
	if abs == r.Root() {
		return newError(KindWriteError, op, rel, "cannot write to the workspace folder itself")
	}

	if err := s.writeAtomic(abs, text); err != nil {
		return wrapError(KindWriteError, op, rel, err)
	}
	s.logger.Info("file saved", zap.String("path", rel), zap.Int("bytes", len(text)))
	return nil
}

// SaveAs asks the save dialog for a destination and writes text there.
// Saving inside the root makes the result relative and updates the current file.
func (s *Session) SaveAs(ctx context.Context, text string) (*SaveResult, error) {
	const op = "save_as"
	r, err := s.requireRoot(op)
	if err != nil {
		return nil, err
	}

	suggested := s.config.SuggestedSaveName
	dest, ok, err := s.dialog.PickSavePath(ctx, r.Root(), suggested)
	if err != nil {
		return nil, wrapError(KindWriteError, op, "", err)
	}
	if !ok || dest == "" {
		return nil, newError(KindCancelled, op, "", "Save cancelled")
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return nil, wrapError(KindWriteError, op, dest, err)
	}

	if err := s.writeAtomic(dest, text); err != nil {
		return nil, wrapError(KindWriteError, op, dest, err)
	}
	s.logger.Info("file saved as", zap.String("path", dest), zap.Int("bytes", len(text)))

	if canonical, err := r.Canonical(dest); err == nil {
		rel, err := r.Rel(canonical)
		if err == nil && rel != "" {
			s.setCurrentFile(rel)
			return &SaveResult{Path: rel}, nil
		}
	}
	return &SaveResult{Path: dest, OutsideWorkspace: true}, nil
}

// writeAtomic keeps the mode of an existing file.
func (s *Session) writeAtomic(abs, text string) error {
	perm := defaultFilePerm
	if info, err := s.fs.Stat(abs); err == nil {
		if info.IsDir() {
			return &fs.PathError{Op: "write", Path: abs, Err: fsutil.ErrIsDirectory}
		}
		perm = info.Mode().Perm()
	}
	if err := s.fs.EnsureDirs(filepath.Dir(abs)); err != nil {
		return err
	}
	return s.fs.WriteFileAtomic(abs, []byte(text), perm)
}
