package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// CreateFile creates an empty file name inside the folder parent.
func (s *Session) CreateFile(parent, name string) error {
	const op = "create_file"
	abs, rel, err := s.prepareCreate(op, parent, name, "File already exists")
	if err != nil {
		return err
	}
	if err := s.fs.CreateExclusive(abs); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &Error{Kind: KindAlreadyExists, Op: op, Path: rel, Msg: "File already exists", Err: err}
		}
		return wrapError(KindWriteError, op, rel, err)
	}
	s.logger.Info("file created", zap.String("path", rel))
	return nil
}

// CreateFolder creates the single folder name inside the folder parent.
func (s *Session) CreateFolder(parent, name string) error {
	const op = "create_folder"
	abs, rel, err := s.prepareCreate(op, parent, name, "Folder already exists")
	if err != nil {
		return err
	}
	if err := s.fs.Mkdir(abs); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &Error{Kind: KindAlreadyExists, Op: op, Path: rel, Msg: "Folder already exists", Err: err}
		}
		return wrapError(KindWriteError, op, rel, err)
	}
	s.logger.Info("folder created", zap.String("path", rel))
	return nil
}

func (s *Session) prepareCreate(op, parent, name, existsMsg string) (string, string, error) {
	r, err := s.requireRoot(op)
	if err != nil {
		return "", "", err
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", "", invalidInput(op, "invalid name %q", name)
	}
	rel := joinRel(cleanRel(parent), filepath.ToSlash(name))
	abs, err := resolveForWrite(r, op, rel)
	if err != nil {
		return "", "", err
	}
	if _, err := s.fs.Lstat(abs); err == nil {
		return "", "", newError(KindAlreadyExists, op, rel, existsMsg)
	}
	return abs, rel, nil
}

// DeleteItem removes a file, or a folder with everything below it.
func (s *Session) DeleteItem(rel string) error {
	const op = "delete"
	r, err := s.requireRoot(op)
	if err != nil {
		return err
	}
	abs, err := resolve(r, op, rel)
	if err != nil {
		return err
	}
	if abs == r.Root() {
		return newError(KindAccessDenied, op, rel, "Access denied: cannot delete the workspace folder")
	}
	if _, err := s.fs.Lstat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Error{Kind: KindNotFound, Op: op, Path: rel, Msg: "Item does not exist", Err: err}
		}
		return wrapError(KindDeleteError, op, rel, err)
	}
	if err := s.fs.RemoveAll(abs); err != nil {
		return wrapError(KindDeleteError, op, rel, err)
	}

	s.forgetCurrentFile(rel)
	s.logger.Info("item deleted", zap.String("path", rel))
	return nil
}

// CopyItem records rel on the clipboard. kind may be empty; the kind stored
// is always the one found on disk.
func (s *Session) CopyItem(rel string, kind ItemKind) (*ClipboardItem, error) {
	const op = "copy"
	r, err := s.requireRoot(op)
	if err != nil {
		return nil, err
	}
	if kind != "" && kind != ItemFile && kind != ItemFolder {
		return nil, invalidInput(op, "invalid item type %q", kind)
	}
	abs, err := resolve(r, op, rel)
	if err != nil {
		return nil, err
	}
	info, err := s.fs.Lstat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Kind: KindNotFound, Op: op, Path: rel, Msg: "Item does not exist", Err: err}
		}
		return nil, wrapError(KindReadError, op, rel, err)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		if target, err := s.fs.Stat(abs); err == nil {
			info = target
		}
	}

	item := &ClipboardItem{Path: cleanRel(rel), Kind: kindOf(info), Name: filepath.Base(abs)}
	s.mu.Lock()
	s.clipboard = item
	s.mu.Unlock()

	s.logger.Debug("item copied", zap.String("path", item.Path), zap.String("type", string(item.Kind)))
	copied := *item
	return &copied, nil
}

// RenameItem renames rel to newName within the same folder.
func (s *Session) RenameItem(rel, newName string) error {
	const op = "rename"
	r, err := s.requireRoot(op)
	if err != nil {
		return err
	}
	if newName == "" || newName == "." || newName == ".." || strings.ContainsAny(newName, `/\`) {
		return newError(KindRenameError, op, rel, "invalid name: "+newName)
	}
	oldAbs, err := resolve(r, op, rel)
	if err != nil {
		return err
	}
	if oldAbs == r.Root() {
		return newError(KindAccessDenied, op, rel, "Access denied: cannot rename the workspace folder")
	}
	newAbs := filepath.Join(filepath.Dir(oldAbs), newName)

	if existing, err := s.fs.Lstat(newAbs); err == nil {
		// A case-only rename on a case-insensitive filesystem finds the item itself.
		current, cerr := s.fs.Lstat(oldAbs)
		if cerr != nil || !os.SameFile(existing, current) {
			return newError(KindAlreadyExists, op, rel, "Item with this name already exists")
		}
	}
	if err := s.fs.Rename(oldAbs, newAbs); err != nil {
		return wrapError(KindRenameError, op, rel, err)
	}

	oldRel := cleanRel(rel)
	newRel := joinRel(path.Dir("/" + oldRel)[1:], newName)
	s.moveCurrentFile(oldRel, newRel)
	s.logger.Info("item renamed", zap.String("from", oldRel), zap.String("to", newRel))
	return nil
}

func kindOf(info fs.FileInfo) ItemKind {
	if info.IsDir() {
		return ItemFolder
	}
	return ItemFile
}
