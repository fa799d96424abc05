package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/mizu/internal/pathutil"
	"go.uber.org/zap"
)

// PasteItem copies the clipboard item into target and returns the name it
// was given. An empty target means the root; a file target means its folder.
// The clipboard is kept so the same item can be pasted again.
func (s *Session) PasteItem(target string) (string, error) {
	const op = "paste"
	r, err := s.requireRoot(op)
	if err != nil {
		return "", err
	}
	item := s.Clipboard()
	if item == nil {
		return "", newError(KindNothingToPaste, op, target, "Nothing to paste")
	}

	src, err := resolve(r, op, item.Path)
	if err != nil {
		return "", err
	}
	info, err := s.fs.Lstat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &Error{Kind: KindSourceGone, Op: op, Path: item.Path, Msg: "Source item no longer exists", Err: err}
		}
		return "", wrapError(KindReadError, op, item.Path, err)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		if target, err := s.fs.Stat(src); err == nil {
			info = target
		}
	}
	// The item may have been replaced since it was copied.
	kind := kindOf(info)

	destDir, err := resolveForWrite(r, op, target)
	if err != nil {
		return "", err
	}
	if info, err := s.fs.Stat(destDir); err == nil && !info.IsDir() {
		destDir = filepath.Dir(destDir)
	}

	if kind == ItemFolder {
		// A linked folder is copied through its target, never as the link.
		if canonicalSrc, err := filepath.EvalSymlinks(src); err == nil {
			src = canonicalSrc
		}
		if pathutil.Within(src, destDir) {
			return "", newError(KindWriteError, op, target, fmt.Sprintf("cannot paste folder %s into itself", item.Name))
		}
	}

	dest, err := s.uniqueDestination(destDir, item.Name, kind)
	if err != nil {
		return "", wrapError(KindWriteError, op, target, err)
	}

	if kind == ItemFolder {
		err = s.fs.CopyTree(src, dest)
	} else {
		err = s.fs.CopyFile(src, dest)
	}
	if err != nil {
		return "", wrapError(KindWriteError, op, target, err)
	}

	name := filepath.Base(dest)
	s.logger.Info("item pasted", zap.String("source", item.Path), zap.String("dest", dest))
	return name, nil
}

// uniqueDestination tries name, name_copy, name_copy_2, ... in dir until a free one is found.
func (s *Session) uniqueDestination(dir, name string, kind ItemKind) (string, error) {
	stem, ext := name, ""
	if kind == ItemFile {
		stem, ext = splitExt(name)
	}

	candidate := filepath.Join(dir, name)
	for counter := 1; ; counter++ {
		_, err := s.fs.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = filepath.Join(dir, copyName(stem, ext, counter))
	}
}

func copyName(stem, ext string, counter int) string {
	if counter == 1 {
		return stem + "_copy" + ext
	}
	return fmt.Sprintf("%s_copy_%d%s", stem, counter, ext)
}

// splitExt splits off the last extension. Leading dots belong to the stem,
// so ".env" has no extension.
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if strings.Trim(stem, ".") == "" {
		return name, ""
	}
	return stem, ext
}
