package fsutil

import (
	"errors"
	"fmt"
)

// WriteStage names the step of an atomic write that failed.
type WriteStage string

const (
	StageCreateTemp WriteStage = "create temp file"
	StageWrite      WriteStage = "write"
	StageSync       WriteStage = "sync"
	StageClose      WriteStage = "close"
	StageChmod      WriteStage = "chmod"
	StageRename     WriteStage = "rename"
)

// AtomicWriteError reports a failed WriteFileAtomic. The target is untouched
// for every stage.
type AtomicWriteError struct {
	Path  string
	Stage WriteStage
	Cause error
}

func (e *AtomicWriteError) Error() string {
	return fmt.Sprintf("failed to save %s (%s): %v", e.Path, e.Stage, e.Cause)
}
func (e *AtomicWriteError) Unwrap() error { return e.Cause }

// RenameError is returned by Rename.
type RenameError struct {
	Old   string
	New   string
	Cause error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("failed to rename %s to %s: %v", e.Old, e.New, e.Cause)
}
func (e *RenameError) Unwrap() error { return e.Cause }

// CopyError is returned when duplicating a file or directory fails part way.
type CopyError struct {
	Src   string
	Dst   string
	Cause error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("failed to copy %s to %s: %v", e.Src, e.Dst, e.Cause)
}
func (e *CopyError) Unwrap() error { return e.Cause }

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrIsDirectory  = errors.New("path is a directory")
)
