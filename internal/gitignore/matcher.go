// Package gitignore loads a workspace's root .gitignore and answers match queries for tree nodes.
package gitignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ReadError is returned when .gitignore exists but cannot be read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }

// Matcher reports whether a root-relative path is ignored.
type Matcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// fileReader is the minimal filesystem needed to load .gitignore.
type fileReader interface {
	ReadFile(path string, maxSize int64) ([]byte, error)
}

// maxGitignoreSize caps how much of a .gitignore is parsed.
const maxGitignoreSize = 1 << 20

// IgnoreMatcher implements gitignore pattern matching using go-git's gitignore matcher.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// Load creates a matcher from <workspaceRoot>/.gitignore.
// A missing .gitignore yields a NoOpMatcher and no error.
func Load(workspaceRoot string, fs fileReader) (Matcher, error) {
	if workspaceRoot == "" {
		panic("workspaceRoot is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	gitignorePath := filepath.Join(workspaceRoot, ".gitignore")

	data, err := fs.ReadFile(gitignorePath, maxGitignoreSize)
	if err != nil {
		if isNotExist(err) {
			return NoOpMatcher{}, nil
		}
		return nil, &ReadError{Path: gitignorePath, Cause: err}
	}
	return Parse(data), nil
}

// Parse builds a matcher from raw .gitignore content.
func Parse(data []byte) *IgnoreMatcher {
	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}
}

// ShouldIgnore checks if a relative path matches any gitignore patterns.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// splitPath splits a path into segments for gitignore matching.
// It normalizes path separators and filters out empty and "." segments.
func splitPath(path string) []string {
	normalized := filepath.ToSlash(path)

	var segments []string
	for _, part := range strings.Split(normalized, "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// NoOpMatcher is a gitignore matcher that never ignores any files.
// It is used when gitignore support is disabled or no .gitignore exists.
type NoOpMatcher struct{}

// ShouldIgnore always returns false for NoOpMatcher.
func (NoOpMatcher) ShouldIgnore(string, bool) bool {
	return false
}
