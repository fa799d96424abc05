package terminal

import (
	"os"
	"path/filepath"
	"strings"
)

type builtinKind int

const (
	notBuiltin builtinKind = iota
	builtinClear
	builtinExit
	builtinCd
	builtinPwd
)

// classify matches trimmed against the built-ins in priority order.
// For cd the returned target is the raw argument, still quoted.
func classify(trimmed string) (builtinKind, string) {
	lower := strings.ToLower(trimmed)
	switch lower {
	case "cls", "clear":
		return builtinClear, ""
	case "exit", "quit":
		return builtinExit, ""
	case "pwd", "cd":
		return builtinPwd, ""
	}
	if len(trimmed) > 2 && lower[:2] == "cd" && isSpace(trimmed[2]) {
		return builtinCd, strings.TrimSpace(trimmed[2:])
	}
	return notBuiltin, ""
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// resolveTarget turns a cd argument into an absolute, cleaned path.
func resolveTarget(cwd, target string, homeDir func() (string, error)) (string, error) {
	if target == "~" || strings.HasPrefix(target, "~/") || strings.HasPrefix(target, `~\`) {
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, target[1:]), nil
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target), nil
	}
	return filepath.Join(cwd, target), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
