package executor

import "runtime"

// ShellCommand wraps text in the configured interpreter argv.
// An empty shell selects the platform default.
func ShellCommand(shell []string, text string) []string {
	if len(shell) == 0 {
		shell = DefaultShell(runtime.GOOS)
	}
	argv := make([]string, 0, len(shell)+1)
	argv = append(argv, shell...)
	return append(argv, text)
}

// DefaultShell returns the interpreter prefix used on goos.
func DefaultShell(goos string) []string {
	if goos == "windows" {
		return []string{"powershell", "-NoProfile", "-Command"}
	}
	return []string{"sh", "-c"}
}
