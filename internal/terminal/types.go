// Package terminal implements a stateful shell session: a persistent working
// directory, a handful of built-in commands, and at most one cancellable
// subprocess at a time.
package terminal

// Result is the outcome of one Run. Failures are reported through the flags
// and Error rather than a Go error so every call returns displayable data.
type Result struct {
	Output    string `json:"output"`
	Stderr    string `json:"stderr,omitempty"`
	ExitCode  int    `json:"exit_code"`
	Cwd       string `json:"cwd"`
	Error     string `json:"error,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`

	Clear       bool `json:"clear,omitempty"`
	Timeout     bool `json:"timeout,omitempty"`
	Cancelled   bool `json:"cancelled,omitempty"`
	Busy        bool `json:"busy,omitempty"`
	NoWorkspace bool `json:"no_workspace,omitempty"`
	IsError     bool `json:"is_error"`
}

// Messages shown for conditions that never reach a subprocess.
const (
	farewellMessage    = "Goodbye! This terminal stays open for further commands.\n"
	busyMessage        = "A command is already running"
	noWorkspaceMessage = "No folder selected"
	cancelledMessage   = "Command cancelled"
)
