package config

import "time"

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Workspace WorkspaceConfig `json:"workspace"`
	Terminal  TerminalConfig  `json:"terminal"`
	Theme     ThemeConfig     `json:"theme"`
	Log       LogConfig       `json:"log"`
}

type WorkspaceConfig struct {
	MaxFileSize       int64  `json:"max_file_size"`       // Default: 20 * 1024 * 1024 (20MB)
	MaxTreeDepth      int    `json:"max_tree_depth"`      // Default: 0 (unbounded)
	RespectGitignore  bool   `json:"respect_gitignore"`   // Default: true
	SuggestedSaveName string `json:"suggested_save_name"` // Default: "untitled.txt"
}

type TerminalConfig struct {
	TimeoutSeconds int      `json:"timeout_seconds"`  // Default: 30
	GracePeriodMs  int      `json:"grace_period_ms"`  // Default: 2000
	MaxOutputBytes int64    `json:"max_output_bytes"` // Default: 10 * 1024 * 1024 (10MB)
	Shell          []string `json:"shell"`            // Default: empty (platform shell)
}

type ThemeConfig struct {
	Dir        string `json:"dir"`         // Default: "" (directory of the executable)
	Default    string `json:"default"`     // Default: "styles.css"
	ListenAddr string `json:"listen_addr"` // Default: "127.0.0.1:8765"
}

type LogConfig struct {
	Level  string `json:"level"`  // Default: "info"
	Format string `json:"format"` // Default: "console"
	Output string `json:"output"` // Default: "stderr"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			MaxFileSize:       20 * 1024 * 1024,
			MaxTreeDepth:      0,
			RespectGitignore:  true,
			SuggestedSaveName: "untitled.txt",
		},
		Terminal: TerminalConfig{
			TimeoutSeconds: 30,
			GracePeriodMs:  2000,
			MaxOutputBytes: 10 * 1024 * 1024,
		},
		Theme: ThemeConfig{
			Default:    "styles.css",
			ListenAddr: "127.0.0.1:8765",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Timeout returns the terminal command ceiling as a duration.
func (c TerminalConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GracePeriod returns how long a timed-out command gets between interrupt and kill.
func (c TerminalConfig) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodMs) * time.Millisecond
}
