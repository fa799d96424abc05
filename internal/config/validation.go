package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks config values for life correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Workspace validation
	if c.Workspace.MaxFileSize < 1 {
		errs = append(errs, "workspace.max_file_size must be >= 1")
	}
	if c.Workspace.MaxTreeDepth < 0 {
		errs = append(errs, "workspace.max_tree_depth must be >= 0")
	}
	if c.Workspace.SuggestedSaveName == "" || strings.ContainsAny(c.Workspace.SuggestedSaveName, `/\`) {
		errs = append(errs, "workspace.suggested_save_name must be a plain file name")
	}

	// Terminal validation
	if c.Terminal.TimeoutSeconds < 1 {
		errs = append(errs, "terminal.timeout_seconds must be >= 1")
	}
	if c.Terminal.GracePeriodMs < 0 {
		errs = append(errs, "terminal.grace_period_ms must be >= 0")
	}
	if c.Terminal.MaxOutputBytes < 1 {
		errs = append(errs, "terminal.max_output_bytes must be >= 1")
	}
	for _, part := range c.Terminal.Shell {
		if part == "" {
			errs = append(errs, "terminal.shell must not contain empty arguments")
			break
		}
	}

	// Theme validation
	if c.Theme.Default == "" || filepath.Base(c.Theme.Default) != c.Theme.Default {
		errs = append(errs, "theme.default must be a plain file name")
	}
	if c.Theme.ListenAddr == "" {
		errs = append(errs, "theme.listen_addr must not be empty")
	}

	// Log validation
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, "log.format must be console or json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
