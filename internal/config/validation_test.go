package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Workspace(t *testing.T) {
	t.Run("Zero File Size Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.MaxFileSize = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max_file_size")
	})

	t.Run("Negative Tree Depth Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.MaxTreeDepth = -1
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max_tree_depth")
	})

	t.Run("Save Name With Separator Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workspace.SuggestedSaveName = "../x.txt"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "suggested_save_name")
	})
}

func TestValidate_Terminal(t *testing.T) {
	t.Run("Zero Timeout Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Terminal.TimeoutSeconds = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "timeout_seconds")
	})

	t.Run("Empty Shell Argument Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Terminal.Shell = []string{"bash", ""}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "terminal.shell")
	})

	t.Run("Durations", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Equal(t, "30s", cfg.Terminal.Timeout().String())
		assert.Equal(t, "2s", cfg.Terminal.GracePeriod().String())
	})
}

func TestValidate_ThemeAndLog(t *testing.T) {
	t.Run("Theme Default With Directory Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Theme.Default = "css/styles.css"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "theme.default")
	})

	t.Run("Unknown Log Level Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Level = "verbose"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})
}
