package workspace

import (
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// RevealInSystemExplorer shows rel in the platform file manager.
func (s *Session) RevealInSystemExplorer(rel string) error {
	const op = "reveal"
	r, err := s.requireRoot(op)
	if err != nil {
		return err
	}
	abs, err := resolve(r, op, rel)
	if err != nil {
		return err
	}

	name, args := revealCommand(s.goos, abs)
	if err := s.launcher.Launch(name, args...); err != nil {
		return wrapError(KindRevealError, op, rel, err)
	}
	s.logger.Debug("revealed item", zap.String("path", abs), zap.String("launcher", name))
	return nil
}

// revealCommand picks the file-manager invocation for goos. Linux file
// managers cannot select a file, so the containing folder is opened.
func revealCommand(goos, abs string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{"/select," + abs}
	case "darwin":
		return "open", []string{"-R", abs}
	default:
		return "xdg-open", []string{filepath.Dir(abs)}
	}
}

// ExecLauncher starts programs with os/exec and reaps them in the background.
type ExecLauncher struct {
	logger *zap.Logger
}

// NewExecLauncher creates a launcher that logs failed exits to logger.
func NewExecLauncher(logger *zap.Logger) *ExecLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecLauncher{logger: logger}
}

// Launch starts name and returns once it is running.
func (l *ExecLauncher) Launch(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("launched program exited with error", zap.String("program", name), zap.Error(err))
		}
	}()
	return nil
}
