package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cyclone1070/mizu/internal/config"
	"github.com/Cyclone1070/mizu/internal/executor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// commandStarter spawns subprocesses.
type commandStarter interface {
	Start(command []string, dir string, env []string) (*executor.Process, error)
}

// Session is one terminal: a working directory plus at most one running command.
type Session struct {
	starter commandStarter
	shell   []string
	timeout time.Duration
	logger  *zap.Logger

	userHomeDir func() (string, error)

	mu  sync.RWMutex
	cwd string

	busy   atomic.Bool
	active atomic.Pointer[executor.Process]
}

// NewSession creates a session without a working directory; call Reset before Run.
func NewSession(starter commandStarter, cfg config.TerminalConfig, logger *zap.Logger) *Session {
	if starter == nil {
		panic("starter is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		starter:     starter,
		shell:       cfg.Shell,
		timeout:     cfg.Timeout(),
		logger:      logger,
		userHomeDir: os.UserHomeDir,
	}
}

// Reset points the session at a new workspace root.
func (s *Session) Reset(root string) {
	s.mu.Lock()
	s.cwd = root
	s.mu.Unlock()
	s.logger.Debug("terminal cwd reset", zap.String("cwd", root))
}

// Cwd returns the current working directory, empty before the first Reset.
func (s *Session) Cwd() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cwd
}

func (s *Session) setCwd(dir string) {
	s.mu.Lock()
	s.cwd = dir
	s.mu.Unlock()
}

// Running reports whether a subprocess is in flight.
func (s *Session) Running() bool {
	return s.active.Load() != nil
}

// Run executes one command line. Concurrent calls are rejected with Busy.
func (s *Session) Run(ctx context.Context, command string) Result {
	cwd := s.Cwd()
	if cwd == "" {
		return Result{Error: noWorkspaceMessage, NoWorkspace: true, IsError: true}
	}
	if !s.busy.CompareAndSwap(false, true) {
		return Result{Error: busyMessage, Busy: true, IsError: true, Cwd: cwd}
	}
	defer s.busy.Store(false)

	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return Result{Cwd: cwd}
	}

	kind, target := classify(trimmed)
	switch kind {
	case builtinClear:
		return Result{Clear: true, Cwd: cwd}
	case builtinExit:
		return Result{Output: farewellMessage, Cwd: cwd}
	case builtinPwd:
		return Result{Output: cwd + "\n", Cwd: cwd}
	case builtinCd:
		return s.changeDir(cwd, target)
	}
	return s.execute(ctx, cwd, trimmed)
}

func (s *Session) changeDir(cwd, rawTarget string) Result {
	target := unquote(rawTarget)
	next, err := resolveTarget(cwd, target, s.userHomeDir)
	if err != nil || !isDir(next) {
		return Result{
			Output:  fmt.Sprintf("cd: %s: No such directory\n", target),
			Cwd:     cwd,
			IsError: true,
		}
	}
	s.setCwd(next)
	return Result{Cwd: next}
}

func (s *Session) execute(ctx context.Context, cwd, text string) Result {
	logger := s.logger.With(zap.String("run_id", uuid.NewString()))
	argv := executor.ShellCommand(s.shell, text)
	proc, err := s.starter.Start(argv, cwd, nil)
	if err != nil {
		logger.Warn("failed to start command", zap.String("command", text), zap.Error(err))
		return Result{Error: err.Error(), Cwd: cwd, IsError: true}
	}
	s.active.Store(proc)
	logger.Info("command started", zap.String("command", text), zap.Int("pid", proc.Pid()))

	res, err := proc.Wait(ctx, s.timeout)
	s.active.CompareAndSwap(proc, nil)

	out := Result{
		Output:    withTrailingNewline(res.Stdout),
		Stderr:    res.Stderr,
		ExitCode:  res.ExitCode,
		Truncated: res.Truncated,
		Cwd:       cwd,
	}

	switch {
	case err == nil:
		out.IsError = res.ExitCode != 0
		logger.Info("command finished", zap.Int("exit_code", res.ExitCode), zap.Duration("duration", res.Duration))
	case errors.Is(err, executor.ErrTimeout):
		out.Timeout = true
		out.IsError = true
		out.Error = fmt.Sprintf("Command timed out after %s", s.timeout)
		logger.Warn("command timed out", zap.String("command", text), zap.Duration("timeout", s.timeout))
	case errors.Is(err, executor.ErrKilled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		out.Cancelled = true
		out.IsError = true
		out.Error = cancelledMessage
		logger.Info("command cancelled", zap.String("command", text))
	default:
		out.IsError = true
		out.Error = err.Error()
		logger.Warn("command failed", zap.String("command", text), zap.Error(err))
	}
	return out
}

// Cancel kills the running command, if any. It is safe to call from any goroutine.
func (s *Session) Cancel() bool {
	proc := s.active.Swap(nil)
	if proc == nil {
		return false
	}
	if err := proc.Kill(); err != nil {
		s.logger.Warn("failed to kill command", zap.Int("pid", proc.Pid()), zap.Error(err))
	}
	return true
}

func withTrailingNewline(s string) string {
	if s != "" && !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}
