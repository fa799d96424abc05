// Package executor spawns shell interpreters as killable process groups
// with bounded output capture, timeouts and graceful shutdown.
package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/Cyclone1070/mizu/internal/config"
	"go.uber.org/zap"
)

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
	Duration  time.Duration
}

// OSCommandExecutor implements command execution using os/exec for real system commands.
type OSCommandExecutor struct {
	config *config.Config
	logger *zap.Logger
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config, logger *zap.Logger) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OSCommandExecutor{config: cfg, logger: logger}
}

// Process is a handle on a started command. It is safe to Kill from any goroutine.
type Process struct {
	cmd     *exec.Cmd
	stdout  *outputBuffer
	stderr  *outputBuffer
	started time.Time
	grace   time.Duration
	logger  *zap.Logger

	done    chan struct{}
	waitErr error
	killed  atomic.Bool
}

// Start launches command in dir as the leader of a new process group.
// A nil env inherits the current environment.
func (f *OSCommandExecutor) Start(command []string, dir string, env []string) (*Process, error) {
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}

	maxBytes := int(f.config.Terminal.MaxOutputBytes)
	p := &Process{
		stdout: newOutputBuffer(maxBytes),
		stderr: newOutputBuffer(maxBytes),
		grace:  f.config.Terminal.GracePeriod(),
		logger: f.logger,
		done:   make(chan struct{}),
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr
	// Grandchildren that inherit the pipes must not hold Wait open forever.
	cmd.WaitDelay = p.grace
	setProcessGroup(cmd)
	p.cmd = cmd

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command[0], Stage: "start", Cause: err}
	}
	p.started = time.Now()
	f.logger.Debug("process started", zap.Int("pid", cmd.Process.Pid), zap.String("dir", dir))

	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

// Pid returns the operating system process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Wait blocks until the process exits, ctx is done, or timeout elapses (0 means no timeout).
// On timeout the group is interrupted and killed after the grace period.
// A non-zero exit is reported through Result.ExitCode, not as an error; the
// error is ErrTimeout, ErrKilled, ctx.Err() or a collection failure.
// Output captured before the process ended is returned in every case.
func (p *Process) Wait(ctx context.Context, timeout time.Duration) (*Result, error) {
	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	var execErr error
	select {
	case <-p.done:
		execErr = p.exitError()
	case <-ctx.Done():
		_ = p.Kill()
		<-p.done
		execErr = ctx.Err()
	case <-timer:
		p.logger.Warn("process timed out, interrupting", zap.Int("pid", p.Pid()), zap.Duration("timeout", timeout))
		_ = interruptGroup(p.cmd)
		select {
		case <-p.done:
		case <-time.After(p.grace):
			_ = p.Kill()
			<-p.done
		}
		execErr = ErrTimeout
	}

	res := &Result{
		Stdout:    p.stdout.String(),
		Stderr:    p.stderr.String(),
		ExitCode:  exitCode(p.waitErr),
		Truncated: p.stdout.Truncated() || p.stderr.Truncated(),
		Duration:  time.Since(p.started),
	}
	if errors.Is(execErr, ErrTimeout) {
		res.ExitCode = -1
	}
	return res, execErr
}

// Kill terminates the whole process group. Killing an exited process is not an error.
func (p *Process) Kill() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	p.killed.Store(true)
	err := killGroup(p.cmd)
	if err != nil && !errors.Is(err, os.ErrProcessDone) && !isNoSuchProcess(err) {
		return err
	}
	return nil
}

// exitError classifies the error from a process that exited on its own.
func (p *Process) exitError() error {
	if p.killed.Load() {
		return ErrKilled
	}
	if p.waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(p.waitErr, &exitErr) || errors.Is(p.waitErr, exec.ErrWaitDelay) {
		return nil
	}
	return &CommandError{Cmd: p.cmd.Path, Stage: "wait", Cause: p.waitErr}
}

func exitCode(err error) int {
	// ErrWaitDelay is only reported for a successful exit.
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		return 0
	}
	type exitCoder interface {
		ExitCode() int
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}
