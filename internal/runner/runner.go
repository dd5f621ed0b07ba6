// Package runner executes a command with an environment produced by the
// loader.
//
// When stdin is a terminal the command gets its own PTY: the local terminal
// is switched to raw mode, output is copied back to Stdout and window size
// changes are forwarded, so interactive programs behave as if started
// directly from the shell.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/gandalfthegui/dotenv/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Runner runs commands with the given stdio.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logrus.FieldLogger
}

// Run starts name with args and env, waits for it and returns its exit
// code. The error is non-nil only when the command could not be run at all.
func (r *Runner) Run(ctx context.Context, env []string, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env

	log := r.log().WithFields(logrus.Fields{"command": name, "args": len(args)})

	if tty, ok := r.Stdin.(*os.File); ok && term.IsTerminal(int(tty.Fd())) {
		log.Debug("running command in pty")
		return r.runPTY(cmd, tty)
	}

	log.Debug("running command")
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return exitCode(cmd.Run())
}

// runPTY runs cmd attached to a new PTY mirroring tty. The terminal is
// restored before returning.
func (r *Runner) runPTY(cmd *exec.Cmd, tty *os.File) (int, error) {
	size, err := pty.GetsizeFull(tty)
	if err != nil {
		r.log().WithError(err).Debug("read terminal size")
		size = nil
	}
	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return -1, fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	defer ptmx.Close()

	// Forward terminal resize events.
	winchCh := make(chan os.Signal, 1)
	signal.Notify(winchCh, syscall.SIGWINCH)
	go func() {
		for range winchCh {
			if err := pty.InheritSize(tty, ptmx); err != nil {
				r.log().WithError(err).Debug("resize pty")
			}
		}
	}()
	defer func() {
		signal.Stop(winchCh)
		close(winchCh)
	}()

	fd := int(tty.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return -1, fmt.Errorf("set raw mode: %w", err)
	}
	var restoreOnce sync.Once
	restore := func() {
		restoreOnce.Do(func() { _ = term.Restore(fd, oldState) })
	}
	defer restore()

	// The stdin copier stays blocked on the terminal after the child exits;
	// the process is about to exit with the child's status anyway.
	go func() { _, _ = io.Copy(ptmx, tty) }()
	// Returns with EIO once the child closes its side of the PTY.
	_, _ = io.Copy(r.Stdout, ptmx)

	err = cmd.Wait()
	restore()
	return exitCode(err)
}

func (r *Runner) log() logrus.FieldLogger {
	if r.Log == nil {
		return logger.Discard()
	}
	return r.Log
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if code := ee.ExitCode(); code >= 0 {
			return code, nil
		}
		// Killed by a signal: report it the way a shell does.
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return 1, nil
	}
	return -1, err
}
