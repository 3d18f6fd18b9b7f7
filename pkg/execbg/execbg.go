// Package execbg supervises long-running subprocesses.
//
// A Background wraps an exec.Cmd that runs until it exits on its own or is
// forcibly killed. The exit is observable through a channel, so callers can
// poll a service for readiness while watching for an early death.
package execbg

import (
	"errors"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Background is a command being run in the background.
type Background struct {
	log  *zap.Logger
	Cmd  *exec.Cmd
	done chan struct{}

	err     error
	errLock sync.Mutex

	// Name tags forwarded process output.
	Name string
	// LogOutput merges stdout and stderr and forwards them to the logger.
	LogOutput bool
}

// New prepares a command to run in the background.
func New(log *zap.Logger, cmd *exec.Cmd) *Background {
	return &Background{
		log:  log,
		Cmd:  cmd,
		done: make(chan struct{}),
	}
}

// Start spawns the process and a goroutine reaping it.
// After calling Start, accessing the provided exec.Cmd is unsafe.
// Can only be called once.
func (b *Background) Start() error {
	if b.LogOutput {
		log := b.log
		if b.Name != "" {
			log = log.Named(b.Name)
		}
		w := &LineWriter{Log: log}
		b.Cmd.Stdout = w
		b.Cmd.Stderr = w
	}
	if err := b.Cmd.Start(); err != nil {
		return err
	}
	go func() {
		defer close(b.done)
		err := b.Cmd.Wait()
		b.errLock.Lock()
		b.err = err
		b.errLock.Unlock()
	}()
	return nil
}

// Done returns a channel that closes when the command exits.
func (b *Background) Done() <-chan struct{} {
	return b.done
}

// Exited reports whether the command has exited.
func (b *Background) Exited() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Err returns the error the process exited with, if any.
// It returns nil while the process is still running.
func (b *Background) Err() error {
	b.errLock.Lock()
	defer b.errLock.Unlock()
	return b.err
}

// ExitCode returns the exit code of the finished process.
// It returns 0 for a clean exit and -1 if the process has not exited yet
// or was killed by a signal before exiting.
func (b *Background) ExitCode() int {
	if !b.Exited() {
		return -1
	}
	err := b.Err()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Kill forcibly terminates the process and waits up to wait for it to exit.
// Reports whether the process has exited. Safe to call repeatedly.
func (b *Background) Kill(wait time.Duration) bool {
	if b.Cmd.Process != nil {
		_ = b.Cmd.Process.Kill()
	}
	if wait <= 0 {
		return b.Exited()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-b.done:
		return true
	case <-timer.C:
		return false
	}
}
