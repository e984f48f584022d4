// Package ptyexec runs a command attached to a pseudo-terminal.
package ptyexec

import (
	"errors"
	"os"
	"os/exec"
	"sync"
)

// ErrPlatformNotSupported is returned by Start where no pty is available.
var ErrPlatformNotSupported = errors.New("pty: platform not supported")

// Process is a command whose standard streams are a pty.
// Reading returns the command's output; writing sends it input.
type Process struct {
	cmd *exec.Cmd
	pty *os.File

	closeOnce sync.Once
	closeErr  error
}

// Read reads output from the pty.
func (p *Process) Read(b []byte) (int, error) {
	return p.pty.Read(b)
}

// Write sends input to the pty.
func (p *Process) Write(b []byte) (int, error) {
	return p.pty.Write(b)
}

// Resize changes the window size the command sees.
func (p *Process) Resize(cols, rows uint) error {
	return setSize(p.pty, cols, rows)
}

// Close closes the pty, which hangs up the command, and waits for it to exit.
// An exit status from the hangup is not reported as an error.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.pty.Close()
		var exitErr *exec.ExitError
		if err := p.cmd.Wait(); err != nil && !errors.As(err, &exitErr) && p.closeErr == nil {
			p.closeErr = err
		}
	})
	return p.closeErr
}

// ExitCode is the command's exit status, or -1 while it is running.
func (p *Process) ExitCode() int {
	if p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

func shell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "bash"
}

func command(line string) *exec.Cmd {
	var c *exec.Cmd
	if line == "" {
		c = exec.Command(shell())
	} else {
		c = exec.Command(shell(), "-c", line)
	}
	c.Env = append(os.Environ(), "TERM=xterm-256color")
	return c
}
