//go:build !windows

package ptyexec

import (
	"os"

	"github.com/creack/pty"
)

// Start runs line with the user's shell on a new pty of the given size.
// An empty line starts an interactive shell.
func Start(line string, cols, rows uint) (*Process, error) {
	c := command(line)

	// Start the command with a pty.
	f, err := pty.StartWithSize(c, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}
	return &Process{cmd: c, pty: f}, nil
}

func setSize(f *os.File, cols, rows uint) error {
	return pty.Setsize(f, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}
