// fyneterm shows the screen of a command running on a pty in a window.
// It is a viewer: keyboard input is not sent to the command.
package main

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	flag "github.com/spf13/pflag"

	"github.com/codelaboratoryltd/terminal"
	"github.com/codelaboratoryltd/terminal/internal/ptyexec"
	"github.com/codelaboratoryltd/terminal/internal/widget"
)

const termTitle = "Fyne Terminal"

func main() {
	var (
		debug      bool
		cols, rows uint
		command    string
		brightness float32
		contrast   float32
	)
	flag.BoolVar(&debug, "debug", false, "Show terminal debug messages")
	flag.UintVar(&cols, "cols", 80, "Screen columns")
	flag.UintVar(&rows, "rows", 24, "Screen rows")
	flag.StringVarP(&command, "exec", "e", "", "Command to run with $SHELL -c (default: an interactive shell)")
	flag.Float32Var(&brightness, "brightness", 1.0, "ANSI colour brightness")
	flag.Float32Var(&contrast, "contrast", 1.0, "ANSI colour contrast")
	flag.Parse()

	a := app.New()
	th := newTermTheme(brightness, contrast)
	a.Settings().SetTheme(th)

	w := a.NewWindow(termTitle)
	w.SetPadded(false)

	sess, err := terminal.NewSession(terminal.Config{Columns: cols, Rows: rows})
	if err != nil {
		fyne.LogError("Invalid terminal size", err)
		return
	}
	sess.SetDebug(debug)

	grid := widget.NewTermGrid(widget.ThemePalette(th))
	w.SetContent(container.NewStack(grid))
	w.Resize(fyne.NewSize(640, 480))

	ctx, cancel := context.WithCancel(context.Background())
	w.SetOnClosed(cancel)

	snaps := make(chan terminal.Snapshot, 16)
	sess.AddListener(snaps)
	go grid.Listen(ctx, snaps)
	go func() {
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fyne.LogError("Failure in terminal", err)
		}
	}()
	go func() {
		err := runCommand(ctx, sess, command, cols, rows)
		if err != nil {
			fyne.LogError("Failure in terminal", err)
		}
		fyne.Do(func() {
			grid.SetCursorVisible(false)
			w.SetTitle(termTitle + ": exited")
		})
	}()

	w.ShowAndRun()
}

func runCommand(ctx context.Context, sess *terminal.Session, command string, cols, rows uint) error {
	p, err := ptyexec.Start(command, cols, rows)
	if err != nil {
		return err
	}
	defer context.AfterFunc(ctx, func() { _ = p.Close() })()

	if err := sess.Pump(ctx, p); err != nil {
		return err
	}
	return p.Close()
}
