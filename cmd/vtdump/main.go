// vtdump - Run terminal output through the emulator and show the resulting screen
//
// Usage:
//
//	vtdump [flags] [file]            Decode file (or stdin) and print the final screen
//	vtdump --exec <command>          Run command on a pty and print its final screen
//	vtdump --live [--exec <command>] Draw the screen in this terminal as it changes
package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/codelaboratoryltd/terminal"
	"github.com/codelaboratoryltd/terminal/internal/ptyexec"
)

var (
	colsFlag    int
	rowsFlag    int
	execFlag    string
	liveFlag    bool
	debugFlag   bool
	paletteFlag string
)

// source is where terminal output comes from: a file, stdin or a command on a pty.
type source interface {
	io.ReadCloser
	Resize(cols, rows uint) error
}

type fileSource struct {
	io.ReadCloser
}

func (fileSource) Resize(uint, uint) error {
	return nil
}

func main() {
	cols, rows := defaultSize()
	flag.IntVar(&colsFlag, "cols", cols, "Screen columns")
	flag.IntVar(&rowsFlag, "rows", rows, "Screen rows")
	flag.StringVarP(&execFlag, "exec", "e", "", "Run command with $SHELL -c on a pty instead of reading input")
	flag.BoolVarP(&liveFlag, "live", "l", false, "Draw the screen in this terminal while input arrives")
	flag.BoolVar(&debugFlag, "debug", false, "Show terminal debug messages")
	flag.StringVar(&paletteFlag, "palette", "host", "Colours for --live: host, 16 or 256")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `vtdump - Run terminal output through the emulator

Usage:
  vtdump [flags] [file]

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	palette, err := paletteByName(paletteFlag)
	if err != nil {
		fatal("%v", err)
	}

	sess, err := terminal.NewSession(terminal.Config{Columns: uint(max(colsFlag, 0)), Rows: uint(max(rowsFlag, 0))})
	if err != nil {
		fatal("%v", err)
	}
	sess.SetDebug(debugFlag)

	src, err := openSource(flag.Args())
	if err != nil {
		fatal("%v", err)
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if liveFlag {
		err = runLive(ctx, sess, src, palette)
	} else {
		err = runDump(ctx, sess, src, os.Stdout)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal("%v", err)
	}
}

func defaultSize() (cols, rows int) {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if c, r, err := term.GetSize(fd); err == nil && c > 0 && r > 0 {
			return c, r
		}
	}
	return 80, 24
}

func paletteByName(name string) ([]color.Color, error) {
	switch name {
	case "host":
		return nil, nil
	case "16":
		return terminal.DefaultPalette, nil
	case "256":
		return terminal.XtermPalette(), nil
	}
	return nil, fmt.Errorf("unknown palette %q", name)
}

func openSource(args []string) (source, error) {
	switch {
	case execFlag != "":
		if len(args) > 0 {
			return nil, errors.New("--exec and an input file are mutually exclusive")
		}
		p, err := ptyexec.Start(execFlag, uint(colsFlag), uint(rowsFlag))
		if err != nil {
			return nil, err
		}
		return p, nil
	case len(args) == 0 || args[0] == "-":
		return fileSource{io.NopCloser(os.Stdin)}, nil
	case len(args) == 1:
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		return fileSource{f}, nil
	}
	return nil, errors.New("at most one input file")
}

// runDump feeds all of src through sess and writes the final screen text to w.
func runDump(ctx context.Context, sess *terminal.Session, src source, w io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)
	defer context.AfterFunc(ctx, func() { _ = src.Close() })()

	var snap terminal.Snapshot
	g.Go(func() error {
		return sess.Run(ctx)
	})
	g.Go(func() error {
		defer sess.Close()
		if err := sess.Pump(ctx, src); err != nil {
			return err
		}
		var err error
		snap, err = sess.Snapshot(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, snap.Text())
	return err
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "vtdump: "+format+"\n", args...)
	os.Exit(1)
}
