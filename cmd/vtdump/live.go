package main

import (
	"context"
	"errors"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/codelaboratoryltd/terminal"
	"github.com/codelaboratoryltd/terminal/internal/tcellview"
)

var errQuit = errors.New("quit")

// runLive draws every snapshot of sess into the controlling terminal until the user
// presses Escape or Ctrl-C. Input keys are not forwarded to the command.
func runLive(ctx context.Context, sess *terminal.Session, src source, palette []color.Color) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	view := tcellview.New(screen, palette)
	snaps := make(chan terminal.Snapshot, 16)
	sess.AddListener(snaps)

	g, ctx := errgroup.WithContext(ctx)
	defer context.AfterFunc(ctx, func() {
		_ = src.Close()
		screen.Fini()
	})()

	g.Go(func() error {
		return sess.Run(ctx)
	})
	// Pump runs outside the group: a read from stdin cannot be interrupted,
	// so quitting must not wait for it.
	pumped := make(chan error, 1)
	go func() {
		defer sess.Close()
		pumped <- pump(ctx, sess, src, snaps)
	}()
	g.Go(func() error {
		select {
		case err := <-pumped:
			return err
		case <-ctx.Done():
			return nil
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case snap := <-snaps:
				view.Draw(snap)
			}
		}
	})
	g.Go(func() error {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return nil
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return errQuit
				}
			case *tcell.EventResize:
				cols, rows := ev.Size()
				if cols <= 0 || rows <= 0 {
					continue
				}
				if err := sess.Resize(uint(cols), uint(rows)); err != nil && !errors.Is(err, terminal.ErrClosed) {
					return err
				}
				_ = src.Resize(uint(cols), uint(rows))
				screen.Sync()
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

func pump(ctx context.Context, sess *terminal.Session, src source, snaps chan<- terminal.Snapshot) error {
	if err := sess.Pump(ctx, src); err != nil {
		return err
	}
	// the last snapshot may have been dropped; send the final state once more
	snap, err := sess.Snapshot(ctx)
	if err != nil {
		return err
	}
	select {
	case snaps <- snap:
	case <-ctx.Done():
	}
	return nil
}
