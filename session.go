package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
)

const (
	bufLen   = 32768 // 32KB read buffer for Pump
	queueLen = 64
)

// ErrClosed is returned when writing to or resizing a Session after Close.
var ErrClosed = errors.New("session closed")

// Config is the size of the screen a Session drives.
type Config struct {
	Columns, Rows uint
}

// Snapshot is a copy of the screen published after each batch of input.
// Dirty lists the rows that changed since the last snapshot every listener accepted.
type Snapshot struct {
	Columns, Rows int
	Cells         []Glyph
	Dirty         []int
	Cursor        Cursor
	Mode          Mode
}

// Row returns the cells of row y, or nil outside the snapshot.
func (s Snapshot) Row(y int) []Glyph {
	if y < 0 || y >= s.Rows || len(s.Cells) != s.Columns*s.Rows {
		return nil
	}
	return s.Cells[y*s.Columns : (y+1)*s.Columns]
}

// Text returns the visible characters in the same form as Screen.Text.
func (s Snapshot) Text() string {
	if s.Columns <= 0 || s.Rows <= 0 || len(s.Cells) != s.Columns*s.Rows {
		return ""
	}
	return gridText(s.Cells, s.Columns, s.Rows)
}

// Snapshot copies the grid, dirty rows, cursor and modes.
func (s *Screen) Snapshot() Snapshot {
	cells := make([]Glyph, len(s.cells))
	copy(cells, s.cells)
	return Snapshot{
		Columns: s.cols,
		Rows:    s.rows,
		Cells:   cells,
		Dirty:   s.DirtyRows(),
		Cursor:  s.cursor,
		Mode:    s.mode,
	}
}

type event struct {
	data   []byte
	resize *Config
	reply  chan<- Snapshot
}

// Session owns a Screen and Decoder on a single goroutine, Run, and exchanges
// messages with the rest of the program: byte chunks and resizes in, snapshots out.
type Session struct {
	screen  *Screen
	decoder *Decoder

	queue     chan event
	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
	stopOnce  sync.Once

	listenerLock sync.Mutex
	listeners    []chan Snapshot
}

// NewSession creates a session with a blank screen of the configured size.
func NewSession(c Config) (*Session, error) {
	if c.Columns == 0 || c.Rows == 0 {
		return nil, fmt.Errorf("session %dx%d: %w", c.Columns, c.Rows, ErrInvalidSize)
	}
	screen, err := NewScreen(int(c.Columns), int(c.Rows))
	if err != nil {
		return nil, err
	}
	return &Session{
		screen:  screen,
		decoder: NewDecoder(),
		queue:   make(chan event, queueLen),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}, nil
}

// SetDebug turns on diagnostic logging in the decoder and screen. Call it before Run.
func (s *Session) SetDebug(debug bool) {
	s.screen.SetDebug(debug)
	s.decoder.SetDebug(debug)
}

// AddListener registers a channel that receives a Snapshot after each batch of input.
// Sends never block; a listener that is not ready misses that snapshot and its rows
// stay dirty until a later one is delivered.
func (s *Session) AddListener(listener chan Snapshot) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()

	s.listeners = append(s.listeners, listener)
}

// RemoveListener de-registers a Snapshot channel and closes it
func (s *Session) RemoveListener(listener chan Snapshot) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()

	for i, l := range s.listeners {
		if l == listener {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			close(l)
			return
		}
	}
}

// Write queues a copy of p for the terminal goroutine. It blocks while the queue is full.
func (s *Session) Write(p []byte) (int, error) {
	if err := s.send(context.Background(), event{data: append([]byte(nil), p...)}); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Resize queues a change of screen size. The screen is replaced by a blank one.
func (s *Session) Resize(cols, rows uint) error {
	if cols == 0 || rows == 0 {
		return fmt.Errorf("resize %dx%d: %w", cols, rows, ErrInvalidSize)
	}
	return s.send(context.Background(), event{resize: &Config{Columns: cols, Rows: rows}})
}

// Snapshot asks the terminal goroutine for the state after all input queued so far.
// It returns ErrClosed if Run has returned without answering.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := s.send(ctx, event{reply: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-s.stopped:
		// the final drain may have answered before Run returned
		select {
		case snap := <-reply:
			return snap, nil
		default:
			return Snapshot{}, ErrClosed
		}
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (s *Session) send(ctx context.Context, ev event) error {
	select {
	case <-s.done:
		return ErrClosed
	case <-s.stopped:
		return ErrClosed
	default:
	}
	select {
	case s.queue <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the session accepting input. Run applies whatever is already queued,
// publishes a final snapshot and returns.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Run is the terminal goroutine. It applies queued input strictly in order and
// publishes a snapshot after each batch. It returns ctx.Err() on cancellation and nil after Close.
// Once Run returns the session accepts no more input, so call it only once.
func (s *Session) Run(ctx context.Context) error {
	defer s.stopOnce.Do(func() {
		close(s.stopped)
	})

	s.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			if s.drain() {
				s.publish()
			}
			return nil
		case ev := <-s.queue:
			s.apply(ev)
			s.drain()
			s.publish()
		}
	}
}

// drain applies every event already queued without waiting for more.
func (s *Session) drain() bool {
	applied := false
	for {
		select {
		case ev := <-s.queue:
			s.apply(ev)
			applied = true
		default:
			return applied
		}
	}
}

func (s *Session) apply(ev event) {
	switch {
	case ev.reply != nil:
		ev.reply <- s.screen.Snapshot()
		return
	case ev.resize != nil:
		// sizes were validated by Session.Resize
		_ = s.screen.Resize(int(ev.resize.Columns), int(ev.resize.Rows))
		return
	}
	s.decoder.Feed(s.screen, ev.data)
}

func (s *Session) publish() {
	snap := s.screen.Snapshot()

	s.listenerLock.Lock()
	delivered := len(s.listeners) > 0
	for _, l := range s.listeners {
		select {
		case l <- snap:
		default:
			delivered = false
		}
	}
	s.listenerLock.Unlock()

	if delivered && len(snap.Dirty) > 0 {
		s.screen.ClearDirty(snap.Dirty...)
	}
}

// Pump copies r into the session until r is exhausted, the pty closes or ctx is cancelled.
// A read in progress is not interrupted by ctx; close r to unblock it.
func (s *Session) Pump(ctx context.Context, r io.Reader) error {
	buf := make([]byte, bufLen)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if serr := s.send(ctx, event{data: append([]byte(nil), buf[:n]...)}); serr != nil {
				return serr
			}
		}
		if err != nil {
			if isExit(err) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// isExit reports whether a read error means the other end went away.
func isExit(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.EIO) || // pty master after the child exits
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
