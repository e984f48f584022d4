package terminal

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// ErrInvalidSize is returned when a screen is created or resized with a zero or negative dimension.
var ErrInvalidSize = errors.New("columns and rows must be positive")

// Cursor is the write position plus the pending rendition applied to printed characters.
type Cursor struct {
	X, Y int
	// Attr holds the current SGR state; its Rune is unused.
	Attr Glyph
	// WrapNext is set after printing into the last column while autowrap is on;
	// the next printable character moves to the following row first.
	WrapNext bool
}

func defaultCursor() Cursor {
	return Cursor{Attr: DefaultGlyph()}
}

// Screen is the character grid of a terminal together with its cursor and mode flags.
// It has no internal locking and must be owned by a single goroutine.
type Screen struct {
	cols, rows int
	cells      []Glyph
	dirty      []bool

	cursor Cursor
	saved  Cursor
	mode   Mode

	// primary holds the main buffer while the alternate screen is shown
	primary []Glyph

	debug bool
}

// NewScreen allocates a blank grid of cols by rows cells with every row marked dirty.
func NewScreen(cols, rows int) (*Screen, error) {
	s := &Screen{mode: defaultMode}
	if err := s.allocate(cols, rows); err != nil {
		return nil, err
	}
	s.cursor = defaultCursor()
	s.saved = defaultCursor()
	return s, nil
}

func (s *Screen) allocate(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("screen %dx%d: %w", cols, rows, ErrInvalidSize)
	}
	s.cols, s.rows = cols, rows
	s.cells = blankCells(cols * rows)
	s.dirty = make([]bool, rows)
	s.markAllDirty()
	return nil
}

func blankCells(n int) []Glyph {
	cells := make([]Glyph, n)
	fillBlank(cells)
	return cells
}

func fillBlank(cells []Glyph) {
	blank := DefaultGlyph()
	for i := range cells {
		cells[i] = blank
	}
}

// Resize replaces the grid with a blank one of the new dimensions.
// Content is not reflowed or preserved, the cursor returns to the origin
// and any alternate screen contents are dropped. Mode flags are kept.
func (s *Screen) Resize(cols, rows int) error {
	if err := s.allocate(cols, rows); err != nil {
		return err
	}
	attr := s.cursor.Attr
	s.cursor = defaultCursor()
	s.cursor.Attr = attr
	s.saved = defaultCursor()
	s.primary = nil
	return nil
}

// Reset restores the initial state (RIS): blank grid, cursor at the origin with
// default rendition, modes WRAP|UTF8 and every row dirty.
func (s *Screen) Reset() {
	if s.empty() {
		return
	}
	fillBlank(s.cells)
	s.cursor = defaultCursor()
	s.saved = defaultCursor()
	s.mode = defaultMode
	s.primary = nil
	s.markAllDirty()
}

// SetDebug enables logging of operations that are recognised but not implemented.
func (s *Screen) SetDebug(debug bool) {
	s.debug = debug
}

func (s *Screen) empty() bool {
	return s == nil || s.cols <= 0 || s.rows <= 0 || len(s.cells) != s.cols*s.rows
}

// Size returns the grid dimensions.
func (s *Screen) Size() (cols, rows int) {
	return s.cols, s.rows
}

// Cursor returns a copy of the cursor state.
func (s *Screen) Cursor() Cursor {
	return s.cursor
}

// Mode returns the current terminal mode flags.
func (s *Screen) Mode() Mode {
	return s.mode
}

// SetMode sets or clears the given mode bits.
// Switching ModeAltScreen swaps buffers; use SetAltScreen to also save the cursor.
func (s *Screen) SetMode(m Mode, on bool) {
	if m.Has(ModeAltScreen) {
		s.SetAltScreen(on, false)
		m &^= ModeAltScreen
	}
	s.mode = s.mode.With(m, on)
}

// Cell returns the glyph at column x and row y, or a blank glyph outside the grid.
func (s *Screen) Cell(x, y int) Glyph {
	if s.empty() || x < 0 || y < 0 || x >= s.cols || y >= s.rows {
		return DefaultGlyph()
	}
	return s.cells[y*s.cols+x]
}

// Row returns a copy of row y.
func (s *Screen) Row(y int) []Glyph {
	if s.empty() || y < 0 || y >= s.rows {
		return nil
	}
	row := make([]Glyph, s.cols)
	copy(row, s.row(y))
	return row
}

func (s *Screen) row(y int) []Glyph {
	return s.cells[y*s.cols : (y+1)*s.cols]
}

// Dirty reports whether row y changed since its flag was last cleared.
func (s *Screen) Dirty(y int) bool {
	if y < 0 || y >= len(s.dirty) {
		return false
	}
	return s.dirty[y]
}

// DirtyRows returns the indices of all dirty rows in ascending order.
func (s *Screen) DirtyRows() []int {
	var rows []int
	for y, d := range s.dirty {
		if d {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearDirty clears the dirty flag of the given rows, or of every row when none are given.
// It belongs to the consumer of frames; the screen itself only ever sets flags.
func (s *Screen) ClearDirty(rows ...int) {
	if len(rows) == 0 {
		for y := range s.dirty {
			s.dirty[y] = false
		}
		return
	}
	for _, y := range rows {
		if y >= 0 && y < len(s.dirty) {
			s.dirty[y] = false
		}
	}
}

func (s *Screen) markAllDirty() {
	for y := range s.dirty {
		s.dirty[y] = true
	}
}

func (s *Screen) markDirty(from, to int) {
	for y := max(from, 0); y <= to && y < s.rows; y++ {
		s.dirty[y] = true
	}
}

// Text returns the visible characters, one line per row with trailing blanks removed.
func (s *Screen) Text() string {
	if s.empty() {
		return ""
	}
	return gridText(s.cells, s.cols, s.rows)
}

func gridText(cells []Glyph, cols, rows int) string {
	var sb strings.Builder
	for y := 0; y < rows; y++ {
		line := make([]rune, 0, cols)
		for _, g := range cells[y*cols : (y+1)*cols] {
			if g.IsSpacer() {
				continue
			}
			line = append(line, g.Char())
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SaveCursor stores position, rendition and wrap state (DECSC).
func (s *Screen) SaveCursor() {
	s.saved = s.cursor
}

// RestoreCursor brings back the state stored by SaveCursor (DECRC).
func (s *Screen) RestoreCursor() {
	if s.empty() {
		return
	}
	c := s.saved
	c.X = clamp(c.X, 0, s.cols-1)
	c.Y = clamp(c.Y, 0, s.rows-1)
	s.markDirty(s.cursor.Y, s.cursor.Y)
	s.cursor = c
	s.markDirty(c.Y, c.Y)
}

// SetAltScreen switches between the primary and a blank alternate buffer.
// With saveCursor the cursor is saved on entry and restored on exit, as for mode 1049.
func (s *Screen) SetAltScreen(on, saveCursor bool) {
	if s.empty() || on == s.mode.Has(ModeAltScreen) {
		return
	}
	if on {
		if saveCursor {
			s.SaveCursor()
		}
		s.primary = s.cells
		s.cells = blankCells(s.cols * s.rows)
	} else {
		if s.primary != nil {
			s.cells = s.primary
		} else {
			fillBlank(s.cells)
		}
		s.primary = nil
		if saveCursor {
			s.RestoreCursor()
		}
	}
	s.mode = s.mode.With(ModeAltScreen, on)
	s.cursor.WrapNext = false
	s.markAllDirty()
}

func (s *Screen) logUnimplemented(what string, args ...interface{}) {
	if s.debug {
		log.Println(append([]interface{}{"Unimplemented", what}, args...)...)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
