package terminal

import "github.com/mattn/go-runewidth"

const tabWidth = 8

// PutChar writes r at the cursor using the pending rendition and advances the cursor.
// Zero width runes are dropped and double width runes fill two cells.
func (s *Screen) PutChar(r rune) {
	if s.empty() {
		return
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	if w > 1 && s.cols < 2 {
		w = 1
	}

	c := &s.cursor
	if c.WrapNext && s.mode.Has(ModeWrap) {
		s.wrapLine()
	}
	c.WrapNext = false
	if c.X+w > s.cols {
		if s.mode.Has(ModeWrap) {
			s.wrapLine()
		} else {
			c.X = s.cols - w
		}
	}
	if s.mode.Has(ModeInsert) {
		s.InsertBlank(w)
	}

	row := s.row(c.Y)
	g := c.Attr
	g.Rune = uint32(r)
	row[c.X] = g
	if w == 2 {
		g.Rune = wideSpacer
		row[c.X+1] = g
	}
	s.dirty[c.Y] = true

	if c.X+w < s.cols {
		c.X += w
	} else {
		c.X = s.cols - 1
		c.WrapNext = s.mode.Has(ModeWrap)
	}
}

func (s *Screen) wrapLine() {
	s.cursor.X = 0
	s.newline(false)
}

// newline moves down one row, scrolling at the bottom, and optionally returns to column 0.
func (s *Screen) newline(firstCol bool) {
	c := &s.cursor
	c.WrapNext = false
	if firstCol {
		c.X = 0
	}
	if c.Y >= s.rows-1 {
		c.Y = s.rows - 1
		s.ScrollUp()
	} else {
		s.dirty[c.Y] = true
		c.Y++
	}
	s.dirty[c.Y] = true
}

// LineFeed handles LF, VT and FF; in CRLF mode it also returns to column 0.
func (s *Screen) LineFeed() {
	if s.empty() {
		return
	}
	s.newline(s.mode.Has(ModeCRLF))
}

// Index moves down one row, scrolling at the bottom (IND).
func (s *Screen) Index() {
	if s.empty() {
		return
	}
	s.newline(false)
}

// NextLine moves to column 0 of the next row, scrolling at the bottom (NEL).
func (s *Screen) NextLine() {
	if s.empty() {
		return
	}
	s.newline(true)
}

// ReverseIndex moves up one row, scrolling down when already on the top row (RI).
func (s *Screen) ReverseIndex() {
	if s.empty() {
		return
	}
	c := &s.cursor
	c.WrapNext = false
	if c.Y == 0 {
		s.ScrollDown()
		return
	}
	s.dirty[c.Y] = true
	c.Y--
	s.dirty[c.Y] = true
}

// CarriageReturn moves the cursor to column 0.
func (s *Screen) CarriageReturn() {
	if s.empty() {
		return
	}
	s.MoveTo(0, s.cursor.Y)
}

// Backspace moves left one column, or to the end of the previous row from column 0.
func (s *Screen) Backspace() {
	if s.empty() {
		return
	}
	c := s.cursor
	switch {
	case c.WrapNext:
		s.MoveTo(c.X-1, c.Y)
	case c.X > 0:
		s.MoveTo(c.X-1, c.Y)
	case c.Y > 0:
		s.MoveTo(s.cols-1, c.Y-1)
	}
}

// Tab advances to the next multiple of eight, stopping at the last column.
func (s *Screen) Tab() {
	if s.empty() {
		return
	}
	next := s.cursor.X - s.cursor.X%tabWidth + tabWidth
	s.MoveTo(next, s.cursor.Y)
}

// MoveTo places the cursor at column x and row y, clamped to the grid.
func (s *Screen) MoveTo(x, y int) {
	if s.empty() {
		return
	}
	s.dirty[s.cursor.Y] = true
	s.cursor.X = clamp(x, 0, s.cols-1)
	s.cursor.Y = clamp(y, 0, s.rows-1)
	s.cursor.WrapNext = false
	s.dirty[s.cursor.Y] = true
}

// MoveBy shifts the cursor relative to its position, clamped to the grid.
func (s *Screen) MoveBy(dx, dy int) {
	s.MoveTo(s.cursor.X+dx, s.cursor.Y+dy)
}

// ScrollUp shifts every row up by one; row 0 is discarded and the bottom row is blank.
func (s *Screen) ScrollUp() {
	if s.empty() {
		return
	}
	copy(s.cells, s.cells[s.cols:])
	fillBlank(s.row(s.rows - 1))
	s.markAllDirty()
}

// ScrollDown shifts every row down by one; the bottom row is discarded and row 0 is blank.
func (s *Screen) ScrollDown() {
	if s.empty() {
		return
	}
	copy(s.cells[s.cols:], s.cells[:len(s.cells)-s.cols])
	fillBlank(s.row(0))
	s.markAllDirty()
}

// ClearRegion blanks the span from (x1,y1) to (x2,y2) inclusive. The first row starts at x1,
// the last row ends at x2 and rows in between are cleared across the full width.
func (s *Screen) ClearRegion(x1, y1, x2, y2 int) {
	if s.empty() {
		return
	}
	x1, x2 = clamp(x1, 0, s.cols-1), clamp(x2, 0, s.cols-1)
	y1, y2 = clamp(y1, 0, s.rows-1), clamp(y2, 0, s.rows-1)
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y1 == y2 && x1 > x2 {
		x1, x2 = x2, x1
	}
	for y := y1; y <= y2; y++ {
		start, end := 0, s.cols-1
		if y == y1 {
			start = x1
		}
		if y == y2 {
			end = x2
		}
		fillBlank(s.row(y)[start : end+1])
		s.dirty[y] = true
	}
}

// InsertBlank shifts the rest of the cursor row right by n cells, dropping what falls off the end.
func (s *Screen) InsertBlank(n int) {
	if s.empty() {
		return
	}
	x := s.cursor.X
	n = clamp(n, 0, s.cols-x)
	if n == 0 {
		return
	}
	row := s.row(s.cursor.Y)
	copy(row[x+n:], row[x:s.cols-n])
	fillBlank(row[x : x+n])
	s.dirty[s.cursor.Y] = true
}

// DeleteChars removes n cells at the cursor, shifting the rest of the row left.
func (s *Screen) DeleteChars(n int) {
	if s.empty() {
		return
	}
	x := s.cursor.X
	n = clamp(n, 0, s.cols-x)
	if n == 0 {
		return
	}
	row := s.row(s.cursor.Y)
	copy(row[x:], row[x+n:])
	fillBlank(row[s.cols-n:])
	s.dirty[s.cursor.Y] = true
}

// EraseChars blanks n cells starting at the cursor without shifting.
func (s *Screen) EraseChars(n int) {
	if s.empty() {
		return
	}
	n = clamp(n, 1, s.cols-s.cursor.X)
	s.ClearRegion(s.cursor.X, s.cursor.Y, s.cursor.X+n-1, s.cursor.Y)
}

// InsertLines pushes the cursor row and those below it down by n, inserting blank rows.
func (s *Screen) InsertLines(n int) {
	if s.empty() {
		return
	}
	y := s.cursor.Y
	n = clamp(n, 0, s.rows-y)
	if n == 0 {
		return
	}
	copy(s.cells[(y+n)*s.cols:], s.cells[y*s.cols:(s.rows-n)*s.cols])
	fillBlank(s.cells[y*s.cols : (y+n)*s.cols])
	s.markDirty(y, s.rows-1)
}

// DeleteLines removes n rows at the cursor row, pulling the rows below up and blanking the bottom.
func (s *Screen) DeleteLines(n int) {
	if s.empty() {
		return
	}
	y := s.cursor.Y
	n = clamp(n, 0, s.rows-y)
	if n == 0 {
		return
	}
	copy(s.cells[y*s.cols:], s.cells[(y+n)*s.cols:])
	fillBlank(s.cells[(s.rows-n)*s.cols:])
	s.markDirty(y, s.rows-1)
}
