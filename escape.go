package terminal

import "log"

var escapes = map[byte]func(*Screen, *csiEscape){
	'@': escapeInsertChars,
	'A': escapeMoveCursorUp,
	'B': escapeMoveCursorDown,
	'C': escapeMoveCursorRight,
	'D': escapeMoveCursorLeft,
	'E': escapeCursorNextLine, // CNL
	'F': escapeCursorPrevLine, // CPL
	'G': escapeMoveCursorCol,
	'`': escapeMoveCursorCol,
	'H': escapeMoveCursor,
	'f': escapeMoveCursor,
	'J': escapeEraseInScreen,
	'K': escapeEraseInLine,
	'L': escapeInsertLines,
	'M': escapeDeleteLines,
	'P': escapeDeleteChars,
	'S': escapeScrollUp,
	'T': escapeScrollDown,
	'X': escapeEraseChars,      // ECH
	'a': escapeMoveCursorRight, // HPR
	'd': escapeMoveCursorRow,
	'e': escapeMoveCursorDown, // VPR
	'h': escapeModeOn,
	'l': escapeModeOff,
	'm': escapeColorMode,
	's': escapeSaveCursor,
	'u': escapeRestoreCursor,

	// recognised, not implemented
	'c': escapeUnimplemented("DA"),
	'n': escapeUnimplemented("DSR"),
	'q': escapeUnimplemented("DECSCUSR"),
	'r': escapeUnimplemented("DECSTBM"),
	't': escapeUnimplemented("window manipulation"),
}

func (d *Decoder) dispatchCSI(s *Screen, final byte) {
	if esc, ok := escapes[final]; ok {
		esc(s, &d.csi)
	} else if d.debug {
		log.Println("Unrecognised Escape:", d.csi.String())
	}
}

// count reads a repeat count from argument 0, treating 0 as 1 and limiting it to limit.
func count(c *csiEscape, limit int) int {
	return clamp(c.arg(0, 1), 1, limit)
}

func escapeInsertChars(s *Screen, c *csiEscape) {
	s.InsertBlank(count(c, s.cols))
}

func escapeMoveCursorUp(s *Screen, c *csiEscape) {
	s.MoveBy(0, -count(c, s.rows))
}

func escapeMoveCursorDown(s *Screen, c *csiEscape) {
	s.MoveBy(0, count(c, s.rows))
}

func escapeMoveCursorRight(s *Screen, c *csiEscape) {
	s.MoveBy(count(c, s.cols), 0)
}

func escapeMoveCursorLeft(s *Screen, c *csiEscape) {
	s.MoveBy(-count(c, s.cols), 0)
}

func escapeCursorNextLine(s *Screen, c *csiEscape) {
	s.MoveTo(0, s.cursor.Y+count(c, s.rows))
}

func escapeCursorPrevLine(s *Screen, c *csiEscape) {
	s.MoveTo(0, s.cursor.Y-count(c, s.rows))
}

func escapeMoveCursorCol(s *Screen, c *csiEscape) {
	s.MoveTo(count(c, s.cols)-1, s.cursor.Y)
}

func escapeMoveCursorRow(s *Screen, c *csiEscape) {
	s.MoveTo(s.cursor.X, count(c, s.rows)-1)
}

func escapeMoveCursor(s *Screen, c *csiEscape) {
	row := clamp(c.arg(0, 1), 1, s.rows)
	col := clamp(c.arg(1, 1), 1, s.cols)
	s.MoveTo(col-1, row-1)
}

func escapeEraseInScreen(s *Screen, c *csiEscape) {
	x, y := s.cursor.X, s.cursor.Y
	switch c.arg(0, 0) {
	case 0:
		s.ClearRegion(x, y, s.cols-1, s.rows-1)
	case 1:
		s.ClearRegion(0, 0, x, y)
	case 2, 3:
		s.ClearRegion(0, 0, s.cols-1, s.rows-1)
	default:
		s.logUnimplemented("ED", c.arg(0, 0))
	}
}

func escapeEraseInLine(s *Screen, c *csiEscape) {
	x, y := s.cursor.X, s.cursor.Y
	switch c.arg(0, 0) {
	case 0:
		s.ClearRegion(x, y, s.cols-1, y)
	case 1:
		s.ClearRegion(0, y, x, y)
	case 2:
		s.ClearRegion(0, y, s.cols-1, y)
	default:
		s.logUnimplemented("EL", c.arg(0, 0))
	}
}

func escapeInsertLines(s *Screen, c *csiEscape) {
	s.InsertLines(count(c, s.rows))
}

func escapeDeleteLines(s *Screen, c *csiEscape) {
	s.DeleteLines(count(c, s.rows))
}

func escapeDeleteChars(s *Screen, c *csiEscape) {
	s.DeleteChars(count(c, s.cols))
}

func escapeEraseChars(s *Screen, c *csiEscape) {
	s.EraseChars(count(c, s.cols))
}

func escapeScrollUp(s *Screen, c *csiEscape) {
	for i := count(c, s.rows); i > 0; i-- {
		s.ScrollUp()
	}
}

func escapeScrollDown(s *Screen, c *csiEscape) {
	for i := count(c, s.rows); i > 0; i-- {
		s.ScrollDown()
	}
}

func escapeModeOn(s *Screen, c *csiEscape) {
	setModes(s, c, true)
}

func escapeModeOff(s *Screen, c *csiEscape) {
	setModes(s, c, false)
}

// setModes applies SM/RM and DECSET/DECRST for every argument.
// Only autowrap (7) and the alternate screen (1049) are acted on.
// Insert and linefeed/newline stay reachable through Screen.SetMode.
func setModes(s *Screen, c *csiEscape, on bool) {
	for i := 0; i < c.nargs(); i++ {
		switch v := c.argAt(i, 0); v {
		case 7: // DECAWM
			s.SetMode(ModeWrap, on)
		case 1049:
			s.SetAltScreen(on, true)
		default:
			s.logUnimplemented("mode", v, c.private, on)
		}
	}
}

func escapeColorMode(s *Screen, c *csiEscape) {
	if c.private {
		s.logUnimplemented("private SGR", c.String())
		return
	}
	selectGraphicRendition(s, c)
}

func escapeSaveCursor(s *Screen, _ *csiEscape) {
	s.SaveCursor()
}

func escapeRestoreCursor(s *Screen, _ *csiEscape) {
	s.RestoreCursor()
}

func escapeUnimplemented(name string) func(*Screen, *csiEscape) {
	return func(s *Screen, c *csiEscape) {
		s.logUnimplemented(name, c.String())
	}
}
