package terminal

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClearScreen(t *testing.T) {
	term := newTestTerm(t, 5, 2)

	term.handleOutput("Hello")
	assert.Equal(t, "Hello", term.Text())

	term.handleOutput("\x1b[2J")
	assert.Equal(t, "", term.Text())
	term.cursorAt(t, 4, 0)
}

func TestClearScreen_Partial(t *testing.T) {
	term := newTestTerm(t, 3, 3)
	term.handleOutput("abc\r\ndef\r\nghi\x1b[2;2H")

	term.handleOutput("\x1b[J")
	assert.Equal(t, "abc\nd", term.Text())

	term.handleOutput("\x1b[1;1Habc\r\ndef\r\nghi\x1b[2;2H\x1b[1J")
	assert.Equal(t, "\n  f\nghi", term.Text())
}

// tmux clears the screen by scrolling everything away
func TestScrollBack_Tmux(t *testing.T) {
	term := newTestTerm(t, 80, 5)
	term.SetDebug(true)

	for i := 1; i <= 40; i++ {
		term.handleOutput("\x1b[" + strconv.Itoa(i) + ";1H" + "Line " + strconv.Itoa(i))
	}
	assert.Equal(t, "Line 40", strings.TrimSpace(strings.Split(term.Text(), "\n")[4]))

	term.handleOutput("\x1b[1;47r")
	term.handleOutput("\x1b[2;47r")
	term.handleOutput("\x1b[46S")
	term.handleOutput("\x1b[1;1H")
	term.handleOutput("\x1b[K")
	term.handleOutput("\x1b[1;48r")
	term.handleOutput("\x1b[1;1H")
	term.handleOutput("\x1b(B")
	term.handleOutput("\x1b[m")

	assert.Equal(t, "", term.Text())
	term.cursorAt(t, 0, 0)
}

func TestScrollUpDown(t *testing.T) {
	term := newTestTerm(t, 3, 3)
	term.handleOutput("a\r\nb\r\nc")

	term.handleOutput("\x1b[2S")
	assert.Equal(t, "c", term.Text())

	term.handleOutput("\x1b[T")
	assert.Equal(t, "\nc", term.Text())

	term.handleOutput("\x1b[99T")
	assert.Equal(t, "", term.Text())
	term.cursorAt(t, 1, 2)
}

func TestReverseIndex(t *testing.T) {
	term := newTestTerm(t, 3, 3)
	term.handleOutput("a\r\nb\x1b[1;1H\x1bMc")
	assert.Equal(t, "c\na\nb", term.Text())

	term.handleOutput("\x1b[3;1H\x1bDd")
	assert.Equal(t, "a\nb\nd", term.Text())
}

func TestInsertDeleteChars(t *testing.T) {
	term := newTestTerm(t, 5, 2)

	term.handleOutput("Hello")
	assert.Equal(t, "Hello", term.Text())

	term.handleOutput("\x1b[1;3H\x1b[2@")
	assert.Equal(t, "He  l", term.Text())

	term.handleOutput("\x1b[2P")
	assert.Equal(t, "Hel", term.Text())

	term.handleOutput("\x1b[99P")
	assert.Equal(t, "He", term.Text())
}

func TestInsertMode(t *testing.T) {
	term := newTestTerm(t, 5, 1)
	term.handleOutput("abc\x1b[1;1H")

	term.SetMode(ModeInsert, true)
	term.handleOutput("X")
	assert.Equal(t, "Xabc", term.Text())

	term.SetMode(ModeInsert, false)
	term.handleOutput("Y")
	assert.Equal(t, "XYbc", term.Text())
}

func TestEraseLine(t *testing.T) {
	term := newTestTerm(t, 5, 2)

	term.handleOutput("Hello")
	term.handleOutput("\x1b[1;3H\x1b[K")
	assert.Equal(t, "He", term.Text())

	term.handleOutput("\x1b[1;1HHello\x1b[1;3H\x1b[1K")
	assert.Equal(t, "   lo", term.Text())

	term.handleOutput("\x1b[2K")
	assert.Equal(t, "", term.Text())
	term.cursorAt(t, 2, 0)
}

func TestCursorMove(t *testing.T) {
	term := newTestTerm(t, 5, 2)

	term.handleOutput("Hello")
	term.cursorAt(t, 4, 0)

	term.handleOutput("\x1b[1;4H")
	term.cursorAt(t, 3, 0)

	term.handleOutput("\x1b[2D")
	term.cursorAt(t, 1, 0)

	term.handleOutput("\x1b[2C")
	term.cursorAt(t, 3, 0)

	term.handleOutput("\x1b[1B")
	term.cursorAt(t, 3, 1)

	term.handleOutput("\x1b[1A")
	term.cursorAt(t, 3, 0)

	term.handleOutput("\x1b[2G")
	term.cursorAt(t, 1, 0)

	term.handleOutput("\x1b[2d")
	term.cursorAt(t, 1, 1)

	term.handleOutput("\x1b[f")
	term.cursorAt(t, 0, 0)
}

func TestCursorMove_Overflow(t *testing.T) {
	term := newTestTerm(t, 2, 2)

	term.handleOutput("\x1b[2;2H")
	term.cursorAt(t, 1, 1)

	term.handleOutput("\x1b[2;3H")
	term.cursorAt(t, 1, 1)

	term.handleOutput("\x1b[5B")
	term.cursorAt(t, 1, 1)

	term.handleOutput("\x1b[9D")
	term.cursorAt(t, 0, 1)

	term.handleOutput("\x1b[99A")
	term.cursorAt(t, 0, 0)

	term.handleOutput("\x1b[2147483647;2147483647H")
	term.cursorAt(t, 1, 1)

	term.handleOutput("\x1b[99999999999C")
	term.cursorAt(t, 1, 1)
}

func TestCSI_ECH(t *testing.T) {
	term := newTestTerm(t, 5, 1)

	term.handleOutput("Hello\x1b[1;2H\x1b[2X")
	assert.Equal(t, "H  lo", term.Text())
	term.cursorAt(t, 1, 0)

	term.handleOutput("\x1b[1;1HHello\x1b[1;2H\x1b[0X")
	assert.Equal(t, "H llo", term.Text())

	term.handleOutput("\x1b[99X")
	assert.Equal(t, "H", term.Text())
}

func TestCSI_DL(t *testing.T) {
	term := newTestTerm(t, 3, 3)
	term.handleOutput("a\r\nb\r\nc")

	term.handleOutput("\x1b[1;1H\x1b[M")
	assert.Equal(t, "b\nc", term.Text())

	term.handleOutput("\x1b[2L")
	assert.Equal(t, "\n\nb", term.Text())

	term.handleOutput("\x1b[3;1H\x1b[5M")
	assert.Equal(t, "", term.Text())
}

func TestCSI_CNL_CPL(t *testing.T) {
	term := newTestTerm(t, 5, 5)

	term.handleOutput("\x1b[2;3H\x1b[2E")
	term.cursorAt(t, 0, 3)

	term.handleOutput("\x1b[1;3H\x1b[2;4H\x1b[F")
	term.cursorAt(t, 0, 0)

	term.handleOutput("\x1b[9E")
	term.cursorAt(t, 0, 4)
}

func TestCSI_HPR_VPR(t *testing.T) {
	term := newTestTerm(t, 5, 5)

	term.handleOutput("\x1b[1;1H\x1b[2a\x1b[3e")
	term.cursorAt(t, 2, 3)

	term.handleOutput("\x1b[a\x1b[e")
	term.cursorAt(t, 3, 4)
}

func TestCSI_SaveRestoreCursor(t *testing.T) {
	term := newTestTerm(t, 10, 5)

	term.handleOutput("\x1b[2;3H\x1b7\x1b[31m\x1b[5;5H\x1b8")
	term.cursorAt(t, 2, 1)
	assert.Equal(t, uint8(7), term.Cursor().Attr.FG)

	term.handleOutput("\x1b[1m\x1b[s\x1b[H\x1b[0m\x1b[u")
	term.cursorAt(t, 2, 1)
	assert.Equal(t, AttrBold, term.Cursor().Attr.Attrs)
}

func TestCSI_AltScreen(t *testing.T) {
	term := newTestTerm(t, 10, 3)
	term.handleOutput("main")

	term.handleOutput("\x1b[?1049h")
	assert.True(t, term.Mode().Has(ModeAltScreen))
	assert.Equal(t, "", term.Text())
	term.cursorAt(t, 4, 0)

	term.handleOutput("\x1b[2;1Halt")
	assert.Equal(t, "\nalt", term.Text())

	term.handleOutput("\x1b[?1049l")
	assert.False(t, term.Mode().Has(ModeAltScreen))
	assert.Equal(t, "main", term.Text())
	term.cursorAt(t, 4, 0)

	term.handleOutput("\x1b[?47h\x1b[?1047h")
	assert.False(t, term.Mode().Has(ModeAltScreen))
	assert.Equal(t, "main", term.Text())
}

func TestCSI_UnimplementedIgnored(t *testing.T) {
	term := newTestTerm(t, 10, 3)
	term.SetDebug(true)
	term.decoder.SetDebug(true)
	term.handleOutput("ab")
	before := term.Snapshot()

	term.handleOutput("\x1b[c\x1b[6n\x1b[1;2r\x1b[8;24;80t\x1b[?25l\x1b[?1000h\x1b[?1m")
	assert.Equal(t, before, term.Snapshot())
}

func TestDCS_TmuxPassthrough(t *testing.T) {
	term := newTestTerm(t, 10, 2)

	term.handleOutput("Hello")
	term.handleOutput("\x1bPtmux;WORLD\x1b\\")
	assert.Equal(t, "Hello", term.Text())
	assert.Equal(t, stateGround, term.decoder.state)
}

func TestDCS_ScreenPassthrough(t *testing.T) {
	term := newTestTerm(t, 10, 2)

	term.handleOutput("Hello")
	term.handleOutput("\x1bPscreen;WORLD\x9c!")
	assert.Equal(t, "Hello!", term.Text())
}

func TestHandleOutput_NewLineMode(t *testing.T) {
	tests := []struct {
		name                string
		newLineMode         bool
		input               string
		expectedCursorRow   int
		expectedCursorCol   int
		expectedContentText string
	}{
		{
			name:                "single line",
			input:               "hello",
			expectedCursorRow:   0,
			expectedCursorCol:   5,
			expectedContentText: "hello",
		},
		{
			name:                "Default - carriage return new line",
			input:               "hello\r\nworld",
			expectedCursorRow:   1,
			expectedCursorCol:   5,
			expectedContentText: "hello\nworld",
		},
		{
			name:                "Default - new line",
			input:               "hello\nworld",
			expectedCursorRow:   1,
			expectedCursorCol:   10,
			expectedContentText: "hello\n     world",
		},
		{
			name:                "New line mode",
			newLineMode:         true,
			input:               "hello\nworld",
			expectedCursorRow:   1,
			expectedCursorCol:   5,
			expectedContentText: "hello\nworld",
		},
		{
			name:                "LNM sequence ignored",
			input:               "\x1b[20hhello\nworld",
			expectedCursorRow:   1,
			expectedCursorCol:   10,
			expectedContentText: "hello\n     world",
		},
		{
			name:                "New line mode - lf vt ff",
			newLineMode:         true,
			input:               "hello\n\v\fworld",
			expectedCursorRow:   3,
			expectedCursorCol:   5,
			expectedContentText: "hello\n\n\nworld",
		},
		{
			name:                "Default new line mode - lf vt ff",
			input:               "hello\n\v\fworld",
			expectedCursorRow:   3,
			expectedCursorCol:   10,
			expectedContentText: "hello\n\n\n     world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := newTestTerm(t, 20, 5)
			term.SetMode(ModeCRLF, tt.newLineMode)

			term.handleOutput(tt.input)

			term.cursorAt(t, tt.expectedCursorCol, tt.expectedCursorRow)
			assert.Equal(t, tt.newLineMode, term.Mode().Has(ModeCRLF))
			assert.Equal(t, tt.expectedContentText, term.Text())
		})
	}
}

func TestSetModes_OnlyWrapAndAltScreen(t *testing.T) {
	term := newTestTerm(t, 5, 1)
	term.handleOutput("abc\x1b[4h\x1b[1;1HX")
	assert.Equal(t, "Xbc", term.Text())
	assert.Equal(t, defaultMode, term.Mode())

	term.handleOutput("\x1b[?47hZ")
	assert.Equal(t, "XZc", term.Text())
	assert.Equal(t, defaultMode, term.Mode())

	term.handleOutput("\x1b[20h\x1b[12h\x1b[12l\x1b[?1047h\x1b[?25l")
	assert.Equal(t, defaultMode, term.Mode())
	assert.Equal(t, "XZc", term.Text())
}

func TestSetModes_MultipleArgs(t *testing.T) {
	term := newTestTerm(t, 5, 1)
	term.handleOutput("\x1b[4;20;12h")
	assert.Equal(t, defaultMode, term.Mode())

	term.handleOutput("\x1b[?1;7;1049l")
	assert.Equal(t, ModeUTF8, term.Mode())

	term.handleOutput("\x1b[?47;7;1049h")
	assert.Equal(t, ModeWrap|ModeUTF8|ModeAltScreen, term.Mode())
}
