package tcellview

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelaboratoryltd/terminal"
)

func newSimulationScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

func feed(t *testing.T, cols, rows int, input string) *terminal.Screen {
	s, err := terminal.NewScreen(cols, rows)
	require.NoError(t, err)
	terminal.NewDecoder().Feed(s, []byte(input))
	return s
}

func readLine(screen tcell.Screen, y, width int) string {
	runes := make([]rune, width)
	for x := 0; x < width; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		if ch == 0 {
			ch = ' '
		}
		runes[x] = ch
	}
	return string(runes)
}

func TestView_Draw(t *testing.T) {
	screen := newSimulationScreen(t, 8, 2)
	s := feed(t, 8, 2, "hello\r\n\x1b[1;4;32mok")

	New(screen, nil).Draw(s.Snapshot())

	assert.Equal(t, "hello   ", readLine(screen, 0, 8))
	assert.Equal(t, "ok      ", readLine(screen, 1, 8))

	_, _, style, _ := screen.GetContent(0, 1)
	fg, _, attrs := style.Decompose()
	// bold lifts green to bright green
	assert.Equal(t, tcell.PaletteColor(10), fg)
	assert.NotZero(t, attrs&tcell.AttrBold)
	assert.NotZero(t, attrs&tcell.AttrUnderline)

	x, y, visible := screen.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
}

func TestView_DrawPalette(t *testing.T) {
	screen := newSimulationScreen(t, 4, 1)
	s := feed(t, 4, 1, "\x1b[31;44mx")

	New(screen, terminal.DefaultPalette).Draw(s.Snapshot())

	_, _, style, _ := screen.GetContent(0, 0)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0xf4, 0x47, 0x47), fg)
	assert.Equal(t, tcell.NewRGBColor(0x56, 0x9c, 0xd6), bg)
}

func TestView_DrawOnlyDirtyRows(t *testing.T) {
	screen := newSimulationScreen(t, 4, 2)
	s := feed(t, 4, 2, "ab\r\ncd")
	v := New(screen, nil)
	v.Draw(s.Snapshot())
	s.ClearDirty()

	screen.SetContent(0, 0, 'Z', nil, tcell.StyleDefault)
	terminal.NewDecoder().Feed(s, []byte("e"))
	snap := s.Snapshot()
	assert.Equal(t, []int{1}, snap.Dirty)
	v.Draw(snap)

	assert.Equal(t, "Zb  ", readLine(screen, 0, 4))
	assert.Equal(t, "cde ", readLine(screen, 1, 4))
}
