// Package tcellview draws terminal snapshots onto a tcell screen.
package tcellview

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/codelaboratoryltd/terminal"
)

// View mirrors snapshots onto a tcell.Screen, redrawing only dirty rows
// unless the size changed.
type View struct {
	screen  tcell.Screen
	palette []color.Color

	cols, rows int
}

// New returns a view drawing into screen. With a nil palette colour indices are passed
// through to the host terminal's own palette; otherwise they are resolved to RGB.
func New(screen tcell.Screen, palette []color.Color) *View {
	return &View{screen: screen, palette: palette}
}

// Draw paints snap and shows the result.
func (v *View) Draw(snap terminal.Snapshot) {
	rows := snap.Dirty
	if snap.Columns != v.cols || snap.Rows != v.rows {
		v.cols, v.rows = snap.Columns, snap.Rows
		v.screen.Clear()
		rows = make([]int, snap.Rows)
		for y := range rows {
			rows[y] = y
		}
	}

	for _, y := range rows {
		for x, g := range snap.Row(y) {
			if g.IsSpacer() {
				continue
			}
			v.screen.SetContent(x, y, g.Char(), nil, v.style(g))
		}
	}

	v.screen.ShowCursor(snap.Cursor.X, snap.Cursor.Y)
	v.screen.Show()
}

func (v *View) style(g terminal.Glyph) tcell.Style {
	fg, bg := v.colors(g)
	return tcell.StyleDefault.
		Foreground(fg).
		Background(bg).
		Bold(g.Attrs&terminal.AttrBold != 0).
		Dim(g.Attrs&terminal.AttrFaint != 0).
		Italic(g.Attrs&terminal.AttrItalic != 0).
		Underline(g.Attrs&terminal.AttrUnderline != 0).
		Blink(g.Attrs&terminal.AttrBlink != 0).
		StrikeThrough(g.Attrs&terminal.AttrStruck != 0)
}

func (v *View) colors(g terminal.Glyph) (fg, bg tcell.Color) {
	if v.palette == nil {
		fi, bi := terminal.ResolveIndices(g)
		return tcell.PaletteColor(int(fi)), tcell.PaletteColor(int(bi))
	}
	fc, bc := terminal.Resolve(g, v.palette)
	return rgb(fc), rgb(bc)
}

func rgb(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
