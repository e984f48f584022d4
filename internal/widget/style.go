package widget

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/codelaboratoryltd/terminal"
)

// TermTextGridStyle is the TextGrid style of one terminal cell.
// It implements widget.TextGridStyle.
type TermTextGridStyle struct {
	FGColor, BGColor color.Color
	TextStyle        fyne.TextStyle
	BlinkEnabled     bool
	Struck           bool

	blinkOff bool
}

var _ widget.TextGridStyle = (*TermTextGridStyle)(nil)

// NewTermTextGridStyle resolves g against palette and maps its attributes onto a text style.
func NewTermTextGridStyle(g terminal.Glyph, palette []color.Color) *TermTextGridStyle {
	fg, bg := terminal.Resolve(g, palette)
	if g.Attrs&terminal.AttrFaint != 0 {
		fg = faint(fg)
	}
	return &TermTextGridStyle{
		FGColor: fg,
		BGColor: bg,
		TextStyle: fyne.TextStyle{
			Bold:      g.Attrs&terminal.AttrBold != 0,
			Italic:    g.Attrs&terminal.AttrItalic != 0,
			Underline: g.Attrs&terminal.AttrUnderline != 0,
			Monospace: true,
		},
		BlinkEnabled: g.Attrs&terminal.AttrBlink != 0,
		Struck:       g.Attrs&terminal.AttrStruck != 0,
	}
}

// Style is the text style of the cell.
func (s *TermTextGridStyle) Style() fyne.TextStyle {
	return s.TextStyle
}

// TextColor is the foreground colour, or the background while a blinking cell is off.
func (s *TermTextGridStyle) TextColor() color.Color {
	if s.BlinkEnabled && s.blinkOff {
		return s.BGColor
	}
	return s.FGColor
}

// BackgroundColor is the cell background.
func (s *TermTextGridStyle) BackgroundColor() color.Color {
	return s.BGColor
}

func (s *TermTextGridStyle) blink(off bool) {
	s.blinkOff = off
}

// faint halves the intensity of c.
func faint(c color.Color) color.Color {
	r, g, b, a := c.RGBA()
	return color.NRGBA{R: uint8(r >> 9), G: uint8(g >> 9), B: uint8(b >> 9), A: uint8(a >> 8)}
}
