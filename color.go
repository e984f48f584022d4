package terminal

import "image/color"

var (
	colourBands = []uint8{
		0x00,
		0x5f,
		0x87,
		0xaf,
		0xd7,
		0xff,
	}
)

// DefaultPalette is the 16 colour table used when no other table is supplied:
// the eight base colours followed by their bright variants.
var DefaultPalette = []color.Color{
	&color.RGBA{0x1e, 0x1e, 0x1e, 0xff}, // Black
	&color.RGBA{0xf4, 0x47, 0x47, 0xff}, // Red
	&color.RGBA{0x60, 0x8b, 0x4e, 0xff}, // Green
	&color.RGBA{0xdc, 0xdc, 0xaa, 0xff}, // Yellow
	&color.RGBA{0x56, 0x9c, 0xd6, 0xff}, // Blue
	&color.RGBA{0xc5, 0x86, 0xc0, 0xff}, // Magenta
	&color.RGBA{0x4e, 0xc9, 0xb0, 0xff}, // Cyan
	&color.RGBA{0xd4, 0xd4, 0xd4, 0xff}, // White
	&color.RGBA{0x80, 0x80, 0x80, 0xff}, // Bright Black (Gray)
	&color.RGBA{0xf4, 0x47, 0x47, 0xff}, // Bright Red
	&color.RGBA{0x60, 0x8b, 0x4e, 0xff}, // Bright Green
	&color.RGBA{0xdc, 0xdc, 0xaa, 0xff}, // Bright Yellow
	&color.RGBA{0x56, 0x9c, 0xd6, 0xff}, // Bright Blue
	&color.RGBA{0xc5, 0x86, 0xc0, 0xff}, // Bright Magenta
	&color.RGBA{0x4e, 0xc9, 0xb0, 0xff}, // Bright Cyan
	&color.RGBA{0xff, 0xff, 0xff, 0xff}, // Bright White
}

// XtermPalette returns a 256 colour table: DefaultPalette, the 6x6x6 colour cube
// and a 24 step grey ramp.
func XtermPalette() []color.Color {
	p := make([]color.Color, 0, 256)
	p = append(p, DefaultPalette...)
	for id := 0; id < 216; id++ {
		b := id % 6
		g := (id / 6) % 6
		r := id / 36
		p = append(p, &color.RGBA{colourBands[r], colourBands[g], colourBands[b], 0xff})
	}
	for i := 0; i < 24; i++ {
		y := uint8(8 + 10*i)
		p = append(p, &color.RGBA{y, y, y, 0xff})
	}
	return p
}

// rgbTo256 quantises a true colour to the nearest entry of the 256 colour table.
// Greys go to the ramp, everything else to the colour cube.
func rgbTo256(r, g, b uint8) uint8 {
	if r == g && g == b {
		switch {
		case r < 8:
			return 16
		case r > 248:
			return 231
		default:
			return uint8(min(232+(int(r)-8)/10, 255))
		}
	}
	return 16 + 36*cubeLevel(r) + 6*cubeLevel(g) + cubeLevel(b)
}

// cubeLevel rounds a channel to one of the six cube levels.
func cubeLevel(c uint8) uint8 {
	return uint8((int(c)*5 + 127) / 255)
}

func resetRendition(a *Glyph) {
	a.FG, a.BG = defaultFG, defaultBG
	a.Attrs = 0
}

// selectGraphicRendition applies SGR arguments, left to right, to the cursor's pending glyph.
func selectGraphicRendition(s *Screen, c *csiEscape) {
	a := &s.cursor.Attr
	if c.nargs() == 0 {
		resetRendition(a)
		return
	}
	for i := 0; i < c.nargs(); i++ {
		mode := c.argAt(i, 0)
		switch {
		case mode == 0: // Reset - clear all formatting and colors
			resetRendition(a)
		case mode == 1:
			a.Attrs |= AttrBold
		case mode == 2:
			a.Attrs |= AttrFaint
		case mode == 3:
			a.Attrs |= AttrItalic
		case mode == 4:
			a.Attrs |= AttrUnderline
		case mode == 5, mode == 6:
			a.Attrs |= AttrBlink
		case mode == 7:
			a.Attrs |= AttrReverse
		case mode == 8:
			a.Attrs |= AttrInvisible
		case mode == 9:
			a.Attrs |= AttrStruck
		case mode == 22:
			a.Attrs &^= AttrBold | AttrFaint
		case mode == 23:
			a.Attrs &^= AttrItalic
		case mode == 24:
			a.Attrs &^= AttrUnderline
		case mode == 25, mode == 26:
			a.Attrs &^= AttrBlink
		case mode == 27:
			a.Attrs &^= AttrReverse
		case mode == 28:
			a.Attrs &^= AttrInvisible
		case mode == 29:
			a.Attrs &^= AttrStruck
		case mode >= 30 && mode <= 37:
			a.FG = uint8(mode - 30)
		case mode == 38, mode == 48:
			idx, used, ok := extendedColor(s, c, i)
			i += used
			if !ok {
				continue
			}
			if mode == 38 {
				a.FG = idx
			} else {
				a.BG = idx
			}
		case mode == 39:
			a.FG = defaultFG
		case mode >= 40 && mode <= 47:
			a.BG = uint8(mode - 40)
		case mode == 49:
			a.BG = defaultBG
		case mode >= 90 && mode <= 97:
			a.FG = uint8(mode - 90 + 8)
		case mode >= 100 && mode <= 107:
			a.BG = uint8(mode - 100 + 8)
		default:
			s.logUnimplemented("graphics mode", mode)
		}
	}
}

// extendedColor decodes the 38/48 forms starting at argument i: "5;n" selects a table
// index and "2;r;g;b" a true colour, which is quantised. It returns the index and how
// many arguments after i were consumed; a truncated form consumes the rest of the list.
func extendedColor(s *Screen, c *csiEscape, i int) (idx uint8, used int, ok bool) {
	switch c.argAt(i+1, -1) {
	case 5:
		if i+2 >= c.nargs() {
			s.logUnimplemented("colour map, missing index")
			return 0, c.nargs() - i - 1, false
		}
		id := c.argAt(i+2, 0)
		if id < 0 || id > 255 {
			s.logUnimplemented("colour map ID", id)
			return 0, 2, false
		}
		return uint8(id), 2, true
	case 2:
		if i+4 >= c.nargs() {
			s.logUnimplemented("RGB colour, missing components")
			return 0, c.nargs() - i - 1, false
		}
		r, g, b := c.argAt(i+2, 0), c.argAt(i+3, 0), c.argAt(i+4, 0)
		if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
			s.logUnimplemented("RGB colour", r, g, b)
			return 0, 4, false
		}
		return rgbTo256(uint8(r), uint8(g), uint8(b)), 4, true
	default:
		s.logUnimplemented("extended colour selector", c.argAt(i+1, -1))
		return 0, 0, false
	}
}
