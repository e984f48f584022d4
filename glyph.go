package terminal

import (
	"image/color"
	"strings"
)

// Attr is the 8 bit set of rendition flags carried by every Glyph.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrInvisible
	AttrStruck
)

const (
	defaultFG = 7
	defaultBG = 0

	// GlyphSize is the in-memory and serialised size of a Glyph in bytes.
	GlyphSize = 8

	// wideSpacer is stored in the cell to the right of a double width rune.
	wideSpacer = 0
)

var attrNames = []string{"bold", "faint", "italic", "underline", "blink", "reverse", "invisible", "struck"}

// String returns a human-readable representation of the attribute flags.
func (a Attr) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	for i, name := range attrNames {
		if a&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// Glyph is the complete render state of a single cell.
// Layout: [rune: 4 bytes][fg: 1 byte][bg: 1 byte][attrs: 1 byte][pad: 1 byte]
type Glyph struct {
	Rune  uint32
	FG    uint8
	BG    uint8
	Attrs Attr
	_     uint8
}

// DefaultGlyph returns a blank cell: space, fg 7, bg 0, no attributes.
func DefaultGlyph() Glyph {
	return Glyph{Rune: ' ', FG: defaultFG, BG: defaultBG}
}

// Char returns the rune stored in the glyph, or a space for spacer and invalid cells.
func (g Glyph) Char() rune {
	r := rune(g.Rune)
	if r == wideSpacer || r > 0x10ffff || (r >= 0xd800 && r <= 0xdfff) {
		return ' '
	}
	return r
}

// IsSpacer reports whether this cell is the right half of a double width rune.
func (g Glyph) IsSpacer() bool {
	return g.Rune == wideSpacer
}

// ResolveIndices computes the display foreground and background colour indices for g.
// Reverse video swaps the pair, bold lifts a base foreground to its bright variant and
// invisible text is painted in the background colour.
func ResolveIndices(g Glyph) (fg, bg uint8) {
	fg, bg = g.FG, g.BG
	if g.Attrs&AttrReverse != 0 {
		fg, bg = bg, fg
	}
	if g.Attrs&AttrBold != 0 && fg < 8 {
		fg += 8
	}
	if g.Attrs&AttrInvisible != 0 {
		fg = bg
	}
	return fg, bg
}

// Resolve maps a glyph onto the supplied colour table.
// The table is normally DefaultPalette (16 entries) or XtermPalette() (256 entries).
func Resolve(g Glyph, table []color.Color) (fg, bg color.Color) {
	fi, bi := ResolveIndices(g)
	return lookupColor(table, fi, color.White), lookupColor(table, bi, color.Black)
}

func lookupColor(table []color.Color, idx uint8, fallback color.Color) color.Color {
	switch n := len(table); {
	case n == 0:
		return fallback
	case int(idx) < n:
		return table[idx]
	case n == 16:
		return table[idx&0x0f]
	default:
		return table[int(idx)%n]
	}
}
