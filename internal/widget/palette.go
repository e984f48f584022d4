package widget

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/codelaboratoryltd/terminal"
)

var ansiColorNames = []fyne.ThemeColorName{
	"ansiBlack", "ansiRed", "ansiGreen", "ansiYellow",
	"ansiBlue", "ansiMagenta", "ansiCyan", "ansiWhite",
	"ansiBrightBlack", "ansiBrightRed", "ansiBrightGreen", "ansiBrightYellow",
	"ansiBrightBlue", "ansiBrightMagenta", "ansiBrightCyan", "ansiBrightWhite",
}

// ThemePalette returns the 256 colour xterm table with the first 16 entries taken from th
// where it defines the ansi colour names. A nil theme uses the current application theme.
func ThemePalette(th fyne.Theme) []color.Color {
	p := terminal.XtermPalette()
	for i, name := range ansiColorNames {
		var c color.Color
		if th != nil {
			c = th.Color(name, theme.VariantDark)
		} else {
			c = theme.Color(name)
		}
		// Fall back to the built in colours if the theme doesn't support ANSI colors
		if c != nil && c != color.Transparent {
			p[i] = c
		}
	}
	return p
}
