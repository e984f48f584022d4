package main

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// VGA style values for the ansi colour names looked up by widget.ThemePalette.
var ansiColors = map[fyne.ThemeColorName]color.NRGBA{
	"ansiBlack":   {0, 0, 0, 255},
	"ansiRed":     {170, 0, 0, 255},
	"ansiGreen":   {0, 170, 0, 255},
	"ansiYellow":  {170, 170, 0, 255},
	"ansiBlue":    {0, 0, 170, 255},
	"ansiMagenta": {170, 0, 170, 255},
	"ansiCyan":    {0, 170, 170, 255},
	"ansiWhite":   {170, 170, 170, 255},

	"ansiBrightBlack":   {85, 85, 85, 255},
	"ansiBrightRed":     {255, 85, 85, 255},
	"ansiBrightGreen":   {85, 255, 85, 255},
	"ansiBrightYellow":  {255, 255, 85, 255},
	"ansiBrightBlue":    {85, 85, 255, 255},
	"ansiBrightMagenta": {255, 85, 255, 255},
	"ansiBrightCyan":    {85, 255, 255, 255},
	"ansiBrightWhite":   {255, 255, 255, 255},
}

type termTheme struct {
	fyne.Theme

	fontSize   float32
	brightness float32
	contrast   float32
}

func newTermTheme(brightness, contrast float32) *termTheme {
	return &termTheme{
		Theme:      theme.DefaultTheme(),
		fontSize:   12,
		brightness: brightness,
		contrast:   contrast,
	}
}

// applyBrightnessContrast adjusts a color with brightness and contrast
func (t *termTheme) applyBrightnessContrast(c color.NRGBA) color.Color {
	adjust := func(v uint8) uint8 {
		f := float64(v) / 255
		f += float64(t.brightness - 1.0)
		f = (f-0.5)*float64(t.contrast) + 0.5
		return uint8(math.Max(0, math.Min(1, f)) * 255)
	}
	return color.NRGBA{R: adjust(c.R), G: adjust(c.G), B: adjust(c.B), A: c.A}
}

// Color provides the ansi colours and forces the dark variant for everything else.
func (t *termTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if c, ok := ansiColors[n]; ok {
		return t.applyBrightnessContrast(c)
	}
	switch n {
	case theme.ColorNameBackground, theme.ColorNameForeground:
		return t.Theme.Color(n, v)
	}
	return t.Theme.Color(n, theme.VariantDark)
}

func (t *termTheme) Size(n fyne.ThemeSizeName) float32 {
	if n == theme.SizeNameText {
		return t.fontSize
	}

	return t.Theme.Size(n)
}
