package widget

import (
	"context"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/codelaboratoryltd/terminal"
)

const blinkingInterval = 500 * time.Millisecond

// TermGrid is a monospaced grid of characters showing terminal snapshots.
type TermGrid struct {
	widget.TextGrid

	palette       []color.Color
	cols          int
	cursor        terminal.Cursor
	cursorVisible bool

	tickerCancel context.CancelFunc
	blinkOff     bool
}

// TermGridRenderer draws the text grid plus strike-through lines and the cursor.
type TermGridRenderer struct {
	grid         *TermGrid
	baseRenderer fyne.WidgetRenderer
	overlays     []fyne.CanvasObject
}

// CreateRenderer is a private method to Fyne which links this widget to it's renderer
func (t *TermGrid) CreateRenderer() fyne.WidgetRenderer {
	t.ExtendBaseWidget(t)

	return &TermGridRenderer{
		grid:         t,
		baseRenderer: t.TextGrid.CreateRenderer(),
	}
}

// Layout implements the WidgetRenderer interface
func (r *TermGridRenderer) Layout(size fyne.Size) {
	r.baseRenderer.Layout(size)
	r.updateOverlays(size)
}

// MinSize implements the WidgetRenderer interface
func (r *TermGridRenderer) MinSize() fyne.Size {
	return r.baseRenderer.MinSize()
}

// Refresh implements the WidgetRenderer interface
func (r *TermGridRenderer) Refresh() {
	r.baseRenderer.Refresh()
	r.updateOverlays(r.grid.Size())
}

// Objects implements the WidgetRenderer interface
func (r *TermGridRenderer) Objects() []fyne.CanvasObject {
	base := r.baseRenderer.Objects()
	objects := make([]fyne.CanvasObject, 0, len(base)+len(r.overlays))
	objects = append(objects, base...)
	return append(objects, r.overlays...)
}

// Destroy implements the WidgetRenderer interface
func (r *TermGridRenderer) Destroy() {
	r.baseRenderer.Destroy()
	r.overlays = nil
}

func (r *TermGridRenderer) updateOverlays(size fyne.Size) {
	r.overlays = r.overlays[:0]

	rows, cols := len(r.grid.Rows), r.grid.cols
	if rows == 0 || cols == 0 {
		return
	}
	cellWidth := size.Width / float32(cols)
	cellHeight := size.Height / float32(rows)

	for y, row := range r.grid.Rows {
		for x, cell := range row.Cells {
			s, ok := cell.Style.(*TermTextGridStyle)
			if !ok || !s.Struck {
				continue
			}
			line := canvas.NewRectangle(s.TextColor())
			line.Move(fyne.NewPos(float32(x)*cellWidth, float32(y)*cellHeight+cellHeight*0.5))
			line.Resize(fyne.NewSize(cellWidth, cellHeight*0.08))
			r.overlays = append(r.overlays, line)
		}
	}

	if !r.grid.cursorVisible {
		return
	}
	c := r.grid.cursor
	cursor := canvas.NewRectangle(color.Transparent)
	cursor.StrokeColor = theme.Color(theme.ColorNamePrimary)
	cursor.StrokeWidth = 1
	cursor.Move(fyne.NewPos(float32(c.X)*cellWidth, float32(c.Y)*cellHeight))
	cursor.Resize(fyne.NewSize(cellWidth, cellHeight))
	r.overlays = append(r.overlays, cursor)
}

// NewTermGrid creates an empty grid that resolves colours with palette.
// A nil palette uses ThemePalette of the current theme.
func NewTermGrid(palette []color.Color) *TermGrid {
	if palette == nil {
		palette = ThemePalette(nil)
	}
	grid := &TermGrid{palette: palette, cursorVisible: true}
	grid.ExtendBaseWidget(grid)

	grid.Scroll = container.ScrollNone
	return grid
}

// SetCursorVisible shows or hides the cursor box. Cursor blinking belongs to the caller.
func (t *TermGrid) SetCursorVisible(visible bool) {
	t.cursorVisible = visible
	t.Refresh()
}

// Apply copies the dirty rows of snap into the grid, or every row when the size changed.
// It must be called on the fyne goroutine; Listen does that for a Session.
func (t *TermGrid) Apply(snap terminal.Snapshot) {
	dirty := snap.Dirty
	if len(t.Rows) != snap.Rows || t.cols != snap.Columns {
		t.Rows = make([]widget.TextGridRow, snap.Rows)
		t.cols = snap.Columns
		dirty = make([]int, snap.Rows)
		for y := range dirty {
			dirty[y] = y
		}
	}
	for _, y := range dirty {
		if y < 0 || y >= len(t.Rows) {
			continue
		}
		t.Rows[y] = t.buildRow(snap.Row(y))
	}
	t.cursor = snap.Cursor
	t.Refresh()
}

func (t *TermGrid) buildRow(glyphs []terminal.Glyph) widget.TextGridRow {
	cells := make([]widget.TextGridCell, len(glyphs))
	for x, g := range glyphs {
		style := NewTermTextGridStyle(g, t.palette)
		style.blink(t.blinkOff)
		cells[x] = widget.TextGridCell{Rune: g.Char(), Style: style}
	}
	return widget.TextGridRow{Cells: cells}
}

// Listen applies every snapshot received on ch until it is closed or ctx is done.
func (t *TermGrid) Listen(ctx context.Context, ch <-chan terminal.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			fyne.Do(func() {
				t.Apply(snap)
			})
		}
	}
}

// Refresh will be called when this grid should update.
// We update our blinking status and then call the TextGrid we extended to refresh too.
func (t *TermGrid) Refresh() {
	if t.Rows == nil {
		return
	}
	t.refreshBlink(t.blinkOff)
}

func (t *TermGrid) refreshBlink(off bool) {
	t.blinkOff = off
	shouldBlink := false

	for _, row := range t.Rows {
		for _, r := range row.Cells {
			if s, ok := r.Style.(*TermTextGridStyle); ok && s != nil && s.BlinkEnabled {
				shouldBlink = true

				s.blink(off)
			}
		}
	}

	t.TextGrid.Refresh()

	switch {
	case shouldBlink && t.tickerCancel == nil:
		t.runBlink()
	case !shouldBlink && t.tickerCancel != nil:
		t.StopBlink()
	}
}

// StopBlink stops any active blinking animation
func (t *TermGrid) StopBlink() {
	if t.tickerCancel != nil {
		t.tickerCancel()
		t.tickerCancel = nil
	}
}

func (t *TermGrid) runBlink() {
	t.StopBlink()
	var tickerContext context.Context
	tickerContext, t.tickerCancel = context.WithCancel(context.Background())
	ticker := time.NewTicker(blinkingInterval)
	off := t.blinkOff
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-tickerContext.Done():
				return
			case <-ticker.C:
				off = !off
				blinkOff := off
				fyne.Do(func() {
					t.refreshBlink(blinkOff)
				})
			}
		}
	}()
}
