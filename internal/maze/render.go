package maze

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

// Dialog text shown when the finish hole is reached.
const (
	WonTitle   = "You've won"
	WonMessage = "It took you %.1f seconds"
)

// WonText formats WonMessage for an elapsed time.
func WonText(elapsed float64) string {
	return fmt.Sprintf(WonMessage, elapsed)
}

// Glyphs for the play field.
const (
	WallChar   = '█'
	HoleChar   = '●'
	FinishChar = '◎'
	BallChar   = 'O'
	FloorChar  = ' '
)

// FieldView maps world coordinates onto screen cells.
// A cell is twice as tall as it is wide, so one row covers 2*unit world units.
type FieldView struct {
	Rect core.Rect // drawn area including the border
	unit float64   // world units per column
	h    float64   // field height in world units
}

// NewFieldView fits a field of w x h world units into area, keeping the
// aspect ratio and leaving room for a one-cell border.
func NewFieldView(area core.Rect, w, h float64) FieldView {
	cols, rows := area.W-2, area.H-2
	if cols < 1 || rows < 1 || w <= 0 || h <= 0 {
		return FieldView{}
	}
	unit := math.Max(w/float64(cols), h/(2*float64(rows)))
	fc := int(math.Ceil(w / unit))
	fr := int(math.Ceil(h / (2 * unit)))
	fc, fr = min(fc, cols), min(fr, rows)
	x := area.X + (area.W-fc-2)/2
	y := area.Y + (area.H-fr-2)/2
	return FieldView{Rect: core.NewRect(x, y, fc+2, fr+2), unit: unit, h: h}
}

// Empty reports whether there is no room to draw.
func (v FieldView) Empty() bool {
	return v.unit == 0
}

// World returns the world point at the center of an inner cell.
func (v FieldView) World(col, row int) core.Vec2 {
	return core.V((float64(col)+0.5)*v.unit, v.h-(float64(row)+0.5)*2*v.unit)
}

// Cell returns the inner cell containing a world point.
func (v FieldView) Cell(p core.Vec2) (int, int) {
	col := int(math.Floor(p.X / v.unit))
	row := int(math.Floor((v.h - p.Y) / (2 * v.unit)))
	return col, row
}

// Render draws the HUD on the top row and the field below it.
func Render(screen *core.Screen, snap Snapshot) {
	screen.Clear()
	drawHUD(screen, snap)

	if screen.Height() < 3 || snap.Layout == nil {
		return
	}
	area := core.NewRect(0, 1, screen.Width(), screen.Height()-1)
	view := NewFieldView(area, snap.Layout.Width, snap.Layout.Height)
	if view.Empty() {
		return
	}
	drawField(screen, view, snap)
}

func drawHUD(screen *core.Screen, snap Snapshot) {
	hud := fmt.Sprintf(" TILT MAZE  time %5.1fs", snap.Elapsed)
	screen.DrawTextColor(0, 0, hud, core.ColorBrightWhite)

	tilt := "no sensor"
	c := core.ColorGray
	if snap.HasSample {
		tilt = fmt.Sprintf("tilt %+.2f %+.2f", snap.Gravity.X, snap.Gravity.Y)
		c = core.ColorCyan
	}
	if x := screen.Width() - len(tilt) - 1; x > len(hud) {
		screen.DrawTextColor(x, 0, tilt, c)
	}
}

func drawField(screen *core.Screen, view FieldView, snap Snapshot) {
	screen.DrawBox(view.Rect, core.ColorGray)
	inner := core.NewRect(view.Rect.X+1, view.Rect.Y+1, view.Rect.W-2, view.Rect.H-2)
	l := snap.Layout
	half := view.unit / 2

	for row := 0; row < inner.H; row++ {
		for col := 0; col < inner.W; col++ {
			p := view.World(col, row)
			r, c := cellGlyph(l, p, half)
			if r != FloorChar {
				screen.SetColor(inner.X+col, inner.Y+row, r, c)
			}
		}
	}

	// The center cell is always drawn so a ball smaller than a cell stays visible.
	col, row := view.Cell(snap.Ball)
	reach := int(math.Ceil(snap.Radius/view.unit)) + 1
	for r := row - reach; r <= row+reach; r++ {
		for c := col - reach; c <= col+reach; c++ {
			if !inner.Contains(inner.X+c, inner.Y+r) {
				continue
			}
			if (r == row && c == col) || view.World(c, r).Dist(snap.Ball) <= snap.Radius {
				screen.SetColor(inner.X+c, inner.Y+r, BallChar, core.ColorBrightWhite)
			}
		}
	}
}

// cellGlyph picks what covers world point p; half is half a column width,
// used so thin walls still show up.
func cellGlyph(l *Layout, p core.Vec2, half float64) (rune, core.Color) {
	for _, h := range l.Holes {
		if p.Dist(h.At) <= math.Max(h.Radius, half) {
			if h.Kind == HoleFinish {
				return FinishChar, core.ColorBrightGreen
			}
			return HoleChar, core.ColorRed
		}
	}
	for _, w := range l.Walls {
		if SegmentDist(p, w.From, w.To) <= math.Max(w.Thickness/2, half) {
			return WallChar, core.ColorGray
		}
	}
	return FloorChar, core.ColorDefault
}
