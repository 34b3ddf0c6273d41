package maze

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

func TestWonText(t *testing.T) {
	tests := []struct {
		elapsed float64
		want    string
	}{
		{0, "It took you 0.0 seconds"},
		{1.5, "It took you 1.5 seconds"},
		{2.37, "It took you 2.4 seconds"},
	}
	for _, tt := range tests {
		if got := WonText(tt.elapsed); got != tt.want {
			t.Errorf("WonText(%v) = %q, expected %q", tt.elapsed, got, tt.want)
		}
	}
}

func TestFieldViewRoundTrip(t *testing.T) {
	view := NewFieldView(core.NewRect(0, 1, 80, 22), 640, 360)
	if view.Empty() {
		t.Fatal("view is empty")
	}
	if view.Rect.W > 80 || view.Rect.H > 22 {
		t.Errorf("view %v does not fit the area", view.Rect)
	}

	col, row := view.Cell(core.V(320, 180))
	p := view.World(col, row)
	if p.Dist(core.V(320, 180)) > 2*view.unit {
		t.Errorf("cell (%d, %d) maps back to %v, too far from center", col, row, p)
	}

	// y grows up in the world and down on screen.
	_, top := view.Cell(core.V(0, 350))
	_, bottom := view.Cell(core.V(0, 10))
	if top >= bottom {
		t.Errorf("top row %d should be above bottom row %d", top, bottom)
	}
}

func TestFieldViewTooSmall(t *testing.T) {
	if v := NewFieldView(core.NewRect(0, 0, 2, 2), 640, 360); !v.Empty() {
		t.Errorf("expected empty view, got %+v", v)
	}
}

func TestRender(t *testing.T) {
	screen := core.NewScreen(80, 24)
	l := DefaultLayout()
	snap := Snapshot{
		Elapsed:   1.5,
		Ball:      l.Center(),
		Radius:    10,
		Gravity:   core.Gravity{X: 0.2},
		HasSample: true,
		Layout:    l,
	}

	Render(screen, snap)
	out := screen.String()

	if !strings.Contains(screen.Row(0), "1.5s") {
		t.Errorf("HUD %q does not show elapsed time", screen.Row(0))
	}
	if !strings.Contains(screen.Row(0), "+0.20") {
		t.Errorf("HUD %q does not show tilt", screen.Row(0))
	}
	for _, r := range []rune{BallChar, HoleChar, FinishChar, WallChar} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("render is missing %q", r)
		}
	}
}

func TestRenderNoSensor(t *testing.T) {
	screen := core.NewScreen(80, 24)
	Render(screen, Snapshot{Layout: DefaultLayout(), Radius: 10, Ball: core.V(320, 180)})
	if !strings.Contains(screen.Row(0), "no sensor") {
		t.Errorf("HUD %q should say no sensor", screen.Row(0))
	}
}
