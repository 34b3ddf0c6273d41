package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/maze"
)

func TestDrawDialog(t *testing.T) {
	s := core.NewScreen(80, 24)
	drawDialog(s, maze.WonTitle, maze.WonText(2.37))

	out := s.String()
	for _, want := range []string{"You've won", "It took you 2.4 seconds", okButton} {
		if !strings.Contains(out, want) {
			t.Errorf("dialog is missing %q", want)
		}
	}
}

func TestDrawDialogTooSmall(t *testing.T) {
	s := core.NewScreen(10, 3)
	drawDialog(s, maze.WonTitle, maze.WonText(1))

	if strings.TrimSpace(s.String()) != "" {
		t.Errorf("dialog drawn on a screen too small for it: %q", s.String())
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColor(0, 0, "maze", core.ColorBrightGreen)
	s.DrawText(0, 1, "ball")

	out := RenderScreen(s)
	if !strings.Contains(out, "maze") || !strings.Contains(out, "ball") {
		t.Errorf("RenderScreen() = %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() should have 2 lines, got %q", out)
	}
}
