package tui

import (
	"unicode/utf8"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

const okButton = "[ OK ]"

// drawDialog draws a centered modal box with a title, one line of text,
// and an OK button. Does nothing if the screen is too small.
func drawDialog(s *core.Screen, title, message string) {
	w := max(utf8.RuneCountInString(title), utf8.RuneCountInString(message), len(okButton)) + 6
	h := 7
	if w > s.Width() || h > s.Height() {
		return
	}
	box := core.NewRect((s.Width()-w)/2, (s.Height()-h)/2, w, h)

	s.DrawRect(box, ' ', core.ColorDefault)
	s.DrawBox(box, core.ColorBrightGreen)

	center := func(y int, text string, c core.Color) {
		x := box.X + (box.W-utf8.RuneCountInString(text))/2
		s.DrawTextColor(x, y, text, c)
	}
	center(box.Y+1, title, core.ColorBrightGreen)
	center(box.Y+3, message, core.ColorBrightWhite)
	center(box.Y+5, okButton, core.ColorYellow)
}
