package maze

import "strings"

// Category is a bit flag naming what a physics body is.
// Masks are unions of categories.
type Category uint32

// Body categories.
const (
	Ball       Category = 1 << 0
	BlackHole  Category = 1 << 1
	FinishHole Category = 1 << 2
)

// BallContactMask lists the categories whose contact with the ball is reported.
const BallContactMask = BlackHole | FinishHole

// Has reports whether every bit of o is set in c.
func (c Category) Has(o Category) bool {
	return o != 0 && c&o == o
}

// Split returns the single categories set in c, lowest bit first.
func (c Category) Split() []Category {
	var out []Category
	for bit := Category(1); bit != 0 && bit <= c; bit <<= 1 {
		if c&bit != 0 {
			out = append(out, bit)
		}
	}
	return out
}

func (c Category) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		cat  Category
		name string
	}{{Ball, "ball"}, {BlackHole, "black-hole"}, {FinishHole, "finish-hole"}} {
		if c.Has(n.cat) {
			parts = append(parts, n.name)
		}
	}
	if rest := c &^ (Ball | BlackHole | FinishHole); rest != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

// Outcome is what a contact means for the game.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeFell
	OutcomeFinished
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFell:
		return "fell"
	case OutcomeFinished:
		return "finished"
	default:
		return "none"
	}
}

// precedence is checked top to bottom; the first category present wins.
// A ball touching a black hole and the finish in the same step falls.
var precedence = []struct {
	cat     Category
	outcome Outcome
}{
	{BlackHole, OutcomeFell},
	{FinishHole, OutcomeFinished},
}

// Resolve maps a contacted category mask to its outcome.
func Resolve(mask Category) Outcome {
	for _, p := range precedence {
		if mask.Has(p.cat) {
			return p.outcome
		}
	}
	return OutcomeNone
}
