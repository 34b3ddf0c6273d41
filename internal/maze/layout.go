package maze

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

//go:embed layout.yaml
var defaultLayoutYAML []byte

// ErrInvalidLayout is returned for a level that cannot be played.
var ErrInvalidLayout = errors.New("maze: invalid layout")

// HoleKind names the two kinds of hole.
type HoleKind string

const (
	HoleBlack  HoleKind = "black"
	HoleFinish HoleKind = "finish"
)

// Category returns the body category of a hole kind, or 0 if unknown.
func (k HoleKind) Category() Category {
	switch k {
	case HoleBlack:
		return BlackHole
	case HoleFinish:
		return FinishHole
	default:
		return 0
	}
}

// Wall is a static segment.
type Wall struct {
	From      core.Vec2 `yaml:"from"`
	To        core.Vec2 `yaml:"to"`
	Thickness float64   `yaml:"thickness"`
}

// Hole is a static circular sensor.
type Hole struct {
	Kind   HoleKind  `yaml:"kind"`
	At     core.Vec2 `yaml:"at"`
	Radius float64   `yaml:"radius"`
}

// Layout describes the single level: the field, its walls and holes.
type Layout struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Walls  []Wall  `yaml:"walls"`
	Holes  []Hole  `yaml:"holes"`
}

// Center returns the field center, where the ball starts.
func (l *Layout) Center() core.Vec2 {
	return core.V(l.Width/2, l.Height/2)
}

// DefaultLayout returns the built-in level.
func DefaultLayout() *Layout {
	l, err := ParseLayout(defaultLayoutYAML)
	if err != nil {
		panic(fmt.Sprintf("maze: built-in layout: %v", err))
	}
	return l
}

// LoadLayout reads a level file. An empty path returns the built-in level.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("maze: read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes a level from YAML. It is not validated against a
// ball size; call Validate before building a world.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("maze: parse layout: %w", err)
	}
	return &l, nil
}

// Validate checks that the level is playable with a ball of the given radius.
func (l *Layout) Validate(ballRadius float64) error {
	if !(l.Width > 0) || !(l.Height > 0) {
		return fmt.Errorf("%w: field size %gx%g", ErrInvalidLayout, l.Width, l.Height)
	}
	center := l.Center()
	if 2*ballRadius >= math.Min(l.Width, l.Height) {
		return fmt.Errorf("%w: ball radius %g does not fit the field", ErrInvalidLayout, ballRadius)
	}

	finishes := 0
	for i, h := range l.Holes {
		if h.Kind.Category() == 0 {
			return fmt.Errorf("%w: hole %d has unknown kind %q", ErrInvalidLayout, i, h.Kind)
		}
		if h.Kind == HoleFinish {
			finishes++
		}
		if !(h.Radius > 0) {
			return fmt.Errorf("%w: hole %d has radius %g", ErrInvalidLayout, i, h.Radius)
		}
		if h.At.X-h.Radius < 0 || h.At.X+h.Radius > l.Width ||
			h.At.Y-h.Radius < 0 || h.At.Y+h.Radius > l.Height {
			return fmt.Errorf("%w: hole %d is outside the field", ErrInvalidLayout, i)
		}
		if h.At.Dist(center) <= h.Radius+ballRadius {
			return fmt.Errorf("%w: hole %d covers the start", ErrInvalidLayout, i)
		}
	}
	if finishes != 1 {
		return fmt.Errorf("%w: want exactly one finish hole, got %d", ErrInvalidLayout, finishes)
	}

	for i, w := range l.Walls {
		if !(w.Thickness > 0) {
			return fmt.Errorf("%w: wall %d has thickness %g", ErrInvalidLayout, i, w.Thickness)
		}
		if !l.inside(w.From) || !l.inside(w.To) {
			return fmt.Errorf("%w: wall %d is outside the field", ErrInvalidLayout, i)
		}
		if SegmentDist(center, w.From, w.To) <= w.Thickness/2+ballRadius {
			return fmt.Errorf("%w: wall %d blocks the start", ErrInvalidLayout, i)
		}
	}
	return nil
}

func (l *Layout) inside(p core.Vec2) bool {
	return p.X >= 0 && p.X <= l.Width && p.Y >= 0 && p.Y <= l.Height
}

// SegmentDist returns the distance from p to the segment a-b.
func SegmentDist(p, a, b core.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = core.ClampF(t, 0, 1)
	return p.Dist(a.Add(ab.Scale(t)))
}
