package motion

import (
	"context"
	"time"

	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/registry"
)

// Keyboard defaults.
const (
	DefaultTilt = 0.2
	DefaultHold = 150 * time.Millisecond
)

// Keyboard simulates tilting the board with the arrow keys.
// A tilt key pushes its axis to +/-tilt; the axis relaxes to level once
// hold has passed without the key repeating.
type Keyboard struct {
	tilt    float64
	hold    time.Duration
	now     func() time.Time
	x, y    axis
	touched bool
	active  bool
}

type axis struct {
	value float64
	at    time.Time
}

// NewKeyboard creates a keyboard source.
func NewKeyboard(tilt float64, hold time.Duration) *Keyboard {
	if tilt <= 0 || tilt > 1 {
		tilt = DefaultTilt
	}
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{tilt: tilt, hold: hold, now: time.Now}
}

// Name implements registry.Source.
func (k *Keyboard) Name() string { return "keyboard" }

// Start implements registry.Source.
func (k *Keyboard) Start(_ context.Context) error {
	k.active = true
	k.touched = false
	k.x, k.y = axis{}, axis{}
	return nil
}

// Stop implements registry.Source.
func (k *Keyboard) Stop() error {
	k.active = false
	return nil
}

// Apply feeds one key action into the simulated tilt.
func (k *Keyboard) Apply(a core.Action) {
	if !k.active {
		return
	}
	now := k.now()
	switch a {
	case core.ActionTiltUp:
		k.y = axis{value: k.tilt, at: now}
	case core.ActionTiltDown:
		k.y = axis{value: -k.tilt, at: now}
	case core.ActionTiltLeft:
		k.x = axis{value: -k.tilt, at: now}
	case core.ActionTiltRight:
		k.x = axis{value: k.tilt, at: now}
	case core.ActionLevel:
		k.x, k.y = axis{}, axis{}
	default:
		return
	}
	k.touched = true
}

// Sample implements registry.Source. Nothing is reported until the first key.
func (k *Keyboard) Sample() (core.Gravity, bool) {
	if !k.active || !k.touched {
		return core.Gravity{}, false
	}
	now := k.now()
	return core.Gravity{X: k.x.current(now, k.hold), Y: k.y.current(now, k.hold)}, true
}

func (a axis) current(now time.Time, hold time.Duration) float64 {
	if now.Sub(a.at) > hold {
		return 0
	}
	return a.value
}

func init() {
	registry.Register("keyboard", "Arrow keys / WASD tilt the board", func(opts registry.Options) (registry.Source, error) {
		return NewKeyboard(opts.Tilt, opts.Hold), nil
	})
}
