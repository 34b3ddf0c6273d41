package motion

import (
	"context"

	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/registry"
)

// None is a source with no sensor: every tick has no reading.
type None struct{}

// Name implements registry.Source.
func (None) Name() string { return "none" }

// Sample always reports no reading.
func (None) Sample() (core.Gravity, bool) { return core.Gravity{}, false }

// Start implements registry.Source.
func (None) Start(context.Context) error { return nil }

// Stop implements registry.Source.
func (None) Stop() error { return nil }

func init() {
	registry.Register("none", "No sensor; the ball never moves", func(registry.Options) (registry.Source, error) {
		return None{}, nil
	})
}
