package maze

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilt-maze/internal/config"
	"github.com/vovakirdan/tilt-maze/internal/core"
)

// ErrNotReady is returned when a session is used outside Start/Stop.
var ErrNotReady = errors.New("maze: session not active")

// Sampler provides the gravity reading for a frame.
type Sampler interface {
	Sample() (core.Gravity, bool)
}

// lifecycle is implemented by samplers that hold a sensor.
type lifecycle interface {
	Start(ctx context.Context) error
	Stop() error
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	Phase     Phase
	Elapsed   float64
	Ball      core.Vec2
	Velocity  core.Vec2
	Radius    float64
	Gravity   core.Gravity
	HasSample bool
	Impulse   core.Vec2
	Layout    *Layout
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is one active play of the level. It owns the sensor for its
// lifetime and wires sampler, controller, world, and state machine.
type Session struct {
	physics config.Physics
	layout  *Layout
	sampler Sampler
	logger  *log.Logger

	active     bool
	world      *World
	controller *Controller
	machine    *Machine

	lastSample core.Gravity
	lastOK     bool
	lastJ      core.Vec2
}

// NewSession creates an inactive session. A nil layout uses the built-in one.
func NewSession(p config.Physics, layout *Layout, sampler Sampler, opts ...Option) (*Session, error) {
	if layout == nil {
		layout = DefaultLayout()
	}
	if err := layout.Validate(p.BallRadius); err != nil {
		return nil, err
	}
	if sampler == nil {
		return nil, fmt.Errorf("maze: nil sampler")
	}
	s := &Session{
		physics: p,
		layout:  layout,
		sampler: sampler,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start acquires the sensor and builds a fresh level. Starting an active
// session is a no-op.
func (s *Session) Start(ctx context.Context) error {
	if s.active {
		return nil
	}
	if lc, ok := s.sampler.(lifecycle); ok {
		if err := lc.Start(ctx); err != nil {
			return fmt.Errorf("maze: start sampler: %w", err)
		}
	}
	s.world = NewWorld(s.layout, s.physics)
	s.controller = NewController(s.world, s.physics.ImpulseScale, s.layout.Center())
	s.machine = NewMachine(s.controller.Recenter)
	s.active = true
	s.logger.Debug("session started", "layout", s.layout.Name, "k", s.controller.Scale())
	return nil
}

// Stop releases the sensor. Safe to call more than once.
func (s *Session) Stop() error {
	if !s.active {
		return nil
	}
	s.active = false
	s.world, s.controller, s.machine = nil, nil, nil
	s.logger.Debug("session stopped")
	if lc, ok := s.sampler.(lifecycle); ok {
		if err := lc.Stop(); err != nil {
			return fmt.Errorf("maze: stop sampler: %w", err)
		}
	}
	return nil
}

// Active reports whether the session is between Start and Stop.
func (s *Session) Active() bool {
	return s.active
}

// Frame runs one physics frame of dt seconds: sample, impulse (while
// Playing), step, then contact dispatch.
func (s *Session) Frame(dt float64) error {
	if !s.active {
		return ErrNotReady
	}
	g, ok := s.sampler.Sample()
	s.lastSample, s.lastOK = g, ok
	s.lastJ = core.Vec2{}
	if s.machine.Phase() == Playing {
		s.lastJ = s.controller.OnTick(g, ok, dt)
	}
	if mask := s.world.Step(dt); mask&Ball != 0 {
		s.machine.Contact(mask)
	}
	return nil
}

// TimerTick advances the elapsed timer.
func (s *Session) TimerTick(dt float64) error {
	if !s.active {
		return ErrNotReady
	}
	s.machine.Tick(dt)
	return nil
}

// Acknowledge dismisses the win dialog.
func (s *Session) Acknowledge() error {
	if !s.active {
		return ErrNotReady
	}
	s.machine.Acknowledge()
	return nil
}

// Drain returns the events queued since the last call.
func (s *Session) Drain() ([]Event, error) {
	if !s.active {
		return nil, ErrNotReady
	}
	return s.machine.Drain(), nil
}

// Snapshot returns the state needed to draw a frame.
func (s *Session) Snapshot() (Snapshot, error) {
	if !s.active {
		return Snapshot{}, ErrNotReady
	}
	return Snapshot{
		Phase:     s.machine.Phase(),
		Elapsed:   s.machine.Elapsed(),
		Ball:      s.world.Position(),
		Velocity:  s.world.Velocity(),
		Radius:    s.world.Radius(),
		Gravity:   s.lastSample,
		HasSample: s.lastOK,
		Impulse:   s.lastJ,
		Layout:    s.layout,
	}, nil
}
