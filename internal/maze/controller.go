package maze

import "github.com/vovakirdan/tilt-maze/internal/core"

// Body is the part of the physics ball the controller drives.
type Body interface {
	ApplyImpulse(j core.Vec2)
	SetVelocity(v core.Vec2)
	Teleport(p core.Vec2)
}

// Controller turns gravity samples into impulses on the ball.
// The impulse does not depend on the frame duration: a tilt held for one
// frame always adds the same momentum.
type Controller struct {
	body   Body
	k      float64
	center core.Vec2
}

// NewController creates a controller with impulse scale k that recenters
// the ball at center.
func NewController(body Body, k float64, center core.Vec2) *Controller {
	return &Controller{body: body, k: k, center: center}
}

// Scale returns the impulse scale K.
func (c *Controller) Scale() float64 {
	return c.k
}

// Impulse maps a sample to an impulse. An absent sample yields zero.
func (c *Controller) Impulse(s core.Gravity, ok bool) core.Vec2 {
	if !ok {
		return core.Vec2{}
	}
	return core.V(s.X*c.k, s.Y*c.k)
}

// OnTick applies the impulse for one frame and returns it.
func (c *Controller) OnTick(s core.Gravity, ok bool, _ float64) core.Vec2 {
	j := c.Impulse(s, ok)
	if !j.IsZero() {
		c.body.ApplyImpulse(j)
	}
	return j
}

// Recenter stops the ball and moves it to the field center.
func (c *Controller) Recenter() {
	c.body.SetVelocity(core.Vec2{})
	c.body.Teleport(c.center)
}
