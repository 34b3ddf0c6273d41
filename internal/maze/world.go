package maze

import (
	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/tilt-maze/internal/config"
	"github.com/vovakirdan/tilt-maze/internal/core"
)

// Substeps is the number of space steps per frame. Chipmunk removes
// overlap gradually, so a ball held against a wall sinks in by roughly
// the distance it travels in one step.
const Substeps = 8

// boundsRadius is the thickness of the field edge segments. They sit
// outside the field so their inner surface is the edge itself.
const boundsRadius = 8

// World is the Chipmunk space holding the ball, walls, and holes.
// Contacts found during a step are collected and returned once the step
// has finished, so callers may move the ball in response.
type World struct {
	space   *cp.Space
	ball    *cp.Body
	radius  float64
	layout  *Layout
	pending Category
}

// NewWorld builds the space for a validated layout.
func NewWorld(l *Layout, p config.Physics) *World {
	w := &World{
		space:  cp.NewSpace(),
		radius: p.BallRadius,
		layout: l,
	}
	// Tilt is the only force on the ball.
	w.space.SetGravity(cp.Vector{})
	w.space.SetDamping(p.Damping)

	w.addBounds(p)
	for _, wall := range l.Walls {
		seg := cp.NewSegment(w.space.StaticBody, vec(wall.From), vec(wall.To), wall.Thickness/2)
		seg.SetElasticity(p.Elasticity)
		seg.SetFriction(p.Friction)
		w.space.AddShape(seg)
	}
	for _, h := range l.Holes {
		cat := h.Kind.Category()
		shape := cp.NewCircle(w.space.StaticBody, h.Radius, vec(h.At))
		shape.SetSensor(true)
		tag(shape, cat, uint(Ball))
		w.space.AddShape(shape)
	}

	w.ball = w.space.AddBody(cp.NewBody(p.BallMass, cp.INFINITY))
	w.ball.SetPosition(vec(l.Center()))
	if p.MaxSpeed > 0 {
		limit := p.MaxSpeed
		w.ball.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
			cp.BodyUpdateVelocity(body, gravity, damping, dt)
			body.SetVelocityVector(body.Velocity().Clamp(limit))
		})
	}
	ballShape := cp.NewCircle(w.ball, p.BallRadius, cp.Vector{})
	ballShape.SetElasticity(p.Elasticity)
	ballShape.SetFriction(p.Friction)
	tag(ballShape, Ball, cp.ALL_CATEGORIES)
	w.space.AddShape(ballShape)

	for _, cat := range BallContactMask.Split() {
		h := w.space.NewCollisionHandler(cp.CollisionType(Ball), cp.CollisionType(cat))
		h.BeginFunc = w.begin
	}
	return w
}

func (w *World) addBounds(p config.Physics) {
	r := float64(boundsRadius)
	wd, ht := w.layout.Width+r, w.layout.Height+r
	corners := []cp.Vector{{X: -r, Y: -r}, {X: wd, Y: -r}, {X: wd, Y: ht}, {X: -r, Y: ht}}
	for i := range corners {
		seg := cp.NewSegment(w.space.StaticBody, corners[i], corners[(i+1)%len(corners)], r)
		seg.SetElasticity(p.Elasticity)
		seg.SetFriction(p.Friction)
		w.space.AddShape(seg)
	}
}

// tag labels a shape with its category and the categories it may touch.
func tag(shape *cp.Shape, cat Category, mask uint) {
	shape.UserData = cat
	shape.SetCollisionType(cp.CollisionType(cat))
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(cat), mask))
}

func (w *World) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arb.Shapes()
	ca, cb := category(a), category(b)
	if (ca|cb)&Ball != 0 {
		w.pending |= ca | cb
	}
	return true
}

func category(s *cp.Shape) Category {
	if c, ok := s.UserData.(Category); ok {
		return c
	}
	return 0
}

// Step advances the simulation by dt in Substeps slices and returns the
// union of categories that began touching the ball (0 if none). It stops
// at the first slice that reports a contact.
func (w *World) Step(dt float64) Category {
	if !(dt > 0) {
		return 0
	}
	w.pending = 0
	for i := 0; i < Substeps && w.pending == 0; i++ {
		w.space.Step(dt / Substeps)
	}
	mask := w.pending
	w.pending = 0
	return mask
}

// ApplyImpulse adds momentum to the ball at its center.
func (w *World) ApplyImpulse(j core.Vec2) {
	w.ball.ApplyImpulseAtLocalPoint(vec(j), cp.Vector{})
}

// SetVelocity sets the ball velocity.
func (w *World) SetVelocity(v core.Vec2) {
	w.ball.SetVelocity(v.X, v.Y)
}

// Teleport moves the ball instantly.
func (w *World) Teleport(p core.Vec2) {
	w.ball.SetPosition(vec(p))
}

// Position returns the ball center.
func (w *World) Position() core.Vec2 {
	return fromVec(w.ball.Position())
}

// Velocity returns the ball velocity.
func (w *World) Velocity() core.Vec2 {
	return fromVec(w.ball.Velocity())
}

// Radius returns the ball radius.
func (w *World) Radius() float64 {
	return w.radius
}

func vec(v core.Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromVec(v cp.Vector) core.Vec2 {
	return core.V(v.X, v.Y)
}
