package maze

import (
	"testing"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

// stubBody records what the controller does to the ball.
type stubBody struct {
	impulses  []core.Vec2
	velocity  core.Vec2
	position  core.Vec2
	teleports int
}

func (b *stubBody) ApplyImpulse(j core.Vec2) { b.impulses = append(b.impulses, j) }
func (b *stubBody) SetVelocity(v core.Vec2)  { b.velocity = v }
func (b *stubBody) Teleport(p core.Vec2) {
	b.position = p
	b.teleports++
}

func TestControllerImpulse(t *testing.T) {
	c := NewController(&stubBody{}, 200, core.V(320, 180))

	tests := []struct {
		name string
		s    core.Gravity
		ok   bool
		want core.Vec2
	}{
		{"absent", core.Gravity{X: 0.5, Y: 0.5}, false, core.Vec2{}},
		{"level", core.Gravity{}, true, core.Vec2{}},
		{"right and down", core.Gravity{X: 0.1, Y: -0.2}, true, core.V(20, -40)},
		{"full tilt", core.Gravity{X: -1, Y: 1}, true, core.V(-200, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Impulse(tt.s, tt.ok); got != tt.want {
				t.Errorf("Impulse(%v, %v) = %v, expected %v", tt.s, tt.ok, got, tt.want)
			}
		})
	}
}

func TestControllerOnTickIgnoresDt(t *testing.T) {
	body := &stubBody{}
	c := NewController(body, 200, core.Vec2{})
	s := core.Gravity{X: 0.1, Y: -0.2}

	a := c.OnTick(s, true, 1.0/60)
	b := c.OnTick(s, true, 1.0/30)
	if a != b {
		t.Errorf("OnTick depends on dt: %v vs %v", a, b)
	}
	if len(body.impulses) != 2 {
		t.Fatalf("applied %d impulses, expected 2", len(body.impulses))
	}
	if body.impulses[0] != core.V(20, -40) {
		t.Errorf("applied %v, expected (20, -40)", body.impulses[0])
	}
}

func TestControllerOnTickSkipsZero(t *testing.T) {
	body := &stubBody{}
	c := NewController(body, 200, core.Vec2{})

	c.OnTick(core.Gravity{X: 1}, false, 0.01)
	c.OnTick(core.Gravity{}, true, 0.01)

	if len(body.impulses) != 0 {
		t.Errorf("applied %d impulses for absent or level samples, expected 0", len(body.impulses))
	}
}

func TestControllerRecenter(t *testing.T) {
	body := &stubBody{velocity: core.V(30, -12), position: core.V(5, 5)}
	center := core.V(320, 180)
	c := NewController(body, 200, center)

	c.Recenter()

	if !body.velocity.IsZero() {
		t.Errorf("velocity = %v, expected zero", body.velocity)
	}
	if body.position != center {
		t.Errorf("position = %v, expected %v", body.position, center)
	}
	if c.Scale() != 200 {
		t.Errorf("Scale() = %v, expected 200", c.Scale())
	}
}
