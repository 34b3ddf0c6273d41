package motion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/registry"
)

func TestRemoteSampleStaleness(t *testing.T) {
	clock := &fakeClock{t: time.Unix(2000, 0)}
	hub := NewHub(WithClock(clock.now))
	code := hub.NewCode()

	r := NewRemote(hub, code, 100*time.Millisecond)
	r.now = clock.now

	if _, ok := r.Sample(); ok {
		t.Error("Sample() before Start should report no reading")
	}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, ok := r.Sample(); ok {
		t.Error("Sample() before any phone reading should report no reading")
	}

	hub.store(code, core.Gravity{X: 0.2, Y: -0.4})
	g, ok := r.Sample()
	if !ok || g.X != 0.2 || g.Y != -0.4 {
		t.Errorf("Sample() = %+v, %v; expected (0.2, -0.4), true", g, ok)
	}

	clock.advance(150 * time.Millisecond)
	if _, ok := r.Sample(); ok {
		t.Error("Sample() should drop readings older than the stale window")
	}

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := hub.Open(code); err != nil {
		t.Errorf("code should be free again after Stop, got %v", err)
	}
}

func TestRemoteStartCodeInUse(t *testing.T) {
	hub := NewHub()
	code := hub.NewCode()
	if err := hub.Open(code); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	r := NewRemote(hub, code, 0)
	if err := r.Start(context.Background()); !errors.Is(err, ErrCodeInUse) {
		t.Errorf("Start() error = %v, expected ErrCodeInUse", err)
	}
}

func TestRemoteRegistryFactory(t *testing.T) {
	if _, err := registry.Create("remote", registry.Options{}); err == nil {
		t.Error("remote without relay should fail")
	}

	hub := NewHub()
	src, err := registry.Create("remote", registry.Options{Relay: hub})
	if err != nil {
		t.Fatalf("Create(remote) failed: %v", err)
	}
	r, ok := src.(*Remote)
	if !ok {
		t.Fatalf("Create(remote) returned %T", src)
	}
	if !ValidCode(r.Code()) {
		t.Errorf("generated code %q is not valid", r.Code())
	}
}

func TestNoneNeverSamples(t *testing.T) {
	src, err := registry.Create("none", registry.Options{})
	if err != nil {
		t.Fatalf("Create(none) failed: %v", err)
	}
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, ok := src.Sample(); ok {
		t.Error("none source should never report a reading")
	}
}
