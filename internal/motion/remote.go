package motion

import (
	"context"
	"errors"
	"time"

	"github.com/vovakirdan/tilt-maze/internal/core"
	"github.com/vovakirdan/tilt-maze/internal/registry"
)

// DefaultStaleAfter is how long a phone reading stays usable.
const DefaultStaleAfter = 250 * time.Millisecond

// Remote reads gravity from a phone paired through a Relay.
type Remote struct {
	relay  registry.Relay
	code   string
	stale  time.Duration
	now    func() time.Time
	active bool
}

// NewRemote creates a source reading code from relay.
func NewRemote(relay registry.Relay, code string, stale time.Duration) *Remote {
	if stale <= 0 {
		stale = DefaultStaleAfter
	}
	return &Remote{relay: relay, code: NormalizeCode(code), stale: stale, now: time.Now}
}

// Name implements registry.Source.
func (r *Remote) Name() string { return "remote" }

// Code returns the pairing code the phone must enter.
func (r *Remote) Code() string { return r.code }

// Start claims the pairing code.
func (r *Remote) Start(_ context.Context) error {
	if r.active {
		return nil
	}
	if err := r.relay.Open(r.code); err != nil {
		return err
	}
	r.active = true
	return nil
}

// Stop releases the pairing code and disconnects the phone.
func (r *Remote) Stop() error {
	if !r.active {
		return nil
	}
	r.active = false
	r.relay.Close(r.code)
	return nil
}

// Sample returns the phone's newest reading unless it has gone stale.
func (r *Remote) Sample() (core.Gravity, bool) {
	if !r.active {
		return core.Gravity{}, false
	}
	g, at, ok := r.relay.Latest(r.code)
	if !ok || r.now().Sub(at) > r.stale {
		return core.Gravity{}, false
	}
	return g, true
}

// Notify forwards a game event to the phone when the relay supports it.
func (r *Remote) Notify(ev Event) {
	if n, ok := r.relay.(interface{ Notify(string, Event) }); ok && r.active {
		n.Notify(r.code, ev)
	}
}

func init() {
	registry.Register("remote", "Phone device motion over WebSocket", func(opts registry.Options) (registry.Source, error) {
		if opts.Relay == nil {
			return nil, errors.New("motion: remote source needs a relay")
		}
		code := opts.Code
		if code == "" {
			if h, ok := opts.Relay.(*Hub); ok {
				code = h.NewCode()
			}
		}
		if !ValidCode(NormalizeCode(code)) {
			return nil, ErrInvalidCode
		}
		return NewRemote(opts.Relay, code, opts.StaleAfter), nil
	})
}
