package motion

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

// Message types exchanged with the phone page.
const (
	MsgHello   = "hello"   // phone -> server, first message
	MsgGravity = "gravity" // phone -> server, one reading
	MsgWelcome = "welcome" // server -> phone, handshake accepted
	MsgEvent   = "event"   // server -> phone, game outcome
	MsgError   = "error"   // server -> phone, handshake rejected
)

// ProtocolVersion is the only hello version the relay accepts.
const ProtocolVersion = 1

// SampleHz is the rate the phone is asked to report at (10ms cadence).
const SampleHz = 100

// Event kinds pushed to the phone.
const (
	EventFell = "fell"
	EventWon  = "won"
)

// Envelope wraps every message: a type tag and a raw payload.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// Hello opens a phone connection for a pairing code.
type Hello struct {
	V    int    `json:"v"`
	Code string `json:"code"`
}

// GravityReading is one device-motion sample, in g units.
type GravityReading struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Welcome acknowledges a hello.
type Welcome struct {
	Code string `json:"code"`
	Hz   int    `json:"hz"`
}

// Event tells the phone what happened in the game (e.g. for vibration).
type Event struct {
	Kind    string  `json:"kind"`
	Elapsed float64 `json:"elapsed,omitempty"`
}

// ErrorMsg explains why a connection is being closed.
type ErrorMsg struct {
	Reason string `json:"reason"`
}

var errEmptyMessage = errors.New("motion: empty message")

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("motion: encode with empty message type")
	}
	if payload == nil {
		return nil, fmt.Errorf("motion: encode %q with nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("motion: encode %q: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope parses the outer envelope of a message.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errEmptyMessage
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("motion: decode envelope: %w", err)
	}
	return e, nil
}

// DecodePayload parses the payload of env into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("motion: empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("motion: decode %q payload: %w", env.T, err)
	}
	return out, nil
}

// Gravity converts a reading into a clamped sample.
// Non-finite components make the reading unusable.
func (r GravityReading) Gravity() (core.Gravity, bool) {
	if !finite(r.X) || !finite(r.Y) {
		return core.Gravity{}, false
	}
	return core.Gravity{
		X: core.ClampF(r.X, -1, 1),
		Y: core.ClampF(r.Y, -1, 1),
	}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
