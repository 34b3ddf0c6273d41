package motion

import (
	"math"
	"testing"
)

func TestEncodeDecodeGravity(t *testing.T) {
	b, err := Encode(MsgGravity, GravityReading{X: 0.25, Y: -0.5})
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope() failed: %v", err)
	}
	if env.T != MsgGravity {
		t.Errorf("T = %q, expected %q", env.T, MsgGravity)
	}

	r, err := DecodePayload[GravityReading](env)
	if err != nil {
		t.Fatalf("DecodePayload() failed: %v", err)
	}
	if r.X != 0.25 || r.Y != -0.5 {
		t.Errorf("reading = %+v", r)
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	if _, err := Encode("", Hello{}); err == nil {
		t.Error("Encode with empty type should fail")
	}
	if _, err := Encode(MsgHello, nil); err == nil {
		t.Error("Encode with nil payload should fail")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeEnvelope(nil); err == nil {
		t.Error("DecodeEnvelope(nil) should fail")
	}
	if _, err := DecodeEnvelope([]byte("{not json")); err == nil {
		t.Error("DecodeEnvelope(garbage) should fail")
	}
	if _, err := DecodePayload[Hello](Envelope{T: MsgHello}); err == nil {
		t.Error("DecodePayload with empty payload should fail")
	}
}

func TestGravityReadingClamp(t *testing.T) {
	tests := []struct {
		name   string
		in     GravityReading
		wantX  float64
		wantY  float64
		wantOK bool
	}{
		{"in range", GravityReading{X: 0.3, Y: -0.3}, 0.3, -0.3, true},
		{"clamped", GravityReading{X: 1.7, Y: -2}, 1, -1, true},
		{"nan", GravityReading{X: math.NaN(), Y: 0}, 0, 0, false},
		{"inf", GravityReading{X: 0, Y: math.Inf(1)}, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, ok := tc.in.Gravity()
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, expected %v", ok, tc.wantOK)
			}
			if ok && (g.X != tc.wantX || g.Y != tc.wantY) {
				t.Errorf("Gravity() = %+v, expected (%f, %f)", g, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestCodes(t *testing.T) {
	code := generateCode(CodeLength)
	if !ValidCode(code) {
		t.Errorf("generated code %q is not valid", code)
	}
	if NormalizeCode(" abc234 ") != "ABC234" {
		t.Errorf("NormalizeCode() = %q", NormalizeCode(" abc234 "))
	}
	for _, bad := range []string{"", "ABC", "ABCDEFG", "ABC1O0"} {
		if ValidCode(bad) {
			t.Errorf("ValidCode(%q) = true", bad)
		}
	}
}
