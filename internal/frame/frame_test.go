package frame

import (
	"testing"

	"github.com/ssd-technologies/trivium/internal/base96"
)

func testFrame() ContextFrame {
	return New(1700000000, EnvEdge, 42, 1.5, StateWarm, 7)
}

func TestEncodeLength(t *testing.T) {
	frames := []ContextFrame{
		{},
		testFrame(),
		New(^uint64(0), EnvLocal, ^uint16(0), 99999, StateL2Resident, ^uint16(0)),
	}
	for _, f := range frames {
		s := f.Encode()
		if len(s) != SlotLength {
			t.Fatalf("Encode length = %d, want %d", len(s), SlotLength)
		}
		if !base96.Valid(s) {
			t.Fatalf("Encode produced non-alphabet bytes: %q", s)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	f := testFrame()
	if f.Encode() != f.Encode() {
		t.Fatal("Encode should be deterministic for the same frame")
	}
}

func TestEncodeFieldSensitivity(t *testing.T) {
	base := testFrame()
	variants := []ContextFrame{
		New(1700000001, EnvEdge, 42, 1.5, StateWarm, 7),
		New(1700000000, EnvCloud, 42, 1.5, StateWarm, 7),
		New(1700000000, EnvEdge, 43, 1.5, StateWarm, 7),
		New(1700000000, EnvEdge, 42, 2.5, StateWarm, 7),
		New(1700000000, EnvEdge, 42, 1.5, StateHot, 7),
		New(1700000000, EnvEdge, 42, 1.5, StateWarm, 8),
	}
	enc := base.Encode()
	for i, v := range variants {
		if v.Encode() == enc {
			t.Errorf("variant %d should encode differently from base", i)
		}
	}
}

func TestNonceDefaultsToTimestampLowBits(t *testing.T) {
	f := New(0x12345678, EnvDatacenter, 0, 0, StateCold, 0)
	if f.Nonce != 0x5678 {
		t.Fatalf("Nonce = %#04x, want 0x5678", f.Nonce)
	}
}

func TestDeltaAngleClamped(t *testing.T) {
	// 9.215 degrees quantizes exactly to the ceiling; anything larger
	// clamps to it rather than wrapping.
	atCeiling := New(1, EnvEdge, 1, 9.215, StateCold, 1)
	beyond := New(1, EnvEdge, 1, 500, StateCold, 1)
	wayBeyond := New(1, EnvEdge, 1, 1e30, StateCold, 1)

	if atCeiling.Encode() != beyond.Encode() {
		t.Fatal("out-of-range delta-angle should clamp to the ceiling encoding")
	}
	if beyond.Encode() != wayBeyond.Encode() {
		t.Fatal("all clamped delta-angles should encode identically")
	}
}

func TestDeltaAngleSignDropped(t *testing.T) {
	pos := New(1, EnvEdge, 1, 2.0, StateCold, 1)
	neg := New(1, EnvEdge, 1, -2.0, StateCold, 1)
	if pos.Encode() != neg.Encode() {
		t.Fatal("delta-angle slot encodes magnitude only")
	}
}

func TestNegateDelta(t *testing.T) {
	f := testFrame()
	n := f.NegateDelta()
	if n.DeltaAngle != -f.DeltaAngle {
		t.Fatalf("NegateDelta: got %v, want %v", n.DeltaAngle, -f.DeltaAngle)
	}
	if f.DeltaAngle != 1.5 {
		t.Fatal("NegateDelta should not mutate the receiver")
	}
}

func TestEnvironmentCodesClosed(t *testing.T) {
	envs := []Environment{EnvDatacenter, EnvEdge, EnvCloud, EnvCluster, EnvMobile, EnvEmbedded, EnvLocal}
	seen := make(map[int]bool)
	for _, e := range envs {
		c := e.Code()
		if c < 0 || c > 6 {
			t.Fatalf("environment %v code %d out of range", e, c)
		}
		if seen[c] {
			t.Fatalf("duplicate environment code %d", c)
		}
		seen[c] = true
	}
}

func TestStateCodesClosed(t *testing.T) {
	states := []State{StateCold, StateWarm, StateHot, StateL2Resident}
	seen := make(map[int]bool)
	for _, s := range states {
		c := s.Code()
		if c < 0 || c > 3 {
			t.Fatalf("state %v code %d out of range", s, c)
		}
		if seen[c] {
			t.Fatalf("duplicate state code %d", c)
		}
		seen[c] = true
	}
}
