// Package frame defines the ContextFrame — a point-in-time snapshot of the
// execution context captured when an identifier is generated — and its
// encoding into the 16-character slot identifier (CUID).
package frame

import (
	"math"

	"github.com/ssd-technologies/trivium/internal/base96"
)

// Environment identifies where the generating agent is executing. The set
// is closed: encoding uses an exhaustive switch so a new variant cannot be
// silently mis-encoded.
type Environment int

const (
	EnvDatacenter Environment = iota
	EnvEdge
	EnvCloud
	EnvCluster
	EnvMobile
	EnvEmbedded
	EnvLocal
)

// Code returns the fixed slot code (0..6) for the environment.
func (e Environment) Code() int {
	switch e {
	case EnvDatacenter:
		return 0
	case EnvEdge:
		return 1
	case EnvCloud:
		return 2
	case EnvCluster:
		return 3
	case EnvMobile:
		return 4
	case EnvEmbedded:
		return 5
	case EnvLocal:
		return 6
	}
	return 0
}

// String returns the environment name.
func (e Environment) String() string {
	switch e {
	case EnvDatacenter:
		return "datacenter"
	case EnvEdge:
		return "edge"
	case EnvCloud:
		return "cloud"
	case EnvCluster:
		return "cluster"
	case EnvMobile:
		return "mobile"
	case EnvEmbedded:
		return "embedded"
	case EnvLocal:
		return "local"
	}
	return "datacenter"
}

// State is the thermal/residency state of the generating agent.
type State int

const (
	StateCold State = iota
	StateWarm
	StateHot
	StateL2Resident
)

// Code returns the fixed slot code (0..3) for the state.
func (s State) Code() int {
	switch s {
	case StateCold:
		return 0
	case StateWarm:
		return 1
	case StateHot:
		return 2
	case StateL2Resident:
		return 3
	}
	return 0
}

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCold:
		return "cold"
	case StateWarm:
		return "warm"
	case StateHot:
		return "hot"
	case StateL2Resident:
		return "l2_resident"
	}
	return "cold"
}

// deltaAngleMax is the quantization ceiling for the delta-angle slot:
// 96^2-1, the largest value two Base96 digits can carry exactly. Values
// above the ceiling clamp rather than wrap, so an oversized angle can
// never alias an unrelated in-range encoding.
const deltaAngleMax = 9215

// ContextFrame captures the execution context for one identifier
// generation event. Immutable after construction.
type ContextFrame struct {
	Timestamp  uint64 // unix seconds
	Env        Environment
	AgentID    uint16
	DeltaAngle float32
	State      State
	Lineage    uint16
	Nonce      uint16
}

// New builds a ContextFrame with the nonce defaulted to the low 16 bits of
// the timestamp. Callers that need an explicit nonce set the field after.
func New(timestamp uint64, env Environment, agentID uint16, deltaAngle float32, state State, lineage uint16) ContextFrame {
	return ContextFrame{
		Timestamp:  timestamp,
		Env:        env,
		AgentID:    agentID,
		DeltaAngle: deltaAngle,
		State:      state,
		Lineage:    lineage,
		Nonce:      uint16(timestamp & 0xFFFF),
	}
}

// SlotLength is the exact length of an encoded slot identifier.
const SlotLength = 16

// Encode renders the frame as a 16-character slot identifier:
//
//	chars 0-3   timestamp (low 32 bits)
//	chars 4-6   execution environment code
//	chars 7-8   agent id
//	chars 9-10  quantized delta-angle
//	char  11    state code
//	chars 12-13 lineage
//	chars 14-15 nonce
//
// Encoding is pure and deterministic: the same frame always yields the
// same string. It is deliberately lossy — the timestamp truncates to 32
// bits and the delta-angle quantizes to millidegrees — because the slot
// identifier is a routing key, not a storage format.
func (f ContextFrame) Encode() string {
	out := make([]byte, 0, SlotLength)
	out = append(out, base96.EncodeUint(uint32(f.Timestamp), 4)...)
	out = append(out, base96.EncodeUint(uint32(f.Env.Code()), 3)...)
	out = append(out, base96.EncodeUint(uint32(f.AgentID), 2)...)
	out = append(out, base96.EncodeUint(quantizeDeltaAngle(f.DeltaAngle), 2)...)
	out = append(out, base96.Char(f.State.Code()))
	out = append(out, base96.EncodeUint(uint32(f.Lineage), 2)...)
	out = append(out, base96.EncodeUint(uint32(f.Nonce), 2)...)
	return string(out)
}

// NegateDelta returns a copy of the frame with the delta-angle negated.
// Used for the operational-layer secondary identifier.
func (f ContextFrame) NegateDelta() ContextFrame {
	f.DeltaAngle = -f.DeltaAngle
	return f
}

// quantizeDeltaAngle maps a delta-angle to millidegree resolution, clamped
// to the two-digit Base96 ceiling. The sign is dropped: the slot encodes
// magnitude only.
func quantizeDeltaAngle(d float32) uint32 {
	mag := float64(d)
	if mag < 0 {
		mag = -mag
	}
	q := mag * 1000
	if math.IsNaN(q) {
		return 0
	}
	if q > deltaAngleMax {
		return deltaAngleMax
	}
	return uint32(q)
}
