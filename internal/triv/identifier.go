// Package triv composes the trivariate identifier: a semantic hash, a
// context slot identifier, and a unique UUIDv4, assembled into one
// composite routing key with a canonical textual form.
//
// The canonical form `triv:<semantic>_<context>_<uuid>` appears in logs,
// persisted keys, and message headers. It must stay byte-stable across
// implementations, so parsing is position-based (the Base96 alphabet
// contains '_', making delimiter-splitting unsafe).
package triv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ssd-technologies/trivium/internal/base96"
	"github.com/ssd-technologies/trivium/internal/frame"
)

// Parse errors. Both indicate malformed external input and are
// non-retryable.
var (
	ErrBadPrefix      = errors.New("triv: missing triv: prefix")
	ErrWrongPartCount = errors.New("triv: canonical form does not have three parts")
)

const (
	canonicalPrefix = "triv:"
	partLen         = 16
	// sep positions within the payload (after the prefix).
	sepOne = partLen
	sepTwo = 2*partLen + 1
	minLen = 2*partLen + 2
)

// Identifier is the three-part composite key.
type Identifier struct {
	Semantic string // 16-char Base96 semantic hash
	Context  string // 16-char Base96 slot identifier
	Unique   string // UUIDv4
}

// Generate builds an identifier for semantic text executing under the
// given frame. nodeType participates in the semantic text so two node
// kinds doing the same work stay distinguishable.
func Generate(text, nodeType string, domain Domain, class ExecClass, f frame.ContextFrame) Identifier {
	semText := text
	if nodeType != "" {
		semText = nodeType + " " + text
	}
	return Identifier{
		Semantic: SemanticHash(semText, domain, class),
		Context:  f.Encode(),
		Unique:   uuid.NewString(),
	}
}

// Dual pairs a primary identifier with an optional operational-layer
// secondary.
type Dual struct {
	Primary   Identifier
	Secondary *Identifier
}

// GenerateDual builds the primary identifier and, when the routing domain
// requires operational-layer tracking, a secondary whose semantic hash is
// derived from the primary's and whose context frame has the delta-angle
// negated.
func GenerateDual(text, nodeType string, domain Domain, class ExecClass, f frame.ContextFrame, requiresSecondary bool) Dual {
	primary := Generate(text, nodeType, domain, class, f)
	d := Dual{Primary: primary}
	if requiresSecondary {
		sec := Identifier{
			Semantic: SemanticHash("op:"+primary.Semantic, DomainOperational, class),
			Context:  f.NegateDelta().Encode(),
			Unique:   uuid.NewString(),
		}
		d.Secondary = &sec
	}
	return d
}

// Canonical renders the identifier in its canonical textual form.
func (id Identifier) Canonical() string {
	return canonicalPrefix + id.Semantic + "_" + id.Context + "_" + id.Unique
}

// Parse recovers an identifier from its canonical form. The payload is
// sliced by position: characters 0-15 semantic, 17-32 context, 34+ unique,
// with '_' required at positions 16 and 33. Returns ErrBadPrefix when the
// triv: prefix is absent and ErrWrongPartCount when the payload cannot
// hold three parts.
func Parse(s string) (Identifier, error) {
	if !strings.HasPrefix(s, canonicalPrefix) {
		return Identifier{}, ErrBadPrefix
	}
	payload := s[len(canonicalPrefix):]
	if len(payload) < minLen || payload[sepOne] != '_' || payload[sepTwo] != '_' {
		return Identifier{}, ErrWrongPartCount
	}
	return Identifier{
		Semantic: payload[:sepOne],
		Context:  payload[sepOne+1 : sepTwo],
		Unique:   payload[sepTwo+1:],
	}, nil
}

// FlatHash renders the identifier as the 48-character flat composite hash:
// semantic (16) + context (16) + the Base96 projection of the UUID's raw
// bytes (16), no separators. Malformed unique components yield an error
// rather than a silently different key.
func (id Identifier) FlatHash() (string, error) {
	u, err := uuid.Parse(id.Unique)
	if err != nil {
		return "", fmt.Errorf("flat hash: %w", err)
	}
	return id.Semantic + id.Context + base96.EncodeBytes(u[:]), nil
}
