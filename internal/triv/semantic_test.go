package triv

import (
	"testing"

	"github.com/ssd-technologies/trivium/internal/base96"
)

func TestSemanticHashDeterministic(t *testing.T) {
	a := SemanticHash("scan orbital debris field", DomainSpace, ExecScan)
	b := SemanticHash("scan orbital debris field", DomainSpace, ExecScan)
	if a != b {
		t.Fatal("identical inputs should produce identical semantic hashes")
	}
}

func TestSemanticHashShape(t *testing.T) {
	h := SemanticHash("route telemetry packets", DomainCyber, ExecRoute)
	if len(h) != 16 {
		t.Fatalf("semantic hash length = %d, want 16", len(h))
	}
	if !base96.Valid(h) {
		t.Fatalf("semantic hash contains non-alphabet bytes: %q", h)
	}
}

func TestSemanticHashDomainSensitivity(t *testing.T) {
	space := SemanticHash("scan contact", DomainSpace, ExecScan)
	maritime := SemanticHash("scan contact", DomainMaritime, ExecScan)
	if space == maritime {
		t.Fatal("different domains should produce different hashes")
	}
}

func TestSemanticHashExecClassSensitivity(t *testing.T) {
	scan := SemanticHash("scan contact", DomainSpace, ExecScan)
	analyze := SemanticHash("scan contact", DomainSpace, ExecAnalyze)
	if scan == analyze {
		t.Fatal("different execution classes should produce different hashes")
	}
}

func TestSemanticHashNormalization(t *testing.T) {
	// Case and control characters are normalized away before hashing.
	a := SemanticHash("Scan Orbital\tDebris", DomainSpace, ExecScan)
	b := SemanticHash("scan orbital debris", DomainSpace, ExecScan)
	if a != b {
		t.Fatal("normalization should make case and control chars irrelevant")
	}
}

func TestSemanticHashEmptyText(t *testing.T) {
	// Empty text is unusual but defined: no panic, fixed output shape.
	h := SemanticHash("", DomainSpace, ExecScan)
	if len(h) != 16 {
		t.Fatalf("semantic hash of empty text length = %d, want 16", len(h))
	}
}

func TestGrammarTagging(t *testing.T) {
	// "scan" is verb-like, "contact" defaults to noun-like.
	g := grammarString("scan contact")
	if g != "v:scan|n:contact" {
		t.Fatalf("grammarString = %q, want %q", g, "v:scan|n:contact")
	}
}

func TestDomainCodesDistinct(t *testing.T) {
	domains := []Domain{DomainSpace, DomainMaritime, DomainTerrestrial, DomainAerial, DomainCyber, DomainOperational}
	seen := make(map[int]bool)
	for _, d := range domains {
		if seen[d.Code()] {
			t.Fatalf("duplicate domain code %d", d.Code())
		}
		seen[d.Code()] = true
	}
}

func TestParseDomainRoundTrip(t *testing.T) {
	domains := []Domain{DomainSpace, DomainMaritime, DomainTerrestrial, DomainAerial, DomainCyber, DomainOperational}
	for _, d := range domains {
		if ParseDomain(d.String()) != d {
			t.Fatalf("ParseDomain(%q) did not round-trip", d.String())
		}
	}
}

func TestParseExecClassRoundTrip(t *testing.T) {
	classes := []ExecClass{ExecScan, ExecAnalyze, ExecRoute, ExecTransmit, ExecPersist}
	for _, c := range classes {
		if ParseExecClass(c.String()) != c {
			t.Fatalf("ParseExecClass(%q) did not round-trip", c.String())
		}
	}
}
