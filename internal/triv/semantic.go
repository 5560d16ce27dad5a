package triv

import (
	"strings"
	"unicode"

	"github.com/ssd-technologies/trivium/internal/base96"
	"github.com/ssd-technologies/trivium/internal/digest"
)

// Domain is the routing domain an identifier belongs to. Closed set; the
// slot code feeds the semantic hash, so adding a variant without a code
// case would silently collide — keep the switch exhaustive.
type Domain int

const (
	DomainSpace Domain = iota
	DomainMaritime
	DomainTerrestrial
	DomainAerial
	DomainCyber
	DomainOperational
)

// Code returns the fixed semantic-hash code for the domain.
func (d Domain) Code() int {
	switch d {
	case DomainSpace:
		return 0
	case DomainMaritime:
		return 1
	case DomainTerrestrial:
		return 2
	case DomainAerial:
		return 3
	case DomainCyber:
		return 4
	case DomainOperational:
		return 5
	}
	return 0
}

// String returns the domain name.
func (d Domain) String() string {
	switch d {
	case DomainSpace:
		return "space"
	case DomainMaritime:
		return "maritime"
	case DomainTerrestrial:
		return "terrestrial"
	case DomainAerial:
		return "aerial"
	case DomainCyber:
		return "cyber"
	case DomainOperational:
		return "operational"
	}
	return "space"
}

// ParseDomain maps a domain name to its variant. Unknown names fall back
// to DomainSpace; domain names arrive from closed configuration, not user
// input.
func ParseDomain(s string) Domain {
	switch strings.ToLower(s) {
	case "maritime":
		return DomainMaritime
	case "terrestrial":
		return DomainTerrestrial
	case "aerial":
		return DomainAerial
	case "cyber":
		return DomainCyber
	case "operational":
		return DomainOperational
	default:
		return DomainSpace
	}
}

// ExecClass is the execution class of the work an identifier names.
type ExecClass int

const (
	ExecScan ExecClass = iota
	ExecAnalyze
	ExecRoute
	ExecTransmit
	ExecPersist
)

// Code returns the fixed semantic-hash code for the execution class.
func (c ExecClass) Code() int {
	switch c {
	case ExecScan:
		return 0
	case ExecAnalyze:
		return 1
	case ExecRoute:
		return 2
	case ExecTransmit:
		return 3
	case ExecPersist:
		return 4
	}
	return 0
}

// String returns the execution class name.
func (c ExecClass) String() string {
	switch c {
	case ExecScan:
		return "scan"
	case ExecAnalyze:
		return "analyze"
	case ExecRoute:
		return "route"
	case ExecTransmit:
		return "transmit"
	case ExecPersist:
		return "persist"
	}
	return "scan"
}

// ParseExecClass maps an execution class name to its variant.
func ParseExecClass(s string) ExecClass {
	switch strings.ToLower(s) {
	case "analyze":
		return ExecAnalyze
	case "route":
		return ExecRoute
	case "transmit":
		return ExecTransmit
	case "persist":
		return ExecPersist
	default:
		return ExecScan
	}
}

// verbTokens is the fixed keyword list for the minimal noun/verb grammar.
// Tokens not in the list are tagged noun-like.
var verbTokens = map[string]bool{
	"scan":     true,
	"route":    true,
	"deploy":   true,
	"execute":  true,
	"monitor":  true,
	"track":    true,
	"analyze":  true,
	"transmit": true,
	"sync":     true,
	"observe":  true,
	"detect":   true,
	"resolve":  true,
}

// SemanticHash derives the 16-character semantic hash (SCH) for a piece of
// semantic text within a domain and execution class.
//
// Pipeline: normalize the text, tag each token noun- or verb-like, join
// into a grammar string, hash, Base96-encode to 16 symbols, append the
// domain and class code symbols, then hash and encode the 18-symbol
// string once more. The second pass locks the domain/class influence into
// every output symbol, so identical text under different domains produces
// unrelated hashes.
//
// Deterministic given identical inputs; not reversible.
func SemanticHash(text string, domain Domain, class ExecClass) string {
	grammar := grammarString(text)

	first := digest.SumString(grammar).Base96()

	tagged := first + string(base96.Char(domain.Code())) + string(base96.Char(class.Code()))
	return digest.SumString(tagged).Base96()
}

// grammarString normalizes text and renders it in the minimal noun/verb
// grammar: control characters stripped, lowercased, tokens tagged v: or n:
// and joined with '|'.
func grammarString(text string) string {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, text)

	tokens := strings.Fields(normalized)
	tagged := make([]string, len(tokens))
	for i, tok := range tokens {
		if verbTokens[tok] {
			tagged[i] = "v:" + tok
		} else {
			tagged[i] = "n:" + tok
		}
	}
	return strings.Join(tagged, "|")
}
