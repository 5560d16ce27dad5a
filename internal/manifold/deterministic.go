package manifold

import "fmt"

// DeterministicRoute maps a hash string to a fixed route name with no
// health or load awareness: "route_" plus the hex of the byte-code sum
// mod 256. Used where the same hash must land on the same route on every
// node, independent of table state.
func DeterministicRoute(hash string) string {
	sum := 0
	for i := 0; i < len(hash); i++ {
		sum += int(hash[i])
	}
	return fmt.Sprintf("route_%02x", sum%256)
}

// ValidateConsistency recomputes the deterministic route for hash and
// compares it against expected.
func ValidateConsistency(hash, expected string) bool {
	return DeterministicRoute(hash) == expected
}
