// Package manifold maps trivariate identifier hashes to concrete routing
// destinations. Route selection is deterministic given a routing table
// snapshot: a fixed scoring function over the identifier, a health/load
// filter, and a stable tie-break, with no dependence on map iteration
// order or wall-clock state.
package manifold

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Routing errors.
var (
	// ErrNoHealthyRoute means no registered route matched the destination
	// type above the health threshold. Callers may retry after health
	// state changes.
	ErrNoHealthyRoute = errors.New("manifold: no healthy route for destination type")
	// ErrUnknownRoute means a health update referenced an unregistered
	// route id — a configuration error upstream.
	ErrUnknownRoute = errors.New("manifold: unknown route id")
	// ErrMalformedHash means the composite hash is not 48 characters.
	ErrMalformedHash = errors.New("manifold: composite hash must be 48 characters")
)

// FlatHashLength is the required length of a flat composite hash:
// three 16-character components, no separators.
const FlatHashLength = 48

// DefaultHealthThreshold is the minimum health score a route must exceed
// to be eligible for selection.
const DefaultHealthThreshold = 0.8

// RouteEntry describes one destination in the routing table. Entries are
// inserted and refreshed by an external health-monitoring collaborator;
// a routing decision only ever reads them.
type RouteEntry struct {
	Destination string    `json:"destination"`
	Priority    uint8     `json:"priority"`
	LoadFactor  float64   `json:"load_factor"`  // 0..1
	HealthScore float64   `json:"health_score"` // 0..1
	LastUpdated time.Time `json:"last_updated"`
}

// RouteStore is the routing table contract. Implementations must allow
// concurrent routing decisions while excluding concurrent writes.
type RouteStore interface {
	Route(hash, destinationType string) (string, error)
	AddRoute(id string, entry RouteEntry)
	UpdateRouteHealth(id string, score float64) error
	Routes() map[string]RouteEntry
}

// Router is the in-memory RouteStore. Reads take the shared lock so
// routing decisions proceed concurrently; health updates and route
// registration take the exclusive lock.
type Router struct {
	mu              sync.RWMutex
	routes          map[string]*RouteEntry
	healthThreshold float64
}

// NewRouter creates an empty router with the default health threshold.
func NewRouter() *Router {
	return &Router{
		routes:          make(map[string]*RouteEntry),
		healthThreshold: DefaultHealthThreshold,
	}
}

// NewRouterWithThreshold creates an empty router with a custom health
// threshold.
func NewRouterWithThreshold(threshold float64) *Router {
	r := NewRouter()
	r.healthThreshold = threshold
	return r
}

// Route selects a destination for the 48-character composite hash.
//
// The hash splits into its three 16-character components; the target
// score is the mean over the components of (sum of byte codes / 1000).
// Candidates are routes whose destination contains destinationType and
// whose health score exceeds the threshold. Among candidates the route
// whose load factor is numerically closest to the target score wins;
// equal distances resolve by lexicographic route id, so the decision is
// identical regardless of map iteration order.
func (r *Router) Route(hash, destinationType string) (string, error) {
	if len(hash) != FlatHashLength {
		return "", ErrMalformedHash
	}
	target := targetScore(hash)

	r.mu.RLock()
	defer r.mu.RUnlock()

	type candidate struct {
		id       string
		distance float64
	}
	var candidates []candidate
	for id, entry := range r.routes {
		if !containsDestination(entry.Destination, destinationType) {
			continue
		}
		if entry.HealthScore <= r.healthThreshold {
			continue
		}
		dist := target - entry.LoadFactor
		if dist < 0 {
			dist = -dist
		}
		candidates = append(candidates, candidate{id: id, distance: dist})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoHealthyRoute, destinationType)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].id < candidates[j].id
	})
	return candidates[0].id, nil
}

// AddRoute inserts or replaces a route entry.
func (r *Router) AddRoute(id string, entry RouteEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := entry
	r.routes[id] = &e
}

// UpdateRouteHealth sets the health score of an existing route and stamps
// the update time.
func (r *Router) UpdateRouteHealth(id string, score float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.routes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoute, id)
	}
	entry.HealthScore = score
	entry.LastUpdated = time.Now()
	return nil
}

// Routes returns a copy of the current routing table.
func (r *Router) Routes() map[string]RouteEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]RouteEntry, len(r.routes))
	for id, entry := range r.routes {
		out[id] = *entry
	}
	return out
}

// targetScore computes the deterministic routing score of a 48-character
// hash: for each 16-character component, the sum of byte codes divided by
// 1000; the score is the mean of the three.
func targetScore(hash string) float64 {
	var total float64
	for i := 0; i < 3; i++ {
		part := hash[i*16 : i*16+16]
		sum := 0
		for j := 0; j < len(part); j++ {
			sum += int(part[j])
		}
		total += float64(sum) / 1000
	}
	return total / 3
}

// containsDestination reports whether destination matches the requested
// destination type (substring match, the table's naming contract).
func containsDestination(destination, destinationType string) bool {
	return strings.Contains(destination, destinationType)
}
