package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ssd-technologies/trivium/internal/manifold"
	"github.com/ssd-technologies/trivium/internal/subject"
	"github.com/ssd-technologies/trivium/internal/triv"
)

// routeRequest is the body of POST /api/route. Exactly one of hash or
// canonical must be supplied.
type routeRequest struct {
	Hash            string `json:"hash"`      // 48-char flat composite hash
	Canonical       string `json:"canonical"` // triv:<...> canonical form
	DestinationType string `json:"destination_type"`
}

// handleRoute resolves an identifier to a route id.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	hash := req.Hash
	if hash == "" && req.Canonical != "" {
		id, err := triv.Parse(req.Canonical)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		hash, err = id.FlatHash()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if hash == "" {
		writeError(w, http.StatusBadRequest, "hash or canonical is required")
		return
	}

	routeID, err := s.router.Route(hash, req.DestinationType)
	if err != nil {
		switch {
		case errors.Is(err, manifold.ErrMalformedHash):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, manifold.ErrNoHealthyRoute):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"route_id":            routeID,
		"deterministic_route": manifold.DeterministicRoute(hash),
	})
}

// handleListRoutes returns a snapshot of the routing table.
func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.router.Routes())
}

// healthUpdateRequest is the body of PUT /api/routes/{id}/health.
type healthUpdateRequest struct {
	HealthScore float64 `json:"health_score"`
}

// handleUpdateHealth sets a route's health score directly, bypassing the
// feed. Intended for operator overrides.
func (s *Server) handleUpdateHealth(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req healthUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.router.UpdateRouteHealth(id, req.HealthScore); err != nil {
		if errors.Is(err, manifold.ErrUnknownRoute) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.reg != nil {
		if err := s.reg.UpdateHealth(id, req.HealthScore); err != nil && !errors.Is(err, manifold.ErrUnknownRoute) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleClassifySubject reports the delivery tier of a subject name.
func (s *Server) handleClassifySubject(w http.ResponseWriter, r *http.Request) {
	subj := strings.TrimSpace(r.URL.Query().Get("subject"))
	if subj == "" {
		writeError(w, http.StatusBadRequest, "subject query parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subject":     subj,
		"durable":     subject.RequiresDurableDelivery(subj),
		"low_latency": subject.IsLowLatency(subj),
	})
}
