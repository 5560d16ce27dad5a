// Package server exposes the Trivium routing core over HTTP: identifier
// generation, route resolution, routing table inspection, subject
// classification, and the websocket health feed.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/ssd-technologies/trivium/internal/healthfeed"
	"github.com/ssd-technologies/trivium/internal/manifold"
	"github.com/ssd-technologies/trivium/internal/registry"
)

// Server is the main HTTP server for the Trivium API.
type Server struct {
	router *manifold.Router
	reg    *registry.Store
	feed   *healthfeed.Feed
	mux    *http.ServeMux
}

// New creates a Server with all routes registered. reg may be nil when
// running without persistence (tests).
func New(router *manifold.Router, reg *registry.Store, feedSecret string) *Server {
	s := &Server{
		router: router,
		reg:    reg,
		mux:    http.NewServeMux(),
	}
	var mirror healthfeed.Mirror
	if reg != nil {
		mirror = reg
	}
	s.feed = healthfeed.New(router, mirror, feedSecret)
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// routes registers all HTTP routes on the server mux.
func (s *Server) routes() {
	// Liveness
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Identifiers
	s.mux.HandleFunc("POST /api/identifiers", s.handleGenerateIdentifier)

	// Routing
	s.mux.HandleFunc("POST /api/route", s.handleRoute)
	s.mux.HandleFunc("GET /api/routes", s.handleListRoutes)
	s.mux.HandleFunc("PUT /api/routes/{id}/health", s.handleUpdateHealth)

	// Subjects
	s.mux.HandleFunc("GET /api/subjects/classify", s.handleClassifySubject)

	// Health feed (websocket)
	s.mux.HandleFunc("GET /ws/health", s.feed.Handler())
}

// handleHealth returns a simple liveness response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "trivium",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
