package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ssd-technologies/trivium/internal/healthfeed"
	"github.com/ssd-technologies/trivium/internal/manifold"
	"github.com/ssd-technologies/trivium/internal/registry"
	"github.com/ssd-technologies/trivium/internal/triv"
)

// setupTestServer creates a server with an empty router and a temporary
// registry database.
func setupTestServer(t *testing.T) (*Server, *manifold.Router) {
	t.Helper()
	reg, err := registry.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() { reg.Close() })

	router := manifold.NewRouter()
	return New(router, reg, "test-secret"), router
}

// doJSON posts a JSON body and decodes the JSON response.
func doJSON(t *testing.T, srv *Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v; body = %s", err, rec.Body.String())
	}
	return rec.Code, out
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t)
	code, body := doJSON(t, srv, http.MethodGet, "/api/health", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["service"] != "trivium" {
		t.Fatalf("service = %v", body["service"])
	}
}

func TestGenerateIdentifier(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, body := doJSON(t, srv, http.MethodPost, "/api/identifiers", map[string]any{
		"text":       "scan debris field",
		"node_type":  "sensor",
		"domain":     "space",
		"exec_class": "scan",
		"timestamp":  1700000000,
		"env":        "edge",
		"agent_id":   42,
	})
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}

	primary, ok := body["primary"].(map[string]any)
	if !ok {
		t.Fatalf("primary missing: %v", body)
	}
	canonical, _ := primary["canonical"].(string)
	id, err := triv.Parse(canonical)
	if err != nil {
		t.Fatalf("generated canonical does not parse: %v", err)
	}
	if len(id.Semantic) != 16 || len(id.Context) != 16 {
		t.Fatalf("component lengths wrong: %+v", id)
	}
	flat, _ := primary["flat_hash"].(string)
	if len(flat) != 48 {
		t.Fatalf("flat hash length = %d, want 48", len(flat))
	}
	if _, ok := body["secondary"]; ok {
		t.Fatal("secondary should be absent unless dual is requested")
	}
}

func TestGenerateIdentifierDual(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, body := doJSON(t, srv, http.MethodPost, "/api/identifiers", map[string]any{
		"text":   "deploy relay",
		"domain": "space",
		"dual":   true,
	})
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	if _, ok := body["secondary"]; !ok {
		t.Fatal("secondary should be present when dual is requested")
	}
}

func TestGenerateIdentifierRequiresText(t *testing.T) {
	srv, _ := setupTestServer(t)
	code, _ := doJSON(t, srv, http.MethodPost, "/api/identifiers", map[string]any{})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestRouteFlow(t *testing.T) {
	srv, router := setupTestServer(t)
	router.AddRoute("svc-a", manifold.RouteEntry{Destination: "workers-alpha", HealthScore: 0.95, LoadFactor: 0.4})
	router.AddRoute("svc-b", manifold.RouteEntry{Destination: "workers-alpha", HealthScore: 0.9, LoadFactor: 0.9})

	code, body := doJSON(t, srv, http.MethodPost, "/api/route", map[string]any{
		"hash":             strings.Repeat(" ", 48),
		"destination_type": "workers-alpha",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %v", code, body)
	}
	if body["route_id"] != "svc-a" {
		t.Fatalf("route_id = %v, want svc-a", body["route_id"])
	}
	det, _ := body["deterministic_route"].(string)
	if !strings.HasPrefix(det, "route_") {
		t.Fatalf("deterministic_route = %q", det)
	}
}

func TestRouteByCanonical(t *testing.T) {
	srv, router := setupTestServer(t)
	router.AddRoute("svc-a", manifold.RouteEntry{Destination: "workers", HealthScore: 0.95, LoadFactor: 0.5})

	// Generate a real identifier, then route its canonical form.
	_, body := doJSON(t, srv, http.MethodPost, "/api/identifiers", map[string]any{
		"text":   "scan field",
		"domain": "space",
	})
	primary := body["primary"].(map[string]any)
	canonical := primary["canonical"].(string)

	code, routeBody := doJSON(t, srv, http.MethodPost, "/api/route", map[string]any{
		"canonical":        canonical,
		"destination_type": "workers",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d; body = %v", code, routeBody)
	}
	if routeBody["route_id"] != "svc-a" {
		t.Fatalf("route_id = %v", routeBody["route_id"])
	}
}

func TestRouteNoHealthyRoute(t *testing.T) {
	srv, router := setupTestServer(t)
	router.AddRoute("svc-a", manifold.RouteEntry{Destination: "workers", HealthScore: 0.5, LoadFactor: 0.4})

	code, _ := doJSON(t, srv, http.MethodPost, "/api/route", map[string]any{
		"hash":             strings.Repeat(" ", 48),
		"destination_type": "workers",
	})
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
}

func TestRouteMalformedHash(t *testing.T) {
	srv, _ := setupTestServer(t)
	code, _ := doJSON(t, srv, http.MethodPost, "/api/route", map[string]any{
		"hash": "too-short",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestRouteBadCanonical(t *testing.T) {
	srv, _ := setupTestServer(t)
	code, _ := doJSON(t, srv, http.MethodPost, "/api/route", map[string]any{
		"canonical": "not-triv-prefixed",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestListRoutes(t *testing.T) {
	srv, router := setupTestServer(t)
	router.AddRoute("svc-a", manifold.RouteEntry{Destination: "workers", HealthScore: 0.9})

	req := httptest.NewRequest(http.MethodGet, "/api/routes", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var routes map[string]manifold.RouteEntry
	if err := json.NewDecoder(rec.Body).Decode(&routes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if routes["svc-a"].Destination != "workers" {
		t.Fatalf("routes = %+v", routes)
	}
}

func TestUpdateHealthEndpoint(t *testing.T) {
	srv, router := setupTestServer(t)
	router.AddRoute("svc-a", manifold.RouteEntry{Destination: "workers", HealthScore: 0.5})

	code, _ := doJSON(t, srv, http.MethodPut, "/api/routes/svc-a/health", map[string]any{
		"health_score": 0.92,
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if got := router.Routes()["svc-a"].HealthScore; got != 0.92 {
		t.Fatalf("health = %v, want 0.92", got)
	}
}

func TestUpdateHealthUnknownRoute(t *testing.T) {
	srv, _ := setupTestServer(t)
	code, _ := doJSON(t, srv, http.MethodPut, "/api/routes/missing/health", map[string]any{
		"health_score": 0.9,
	})
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestClassifySubject(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/subjects/classify?subject=task.execute.job-1", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["durable"] != true {
		t.Fatalf("task subject should be durable: %v", body)
	}
	if body["low_latency"] != false {
		t.Fatalf("task subject should not be low latency: %v", body)
	}

	code, body = doJSON(t, srv, http.MethodGet, "/api/subjects/classify?subject=tick.pulse", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["low_latency"] != true {
		t.Fatalf("tick subject should be low latency: %v", body)
	}
}

func TestClassifySubjectRequiresParam(t *testing.T) {
	srv, _ := setupTestServer(t)
	code, _ := doJSON(t, srv, http.MethodGet, "/api/subjects/classify", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestHealthFeedEndToEnd(t *testing.T) {
	srv, router := setupTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/health"
	client, err := healthfeed.Dial(url, "test-secret")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	if err := client.RegisterRoute(healthfeed.RegisterPayload{
		RouteID:     "svc-feed",
		Destination: "workers-feed",
		HealthScore: 0.99,
		LoadFactor:  0.3,
	}); err != nil {
		t.Fatalf("RegisterRoute: %v", err)
	}

	if router.Routes()["svc-feed"].Destination != "workers-feed" {
		t.Fatal("feed registration should reach the live routing table")
	}

	// The registry mirror should have persisted it too.
	code, _ := doJSON(t, srv, http.MethodPut, "/api/routes/svc-feed/health", map[string]any{
		"health_score": 0.42,
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
}
