// Package healthfeed implements the websocket channel through which
// health-monitoring collaborators register routes and push health/load
// updates into the live routing table. Messages are JSON, authenticated
// per message with HMAC-SHA3-256 over the raw payload.
package healthfeed

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ssd-technologies/trivium/internal/manifold"
)

// Message is the JSON envelope for feed messages.
type Message struct {
	Type      string          `json:"type"` // "register_route", "health_update", "heartbeat"
	Signature string          `json:"signature"`
	Payload   json.RawMessage `json:"payload"`
}

// Response is the JSON envelope sent back to the collaborator.
type Response struct {
	Type    string `json:"type"` // "ack" or "error"
	Message string `json:"message,omitempty"`
}

// RegisterPayload is the payload for a "register_route" message.
type RegisterPayload struct {
	RouteID     string  `json:"route_id"`
	Destination string  `json:"destination"`
	Priority    uint8   `json:"priority"`
	LoadFactor  float64 `json:"load_factor"`
	HealthScore float64 `json:"health_score"`
}

// UpdatePayload is the payload for a "health_update" message.
type UpdatePayload struct {
	RouteID     string  `json:"route_id"`
	HealthScore float64 `json:"health_score"`
}

// Mirror receives a copy of every accepted feed write, typically backed by
// the persistent registry. A nil mirror is valid.
type Mirror interface {
	Upsert(id string, entry manifold.RouteEntry) error
	UpdateHealth(id string, score float64) error
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed applies collaborator messages to a route store, mirroring writes
// to persistent storage.
type Feed struct {
	store  manifold.RouteStore
	mirror Mirror
	secret string

	// Throttle settings per connection.
	burst int
	rate  float64
}

// New creates a Feed bound to the given store and mirror. secret is the
// shared HMAC secret collaborators sign with.
func New(store manifold.RouteStore, mirror Mirror, secret string) *Feed {
	return &Feed{
		store:  store,
		mirror: mirror,
		secret: secret,
		burst:  30,
		rate:   10,
	}
}

// Handler returns an HTTP handler that upgrades to websocket and processes
// feed messages until the connection closes.
func (f *Feed) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("healthfeed upgrade error: %v", err)
			return
		}
		defer conn.Close()

		lim := newThrottle(f.burst, f.rate)

		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("healthfeed read error: %v", err)
				}
				return
			}

			if !lim.allow() {
				writeResponse(conn, Response{Type: "error", Message: "rate limit exceeded"})
				continue
			}

			resp := f.apply(msg)
			if err := writeResponse(conn, resp); err != nil {
				log.Printf("healthfeed write error: %v", err)
				return
			}
		}
	}
}

// apply verifies and dispatches one feed message.
func (f *Feed) apply(msg Message) Response {
	if !Verify(f.secret, msg.Payload, msg.Signature) {
		return Response{Type: "error", Message: "bad signature"}
	}

	switch msg.Type {
	case "heartbeat":
		return Response{Type: "ack"}

	case "register_route":
		var p RegisterPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RouteID == "" {
			return Response{Type: "error", Message: "invalid register payload"}
		}
		entry := manifold.RouteEntry{
			Destination: p.Destination,
			Priority:    p.Priority,
			LoadFactor:  p.LoadFactor,
			HealthScore: p.HealthScore,
		}
		f.store.AddRoute(p.RouteID, entry)
		if f.mirror != nil {
			if err := f.mirror.Upsert(p.RouteID, entry); err != nil {
				log.Printf("healthfeed mirror upsert %s: %v", p.RouteID, err)
			}
		}
		return Response{Type: "ack"}

	case "health_update":
		var p UpdatePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RouteID == "" {
			return Response{Type: "error", Message: "invalid update payload"}
		}
		if err := f.store.UpdateRouteHealth(p.RouteID, p.HealthScore); err != nil {
			return Response{Type: "error", Message: err.Error()}
		}
		if f.mirror != nil {
			if err := f.mirror.UpdateHealth(p.RouteID, p.HealthScore); err != nil {
				log.Printf("healthfeed mirror update %s: %v", p.RouteID, err)
			}
		}
		return Response{Type: "ack"}

	default:
		return Response{Type: "error", Message: "unknown message type"}
	}
}

func writeResponse(conn *websocket.Conn, resp Response) error {
	return conn.WriteJSON(resp)
}
