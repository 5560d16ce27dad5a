package healthfeed

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// Client is the collaborator side of the health feed: it dials the
// daemon's feed endpoint and pushes signed route registrations and health
// updates.
type Client struct {
	conn   *websocket.Conn
	secret string
}

// Dial connects to the feed endpoint at url (ws:// or wss://).
func Dial(url, secret string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial health feed: %w", err)
	}
	return &Client{conn: conn, secret: secret}, nil
}

// RegisterRoute registers or replaces a route on the daemon.
func (c *Client) RegisterRoute(p RegisterPayload) error {
	return c.send("register_route", p)
}

// UpdateHealth pushes a health score for a registered route.
func (c *Client) UpdateHealth(routeID string, score float64) error {
	return c.send("health_update", UpdatePayload{RouteID: routeID, HealthScore: score})
}

// Heartbeat sends a signed keepalive.
func (c *Client) Heartbeat() error {
	return c.send("heartbeat", struct{}{})
}

// send marshals, signs, transmits, and waits for the daemon's response.
func (c *Client) send(msgType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	msg := Message{
		Type:      msgType,
		Signature: Sign(c.secret, raw),
		Payload:   raw,
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", msgType, err)
	}

	var resp Response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("read %s response: %w", msgType, err)
	}
	if resp.Type != "ack" {
		return fmt.Errorf("%s rejected: %s", msgType, resp.Message)
	}
	return nil
}

// Close closes the feed connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
