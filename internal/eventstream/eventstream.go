// Package eventstream broadcasts outbound game-state deltas to a session's
// connected clients over WebSocket: connection bookkeeping keyed by player
// id, broadcast-with-exclude, dead-connection cleanup, ping/pong liveness,
// and a per-connection write mutex so concurrent broadcasts never race on
// the socket. One Hub belongs to exactly one session
// (internal/session.Session embeds its own), so there is no process-wide
// singleton to reset between games.
package eventstream

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventType labels the kind of payload carried by a Message.
type EventType string

const (
	EventGameUpdate EventType = "game_update"
	EventError      EventType = "error"
	EventPing       EventType = "ping"
)

// Message is the JSON envelope written to a client connection.
type Message struct {
	Type      EventType   `json:"type"`
	Event     string      `json:"event,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Delta is the payload of a game_update message: a diff against what the
// client already has, not a full snapshot.
type Delta struct {
	State     interface{} `json:"state,omitempty"`
	Narrative string      `json:"narrative,omitempty"`
	Audio     interface{} `json:"audio,omitempty"`
	Combat    interface{} `json:"combat,omitempty"`
	Dialogue  interface{} `json:"dialogue,omitempty"`
}

// conn wraps one client's connection with the write-serialization
// websocket_client.go relies on (gorilla's Conn forbids concurrent writers).
type conn struct {
	ws       *websocket.Conn
	writeMu  sync.Mutex
	lastPing time.Time
}

func (c *conn) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(v)
}

// Hub tracks the live connections for one session, keyed by player id, and
// broadcasts or targets messages to them. Safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*conn
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*conn)}
}

// Connect registers ws under playerID, closing and replacing whatever
// connection was previously registered for that id.
func (h *Hub) Connect(playerID string, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.conns[playerID]; ok {
		old.ws.Close()
	}
	h.conns[playerID] = &conn{ws: ws, lastPing: time.Now()}
}

// Disconnect closes and removes playerID's connection, if any.
func (h *Hub) Disconnect(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[playerID]; ok {
		c.ws.Close()
		delete(h.conns, playerID)
	}
}

// IsConnected reports whether playerID currently has a live connection.
func (h *Hub) IsConnected(playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[playerID]
	return ok
}

// ConnectedPlayers returns the ids of all currently connected players.
func (h *Hub) ConnectedPlayers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.conns))
	for id := range h.conns {
		out = append(out, id)
	}
	return out
}

// Count reports the number of live connections, a snapshot that may be
// stale the instant it's read.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// SendTo sends msg to a specific player, dropping and removing the
// connection if the write fails (treated as a dead connection).
func (h *Hub) SendTo(playerID string, msg Message) bool {
	h.mu.RLock()
	c, ok := h.conns[playerID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if err := c.writeJSON(msg); err != nil {
		h.Disconnect(playerID)
		return false
	}
	return true
}

// Broadcast sends msg to every connected player except those in exclude,
// cleaning up any connection that fails to write, and returns the number
// of players the message reached.
func (h *Hub) Broadcast(msg Message, exclude map[string]bool) int {
	h.mu.RLock()
	targets := make(map[string]*conn, len(h.conns))
	for id, c := range h.conns {
		if exclude[id] {
			continue
		}
		targets[id] = c
	}
	h.mu.RUnlock()

	sent := 0
	var dead []string
	for id, c := range targets {
		if err := c.writeJSON(msg); err != nil {
			dead = append(dead, id)
			continue
		}
		sent++
	}
	for _, id := range dead {
		h.Disconnect(id)
	}
	return sent
}

// BroadcastGameUpdate sends a Delta to playerID as a game_update event.
func (h *Hub) BroadcastGameUpdate(playerID, event string, delta Delta) bool {
	return h.SendTo(playerID, Message{
		Type:      EventGameUpdate,
		Event:     event,
		Timestamp: time.Now(),
		Data:      delta,
	})
}

// SendError sends a player-facing error message.
func (h *Hub) SendError(playerID, message string) bool {
	return h.SendTo(playerID, Message{
		Type:      EventError,
		Timestamp: time.Now(),
		Data:      map[string]string{"message": message},
	})
}

// Ping sends a liveness probe, matching send_ping.
func (h *Hub) Ping(playerID string) bool {
	return h.SendTo(playerID, Message{Type: EventPing, Timestamp: time.Now()})
}

// UpdateLastPing records that a pong/liveness ack was received for playerID.
func (h *Hub) UpdateLastPing(playerID string) {
	h.mu.RLock()
	c, ok := h.conns[playerID]
	h.mu.RUnlock()
	if ok {
		c.writeMu.Lock()
		c.lastPing = time.Now()
		c.writeMu.Unlock()
	}
}

// MarshalDelta is a small helper for callers that need the raw JSON bytes
// of a Delta (e.g. to log or persist alongside the live broadcast).
func MarshalDelta(d Delta) ([]byte, error) {
	return json.Marshal(d)
}
