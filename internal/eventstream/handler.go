package eventstream

import (
	"net/http"

	"github.com/aiwuxian/tile-crawler/internal/corelog"
	"github.com/gorilla/websocket"
)

// upgrader is shared across connections; CheckOrigin is permissive by
// default since this server expects same-origin or trusted-proxy deploys.
// An allow-list belongs here before an untrusted-origin deploy (see
// DESIGN.md).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Upgrade promotes an HTTP request to a WebSocket connection and registers
// it on h under playerID. The caller is expected to then block reading
// incoming frames (pings, disconnect detection) in its own goroutine.
func Upgrade(h *Hub, playerID string, w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		corelog.Logger().Warn("websocket upgrade failed", "player_id", playerID, "error", err)
		return nil, err
	}
	h.Connect(playerID, ws)
	corelog.Logger().Info("websocket connected", "player_id", playerID)
	return ws, nil
}

// Serve blocks reading frames from ws until the connection closes or errs,
// treating every inbound text message as a liveness pong and discarding its
// payload (the client has no outbound command channel over this socket;
// actions still go through the REST API). Removes the connection from h on
// return, unless a newer connection for playerID has replaced it.
func Serve(h *Hub, playerID string, ws *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		if c, ok := h.conns[playerID]; ok && c.ws == ws {
			delete(h.conns, playerID)
		}
		h.mu.Unlock()
		ws.Close()
	}()
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
		h.UpdateLastPing(playerID)
	}
}
