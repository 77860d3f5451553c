package eventstream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h *Hub, playerID string) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := Upgrade(h, playerID, w, r)
		require.NoError(t, err)
		go Serve(h, playerID, ws)
	}))

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return server, conn
}

func TestConnectRegistersPlayerAndBroadcastGameUpdateDelivers(t *testing.T) {
	h := NewHub()
	server, client := newTestServer(t, h, "alice")
	defer server.Close()
	defer client.Close()

	require.Eventually(t, func() bool { return h.IsConnected("alice") }, time.Second, 5*time.Millisecond)

	ok := h.BroadcastGameUpdate("alice", "move", Delta{Narrative: "you step north"})
	assert.True(t, ok)

	var msg Message
	client.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, EventGameUpdate, msg.Type)
	assert.Equal(t, "move", msg.Event)
}

func TestSendToUnknownPlayerReturnsFalse(t *testing.T) {
	h := NewHub()
	ok := h.SendTo("ghost", Message{Type: EventPing})
	assert.False(t, ok)
}

func TestBroadcastExcludesListedPlayers(t *testing.T) {
	h := NewHub()
	serverA, clientA := newTestServer(t, h, "a")
	defer serverA.Close()
	defer clientA.Close()

	require.Eventually(t, func() bool { return h.IsConnected("a") }, time.Second, 5*time.Millisecond)

	sent := h.Broadcast(Message{Type: EventPing}, map[string]bool{"a": true})
	assert.Equal(t, 0, sent)
}

func TestConnectReplacesExistingConnectionForSamePlayer(t *testing.T) {
	h := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := Upgrade(h, "dup", w, r)
		require.NoError(t, err)
		go Serve(h, "dup", ws)
	}))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	first, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, func() bool { return h.IsConnected("dup") }, time.Second, 5*time.Millisecond)

	second, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer second.Close()

	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDisconnectRemovesConnection(t *testing.T) {
	h := NewHub()
	server, client := newTestServer(t, h, "bob")
	defer server.Close()
	defer client.Close()
	require.Eventually(t, func() bool { return h.IsConnected("bob") }, time.Second, 5*time.Millisecond)

	h.Disconnect("bob")
	assert.False(t, h.IsConnected("bob"))
}

func TestConnectedPlayersListsAllActive(t *testing.T) {
	h := NewHub()
	s1, c1 := newTestServer(t, h, "p1")
	defer s1.Close()
	defer c1.Close()
	s2, c2 := newTestServer(t, h, "p2")
	defer s2.Close()
	defer c2.Close()

	require.Eventually(t, func() bool { return h.Count() == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"p1", "p2"}, h.ConnectedPlayers())
}
