package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(h *Hub, userID uint) *Client {
	return NewClient(h, nil, userID)
}

func TestHub_RegisterSendUnregister(t *testing.T) {
	h := NewHub(nil, zap.NewNop())
	a := newTestClient(h, 1)
	b := newTestClient(h, 1)
	other := newTestClient(h, 2)

	require.True(t, h.Register(a))
	require.True(t, h.Register(b))
	require.True(t, h.Register(other))
	assert.Equal(t, 2, h.ClientCount(1))

	h.SendToUser(1, EventNotification, map[string]string{"title": "hi"})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			var ev Event
			require.NoError(t, json.Unmarshal(msg, &ev))
			assert.Equal(t, EventNotification, ev.Type)
		default:
			t.Fatal("message not delivered")
		}
	}
	assert.Len(t, other.send, 0)

	h.Unregister(a)
	h.Unregister(a)
	assert.Equal(t, 1, h.ClientCount(1))
	assert.True(t, a.sendClosed.Load())
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := NewHub(nil, zap.NewNop())
	c := newTestClient(h, 1)
	require.True(t, h.Register(c))

	for i := 0; i < defaultClientBufferSize+1; i++ {
		h.SendToUser(1, EventNotification, i)
	}
	assert.Equal(t, 0, h.ClientCount(1))
	assert.True(t, c.sendClosed.Load())
}

func TestHub_ShutdownRejectsNewClients(t *testing.T) {
	h := NewHub(nil, zap.NewNop())
	c := newTestClient(h, 1)
	require.True(t, h.Register(c))

	h.Shutdown()
	assert.Equal(t, 0, h.ClientCount(1))
	assert.False(t, h.Register(newTestClient(h, 1)))

	assert.NotPanics(t, func() { h.SendToUser(1, EventNotification, nil) })
}

func TestHub_ServeOverRealConnection(t *testing.T) {
	h := NewHub(nil, zap.NewNop())
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Serve(conn, 7)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() Event {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	}

	assert.Equal(t, EventConnected, read().Type)
	assert.Equal(t, 1, h.ClientCount(7))

	h.SendToUser(7, EventNotification, map[string]string{"title": "Quiz completed"})
	ev := read()
	assert.Equal(t, EventNotification, ev.Type)
	assert.Equal(t, map[string]interface{}{"title": "Quiz completed"}, ev.Data)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	assert.Equal(t, EventPong, read().Type)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.ClientCount(7) == 0 }, 2*time.Second, 10*time.Millisecond)
}
