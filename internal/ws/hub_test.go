package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(logger.Nop())
	h.now = func() time.Time { return time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC) }
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func fakeClient(userID uuid.UUID, buffer int) *Client {
	return &Client{userID: userID, send: make(chan []byte, buffer)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.send:
		var evt Event
		require.NoError(t, json.Unmarshal(msg, &evt))
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}

func TestHub_NotifyReachesOnlyThatUser(t *testing.T) {
	h := startHub(t)
	alice, bob := uuid.New(), uuid.New()
	a1, a2, b1 := fakeClient(alice, 4), fakeClient(alice, 4), fakeClient(bob, 4)
	h.Register(a1)
	h.Register(a2)
	h.Register(b1)
	require.Eventually(t, func() bool { return h.ClientCount(alice) == 2 && h.ClientCount(bob) == 1 }, time.Second, 5*time.Millisecond)

	h.Notify(alice, "milestone.achieved", map[string]string{"title": "Go: reached ADVANCED"})

	for _, c := range []*Client{a1, a2} {
		evt := receive(t, c)
		assert.Equal(t, "milestone.achieved", evt.Type)
		assert.Equal(t, map[string]any{"title": "Go: reached ADVANCED"}, evt.Payload)
		assert.True(t, evt.Timestamp.Equal(time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)))
	}
	select {
	case <-b1.send:
		t.Fatal("bob received alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DropsWhenClientBufferFull(t *testing.T) {
	h := startHub(t)
	full, other := uuid.New(), uuid.New()
	c := fakeClient(full, 1)
	c.send <- []byte("stale")
	o := fakeClient(other, 1)
	h.Register(c)
	h.Register(o)
	require.Eventually(t, func() bool { return h.ClientCount(full) == 1 && h.ClientCount(other) == 1 }, time.Second, 5*time.Millisecond)

	h.Notify(full, "progress.updated", 1)
	h.Notify(other, "progress.updated", 2)

	// deliveries are processed in order, so the first one is settled
	assert.EqualValues(t, 2, receive(t, o).Payload)
	assert.Equal(t, []byte("stale"), <-c.send)
	assert.Empty(t, c.send)
	assert.Equal(t, 1, h.ClientCount(full))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	u := uuid.New()
	c := fakeClient(u, 1)
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount(u) == 1 }, time.Second, 5*time.Millisecond)

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.ClientCount(u) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.send
	assert.False(t, open)

	assert.NotPanics(t, func() { h.Unregister(c) })
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() {
		h.Notify(uuid.New(), "progress.updated", nil)
		h.Register(nil)
		assert.Zero(t, h.ClientCount(uuid.New()))
	})
}

func TestHandler_DeliversOverWebsocket(t *testing.T) {
	h := startHub(t)
	u := uuid.New()
	wsh := NewHandler(h, nil, logger.Nop())

	srv := httptest.NewServer(wsh.serve(u))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.ClientCount(u) == 1 }, time.Second, 5*time.Millisecond)
	h.Notify(u, "progress.updated", map[string]int{"completion": 40})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "progress.updated", evt.Type)
	assert.Equal(t, map[string]any{"completion": float64(40)}, evt.Payload)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.ClientCount(u) == 0 }, 2*time.Second, 10*time.Millisecond)
}
