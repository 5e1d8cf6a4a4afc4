package kds

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewHub(log)
}

func serveHub(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn, "staff")
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubPublishReachesAllClients(t *testing.T) {
	hub := newTestHub()
	srv := serveHub(t, hub)

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	err := hub.Publish(context.Background(), Message{Event: EventReservationCreate, Data: map[string]int{"id": 7}})
	require.NoError(t, err)

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		var got struct {
			Event string         `json:"event"`
			Data  map[string]int `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, EventReservationCreate, got.Event)
		assert.Equal(t, 7, got.Data["id"])
	}
}

func TestHubForgetsClosedClients(t *testing.T) {
	hub := newTestHub()
	srv := serveHub(t, hub)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := newTestHub()
	assert.NoError(t, hub.Publish(context.Background(), Message{Event: EventTableCreate}))
}

func TestHubPublishDoesNotWaitForStalledClient(t *testing.T) {
	hub := newTestHub()
	srv := serveHub(t, hub)

	// never reads, so its socket buffers fill up
	dial(t, srv)
	healthy := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	received := make(chan struct{})
	go func() {
		defer close(received)
		for {
			if _, _, err := healthy.ReadMessage(); err != nil {
				return
			}
		}
	}()

	payload := strings.Repeat("x", 1<<20)
	began := time.Now()
	for i := 0; i < 64; i++ {
		require.NoError(t, hub.Publish(context.Background(), Message{Event: EventReservationCreate, Data: payload}))
	}
	assert.Less(t, time.Since(began), 3*time.Second)

	assert.Eventually(t, func() bool { return hub.ClientCount() <= 1 }, 5*time.Second, 20*time.Millisecond)
	healthy.Close()
	<-received
}
