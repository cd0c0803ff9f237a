package orderControllers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func feedServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	r := gin.New()
	r.GET("/orders/feed", OrderFeedHandler)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/orders/feed"
}

func clientCount() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.clients)
}

func TestBroadcastReachesConnectedConsoles(t *testing.T) {
	_, url := feedServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return clientCount() == 1 },
		time.Second, 10*time.Millisecond, "console should register on connect")

	Broadcast("created", 7)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var ev FeedEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "created", ev.Event)
	assert.EqualValues(t, 7, ev.OrderID)
}

func TestBroadcastDropsClosedConsoles(t *testing.T) {
	_, url := feedServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return clientCount() == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	// The read loop or the next broadcasts clear the dead connection;
	// either way the hub converges to empty and Broadcast keeps working.
	require.Eventually(t, func() bool {
		Broadcast("status_changed", 8)
		return clientCount() == 0
	}, 2*time.Second, 50*time.Millisecond)
}
