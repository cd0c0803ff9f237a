package orderControllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sipwell/storefront-api/pkg/log"
)

// writeWait caps how long one stalled console can delay a broadcast; a
// connection that cannot take the event in time is dropped like a dead one.
const writeWait = 2 * time.Second

// The order feed tells fulfillment consoles that something changed.
// Payloads carry only the event type and order id; consoles re-read the
// order instead of trusting a pushed row.
type FeedEvent struct {
	Event   string `json:"event"` // "created", "status_changed", "payment_changed", "deleted"
	OrderID uint   `json:"order_id"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

var hub = &feedHub{clients: make(map[*websocket.Conn]bool)}

// GET /orders/feed
func OrderFeedHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	hub.mu.Lock()
	hub.clients[conn] = true
	hub.mu.Unlock()

	// Drain the connection; clients only listen.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.mu.Lock()
			delete(hub.clients, conn)
			hub.mu.Unlock()
			break
		}
	}
}

// Broadcast pushes a feed event to every connected console. Slow or dead
// connections are dropped rather than blocking the writer.
func Broadcast(event string, orderID uint) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for conn := range hub.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(FeedEvent{Event: event, OrderID: orderID}); err != nil {
			log.L.Debug("dropping feed client", zap.Error(err))
			conn.Close()
			delete(hub.clients, conn)
		}
	}
}
