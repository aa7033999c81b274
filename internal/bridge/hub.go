// Package bridge is the websocket channel to embedded storefront contexts.
// Inbound frames are raw payment messages (one of the three signal sources);
// outbound frames are canonical payment_complete events. The origin
// allow-list is enforced at the upgrade, so an untrusted embedder never gets
// a connection whose messages would have to be distrusted frame by frame.
package bridge

import (
	"net/http"
	"sync"

	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan dto.PaymentEvent
}

func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	h := &Hub{clients: make(map[*client]struct{})}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// non-browser client, nothing to embed
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
	return h
}

// Serve upgrades the request and pumps frames until the peer goes away.
// Every decoded inbound message is handed to onMessage (the normalizer).
func (h *Hub) Serve(c *gin.Context, onMessage func(dto.PaymentMessage)) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Request.Warnf("bridge upgrade rejected: %v", err)
		return
	}
	cl := &client{conn: conn, send: make(chan dto.PaymentEvent, 8)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go cl.writeLoop()
	cl.readLoop(onMessage)

	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
	close(cl.send)
	_ = conn.Close()
}

// Broadcast fans a canonical event out to every connected context. Slow
// clients drop frames rather than stalling the normalizer; a client that
// missed a frame re-resolves the order over HTTP.
func (h *Hub) Broadcast(evt dto.PaymentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- evt:
		default:
		}
	}
}

func (c *client) writeLoop() {
	for evt := range c.send {
		if err := c.conn.WriteJSON(evt); err != nil {
			return
		}
	}
}

func (c *client) readLoop(onMessage func(dto.PaymentMessage)) {
	for {
		var m dto.PaymentMessage
		if err := c.conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Request.Warnf("bridge read failed: %v", err)
			}
			return
		}
		onMessage(m)
	}
}
