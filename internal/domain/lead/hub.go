package lead

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"leadpanel/internal/pkg/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// connection is a single websocket client on the change feed
type connection struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes lead change events to connected websocket clients
type Hub struct {
	mu       sync.RWMutex
	conns    map[*connection]struct{}
	metrics  *metrics.Metrics
	origins  []string
	upgrader websocket.Upgrader
}

// NewHub creates a hub accepting upgrades from the same origins the CORS
// layer allows.
func NewHub(m *metrics.Metrics, allowedOrigins []string) *Hub {
	h := &Hub{
		conns:   make(map[*connection]struct{}),
		metrics: m,
		origins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin admits non-browser clients, which send no Origin header, and
// browsers whose origin is in the allowed list.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Run consumes the broker subscription until it is closed, fanning every
// event out to connected clients. It releases the subscription on return.
func (h *Hub) Run(sub *Subscription) {
	defer sub.Unsubscribe()
	for ev := range sub.C {
		h.broadcast(ev)
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
	h.metrics.FeedSubscribers.Set(float64(len(h.conns)))
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
	h.metrics.FeedSubscribers.Set(float64(len(h.conns)))
}

func (h *Hub) broadcast(ev ChangeEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		select {
		case c.send <- data:
		default:
			// client too slow, skip
		}
	}
}

// ServeWS registers a new connection and starts read/write loops
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The feed is one-way; incoming frames are drained only to detect
	// disconnects and keep pong handling alive.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
