// Package stream serves a layout session over websockets. Browsers receive
// a JSON view after every tick and send pointer, viewport and settings
// messages back.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/san-kum/graphsim/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 8
	maxMessage = 4096
)

// Hub fans views out to every connected client and funnels their messages
// into one command channel for the session loop.
type Hub struct {
	upgrader websocket.Upgrader
	cmds     chan<- session.Command
	log      *slog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	done    chan struct{}
	once    sync.Once
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewHub(cmds chan<- session.Command, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		cmds:    cmds,
		log:     logger,
		clients: make(map[*client]struct{}),
		done:    make(chan struct{}),
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends v to every client. A client whose buffer is full misses
// this frame.
func (h *Hub) Broadcast(v session.View) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encode view", "error", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Close disconnects every client and stops accepting commands.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.done)
		h.mu.Lock()
		defer h.mu.Unlock()
		for c := range h.clients {
			c.conn.Close()
			delete(h.clients, c)
			close(c.send)
		}
	})
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{id: uuid.NewString()[:8], conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info("client connected", "client", c.id, "remote", r.RemoteAddr)

	go h.writer(c)
	h.reader(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

func (h *Hub) reader(c *client) {
	defer func() {
		h.remove(c)
		h.log.Info("client disconnected", "client", c.id)
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("client read failed", "client", c.id, "error", err)
			}
			return
		}
		cmd, err := msg.Command()
		if err != nil {
			h.log.Debug("message rejected", "client", c.id, "error", err)
			continue
		}
		select {
		case h.cmds <- cmd:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) writer(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
