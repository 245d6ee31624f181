package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"nanobanana/internal/editor"
	"nanobanana/internal/infra"
	"nanobanana/internal/middleware"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

type stateEvent struct {
	Type  string       `json:"type"`
	State editor.State `json:"state"`
	Time  int64        `json:"time"`
}

// client is one websocket subscriber. Only the latest snapshots matter, so a
// full send buffer drops the message instead of blocking the editor.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans editor state snapshots out to websocket subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	logger  infra.Logger
}

func NewHub(logger infra.Logger) *Hub {
	return &Hub{clients: make(map[string]*client), logger: logger}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastState is registered as an editor subscriber.
func (h *Hub) BroadcastState(s editor.State) {
	data, err := encodeState("state", s)
	if err != nil {
		h.logger.Error().Err(err).Msg("events: encode state")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn().Str("client_id", c.id).Msg("events: send buffer full, dropping snapshot")
		}
	}
}

func encodeState(kind string, s editor.State) ([]byte, error) {
	return json.Marshal(stateEvent{Type: kind, State: s, Time: time.Now().UnixMilli()})
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info().Str("client_id", c.id).Int("clients", total).Msg("events: client connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info().Str("client_id", c.id).Int("clients", total).Msg("events: client disconnected")
}

func (a *App) upgrader() *websocket.Upgrader {
	var origins []string
	if a.Config != nil {
		origins = a.Config.CORSAllowedOrigins
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return middleware.AllowsOrigin(origins, r.Header.Get("Origin"))
		},
	}
}

// Events upgrades to a websocket and streams a snapshot on every state
// change, starting with the current one.
func (a *App) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader().Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("events: upgrade failed")
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	if data, err := encodeState("snapshot", a.Editor.Snapshot()); err == nil {
		c.send <- data
	}
	a.Hub.register(c)
	go c.writePump(a.Logger)
	go c.readPump(a.Hub)
}

func (c *client) writePump(logger infra.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug().Err(err).Str("client_id", c.id).Msg("events: write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; clients never send commands here.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug().Err(err).Str("client_id", c.id).Msg("events: unexpected close")
			}
			return
		}
	}
}
