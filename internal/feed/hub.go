// Package feed streams match render events to remote spectators over
// WebSocket. Spectators only listen; the feed never accepts game input.
package feed

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/amalg/bomb-arena/internal/game"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// spectator is a connected client with its own write goroutine.
type spectator struct {
	ws     *websocket.Conn
	send   chan []byte
	format Format
}

// Hub fans frames out to spectators. Publish never blocks: a spectator
// whose queue is full misses messages.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*spectator]struct{}
	latest   *game.Snapshot
	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
}

// NewHub creates an empty hub.
func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		clients: make(map[*spectator]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectators are read-only, any origin may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Publish forwards one engine frame. It is meant to be the engine's OnTick
// callback and runs outside the simulation lock.
func (h *Hub) Publish(f game.Frame) {
	state := f.State
	h.mu.Lock()
	h.latest = &state
	h.mu.Unlock()

	if len(f.Events) > 0 {
		h.broadcast(Envelope{Type: MsgEvents, MatchID: state.MatchID, Events: f.Events})
	}
	for _, ev := range f.Events {
		if ev.Kind == game.EventRoundEnded {
			h.broadcast(Envelope{Type: MsgState, MatchID: state.MatchID, State: &state})
			break
		}
	}
}

// broadcast encodes env once per format in use and queues it.
func (h *Hub) broadcast(env Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	encoded := make(map[Format][]byte, 2)
	for c := range h.clients {
		b, ok := encoded[c.format]
		if !ok {
			var err error
			b, err = Encode(c.format, env)
			if err != nil {
				h.log.Errorw("encode feed message", "type", env.Type, "error", err)
				return
			}
			encoded[c.format] = b
		}
		select {
		case c.send <- b:
		default:
			// Drop for slow spectators rather than stall the tick.
		}
	}
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades a request to a spectator connection.
// GET /ws?format=json|msgpack
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &spectator{ws: ws, send: make(chan []byte, sendBuffer), format: format}

	h.mu.Lock()
	hello := Envelope{Type: MsgHello}
	if h.latest != nil {
		hello.MatchID = h.latest.MatchID
		hello.State = h.latest
	}
	if b, err := Encode(format, hello); err == nil {
		c.send <- b
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.Infow("spectator connected", "remote", r.RemoteAddr, "format", format)

	go c.writePump()
	go h.readPump(c)
}

// remove unregisters c and closes its queue, which ends the write pump.
func (h *Hub) remove(c *spectator) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards incoming messages and detects disconnects.
func (h *Hub) readPump(c *spectator) {
	defer func() {
		h.remove(c)
		c.ws.Close()
		h.log.Infow("spectator disconnected", "remote", c.ws.RemoteAddr().String())
	}()
	c.ws.SetReadLimit(512)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes queued messages and keeps the connection alive.
func (c *spectator) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	msgType := websocket.TextMessage
	if c.format == FormatMsgpack {
		msgType = websocket.BinaryMessage
	}
	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(msgType, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
