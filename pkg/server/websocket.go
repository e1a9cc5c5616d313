package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/feedback/pkg/eventbus"
)

// frame is the JSON envelope pushed to WebSocket clients for every
// lifecycle event.
type frame struct {
	Event   eventbus.Event `json:"event"`
	Payload any            `json:"payload"`
}

// client is one connected rendering consumer.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The relay carries no per-connection credentials; origin policy is
	// the embedding application's concern.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, s.cfg.SendBuffer),
		logger: s.logger.With("remote", conn.RemoteAddr().String()),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("websocket client connected", "remote", conn.RemoteAddr().String())

	go c.writeLoop(s.cfg)
	go func() {
		c.readLoop(s.cfg)
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		c.close()
	}()
}

// broadcast fans an event frame out to every connected client. A client
// whose send buffer is full has the frame dropped: the relay never blocks
// the manager's synchronous event dispatch.
func (s *Server) broadcast(event eventbus.Event, payload any) {
	msg, err := json.Marshal(frame{Event: event, Payload: payload})
	if err != nil {
		s.logger.Error("failed to marshal event frame", "event", string(event), "error", err)
		return
	}

	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			c.logger.Warn("dropping frame for slow client", "event", string(event))
		}
	}
}

// writeLoop pushes queued frames and heartbeat pings until the client
// goes away.
func (c *client) writeLoop(cfg *Config) {
	ticker := time.NewTicker(cfg.HeartbeatInterval)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// readLoop consumes incoming messages to keep the connection's read side
// alive. Clients only send pongs and close frames; anything else is
// discarded.
func (c *client) readLoop(cfg *Config) {
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Debug("read error", "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
