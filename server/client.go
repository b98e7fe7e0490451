package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/atakanbattal/Kademe-KYS-sub003/bus"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// WebSocket timeouts, following the gorilla chat example
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Clients only send control frames and small requests
	maxMessageSize = 4096
)

// clientMessage is what a dashboard may send over the socket
type clientMessage struct {
	Type string `json:"type"` // "summary"
}

// Client is one WebSocket connection streaming a domain's change events
type Client struct {
	server    *Server
	conn      *websocket.Conn
	id        string
	sub       bus.Subscription
	events    <-chan bus.Event
	requests  chan clientMessage
	done      chan struct{}
	closeOnce sync.Once
}

// HandleWebSocket upgrades the connection and subscribes it to ?domain= (default "all").
// The current summary is sent first, then one message per change event.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("domain")
	if name == "" {
		name = string(quality.DomainAll)
	}
	d, err := quality.ParseDomain(name, true)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	upgrader := s.newUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.Debugw("WebSocket upgrade failed", logger.FieldError, err)
		return
	}

	sub, events, err := s.engine.Bus().SubscribeChan(d, bus.ChannelBufferSize)
	if err != nil {
		conn.Close()
		return
	}
	c := &Client{
		server:   s,
		conn:     conn,
		id:       uuid.NewString(),
		sub:      sub,
		events:   events,
		requests: make(chan clientMessage, 4),
		done:     make(chan struct{}),
	}
	if !s.register(c) {
		c.close()
		return
	}

	s.wg.Add(2)
	go c.writePump()
	go c.readPump()
	c.requests <- clientMessage{Type: "summary"}
}

// readPump reads client requests until the connection closes
func (c *Client) readPump() {
	defer func() {
		c.server.wg.Done()
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.handleReadError(err)
			return
		}
		select {
		case c.requests <- msg:
		case <-c.done:
			return
		default:
			c.server.logger.Debugw("Client request queue full, dropping", "client_id", c.id)
		}
	}
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes (going away, abnormal, no status) are ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		c.server.logger.Warnw("WebSocket read error", "client_id", c.id, logger.FieldError, err)
	}
}

// writePump owns every write to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.server.wg.Done()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case ev, ok := <-c.events:
			if !ok {
				return
			}
			if err := c.write(eventMessage{Type: "event", Domain: ev.Domain, At: ev.At, Records: ev.Records, Summary: ev.Summary}); err != nil {
				return
			}
		case req := <-c.requests:
			if err := c.handleRequest(req); err != nil {
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

// eventMessage is the wire shape of everything the server pushes
type eventMessage struct {
	Type    string         `json:"type"` // "event", "summary", "error"
	Domain  quality.Domain `json:"domain,omitempty"`
	At      time.Time      `json:"at"`
	Records int            `json:"records,omitempty"`
	Summary any            `json:"summary,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// handleRequest answers a client request with the current summaries of its subscription
func (c *Client) handleRequest(req clientMessage) error {
	switch req.Type {
	case "summary":
		domains := quality.Domains
		if c.sub.Domain != quality.DomainAll {
			domains = []quality.Domain{c.sub.Domain}
		}
		for _, d := range domains {
			summary, _ := c.server.engine.Summary(c.server.ctx, d)
			if err := c.write(eventMessage{Type: "summary", Domain: d, At: time.Now(), Summary: summary}); err != nil {
				return err
			}
		}
		return nil
	default:
		return c.write(eventMessage{Type: "error", At: time.Now(),
			Error: errors.NewInvalidRequestError("unknown message type %q", req.Type).Error()})
	}
}

func (c *Client) write(msg eventMessage) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.server.logger.Debugw("WebSocket write failed", "client_id", c.id, logger.FieldError, err)
		return err
	}
	return nil
}

// close unsubscribes from the bus and closes the connection. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.server.engine.Unsubscribe(c.sub)
		c.server.unregister(c)
		c.conn.Close()
	})
}
