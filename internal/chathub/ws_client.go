package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"villago/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize leaves room for a 1000-character body plus the envelope.
	maxMessageSize = 8192

	sendBufferSize = 256
)

// WebSocketClient implements the Client interface over gorilla/websocket.
type WebSocketClient struct {
	id       string
	userID   string
	nickname string

	Conn    *websocket.Conn
	Gateway *Gateway

	send chan models.Envelope

	mu     sync.Mutex // guards closed and the send-vs-close race
	closed bool
}

// NewWebSocketClient builds a connection handle for an upgraded socket. The
// user identity comes from the validated auth token.
func NewWebSocketClient(conn *websocket.Conn, gateway *Gateway, userID, nickname string) *WebSocketClient {
	return &WebSocketClient{
		id:       uuid.New().String(),
		userID:   userID,
		nickname: nickname,
		Conn:     conn,
		Gateway:  gateway,
		send:     make(chan models.Envelope, sendBufferSize),
	}
}

func (c *WebSocketClient) GetID() string       { return c.id }
func (c *WebSocketClient) GetUserID() string   { return c.userID }
func (c *WebSocketClient) GetNickname() string { return c.nickname }

// Send queues an envelope without blocking. A full buffer means the client is
// too slow to keep up and the event is dropped. Broadcasts race disconnects,
// so Send must stay safe after Close: a closed client reports the event as
// dropped instead of panicking on the closed channel.
func (c *WebSocketClient) Send(ev models.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// Run starts the pumps for this connection.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the send channel, which stops the write pump. Safe to call
// more than once and safe against concurrent Send.
func (c *WebSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump reads inbound frames and hands them to the gateway dispatch table.
// Events are processed in arrival order on this goroutine, so one connection's
// own join is observed before its own messages while a slow persistence call
// only ever stalls this connection's reader.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Gateway.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}
		c.Gateway.Dispatch(c, message)
	}
}

// writePump drains the send channel into the socket and keeps the connection
// alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the gateway; say goodbye properly.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding event for connection %s: %v", c.id, err)
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Flush whatever else is already queued into the same frame batch.
			n := len(c.send)
			for i := 0; i < n; i++ {
				next := <-c.send
				extra, _ := json.Marshal(next)
				w.Write([]byte{'\n'})
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
