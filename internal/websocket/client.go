package websocket

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/config"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/infrastructure"
)

const sendQueueSize = 64

var (
	newline   = []byte{'\n'}
	space     = []byte{' '}
	heartbeat = []byte(`{"type":"heartbeat"}`)
)

// Client is a middleman between one websocket connection and the hub
type Client struct {
	hub  *Hub
	conn Connection
	cfg  config.WebSocketConfig

	// Buffered channel of outbound messages. Closed by the hub.
	send chan []byte

	id          string
	sessionID   string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	logger *slog.Logger
}

// NewClient creates a client of sessionID over conn
func NewClient(hub *Hub, conn Connection, sessionID, traceID string, cfg config.WebSocketConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New().String()
	return &Client{
		hub:         hub,
		conn:        conn,
		cfg:         cfg,
		send:        make(chan []byte, sendQueueSize),
		id:          id,
		sessionID:   sessionID,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger: logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id),
			slog.String("session_id", sessionID)),
	}
}

// ID returns the client id
func (c *Client) ID() string { return c.id }

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump reads until the peer goes away. Clients only send heartbeats; any
// other message is counted and ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		c.logger.DebugContext(c.context(), "WebSocket read pump stopped",
			slog.Duration("connection_duration", time.Since(c.connectedAt)))
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(c.context(), "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
		c.hub.stats.RecordReceived()

		if bytes.Equal(message, heartbeat) {
			c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
			c.logger.Debug("Heartbeat received")
		}
	}
}

// WritePump writes queued messages and pings until the hub closes the queue
// or a write fails
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(message); err != nil {
				return
			}

			// drain what queued up meanwhile, one frame per message
			n := len(c.send)
			for i := 0; i < n; i++ {
				msg, ok := <-c.send
				if !ok {
					c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.write(msg); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.context(), "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

func (c *Client) write(message []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.ErrorContext(c.context(), "Error writing message to WebSocket",
			slog.String("error", err.Error()))
		return err
	}
	c.hub.stats.RecordSent(len(message))
	return nil
}

// Serve registers a client for conn and starts its pumps
func Serve(hub *Hub, conn Connection, sessionID, traceID string, cfg config.WebSocketConfig, logger *slog.Logger) *Client {
	client := NewClient(hub, conn, sessionID, traceID, cfg, logger)
	hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
	return client
}
