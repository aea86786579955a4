package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/infrastructure"
)

// Message types sent by the hub itself
const (
	TypeConnection = "connection"
	TypeHeartbeat  = "heartbeat"
)

// publishQueueSize bounds events waiting for the hub loop
const publishQueueSize = 256

// Message is the envelope of every event written to a client
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type sessionEvent struct {
	sessionID string
	payload   []byte
}

// Hub keeps the connected clients grouped by session and fans events out to
// the clients of one session. Only the Run loop mutates the client sets.
type Hub struct {
	sessions map[string]map[*Client]struct{}
	count    int

	register   chan *Client
	unregister chan *Client
	publish    chan sessionEvent

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	stats    *Metrics
	business *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewHub creates a hub. business may be nil.
func NewHub(business *infrastructure.BusinessMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		sessions:   make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan sessionEvent, publishQueueSize),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		stats:      NewMetrics(),
		business:   business,
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// Start runs the hub loop in a goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Stop ends the hub loop and closes every client's send queue
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

// Run is the hub loop
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.closeAll()
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.add(client)

		case client := <-h.unregister:
			h.remove(client)

		case ev := <-h.publish:
			h.deliver(ev)
		}
	}
}

// Register adds client to its session's group
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes client. It is safe after Stop.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// PublishToSession queues an event for every client of sessionID. The
// event is dropped when the queue is full.
func (h *Hub) PublishToSession(sessionID, eventType string, data interface{}) {
	payload, err := json.Marshal(Message{
		Type:      eventType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("Error marshaling session event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.publish <- sessionEvent{sessionID: sessionID, payload: payload}:
	default:
		h.stats.RecordDropped()
		h.logger.Warn("Event queue full, dropping event",
			slog.String("session_id", sessionID),
			slog.String("event_type", eventType))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// SessionClientCount returns the number of clients of one session
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Stats returns the hub counters
func (h *Hub) Stats() map[string]interface{} {
	return h.stats.Snapshot()
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	group, ok := h.sessions[client.sessionID]
	if !ok {
		group = make(map[*Client]struct{})
		h.sessions[client.sessionID] = group
	}
	group[client] = struct{}{}
	h.count++
	count := h.count
	h.mu.Unlock()

	ctx := client.context()
	h.stats.RecordConnection()
	h.business.RecordWebSocketChange(ctx, 1)

	h.logger.InfoContext(ctx, "Client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("session_id", client.sessionID),
		slog.String("remote_addr", client.remoteAddr))

	payload, err := json.Marshal(Message{
		Type:      TypeConnection,
		SessionID: client.sessionID,
		Data: map[string]interface{}{
			"status":    "connected",
			"client_id": client.id,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err == nil {
		h.trySend(client, payload)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	group := h.sessions[client.sessionID]
	if _, ok := group[client]; !ok {
		h.mu.Unlock()
		return
	}
	h.detach(client)
	count := h.count
	h.mu.Unlock()

	h.logger.InfoContext(client.context(), "Client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

// detach drops client from its group and closes its queue. h.mu must be held.
func (h *Hub) detach(client *Client) {
	group := h.sessions[client.sessionID]
	delete(group, client)
	if len(group) == 0 {
		delete(h.sessions, client.sessionID)
	}
	h.count--
	close(client.send)

	h.stats.RecordDisconnection(time.Since(client.connectedAt))
	h.business.RecordWebSocketChange(context.Background(), -1)
}

func (h *Hub) deliver(ev sessionEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.sessions[ev.sessionID]))
	for client := range h.sessions[ev.sessionID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("Publishing session event",
		slog.String("session_id", ev.sessionID),
		slog.Int("client_count", len(clients)),
		slog.Int("message_size", len(ev.payload)))

	for _, client := range clients {
		h.trySend(client, ev.payload)
	}
}

// trySend queues payload for client, disconnecting it when its queue is full
func (h *Hub) trySend(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		h.stats.RecordDropped()
		h.mu.Lock()
		if _, ok := h.sessions[client.sessionID][client]; ok {
			h.detach(client)
		}
		h.mu.Unlock()
		h.logger.WarnContext(client.context(), "Client send buffer full, disconnecting",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, group := range h.sessions {
		for client := range group {
			h.detach(client)
		}
	}
}
