package websocket

import (
	"sync"
	"time"
)

// Metrics tracks in-process counters for one hub
type Metrics struct {
	mu sync.RWMutex

	TotalConnections  int64
	ActiveConnections int64
	MaxConcurrent     int64
	AvgConnectionTime time.Duration

	MessagesSent     int64
	MessagesReceived int64
	BytesSent        int64
	DroppedMessages  int64

	LastReset       time.Time
	connectionTimes []time.Duration
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		LastReset:       time.Now(),
		connectionTimes: make([]time.Duration, 0, 100),
	}
}

// RecordConnection records a new connection
func (m *Metrics) RecordConnection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalConnections++
	m.ActiveConnections++
	if m.ActiveConnections > m.MaxConcurrent {
		m.MaxConcurrent = m.ActiveConnections
	}
}

// RecordDisconnection records a disconnection and keeps a moving average of
// the last 100 connection lifetimes
func (m *Metrics) RecordDisconnection(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ActiveConnections--

	m.connectionTimes = append(m.connectionTimes, duration)
	if len(m.connectionTimes) > 100 {
		m.connectionTimes = m.connectionTimes[1:]
	}
	var total time.Duration
	for _, d := range m.connectionTimes {
		total += d
	}
	m.AvgConnectionTime = total / time.Duration(len(m.connectionTimes))
}

// RecordSent records a delivered message
func (m *Metrics) RecordSent(size int) {
	m.mu.Lock()
	m.MessagesSent++
	m.BytesSent += int64(size)
	m.mu.Unlock()
}

// RecordReceived records a message read from a client
func (m *Metrics) RecordReceived() {
	m.mu.Lock()
	m.MessagesReceived++
	m.mu.Unlock()
}

// RecordDropped records a message that could not be queued
func (m *Metrics) RecordDropped() {
	m.mu.Lock()
	m.DroppedMessages++
	m.mu.Unlock()
}

// Snapshot returns a copy of the counters
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"connections": map[string]interface{}{
			"total":           m.TotalConnections,
			"active":          m.ActiveConnections,
			"max_concurrent":  m.MaxConcurrent,
			"avg_duration_ms": m.AvgConnectionTime.Milliseconds(),
		},
		"messages": map[string]interface{}{
			"sent":       m.MessagesSent,
			"received":   m.MessagesReceived,
			"bytes_sent": m.BytesSent,
			"dropped":    m.DroppedMessages,
		},
		"uptime_seconds": time.Since(m.LastReset).Seconds(),
	}
}
