package websocket

import (
	"errors"
	"sync"
	"time"
)

var errMockClosed = errors.New("connection closed")

// mockConnection is an in-memory Connection. ReadMessage blocks until a
// message is pushed or the connection is closed.
type mockConnection struct {
	mu       sync.Mutex
	written  [][]byte
	types    []int
	closed   bool
	incoming chan []byte
	done     chan struct{}
	limit    int64
}

func newMockConnection() *mockConnection {
	return &mockConnection{
		incoming: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errMockClosed
	}
	m.types = append(m.types, messageType)
	m.written = append(m.written, append([]byte(nil), data...))
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.incoming:
		return 1, msg, nil
	case <-m.done:
		return 0, nil, errMockClosed
	}
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *mockConnection) SetReadDeadline(time.Time) error  { return nil }
func (m *mockConnection) SetWriteDeadline(time.Time) error { return nil }
func (m *mockConnection) SetPongHandler(func(string) error) {}
func (m *mockConnection) RemoteAddr() string                { return "127.0.0.1:9999" }

func (m *mockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	m.limit = limit
	m.mu.Unlock()
}

func (m *mockConnection) readLimit() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit
}

func (m *mockConnection) textMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [][]byte
	for i, t := range m.types {
		if t == 1 {
			out = append(out, m.written[i])
		}
	}
	return out
}

func (m *mockConnection) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
