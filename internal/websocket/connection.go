package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Connection is the part of a websocket connection the client pumps use.
// It lets tests drive a Client without a network.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() string
}

// gorillaConn adapts *websocket.Conn to Connection
type gorillaConn struct {
	*websocket.Conn
}

// WrapConn wraps a gorilla connection
func WrapConn(conn *websocket.Conn) Connection {
	return gorillaConn{Conn: conn}
}

func (c gorillaConn) RemoteAddr() string {
	if addr := c.Conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
