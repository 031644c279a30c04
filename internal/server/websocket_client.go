package server

import (
	"bytes"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketClient wraps a WebSocket connection. Each text message is one request.
type WebSocketClient struct {
	conn *websocket.Conn
	mu   sync.Mutex // Serializes writers; gorilla allows one concurrent writer
}

func NewWebSocketClient(conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{conn: conn}
}

// ReadMessage returns the next message that is not blank.
func (c *WebSocketClient) ReadMessage() ([]byte, error) {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if trimmed := bytes.TrimSpace(message); len(trimmed) > 0 {
			return trimmed, nil
		}
	}
}

func (c *WebSocketClient) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WebSocketClient) Close() error {
	return c.conn.Close()
}

func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
