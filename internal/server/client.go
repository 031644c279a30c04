package server

// Client abstracts the connection layer for both line-delimited TCP and
// WebSocket connections. Every message is one JSON request or response.
type Client interface {
	// ReadMessage blocks until a non-empty message is received.
	ReadMessage() ([]byte, error)

	// WriteMessage sends one message to the client.
	WriteMessage(data []byte) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}
