package server

import (
	"bufio"
	"bytes"
	"net"
	"sync"
)

// LineClient speaks newline-delimited JSON over a raw TCP connection.
type LineClient struct {
	conn    net.Conn
	scanner *bufio.Scanner
	writer  *bufio.Writer
	mu      sync.Mutex // Protects writer
}

// NewLineClient creates a LineClient. Lines longer than maxLine bytes end
// the connection with bufio.ErrTooLong.
func NewLineClient(conn net.Conn, maxLine int) *LineClient {
	scanner := bufio.NewScanner(conn)
	if maxLine > 0 {
		scanner.Buffer(make([]byte, 0, min(maxLine, 4096)), maxLine)
	}
	return &LineClient{
		conn:    conn,
		scanner: scanner,
		writer:  bufio.NewWriter(conn),
	}
}

// ReadMessage returns the next non-blank line without its newline.
func (c *LineClient) ReadMessage() ([]byte, error) {
	for c.scanner.Scan() {
		line := bytes.TrimSpace(c.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return bytes.Clone(line), nil
	}
	if err := c.scanner.Err(); err != nil {
		return nil, err
	}
	// Scanner finished without error means EOF/connection closed
	return nil, net.ErrClosed
}

// WriteMessage writes data followed by a newline.
func (c *LineClient) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.writer.Write(data); err != nil {
		return err
	}
	if err := c.writer.WriteByte('\n'); err != nil {
		return err
	}
	return c.writer.Flush()
}

func (c *LineClient) Close() error {
	return c.conn.Close()
}

func (c *LineClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
