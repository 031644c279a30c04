package testclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/lawnchairsociety/gowdata/internal/server"
)

// ErrClosed is returned by Query after the connection has gone away.
var ErrClosed = errors.New("connection closed")

// ServerError is an error response sent by the server.
type ServerError struct {
	Op      string
	Message string
}

func (e *ServerError) Error() string {
	if e.Op == "" {
		return "server: " + e.Message
	}
	return fmt.Sprintf("server %s: %s", e.Op, e.Message)
}

// TestClient speaks the line-delimited JSON protocol to a query server.
type TestClient struct {
	Name      string
	conn      net.Conn
	writer    *bufio.Writer
	mu        sync.Mutex
	nextID    int
	responses chan server.Response
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to a query server at address.
func Dial(address string) (*TestClient, error) {
	conn, err := net.DialTimeout("tcp", address, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return newClient(conn), nil
}

func newClient(conn net.Conn) *TestClient {
	client := &TestClient{
		Name:      conn.LocalAddr().String(),
		conn:      conn,
		writer:    bufio.NewWriter(conn),
		responses: make(chan server.Response, 16),
		done:      make(chan struct{}),
	}
	go client.readResponses(bufio.NewReader(conn))
	return client
}

// readResponses decodes server lines until the connection ends.
func (c *TestClient) readResponses(reader *bufio.Reader) {
	defer close(c.responses)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		var resp server.Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			continue
		}
		select {
		case c.responses <- resp:
		case <-c.done:
			return
		}
	}
}

// Query sends req and waits for its response. Requests without an ID are
// numbered by the client.
func (c *TestClient) Query(ctx context.Context, req server.Request) (server.Response, error) {
	c.mu.Lock()
	if req.ID == "" {
		c.nextID++
		req.ID = strconv.Itoa(c.nextID)
	}
	data, err := json.Marshal(req)
	if err == nil {
		_, err = c.writer.Write(append(data, '\n'))
	}
	if err == nil {
		err = c.writer.Flush()
	}
	c.mu.Unlock()
	if err != nil {
		return server.Response{}, fmt.Errorf("failed to send %s: %w", req.Op, err)
	}

	for {
		select {
		case <-ctx.Done():
			return server.Response{}, ctx.Err()
		case resp, ok := <-c.responses:
			if !ok {
				return server.Response{}, ErrClosed
			}
			if resp.ID != "" && resp.ID != req.ID {
				continue
			}
			if resp.Error != "" {
				return resp, &ServerError{Op: resp.Op, Message: resp.Error}
			}
			return resp, nil
		}
	}
}

// Search runs a search for query in kind ("" for every kind).
func (c *TestClient) Search(ctx context.Context, kind, query, locale string) ([]string, error) {
	resp, err := c.Query(ctx, server.Request{Op: server.OpSearch, Kind: kind, Query: query, Locale: locale})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		names = append(names, r.Name)
	}
	return names, nil
}

// Close closes the client connection.
func (c *TestClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}
