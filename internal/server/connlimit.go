package server

import (
	"errors"
	"net"
	"sync"

	"github.com/lawnchairsociety/gowdata/internal/config"
)

var (
	ErrTooManyConnections = errors.New("server connection limit reached")
	ErrTooManyFromIP      = errors.New("connection limit reached for address")
)

// ConnLimiter caps open connections per IP and in total. Zero means unlimited.
type ConnLimiter struct {
	mu       sync.Mutex
	perIP    map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

func NewConnLimiter(cfg config.ConnectionsConfig) *ConnLimiter {
	return &ConnLimiter{
		perIP:    make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// Acquire takes a slot for ip, or reports which limit refused it.
func (c *ConnLimiter) Acquire(ip string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxTotal > 0 && c.total >= c.maxTotal {
		return ErrTooManyConnections
	}
	if c.maxPerIP > 0 && c.perIP[ip] >= c.maxPerIP {
		return ErrTooManyFromIP
	}
	c.perIP[ip]++
	c.total++
	return nil
}

// Release returns a slot taken by Acquire.
func (c *ConnLimiter) Release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := c.perIP[ip]; n > 1 {
		c.perIP[ip] = n - 1
	} else if n == 1 {
		delete(c.perIP, ip)
	}
	if c.total > 0 {
		c.total--
	}
}

// ConnStats is a point-in-time view of the limiter.
type ConnStats struct {
	Total int `json:"total"`
	IPs   int `json:"ips"`
}

func (c *ConnLimiter) Stats() ConnStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnStats{Total: c.total, IPs: len(c.perIP)}
}

// Count returns the open connections of one IP.
func (c *ConnLimiter) Count(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perIP[ip]
}

// extractIP extracts the IP address from a remote address string (ip:port format).
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
