package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/lawnchairsociety/gowdata/internal/config"
)

func TestConnLimiter_PerIPLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 100})

	for i := 0; i < 2; i++ {
		if err := limiter.Acquire("192.168.1.1"); err != nil {
			t.Fatalf("connection %d should be allowed: %v", i+1, err)
		}
	}
	if err := limiter.Acquire("192.168.1.1"); !errors.Is(err, ErrTooManyFromIP) {
		t.Errorf("third connection error = %v, want ErrTooManyFromIP", err)
	}
	if err := limiter.Acquire("192.168.1.2"); err != nil {
		t.Errorf("connection from different IP should be allowed: %v", err)
	}

	limiter.Release("192.168.1.1")
	if err := limiter.Acquire("192.168.1.1"); err != nil {
		t.Errorf("connection should be allowed after release: %v", err)
	}
}

func TestConnLimiter_TotalLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 2})

	limiter.Acquire("10.0.0.1")
	limiter.Acquire("10.0.0.2")
	if err := limiter.Acquire("10.0.0.3"); !errors.Is(err, ErrTooManyConnections) {
		t.Errorf("error = %v, want ErrTooManyConnections", err)
	}
}

func TestConnLimiter_Unlimited(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{})
	for i := 0; i < 100; i++ {
		if err := limiter.Acquire("10.0.0.1"); err != nil {
			t.Fatalf("unlimited limiter refused connection %d: %v", i, err)
		}
	}
}

func TestConnLimiter_StatsAndCount(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 5, MaxTotal: 10})
	limiter.Acquire("10.0.0.1")
	limiter.Acquire("10.0.0.1")
	limiter.Acquire("10.0.0.2")

	if got := limiter.Stats(); got != (ConnStats{Total: 3, IPs: 2}) {
		t.Errorf("Stats() = %+v, want {3 2}", got)
	}
	if got := limiter.Count("10.0.0.1"); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}

	limiter.Release("10.0.0.2")
	limiter.Release("10.0.0.2") // extra release is ignored for the IP
	if got := limiter.Stats(); got.IPs != 1 {
		t.Errorf("Stats().IPs = %d after release, want 1", got.IPs)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:8080", "::1"},
		{"no-port", "no-port"},
	}
	for _, tt := range tests {
		if got := extractIP(tt.input); got != tt.want {
			t.Errorf("extractIP(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct", "203.0.113.5:4000", nil, "203.0.113.5"},
		{"forwarded chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2"}, "198.51.100.7"},
		{"real ip", "10.0.0.1:80", map[string]string{"X-Real-IP": " 198.51.100.8 "}, "198.51.100.8"},
		{"empty forwarded falls through", "10.0.0.1:80", map[string]string{"X-Forwarded-For": " , x"}, "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/ws", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getRealIP(req); got != tt.want {
				t.Errorf("getRealIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
