// Package server serves read-only queries over translated snapshots to
// line-delimited TCP and WebSocket clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/gowdata/internal/config"
	"github.com/lawnchairsociety/gowdata/internal/i18n"
	"github.com/lawnchairsociety/gowdata/internal/logger"
	"github.com/lawnchairsociety/gowdata/internal/world"
)

type Server struct {
	cfg          *config.Config
	handler      *Handler
	locales      *i18n.Registry
	connLimiter  *ConnLimiter
	rateLimiter  *InvalidRequestLimiter
	listener     net.Listener
	httpServer   *http.Server
	clients      map[Client]struct{}
	mu           sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time
}

func NewServer(cfg *config.Config, w *world.World, locales *i18n.Registry) *Server {
	return &Server{
		cfg:         cfg,
		handler:     NewHandler(w, locales, cfg.WebSocket.MaxResults),
		locales:     locales,
		connLimiter: NewConnLimiter(cfg.Connections),
		rateLimiter: NewInvalidRequestLimiter(cfg.RateLimit),
		clients:     make(map[Client]struct{}),
		shutdown:    make(chan struct{}),
		StartTime:   time.Now(),
	}
}

// Start accepts line-delimited JSON clients on address until Shutdown.
func (s *Server) Start(address string) error {
	if _, err := s.Listen(address); err != nil {
		return err
	}
	return s.Serve()
}

// Listen binds the line-delimited JSON listener and returns its address.
func (s *Server) Listen(address string) (net.Addr, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to start server: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logger.Info("Server listening", "address", listener.Addr().String())
	return listener.Addr(), nil
}

// Serve accepts clients on the listener bound by Listen until Shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("Error accepting connection", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	ip := extractIP(remoteAddr)

	if reason := s.admit(ip); reason != "" {
		logger.Warning("Connection rejected", "remote_addr", remoteAddr, "reason", reason)
		s.writeError(NewLineClient(conn, 0), reason)
		conn.Close()
		return
	}
	defer s.connLimiter.Release(ip)

	client := NewLineClient(conn, int(s.cfg.WebSocket.MaxMessageSize))
	s.serveClient(client, ip, s.locales.Default())
}

// admit takes a connection slot for ip, returning a reason when refused.
func (s *Server) admit(ip string) string {
	if locked, remaining := s.rateLimiter.IsLocked(ip); locked {
		return fmt.Sprintf("too many invalid requests, try again in %s", remaining.Round(time.Second))
	}
	if err := s.connLimiter.Acquire(ip); err != nil {
		return err.Error()
	}
	return ""
}

// Handler returns the HTTP handler serving /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"uptime":      time.Since(s.StartTime).Round(time.Second).String(),
			"connections": s.connLimiter.Stats(),
		})
	})
	return mux
}

// StartWebSocket serves WebSocket clients on address until Shutdown.
func (s *Server) StartWebSocket(address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket. The
// connection locale is negotiated from the locale query parameter, then
// the Accept-Language header.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if reason := s.admit(clientIP); reason != "" {
		logger.Warning("WebSocket connection rejected",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP,
			"reason", reason)
		http.Error(w, reason, http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	locale := s.negotiate(r)
	go func() {
		defer s.connLimiter.Release(clientIP)
		if s.cfg.WebSocket.MaxMessageSize > 0 {
			wsConn.SetReadLimit(s.cfg.WebSocket.MaxMessageSize)
		}
		s.serveClient(NewWebSocketClient(wsConn), clientIP, locale)
	}()
}

func (s *Server) negotiate(r *http.Request) i18n.Locale {
	if v := r.URL.Query().Get("locale"); v != "" {
		return s.locales.Match(v)
	}
	return s.locales.Match(r.Header.Get("Accept-Language"))
}

// serveClient answers requests until the client disconnects or is locked out.
func (s *Server) serveClient(client Client, ip string, locale i18n.Locale) {
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	logger.Info("Client connected", "remote_addr", client.RemoteAddr(), "locale", locale.Code)

	defer func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		client.Close()
		logger.Info("Client disconnected", "remote_addr", client.RemoteAddr())
	}()

	for {
		data, err := client.ReadMessage()
		if err != nil {
			return
		}

		resp, err := s.handler.HandleMessage(data, locale)
		if errors.Is(err, ErrInvalidRequest) {
			logger.Debug("Invalid request", "remote_addr", client.RemoteAddr(), "error", err)
			if locked, d := s.rateLimiter.Penalize(ip); locked {
				logger.Warning("Client locked out", "ip", ip, "duration", d)
				resp.Error = fmt.Sprintf("too many invalid requests, locked out for %s", d.Round(time.Second))
				s.write(client, resp)
				return
			}
		} else {
			s.rateLimiter.Forgive(ip)
		}

		if err := s.write(client, resp); err != nil {
			return
		}
	}
}

func (s *Server) write(client Client, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("Failed to encode response", "op", resp.Op, "error", err)
		return err
	}
	return client.WriteMessage(data)
}

func (s *Server) writeError(client Client, message string) {
	s.write(client, Response{Error: message})
}

// getRealIP extracts the real client IP from an HTTP request.
// It checks X-Forwarded-For header first (for reverse proxy setups),
// then falls back to the direct remote address.
func getRealIP(r *http.Request) string {
	// "client, proxy1, proxy2": the first entry is the original client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if clientIP := strings.TrimSpace(first); clientIP != "" {
			return clientIP
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return extractIP(r.RemoteAddr)
}

// Shutdown stops the listeners and closes every client. Safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)

		s.mu.Lock()
		listener, httpServer := s.listener, s.httpServer
		clients := make([]Client, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		if listener != nil {
			listener.Close()
		}
		if httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			httpServer.Shutdown(ctx)
			cancel()
		}
		s.rateLimiter.Stop()

		for _, c := range clients {
			c.Close()
		}
		logger.Info("Server shutdown complete", "clients", len(clients))
	})
}
