// Package server exposes the engine over HTTP and WebSocket.
//
// Summaries, diagnostics, KPI results and snapshot history are plain JSON GETs. Manual
// resync is a rate-limited POST. /ws streams change events for one domain (or "all") to
// browser dashboards, and /metrics serves the prometheus registry.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/atakanbattal/Kademe-KYS-sub003/engine"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
)

// MaxClients caps concurrent WebSocket connections
const MaxClients = 256

// DefaultShutdownTimeout bounds graceful shutdown when none is configured
const DefaultShutdownTimeout = 10 * time.Second

// Config configures the HTTP surface
type Config struct {
	Port           int
	AllowedOrigins []string
	// ResyncPerMinute is the manual resync budget; 0 = unlimited
	ResyncPerMinute int
	ShutdownTimeout time.Duration
	// Gatherer backs /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
}

// Server serves one engine
type Server struct {
	engine         *engine.Engine
	logger         *zap.SugaredLogger
	allowedOrigins []string
	limiter        *rate.Limiter
	gatherer       prometheus.Gatherer
	shutdown       time.Duration
	port           int

	mux        *http.ServeMux
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	clients map[*Client]bool
}

// New creates a server. Routes are registered immediately; call Start to listen.
func New(eng *engine.Engine, cfg Config, log *zap.SugaredLogger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.ResyncPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.ResyncPerMinute)), cfg.ResyncPerMinute)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	s := &Server{
		engine:         eng,
		logger:         logger.OrNop(log).Named("server"),
		allowedOrigins: cfg.AllowedOrigins,
		limiter:        limiter,
		gatherer:       cfg.Gatherer,
		shutdown:       cfg.ShutdownTimeout,
		port:           cfg.Port,
		mux:            http.NewServeMux(),
		ctx:            ctx,
		cancel:         cancel,
		clients:        make(map[*Client]bool),
	}
	s.setupHTTPRoutes()
	return s
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on the configured port until ctx is canceled, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return errors.WithHintf(errors.Wrapf(err, "failed to listen on port %d", s.port),
			"set server.port in am.toml or free port %d", s.port)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Infow("Server ready", logger.FieldAddress, ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.closeClients()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
	}
	return s.Stop()
}

// Stop drains HTTP requests, closes WebSocket clients and waits for their pumps
func (s *Server) Stop() error {
	s.logger.Infow("Initiating server shutdown")
	s.closeClients()

	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	}
	s.wg.Wait()
	if err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	s.logger.Infow("Server stopped")
	return nil
}

func (s *Server) closeClients() {
	s.cancel()
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

// register adds a client, rejecting it when MaxClients is reached
func (s *Server) register(c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) >= MaxClients {
		s.logger.Warnw("Max clients reached, rejecting connection",
			"client_id", c.id,
			"max_clients", MaxClients)
		return false
	}
	s.clients[c] = true
	s.logger.Infow("Client connected",
		"client_id", c.id,
		logger.FieldDomain, c.sub.Domain,
		"total_clients", len(s.clients))
	return true
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	total := len(s.clients)
	s.mu.Unlock()
	if ok {
		s.logger.Infow("Client disconnected", "client_id", c.id, "total_clients", total)
	}
}

// ClientCount returns the number of connected WebSocket clients
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
