package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/StephenLER/MAP/pkg/kg"
	"github.com/StephenLER/MAP/pkg/qa"
)

// Server holds the HTTP interface over a loaded knowledge graph and the
// question-answering services built on top of it.
type Server struct {
	facade *kg.Facade

	httpServer *http.Server

	qaService *qa.Service
	agent     *qa.Agent
	sessions  *SessionManager
	authToken string
	logger    *slog.Logger
}

// NewServer initializes the HTTP server over an already loaded graph.
// qaService and agent may be nil when no LLM is configured; the matching
// endpoints then report 503.
func NewServer(facade *kg.Facade, qaService *qa.Service, agent *qa.Agent, httpAddr, authToken string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		facade:    facade,
		qaService: qaService,
		agent:     agent,
		sessions:  NewSessionManager(),
		authToken: authToken,
		logger:    logger,
	}

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Chain middlewares: Recovery -> Logging -> Auth -> Mux.
	// Order matters: Recovery must be outer-most to catch everything.
	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	// Health and metrics stay outside auth so probes and scrapers need no
	// token.
	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("GET /metrics", s.metricsHandler())
	rootMux.Handle("/", handler)

	s.httpServer = &http.Server{
		Addr:    httpAddr,
		Handler: rootMux,
	}

	return s
}

// Run binds the configured address, starts the HTTP server and blocks until
// shutdown.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return s.Serve(ln)
}

// Serve runs the HTTP server on an already bound listener and blocks until
// shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown() {
	s.logger.Info("starting graceful shutdown of HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}
}
