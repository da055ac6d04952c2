// ABOUTME: HTTP server for the opsdesk API with route wiring and TLS setup
// ABOUTME: Composes the transport gate and auth middleware ahead of the CRUD handlers

package api

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/2389/opsdesk/internal/auth"
	"github.com/2389/opsdesk/internal/config"
	"github.com/2389/opsdesk/internal/store"
)

// Store bundles the persistence interfaces the API depends on.
type Store interface {
	store.UserStore
	store.EmployeeStore
	store.ItemStore
}

// Server is the opsdesk HTTP API server.
type Server struct {
	cfg           *config.Config
	store         Store
	verifier      *auth.JWTVerifier
	authenticator *auth.Authenticator
	logger        *slog.Logger
	httpServer    *http.Server
}

// New creates a Server with routes wired. The signing key is validated here;
// a missing or short key fails construction, which callers treat as fatal.
func New(cfg *config.Config, st Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("creating JWT verifier: %w", err)
	}

	s := &Server{
		cfg:           cfg,
		store:         st,
		verifier:      verifier,
		authenticator: auth.NewAuthenticator(st, logger),
		logger:        logger.With("component", "api"),
	}

	tlsConfig, err := s.tlsConfig()
	if err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           s.routes(),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// routes builds the request pipeline: transport gate (when configured), then
// per-route auth middleware, then handlers. Health endpoints bypass auth but
// not the transport gate.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints - no token required
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/ready", s.handleReady)

	// Login - credential check, issues tokens
	mux.HandleFunc("/login", s.handleLogin)

	// Protected CRUD endpoints
	authMiddleware := auth.Middleware(s.store, s.verifier, s.logger)
	mux.Handle("/items", authMiddleware(http.HandlerFunc(s.handleItems)))
	mux.Handle("/items/", authMiddleware(http.HandlerFunc(s.handleItemByID)))
	mux.Handle("/employees", authMiddleware(http.HandlerFunc(s.handleEmployees)))
	mux.Handle("/employees/", authMiddleware(http.HandlerFunc(s.handleEmployeeByID)))
	mux.Handle("/users", authMiddleware(http.HandlerFunc(s.handleUsers)))
	mux.Handle("/users/", authMiddleware(http.HandlerFunc(s.handleUserByUsername)))

	var handler http.Handler = mux
	if s.cfg.Server.RequireClientCert {
		// The gate wraps the whole mux so it runs before route dispatch
		handler = auth.RequireClientCert(s.logger)(handler)
		s.logger.Info("client certificate gate enabled")
	}

	return handler
}

// tlsConfig builds the listener TLS configuration. Chain validation of client
// certificates happens here (against client_ca_file when provided), not in
// the presence gate.
func (s *Server) tlsConfig() (*tls.Config, error) {
	if s.cfg.Server.CertFile == "" {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(s.cfg.Server.CertFile, s.cfg.Server.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading server certificate: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		ClientAuth:   tls.RequestClientCert,
	}

	if s.cfg.Server.ClientCAFile != "" {
		caPEM, err := os.ReadFile(s.cfg.Server.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("reading client CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no certificates found in client CA file %s", s.cfg.Server.ClientCAFile)
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = tls.VerifyClientCertIfGiven
	}

	return tlsConfig, nil
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails. Returns nil on graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Server.HTTPAddr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		var serveErr error
		if s.httpServer.TLSConfig != nil {
			s.logger.Info("HTTP server listening with TLS", "addr", s.cfg.Server.HTTPAddr)
			serveErr = s.httpServer.ServeTLS(ln, "", "")
		} else {
			s.logger.Info("HTTP server listening", "addr", s.cfg.Server.HTTPAddr)
			serveErr = s.httpServer.Serve(ln)
		}
		if serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
		return s.gracefulShutdown()
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the composed request pipeline, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK once the store answers queries.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ListItems(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// sendJSON writes a JSON response with the given status.
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response with the given status.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
