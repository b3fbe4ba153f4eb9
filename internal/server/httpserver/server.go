package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
)

var (
	// ErrNoTLSConfig is returned by Listen when the server has no TLS configuration.
	ErrNoTLSConfig = errors.New("httpserver: no TLS configuration")

	// ErrNotListening is returned by Serve before a successful Listen.
	ErrNotListening = errors.New("httpserver: not listening")

	// ErrAlreadyListening is returned by a second call to Listen.
	ErrAlreadyListening = errors.New("httpserver: already listening")
)

// Server is an HTTPS server bound to a single address.
type Server struct {
	httpServer *http.Server
	tlsConfig  *tls.Config

	mu       sync.Mutex
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithErrorLog routes net/http's internal errors (failed handshakes,
// malformed requests) to logger at debug level.
func WithErrorLog(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.httpServer.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelDebug)
		}
	}
}

// New creates an HTTPS server. Nothing is bound until Listen.
func New(addr string, handler http.Handler, tlsConfig *tls.Config, opts ...Option) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
			// A non-nil empty map keeps net/http from enabling HTTP/2.
			TLSNextProto: map[string]func(*http.Server, *tls.Conn, http.Handler){},
		},
		tlsConfig: tlsConfig,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Listen binds the TCP address and wraps it in TLS.
//
// A port that is already taken yields an error wrapping syscall.EADDRINUSE.
func (s *Server) Listen() error {
	if s.tlsConfig == nil {
		return ErrNoTLSConfig
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return ErrAlreadyListening
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("httpserver: listen %s: %w", s.httpServer.Addr, err)
	}

	s.listener = tls.NewListener(ln, s.tlsConfig)
	return nil
}

// Serve accepts connections on the bound listener until Shutdown.
// It returns http.ErrServerClosed after a shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return ErrNotListening
	}

	return s.httpServer.Serve(ln)
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port, or 0 before Listen.
func (s *Server) Port() int {
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
