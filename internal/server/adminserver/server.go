// Package adminserver provides the administrative HTTP server for SessGate.
package adminserver

import (
	"context"
	"net/http"
)

// Server represents the administrative HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

// New creates a new administrative server.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		handler: handler,
	}
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
