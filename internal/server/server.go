// Package server exposes the tracker over HTTP. Every route under
// /users/:user works on that user's document.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/session"
	"github.com/julianstephens/wellmeing/internal/tracker"
)

// Store is the part of storage.Provider the server needs.
type Store interface {
	session.Fetcher
	tracker.Store
}

// Assistant writes reports and parses spoken requests.
type Assistant interface {
	tracker.ReportWriter
	tracker.SpeechParser
}

type Server struct {
	store     Store
	assistant Assistant
	now       func() time.Time
	engine    *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithAssistant enables the report and speech routes.
func WithAssistant(a Assistant) Option {
	return func(s *Server) { s.assistant = a }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(store Store, opts ...Option) *Server {
	s := &Server{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = gin.New()
	s.routes(s.engine)
	return s
}

// Handler is the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
