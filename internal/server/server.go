// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package server exposes the validator over HTTP and relays validated schemas to
// the harmonizer service, either as a plain JSON call or as a datastar event stream.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"harmonizer/cli/internal/harmonizer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// Relay is the part of the harmonizer API the server forwards to.
type Relay interface {
	InitMessage(ctx context.Context, sql string) (json.RawMessage, error)
	StreamInitMessage(ctx context.Context, sql string, onData harmonizer.DataFunc) error
}

// Config holds configuration for the relay server.
type Config struct {
	Addr string
	// Relay is optional; without it only validation is served.
	Relay  Relay
	Logger *slog.Logger
}

// Server is the relay HTTP server.
type Server struct {
	addr   string
	relay  Relay
	logger *slog.Logger
}

// New creates a server from cfg.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{addr: cfg.Addr, relay: cfg.Relay, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", s.validate)
		r.Post("/init-message", s.initMessage)
		r.Post("/stream", s.stream)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting relay server", "addr", s.addr)

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down relay server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
