// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server is the conversion backend: one POST route per catalog
// endpoint, each backed by a convert.Operation, plus health and catalog
// listings. It is the service the client talks to in development.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/nexus-tools/internal/convert"
	"github.com/pdiddy/nexus-tools/pkg/types"
)

const (
	defaultAddr            = ":8000"
	defaultMaxUploadMB     = 200
	defaultShutdownTimeout = 10 * time.Second

	// multipartMemory is how much of a multipart body is kept in memory
	// before parts spill to temporary files.
	multipartMemory = 32 << 20
)

// StatusReporter reports which external programs are installed.
type StatusReporter interface {
	Status() map[string]bool
}

// Server routes requests to conversion operations.
type Server struct {
	cfg     types.ServerConfig
	ops     map[string]convert.Operation
	tools   StatusReporter
	log     *zap.Logger
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithToolStatus makes /healthz include external program availability.
func WithToolStatus(r StatusReporter) Option {
	return func(s *Server) { s.tools = r }
}

// New creates a Server for ops, keyed by endpoint path.
func New(cfg types.ServerConfig, ops map[string]convert.Operation, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = defaultMaxUploadMB
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{
		cfg:     cfg,
		ops:     ops,
		log:     zap.NewNop(),
		maxBody: cfg.MaxUploadMB << 20,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Endpoints returns the served operation paths in sorted order.
func (s *Server) Endpoints() []string {
	out := make([]string, 0, len(s.ops))
	for ep := range s.ops {
		out = append(out, ep)
	}
	sort.Strings(out)
	return out
}

// Handler returns the complete HTTP handler: CORS, request logging, and
// the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /api/tools", s.listTools)
	for _, ep := range s.Endpoints() {
		mux.Handle("POST "+ep, s.requireToken(s.operation(ep, s.ops[ep])))
	}
	return cors.AllowAll().Handler(s.logRequests(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.log),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("conversion backend listening", zap.String("addr", ln.Addr().String()), zap.Int("endpoints", len(s.ops)))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
