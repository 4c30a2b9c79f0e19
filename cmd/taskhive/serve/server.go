package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/taskhive/taskhive/pkg/backend"
	"github.com/taskhive/taskhive/pkg/config"
	"github.com/taskhive/taskhive/pkg/db"
	"github.com/taskhive/taskhive/pkg/stats"
	"github.com/taskhive/taskhive/pkg/web"
	"golang.org/x/sync/errgroup"
)

// Server is the Taskhive server.
type Server struct {
	HTTPServer  *web.HTTPServer
	StatsServer *stats.StatsServer
	Config      *config.Config
	Backend     *backend.Backend
	DB          *db.DB

	logger *log.Logger
	ctx    context.Context
}

// NewServer returns a new *Server configured to serve Taskhive.
// It expects a context with *backend.Backend, *db.DB, *log.Logger, and
// *config.Config attached.
func NewServer(ctx context.Context) (*Server, error) {
	var err error
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)
	dbx := db.FromContext(ctx)
	srv := &Server{
		Config:  cfg,
		Backend: be,
		DB:      dbx,
		logger:  log.FromContext(ctx).WithPrefix("server"),
		ctx:     ctx,
	}

	srv.HTTPServer, err = web.NewHTTPServer(ctx)
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}

	srv.StatsServer, err = stats.NewStatsServer(ctx)
	if err != nil {
		return nil, fmt.Errorf("create stats server: %w", err)
	}

	return srv, nil
}

// Start starts the HTTP and stats servers.
func (s *Server) Start() error {
	errg, _ := errgroup.WithContext(s.ctx)

	errg.Go(func() error {
		s.logger.Print("Starting HTTP server", "addr", s.Config.HTTP.ListenAddr, "url", s.Config.HTTP.PublicURL)
		if err := s.HTTPServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	errg.Go(func() error {
		s.logger.Print("Starting Stats server", "addr", s.Config.Stats.ListenAddr)
		if err := s.StatsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return errg.Wait()
}

// Shutdown lets the server gracefully shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return s.HTTPServer.Shutdown(ctx)
	})
	errg.Go(func() error {
		return s.StatsServer.Shutdown(ctx)
	})
	return errg.Wait()
}

// Close closes the server.
func (s *Server) Close() error {
	errg, _ := errgroup.WithContext(s.ctx)
	errg.Go(s.HTTPServer.Close)
	errg.Go(s.StatsServer.Close)
	return errg.Wait()
}
