package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/taskstream/taskstream/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server wraps the HTTP listener with graceful shutdown.
type Server struct {
	httpServer *http.Server
	grace      time.Duration
	log        *zap.Logger
}

// NewServer builds a server over the router using the listener settings
// from cfg.
func NewServer(cfg config.ServerConfig, handler http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout.Std(),
			WriteTimeout: cfg.WriteTimeout.Std(),
		},
		grace: cfg.ShutdownGrace.Std(),
		log:   log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the shutdown grace period.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		grace := s.grace
		if grace <= 0 {
			grace = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		s.log.Info("http server draining", zap.Duration("grace", grace))
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
