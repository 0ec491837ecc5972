package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/snnyvrz/book-catalog/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	logger          *zap.Logger
	http            *http.Server
	shutdownTimeout time.Duration
}

func New(cfg config.ServerConfig, h http.Handler, logger *zap.Logger) *Server {
	return &Server{
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts the
// server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.RunListener(ctx, ln)
}

// RunListener is Run on an already bound listener.
func (s *Server) RunListener(ctx context.Context, ln net.Listener) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(s.serve(ln))
	g.Go(s.stop(ctx, gCtx))

	err := g.Wait()
	s.logger.Info("api server stopped", zap.String("addr", ln.Addr().String()), zap.Error(err))
	return err
}

func (s *Server) serve(ln net.Listener) func() error {
	return func() error {
		s.logger.Info("api server starting", zap.String("addr", ln.Addr().String()))

		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// stop waits for the group context, then tries a graceful shutdown and falls
// back to closing every connection. It always returns nil so the group
// reports only the serve result.
func (s *Server) stop(ctx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if ctx.Err() != nil {
			s.logger.Info("api server stopping. reason: requested to stop")
		} else {
			s.logger.Info("api server stopping. reason: errored at running")
		}

		sCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		err := s.http.Shutdown(sCtx)
		switch {
		case err == nil, errors.Is(err, http.ErrServerClosed):
			s.logger.Info("api server graceful shutdown succeeded")
			return nil
		case errors.Is(err, context.DeadlineExceeded):
			s.logger.Warn("api server graceful shutdown timed out")
		default:
			s.logger.Warn("api server graceful shutdown failed", zap.Error(err))
		}

		s.logger.Warn("api server going to force shutdown", zap.Error(s.http.Close()))
		return nil
	}
}
