package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
	"github.com/lcalzada-xor/macoui/internal/adapters/web/handlers"
	"github.com/lcalzada-xor/macoui/internal/adapters/web/middleware"
	"github.com/lcalzada-xor/macoui/internal/core/ports"
)

// Options tunes the HTTP surface.
type Options struct {
	RateLimit       int // requests per minute per client, 0 disables limiting
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Server handles HTTP lookup requests.
type Server struct {
	Addr       string
	OUIHandler *handlers.OUIHandler

	opts    Options
	limiter *middleware.RateLimiter
	srv     *http.Server
}

// NewServer creates a new web server. stats may be nil.
func NewServer(addr string, lookup ports.VendorLookup, stats oui.VendorStats, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		Addr:       addr,
		OUIHandler: handlers.NewOUIHandler(lookup, stats),
		opts:       opts,
	}
	if opts.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(opts.RateLimit, time.Minute)
	}
	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	// "macoui-server" is the name of the operation (span)
	return otelhttp.NewHandler(SetupRoutes(s), "macoui-server")
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Serve may fail before ctx is done; cancelling here still runs shutdown.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Graceful Shutdown implementation
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.opts.Logger.Info("web server shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer shutdownCancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.opts.Logger.Error("web server shutdown error", "error", err)
		}
		if s.limiter != nil {
			s.limiter.Stop()
		}
	}()

	s.opts.Logger.Info("web server listening", "addr", ln.Addr().String())
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-done
		return err
	}
	<-done
	return nil
}
