// Package rpc exposes a list store over JSON-RPC 2.0 on HTTP, using the
// add_element_at / remove_element_at / update_element_at / list_all method
// names, and provides the matching client.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/metrics"
	"github.com/idilsaglam/todolist/internal/model"
)

// Store is the list the server dispatches to. *liststore.Store satisfies it.
type Store interface {
	InsertAt(index int, e model.Element) error
	RemoveAt(index int) error
	UpdateAt(index int, e model.Element) error
	ListAll() []model.Element
}

type Options struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	RateLimit         config.RateLimitConfig
	Logger            *zap.Logger
	Metrics           *metrics.Metrics
	// Gatherer backs /metrics; the endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
}

// OptionsFrom copies the server section of cfg.
func OptionsFrom(cfg config.ServerConfig) Options {
	return Options{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.ShutdownTimeout,
		RateLimit:         cfg.RateLimit,
	}
}

type Server struct {
	httpServer      *http.Server
	store           Store
	log             *zap.Logger
	metrics         *metrics.Metrics
	limiter         *rateLimiter
	shutdownTimeout time.Duration
}

func NewServer(store Store, opt Options) *Server {
	if opt.Addr == "" {
		opt.Addr = config.DefaultAddr
	}
	if opt.ReadHeaderTimeout <= 0 {
		opt.ReadHeaderTimeout = 5 * time.Second
	}
	if opt.ShutdownTimeout <= 0 {
		opt.ShutdownTimeout = 5 * time.Second
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              opt.Addr,
			Handler:           mux,
			ReadHeaderTimeout: opt.ReadHeaderTimeout,
		},
		store:           store,
		log:             opt.Logger,
		metrics:         opt.Metrics,
		limiter:         newRateLimiter(opt.RateLimit),
		shutdownTimeout: opt.ShutdownTimeout,
	}
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/rpc", s.handleRPC)
	if opt.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{}))
	}
	return s
}

// Handler returns the HTTP routes; used by tests and embedding hosts.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Addr() string { return s.httpServer.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()
	s.log.Info("rpc server listening", zap.String("addr", s.httpServer.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.log.Info("rpc server stopped")
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
