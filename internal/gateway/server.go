// Package gateway exposes a vaultbridge.SecretStore over HTTP. It is pure
// translation: request to accessor call, accessor error to status code. No
// business logic lives here and no state crosses requests.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/khalilou88/vaultbridge"
)

// Server is the HTTP boundary adapter.
type Server struct {
	store  vaultbridge.SecretStore
	cfg    vaultbridge.Config
	log    zerolog.Logger
	router *mux.Router
}

// New wires the routes and middleware chain. The field route is registered
// before the generic secret route so "/secret/a/b/key/c" resolves as a field
// read of "a/b" rather than a secret read of "a/b/key/c".
func New(store vaultbridge.SecretStore, cfg vaultbridge.Config, logger zerolog.Logger) *Server {
	s := &Server{
		store: store,
		cfg:   cfg,
		log:   logger.With().Str("component", "gateway").Logger(),
	}

	r := mux.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.log))
	r.Use(instrument)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	r.Handle("/metrics", metricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/secret/{path:.+}/key/{key}", s.handleReadField).Methods(http.MethodGet)
	r.HandleFunc("/secret/{path:.+}", s.handleReadSecret).Methods(http.MethodGet)
	r.HandleFunc("/secret/{path:.+}", s.handleWriteSecret).Methods(http.MethodPost)
	r.HandleFunc("/secret/{path:.+}", s.handleDeleteSecret).Methods(http.MethodDelete)
	r.HandleFunc("/secrets/{prefix:.*}", s.handleListSecrets).Methods(http.MethodGet)

	s.router = r
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.ListenAddr).Msg("gateway listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
