// Package api is the read-only HTTP gateway for SNS records.
//
// Routes under /api/v1 return an APIResponse envelope. When an API key is
// configured they require the X-API-Key header; /metrics is always open.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ssargent/snsrecords/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// Router builds the HTTP handler for s
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(requestIDMiddleware)
	r.Use(logging.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	if s.config.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		// Health check
		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Records
		r.Get("/records/{key}", m.InstrumentHandler("GET", "/api/v1/records/{key}", s.handleGetRecord))
		r.Get("/records/{key}/header", m.InstrumentHandler("GET", "/api/v1/records/{key}/header", s.handleGetHeader))
		r.Post("/records/batch", m.InstrumentHandler("POST", "/api/v1/records/batch", s.handleBatch))
		r.Get("/domains/{domain}/records/{record}",
			m.InstrumentHandler("GET", "/api/v1/domains/{domain}/records/{record}", s.handleGetByName))

		// Instruction previews
		r.Post("/instructions/{op}", m.InstrumentHandler("POST", "/api/v1/instructions/{op}", s.handleEncodeInstruction))
	})

	return r
}

// StartServer serves s until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, s *Server) error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting records gateway",
			zap.String("addr", addr),
			zap.Stringer("program_id", s.builder.ProgramID()),
			zap.Bool("api_key_required", s.config.APIKey != ""))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down records gateway")
		return srv.Shutdown(shutdownCtx)
	}
}
