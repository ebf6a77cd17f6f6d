/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package server assembles the HTTP server and background services.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/api"
	"github.com/friendsincode/bragi_cms/internal/audit"
	"github.com/friendsincode/bragi_cms/internal/cache"
	"github.com/friendsincode/bragi_cms/internal/config"
	"github.com/friendsincode/bragi_cms/internal/db"
	"github.com/friendsincode/bragi_cms/internal/eventbus"
	"github.com/friendsincode/bragi_cms/internal/events"
	"github.com/friendsincode/bragi_cms/internal/media"
	"github.com/friendsincode/bragi_cms/internal/schedule"
	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

// Server bundles HTTP and supporting services.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	closers    []func() error

	nodeID   string
	db       *gorm.DB
	cache    *cache.Cache
	bus      eventbus.Bus
	mediaSvc *media.Service
	auditSvc *audit.Service
	api      *api.API
	tracer   *telemetry.TracerProvider

	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(telemetry.MetricsMiddleware)
	// Skip the request timeout for uploads, which can legitimately run long.
	router.Use(func(next http.Handler) http.Handler {
		timeout := middleware.Timeout(60 * time.Second)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v1/media/upload" {
				next.ServeHTTP(w, r)
				return
			}
			timeout(next).ServeHTTP(w, r)
		})
	})

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
		nodeID: uuid.NewString(),
	}

	if err := srv.initDependencies(); err != nil {
		return nil, err
	}

	srv.configureRoutes()
	srv.startBackgroundWorkers()

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:    addr,
		Handler: srv.router,
		// Header deadline protects against slowloris; the full-body read
		// deadline stays off so large uploads are not cut mid-request.
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       0,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'; base-uri 'self'")

		// Only advertise HSTS for requests served over HTTPS.
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) initDependencies() error {
	ctx := context.Background()

	tracer, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:  "bragi-cms",
		OTLPEndpoint: s.cfg.OTLPEndpoint,
		Enabled:      s.cfg.TracingEnabled,
		SampleRate:   s.cfg.TracingSampleRate,
	}, s.logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	s.tracer = tracer
	s.DeferClose(func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.tracer.Shutdown(shutdownCtx)
	})

	database, err := db.Connect(s.cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(database); err != nil {
		return err
	}
	if err := db.RegisterCallbacks(database); err != nil {
		return fmt.Errorf("register db callbacks: %w", err)
	}
	s.db = database
	s.DeferClose(func() error { return db.Close(database) })

	if s.cfg.MediaBackend == config.MediaBackendFilesystem {
		if err := os.MkdirAll(s.cfg.MediaRoot, 0755); err != nil {
			return fmt.Errorf("create media directory %s: %w", s.cfg.MediaRoot, err)
		}
		s.logger.Info().Str("path", s.cfg.MediaRoot).Msg("media directory ready")
	}

	if s.cfg.CacheEnabled {
		cacheCfg := cache.DefaultConfig()
		cacheCfg.RedisAddr = s.cfg.RedisAddr
		cacheCfg.RedisPassword = s.cfg.RedisPassword
		cacheCfg.RedisDB = s.cfg.RedisDB
		scheduleCache, err := cache.New(cacheCfg, s.logger)
		if err != nil {
			s.logger.Warn().Err(err).Msg("cache initialization failed, continuing without cache")
		} else {
			s.cache = scheduleCache
			s.DeferClose(func() error { return s.cache.Close() })
		}
	}

	bus, err := eventbus.New(s.cfg, s.nodeID, s.logger)
	if err != nil {
		return fmt.Errorf("create event bus: %w", err)
	}
	s.bus = bus
	s.DeferClose(func() error { return s.bus.Close() })

	mediaSvc, err := media.NewService(ctx, s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("initialize media service: %w", err)
	}
	s.mediaSvc = mediaSvc

	scheduleSvc := schedule.NewService(db.NewProgramSource(database), s.logger)
	exportSvc := schedule.NewExportService(scheduleSvc, s.logger)

	s.auditSvc = audit.NewService(database, s.bus, s.logger)

	s.api = api.New(api.Options{
		DB:          database,
		JWTSecret:   []byte(s.cfg.JWTSigningKey),
		JWTTTL:      time.Duration(s.cfg.JWTTTLHours) * time.Hour,
		MaxUploadMB: s.cfg.MaxUploadSizeMB,
		ScheduleSvc: scheduleSvc,
		ExportSvc:   exportSvc,
		MediaSvc:    mediaSvc,
		AuditSvc:    s.auditSvc,
		Cache:       s.cache,
		Bus:         s.bus,
		Logger:      s.logger,
	})

	return nil
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	s.stopBackgroundWorkers()
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

func (s *Server) startBackgroundWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	s.bgCancel = cancel

	if s.auditSvc != nil {
		s.bgWG.Add(1)
		go func() {
			defer s.bgWG.Done()
			s.auditSvc.Start(ctx)
		}()
	}

	if s.db != nil {
		s.bgWG.Add(1)
		go func() {
			defer s.bgWG.Done()
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					db.UpdateConnectionMetrics(s.db)
				}
			}
		}()
	}

	if s.cache != nil {
		s.bgWG.Add(1)
		go func() {
			defer s.bgWG.Done()
			s.runCacheInvalidationListener(ctx)
		}()
	}
}

// runCacheInvalidationListener invalidates cached schedule views when other
// nodes mutate stations or programs. Local mutations invalidate inline in
// the handlers; this path covers the redis and nats backends.
func (s *Server) runCacheInvalidationListener(ctx context.Context) {
	stationCreated := s.bus.Subscribe(events.EventStationCreated)
	stationUpdated := s.bus.Subscribe(events.EventStationUpdated)
	stationDeleted := s.bus.Subscribe(events.EventStationDeleted)
	programCreated := s.bus.Subscribe(events.EventProgramCreated)
	programUpdated := s.bus.Subscribe(events.EventProgramUpdated)
	programDeleted := s.bus.Subscribe(events.EventProgramDeleted)

	defer func() {
		s.bus.Unsubscribe(events.EventStationCreated, stationCreated)
		s.bus.Unsubscribe(events.EventStationUpdated, stationUpdated)
		s.bus.Unsubscribe(events.EventStationDeleted, stationDeleted)
		s.bus.Unsubscribe(events.EventProgramCreated, programCreated)
		s.bus.Unsubscribe(events.EventProgramUpdated, programUpdated)
		s.bus.Unsubscribe(events.EventProgramDeleted, programDeleted)
	}()

	s.logger.Info().Msg("cache invalidation listener started")

	invalidate := func(payload events.Payload) {
		s.cache.InvalidateStationList(ctx)
		if stationID, ok := payload["station_id"].(string); ok && stationID != "" {
			s.cache.InvalidateSchedules(ctx, stationID)
		}
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache invalidation listener stopped")
			return

		case payload := <-stationCreated:
			invalidate(payload)
		case payload := <-stationUpdated:
			invalidate(payload)
		case payload := <-stationDeleted:
			invalidate(payload)
		case payload := <-programCreated:
			invalidate(payload)
		case payload := <-programUpdated:
			invalidate(payload)
		case payload := <-programDeleted:
			invalidate(payload)
		}
	}
}

func (s *Server) stopBackgroundWorkers() {
	if s.bgCancel == nil {
		return
	}
	s.bgCancel()
	s.bgWG.Wait()
	s.bgCancel = nil
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Metrics stay on the main router unless a dedicated bind is set.
	if s.cfg.MetricsBind == "" {
		s.router.Handle("/metrics", telemetry.Handler())
	}

	// Filesystem-backed media is served directly; the S3 backend hands out
	// absolute URLs instead.
	if s.cfg.MediaBackend == config.MediaBackendFilesystem {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(s.cfg.MediaRoot)))
		s.router.Get("/media/*", fileServer.ServeHTTP)
	}

	s.api.Routes(s.router)
}

// ServeMetrics runs the dedicated metrics listener when MetricsBind is set.
// Blocks until the listener fails or is shut down.
func (s *Server) ServeMetrics() error {
	if s.cfg.MetricsBind == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler())

	metricsServer := &http.Server{
		Addr:              s.cfg.MetricsBind,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.DeferClose(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(ctx)
	})

	s.logger.Info().Str("bind", s.cfg.MetricsBind).Msg("metrics listener started")
	return metricsServer.ListenAndServe()
}
