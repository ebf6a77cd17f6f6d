/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the HTTP surface of the CMS.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/audit"
	"github.com/friendsincode/bragi_cms/internal/auth"
	"github.com/friendsincode/bragi_cms/internal/cache"
	"github.com/friendsincode/bragi_cms/internal/eventbus"
	"github.com/friendsincode/bragi_cms/internal/events"
	"github.com/friendsincode/bragi_cms/internal/media"
	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/schedule"
)

// API exposes HTTP handlers.
type API struct {
	db          *gorm.DB
	jwtSecret   []byte
	jwtTTL      time.Duration
	maxUpload   int64
	scheduleSvc *schedule.Service
	exportSvc   *schedule.ExportService
	media       *media.Service
	auditSvc    *audit.Service
	cache       *cache.Cache
	bus         eventbus.Bus
	logger      zerolog.Logger
}

// Options bundles the API's dependencies.
type Options struct {
	DB          *gorm.DB
	JWTSecret   []byte
	JWTTTL      time.Duration
	MaxUploadMB int
	ScheduleSvc *schedule.Service
	ExportSvc   *schedule.ExportService
	MediaSvc    *media.Service
	AuditSvc    *audit.Service
	Cache       *cache.Cache
	Bus         eventbus.Bus
	Logger      zerolog.Logger
}

// New creates the API router wrapper.
func New(opts Options) *API {
	ttl := opts.JWTTTL
	if ttl == 0 {
		ttl = 72 * time.Hour
	}
	maxUpload := int64(opts.MaxUploadMB) * 1024 * 1024
	if maxUpload <= 0 {
		maxUpload = 32 * 1024 * 1024
	}

	return &API{
		db:          opts.DB,
		jwtSecret:   opts.JWTSecret,
		jwtTTL:      ttl,
		maxUpload:   maxUpload,
		scheduleSvc: opts.ScheduleSvc,
		exportSvc:   opts.ExportSvc,
		media:       opts.MediaSvc,
		auditSvc:    opts.AuditSvc,
		cache:       opts.Cache,
		bus:         opts.Bus,
		logger:      opts.Logger,
	}
}

// Routes mounts API routes on the provided router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)

		// Public endpoints (no auth required)
		r.Post("/auth/login", a.handleLogin)
		r.Get("/public/stations", a.handlePublicStations)
		a.AddPublicScheduleRoutes(r)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware())

			pr.Get("/me", a.handleMe)

			pr.Route("/users", func(r chi.Router) {
				r.Use(a.requireRoles(models.RoleAdmin))
				r.Get("/", a.handleUsersList)
				r.Post("/", a.handleUsersCreate)
				r.Route("/{userID}", func(r chi.Router) {
					r.Get("/", a.handleUsersGet)
					r.Patch("/", a.handleUsersUpdate)
					r.Delete("/", a.handleUsersDelete)
				})
			})

			pr.Route("/stations", func(r chi.Router) {
				r.Get("/", a.handleStationsList)
				r.With(a.requireRoles(models.RoleAdmin)).Post("/", a.handleStationsCreate)
				r.Route("/{stationID}", func(r chi.Router) {
					r.Get("/", a.handleStationsGet)
					r.With(a.requireRoles(models.RoleAdmin)).Patch("/", a.handleStationsUpdate)
					r.With(a.requireRoles(models.RoleAdmin)).Delete("/", a.handleStationsDelete)
				})
			})

			pr.Route("/programs", func(r chi.Router) {
				r.Get("/", a.handleProgramsList)
				r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor)).Post("/", a.handleProgramsCreate)
				r.Route("/{programID}", func(r chi.Router) {
					r.Get("/", a.handleProgramsGet)
					r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor)).Patch("/", a.handleProgramsUpdate)
					r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor)).Delete("/", a.handleProgramsDelete)
				})
			})

			pr.Route("/schedule", func(r chi.Router) {
				r.Get("/", a.handleScheduleDay)
				r.Get("/week", a.handleScheduleWeek)
				r.Get("/now", a.handleScheduleNow)
				r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor)).Get("/conflicts", a.handleScheduleConflicts)
			})

			pr.Route("/posts", func(r chi.Router) {
				r.Get("/", a.handlePostsList)
				r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor, models.RoleDJ)).Post("/", a.handlePostsCreate)
				r.Route("/{postID}", func(r chi.Router) {
					r.Get("/", a.handlePostsGet)
					r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor, models.RoleDJ)).Patch("/", a.handlePostsUpdate)
					r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor)).Delete("/", a.handlePostsDelete)
					r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor)).Post("/publish", a.handlePostsPublish)
					r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor)).Post("/unpublish", a.handlePostsUnpublish)
				})
			})

			pr.Route("/media", func(r chi.Router) {
				r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor, models.RoleDJ)).Post("/upload", a.handleMediaUpload)
				r.Get("/", a.handleMediaList)
				r.Route("/{mediaID}", func(r chi.Router) {
					r.Get("/", a.handleMediaGet)
					r.With(a.requireRoles(models.RoleAdmin, models.RoleEditor)).Delete("/", a.handleMediaDelete)
				})
			})

			// Audit log routes (admin only)
			pr.Route("/audit", func(r chi.Router) {
				r.Use(a.requireRoles(models.RoleAdmin))
				r.Get("/", a.handleAuditList)
			})
		})
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) authMiddleware() func(http.Handler) http.Handler {
	return auth.Middleware(a.jwtSecret)
}

func (a *API) requireRoles(allowed ...models.RoleName) func(http.Handler) http.Handler {
	roles := make([]string, 0, len(allowed))
	for _, role := range allowed {
		roles = append(roles, string(role))
	}
	return auth.RequireRoles(roles...)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// auditContext extracts user and request info for audit logging.
func (a *API) auditContext(r *http.Request) events.Payload {
	payload := events.Payload{
		"ip_address": r.RemoteAddr,
		"user_agent": r.UserAgent(),
	}

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		payload["user_id"] = claims.UserID
		payload["user_email"] = claims.Email
	}

	return payload
}

// publish is a nil-safe bus publish helper.
func (a *API) publish(eventType events.EventType, payload events.Payload) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(eventType, payload)
}

// parsePagination reads page/page_size query params with sane bounds.
func parsePagination(r *http.Request) (limit, offset int) {
	page := 1
	pageSize := 25

	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	return pageSize, (page - 1) * pageSize
}
