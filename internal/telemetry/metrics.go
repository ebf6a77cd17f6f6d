/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP surface metrics.
var (
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bragi_api_request_duration_seconds",
		Help:    "HTTP request duration by method, endpoint and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bragi_api_requests_total",
		Help: "Total HTTP requests by method, endpoint and status.",
	}, []string{"method", "endpoint", "status"})

	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bragi_api_active_connections",
		Help: "In-flight HTTP requests.",
	})
)

// Database metrics, recorded by the gorm callbacks.
var (
	DatabaseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bragi_database_query_duration_seconds",
		Help:    "Database operation duration by operation and table.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"operation", "table"})

	DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bragi_database_errors_total",
		Help: "Database errors by operation and kind.",
	}, []string{"operation", "kind"})

	DatabaseConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bragi_database_connections_active",
		Help: "Open database connections.",
	})
)

// Scheduling domain metrics.
var (
	ScheduleLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bragi_schedule_lookups_total",
		Help: "Schedule view computations by view (day, week, now, conflicts).",
	}, []string{"view"})

	ScheduleConflictsDetected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bragi_schedule_conflicts_detected",
		Help: "Conflicting program pairs found in the most recent scan, per station.",
	}, []string{"station"})

	ScheduleCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bragi_schedule_cache_total",
		Help: "Schedule view cache lookups by result (hit, miss, error).",
	}, []string{"result"})
)

// Media storage metrics.
var (
	MediaUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bragi_media_uploads_total",
		Help: "Media uploads by backend and result.",
	}, []string{"backend", "result"})

	MediaUploadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bragi_media_upload_bytes_total",
		Help: "Total bytes accepted through media uploads.",
	})
)

// Event bus metrics.
var (
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bragi_events_published_total",
		Help: "Events published by type.",
	}, []string{"type"})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
