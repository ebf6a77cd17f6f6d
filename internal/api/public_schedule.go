/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/schedule"
	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

// AddPublicScheduleRoutes mounts the unauthenticated schedule views. These
// are the listener-facing reads, so every view is served cache-aside.
func (a *API) AddPublicScheduleRoutes(r chi.Router) {
	r.Route("/public/stations/{stationID}/schedule", func(r chi.Router) {
		r.Get("/", a.handlePublicScheduleDay)
		r.Get("/week", a.handlePublicScheduleWeek)
		r.Get("/now", a.handlePublicScheduleNow)
		r.Get("/ical", a.handlePublicScheduleICal)
	})
}

// publicStation loads the station and hides non-public ones behind a 404.
func (a *API) publicStation(w http.ResponseWriter, r *http.Request) (models.Station, bool) {
	stationID := chi.URLParam(r, "stationID")

	var station models.Station
	err := a.db.WithContext(r.Context()).First(&station, "id = ?", stationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
		} else {
			writeError(w, http.StatusInternalServerError, "db_error")
		}
		return models.Station{}, false
	}
	if !station.Public {
		writeError(w, http.StatusNotFound, "not_found")
		return models.Station{}, false
	}
	return station, true
}

func (a *API) stationNow(station models.Station) time.Time {
	loc, err := time.LoadLocation(station.Timezone)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Now().In(loc)
}

func (a *API) handlePublicScheduleDay(w http.ResponseWriter, r *http.Request) {
	telemetry.ScheduleLookupsTotal.WithLabelValues("public_day").Inc()

	station, ok := a.publicStation(w, r)
	if !ok {
		return
	}

	day := int(a.stationNow(station).Weekday())
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := schedule.ResolveDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_day")
			return
		}
		day = parsed
	}

	ctx := r.Context()
	if a.cache != nil {
		if programs, ok := a.cache.GetDaySchedule(ctx, station.ID, day); ok {
			writeJSON(w, http.StatusOK, map[string]any{"day": day, "programs": programs})
			return
		}
	}

	programs, err := a.scheduleSvc.DaySchedule(ctx, day, station.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "schedule_error")
		return
	}

	if a.cache != nil {
		_ = a.cache.SetDaySchedule(ctx, station.ID, day, programs)
	}

	writeJSON(w, http.StatusOK, map[string]any{"day": day, "programs": programs})
}

func (a *API) handlePublicScheduleWeek(w http.ResponseWriter, r *http.Request) {
	telemetry.ScheduleLookupsTotal.WithLabelValues("public_week").Inc()

	station, ok := a.publicStation(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if a.cache != nil {
		if week, ok := a.cache.GetWeeklySchedule(ctx, station.ID); ok {
			writeJSON(w, http.StatusOK, week)
			return
		}
	}

	week, err := a.scheduleSvc.WeeklySchedule(ctx, station.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "schedule_error")
		return
	}

	if a.cache != nil {
		_ = a.cache.SetWeeklySchedule(ctx, station.ID, week)
	}

	writeJSON(w, http.StatusOK, week)
}

func (a *API) handlePublicScheduleNow(w http.ResponseWriter, r *http.Request) {
	telemetry.ScheduleLookupsTotal.WithLabelValues("public_now").Inc()

	station, ok := a.publicStation(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	now := a.stationNow(station)

	if a.cache != nil {
		if programs, ok := a.cache.GetCurrentlyAiring(ctx, station.ID); ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"at":       now.Format(time.RFC3339),
				"programs": programs,
			})
			return
		}
	}

	airing, err := a.scheduleSvc.CurrentlyAiring(ctx, now, station.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "schedule_error")
		return
	}

	if a.cache != nil {
		_ = a.cache.SetCurrentlyAiring(ctx, station.ID, airing)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"at":       now.Format(time.RFC3339),
		"programs": airing,
	})
}

func (a *API) handlePublicScheduleICal(w http.ResponseWriter, r *http.Request) {
	telemetry.ScheduleLookupsTotal.WithLabelValues("public_ical").Inc()

	station, ok := a.publicStation(w, r)
	if !ok {
		return
	}

	if a.exportSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "export_disabled")
		return
	}

	result, err := a.exportSvc.ExportToICal(r.Context(), station, a.stationNow(station))
	if err != nil {
		a.logger.Error().Err(err).Str("station_id", station.ID).Msg("ical export failed")
		writeError(w, http.StatusInternalServerError, "export_error")
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}
