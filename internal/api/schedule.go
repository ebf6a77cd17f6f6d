/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"
	"time"

	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/schedule"
	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

// stationClock returns "now" in the station's operating timezone, or server
// local time when no station is given or its timezone fails to load.
func (a *API) stationClock(r *http.Request, stationID string) time.Time {
	// An explicit at= overrides the clock, mostly for previewing.
	if at := r.URL.Query().Get("at"); at != "" {
		if parsed, err := time.Parse(time.RFC3339, at); err == nil {
			return parsed
		}
	}

	now := time.Now()
	if stationID == "" {
		return now
	}

	var station models.Station
	if err := a.db.WithContext(r.Context()).First(&station, "id = ?", stationID).Error; err != nil {
		return now
	}
	loc, err := time.LoadLocation(station.Timezone)
	if err != nil {
		return now
	}
	return now.In(loc)
}

func (a *API) handleScheduleDay(w http.ResponseWriter, r *http.Request) {
	telemetry.ScheduleLookupsTotal.WithLabelValues("day").Inc()

	stationID := r.URL.Query().Get("station_id")

	day := int(a.stationClock(r, stationID).Weekday())
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := schedule.ResolveDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_day")
			return
		}
		day = parsed
	}

	programs, err := a.scheduleSvc.DaySchedule(r.Context(), day, stationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "schedule_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"day":      day,
		"programs": programs,
	})
}

func (a *API) handleScheduleWeek(w http.ResponseWriter, r *http.Request) {
	telemetry.ScheduleLookupsTotal.WithLabelValues("week").Inc()

	stationID := r.URL.Query().Get("station_id")

	week, err := a.scheduleSvc.WeeklySchedule(r.Context(), stationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "schedule_error")
		return
	}

	writeJSON(w, http.StatusOK, week)
}

func (a *API) handleScheduleNow(w http.ResponseWriter, r *http.Request) {
	telemetry.ScheduleLookupsTotal.WithLabelValues("now").Inc()

	stationID := r.URL.Query().Get("station_id")
	now := a.stationClock(r, stationID)

	airing, err := a.scheduleSvc.CurrentlyAiring(r.Context(), now, stationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "schedule_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"at":       now.Format(time.RFC3339),
		"programs": airing,
	})
}

func (a *API) handleScheduleConflicts(w http.ResponseWriter, r *http.Request) {
	telemetry.ScheduleLookupsTotal.WithLabelValues("conflicts").Inc()

	stationID := r.URL.Query().Get("station_id")

	conflicts, err := a.scheduleSvc.Conflicts(r.Context(), stationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "schedule_error")
		return
	}

	if stationID != "" {
		telemetry.ScheduleConflictsDetected.WithLabelValues(stationID).Set(float64(len(conflicts)))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(conflicts),
		"conflicts": conflicts,
	})
}
