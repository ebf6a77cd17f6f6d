/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/cache"
	"github.com/friendsincode/bragi_cms/internal/events"
	"github.com/friendsincode/bragi_cms/internal/models"
)

type stationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Timezone    string `json:"timezone"`
	Public      *bool  `json:"public"`
}

func (a *API) handleStationsList(w http.ResponseWriter, r *http.Request) {
	var stations []models.Station
	if err := a.db.WithContext(r.Context()).Order("name ASC").Find(&stations).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

func (a *API) handleStationsCreate(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name_required")
		return
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_timezone")
		return
	}

	public := true
	if req.Public != nil {
		public = *req.Public
	}

	station := models.Station{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        models.Slugify(name),
		Description: req.Description,
		Frequency:   req.Frequency,
		Timezone:    timezone,
		Public:      public,
	}

	if err := a.db.WithContext(r.Context()).Create(&station).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "name_taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	a.invalidateStationCaches(r, station.ID)
	a.publish(events.EventStationCreated, events.Payload{"station_id": station.ID})

	writeJSON(w, http.StatusCreated, station)
}

func (a *API) handleStationsGet(w http.ResponseWriter, r *http.Request) {
	stationID := chi.URLParam(r, "stationID")

	var station models.Station
	if err := a.db.WithContext(r.Context()).First(&station, "id = ?", stationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, station)
}

func (a *API) handleStationsUpdate(w http.ResponseWriter, r *http.Request) {
	stationID := chi.URLParam(r, "stationID")

	var station models.Station
	if err := a.db.WithContext(r.Context()).First(&station, "id = ?", stationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		station.Name = name
		station.Slug = models.Slugify(name)
	}
	if req.Description != "" {
		station.Description = req.Description
	}
	if req.Frequency != "" {
		station.Frequency = req.Frequency
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_timezone")
			return
		}
		station.Timezone = req.Timezone
	}
	if req.Public != nil {
		station.Public = *req.Public
	}

	if err := a.db.WithContext(r.Context()).Save(&station).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	a.invalidateStationCaches(r, station.ID)
	a.publish(events.EventStationUpdated, events.Payload{"station_id": station.ID})

	writeJSON(w, http.StatusOK, station)
}

func (a *API) handleStationsDelete(w http.ResponseWriter, r *http.Request) {
	stationID := chi.URLParam(r, "stationID")

	var count int64
	if err := a.db.WithContext(r.Context()).
		Model(&models.Program{}).
		Where("station_id = ?", stationID).
		Count(&count).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if count > 0 {
		writeError(w, http.StatusConflict, "station_has_programs")
		return
	}

	result := a.db.WithContext(r.Context()).Delete(&models.Station{}, "id = ?", stationID)
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	a.invalidateStationCaches(r, stationID)
	a.publish(events.EventStationDeleted, events.Payload{"station_id": stationID})

	w.WriteHeader(http.StatusNoContent)
}

// handlePublicStations lists public stations, served from cache when warm.
func (a *API) handlePublicStations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if a.cache != nil {
		if cached, ok := a.cache.GetStationList(ctx); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	var stations []models.Station
	if err := a.db.WithContext(ctx).
		Where("public = ?", true).
		Order("name ASC").
		Find(&stations).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	public := make([]cache.CachedStation, 0, len(stations))
	for _, st := range stations {
		public = append(public, cache.CachedStation{
			ID:          st.ID,
			Name:        st.Name,
			Slug:        st.Slug,
			Description: st.Description,
			Frequency:   st.Frequency,
			Timezone:    st.Timezone,
		})
	}

	if a.cache != nil {
		_ = a.cache.SetStationList(ctx, public)
	}

	writeJSON(w, http.StatusOK, public)
}

func (a *API) invalidateStationCaches(r *http.Request, stationID string) {
	if a.cache == nil {
		return
	}
	ctx := r.Context()
	_ = a.cache.InvalidateStationList(ctx)
	_ = a.cache.InvalidateSchedules(ctx, stationID)
}
