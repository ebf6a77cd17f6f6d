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

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/events"
	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/schedule"
)

type programRequest struct {
	StationID   string  `json:"station_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Days        []int   `json:"days"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	HostUserID  *string `json:"host_user_id"`
	ImageID     *string `json:"image_id"`
	Active      *bool   `json:"active"`
}

// programResponse decorates a program with derived schedule fields.
type programResponse struct {
	models.Program
	TimeSlot          string   `json:"time_slot"`
	FormattedDuration string   `json:"formatted_duration"`
	Overnight         bool     `json:"overnight"`
	DayNames          []string `json:"day_names"`
	Warnings          []string `json:"warnings,omitempty"`
}

func programView(p models.Program) programResponse {
	resp := programResponse{Program: p}

	spec, err := schedule.SpecFor(p)
	if err != nil {
		resp.Warnings = append(resp.Warnings, "invalid schedule: "+err.Error())
		return resp
	}

	resp.TimeSlot = spec.TimeSlotLabel()
	resp.FormattedDuration = spec.FormattedDuration()
	resp.Overnight = spec.Overnight()
	for _, d := range spec.Days.Days() {
		if name, err := schedule.DayName(d); err == nil {
			resp.DayNames = append(resp.DayNames, name)
		}
	}
	if err := spec.Validate(); err != nil {
		resp.Warnings = append(resp.Warnings, err.Error())
	}
	return resp
}

func (a *API) handleProgramsList(w http.ResponseWriter, r *http.Request) {
	query := a.db.WithContext(r.Context()).Model(&models.Program{})

	if stationID := r.URL.Query().Get("station_id"); stationID != "" {
		query = query.Where("station_id = ?", stationID)
	}
	if r.URL.Query().Get("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var programs []models.Program
	if err := query.Order("name ASC").Find(&programs).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	views := make([]programResponse, 0, len(programs))
	for _, p := range programs {
		views = append(views, programView(p))
	}

	writeJSON(w, http.StatusOK, views)
}

func (a *API) handleProgramsCreate(w http.ResponseWriter, r *http.Request) {
	var req programRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name_required")
		return
	}
	if req.StationID == "" {
		writeError(w, http.StatusBadRequest, "station_id_required")
		return
	}

	var station models.Station
	if err := a.db.WithContext(r.Context()).First(&station, "id = ?", req.StationID).Error; err != nil {
		writeError(w, http.StatusBadRequest, "station_not_found")
		return
	}

	spec, err := schedule.NewSpec(req.Days, req.StartTime, req.EndTime)
	if err != nil {
		writeScheduleError(w, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	program := models.Program{
		ID:              uuid.NewString(),
		StationID:       req.StationID,
		Name:            name,
		Slug:            models.Slugify(name),
		Description:     req.Description,
		Days:            spec.Days.Days(),
		StartTime:       spec.StartTime,
		EndTime:         spec.EndTime,
		DurationMinutes: spec.DurationMinutes(),
		HostUserID:      req.HostUserID,
		ImageID:         req.ImageID,
		Active:          active,
	}

	if err := a.db.WithContext(r.Context()).Create(&program).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "name_taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	a.invalidateStationCaches(r, program.StationID)
	a.publish(events.EventProgramCreated, events.Payload{
		"program_id": program.ID,
		"station_id": program.StationID,
	})

	payload := a.auditContext(r)
	payload["entity_type"] = "program"
	payload["entity_id"] = program.ID
	payload["station_id"] = program.StationID
	a.publish(events.EventAuditProgramCreate, payload)

	writeJSON(w, http.StatusCreated, programView(program))
}

func (a *API) handleProgramsGet(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")

	var program models.Program
	if err := a.db.WithContext(r.Context()).
		Preload("Station").
		Preload("Host").
		First(&program, "id = ?", programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, programView(program))
}

func (a *API) handleProgramsUpdate(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")

	var program models.Program
	if err := a.db.WithContext(r.Context()).First(&program, "id = ?", programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	var req programRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		program.Name = name
		program.Slug = models.Slugify(name)
	}
	if req.Description != "" {
		program.Description = req.Description
	}
	if req.HostUserID != nil {
		program.HostUserID = req.HostUserID
	}
	if req.ImageID != nil {
		program.ImageID = req.ImageID
	}
	if req.Active != nil {
		program.Active = *req.Active
	}

	// Any schedule field change revalidates the full triple and
	// recomputes the stored duration.
	days := program.Days
	startTime := program.StartTime
	endTime := program.EndTime
	if req.Days != nil {
		days = req.Days
	}
	if req.StartTime != "" {
		startTime = req.StartTime
	}
	if req.EndTime != "" {
		endTime = req.EndTime
	}

	spec, err := schedule.NewSpec(days, startTime, endTime)
	if err != nil {
		writeScheduleError(w, err)
		return
	}
	program.Days = spec.Days.Days()
	program.StartTime = spec.StartTime
	program.EndTime = spec.EndTime
	program.DurationMinutes = spec.DurationMinutes()

	if err := a.db.WithContext(r.Context()).Save(&program).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	a.invalidateStationCaches(r, program.StationID)
	a.publish(events.EventProgramUpdated, events.Payload{
		"program_id": program.ID,
		"station_id": program.StationID,
	})

	payload := a.auditContext(r)
	payload["entity_type"] = "program"
	payload["entity_id"] = program.ID
	payload["station_id"] = program.StationID
	a.publish(events.EventAuditProgramUpdate, payload)

	writeJSON(w, http.StatusOK, programView(program))
}

func (a *API) handleProgramsDelete(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")

	var program models.Program
	if err := a.db.WithContext(r.Context()).First(&program, "id = ?", programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	if err := a.db.WithContext(r.Context()).Delete(&program).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	a.invalidateStationCaches(r, program.StationID)
	a.publish(events.EventProgramDeleted, events.Payload{
		"program_id": program.ID,
		"station_id": program.StationID,
	})

	payload := a.auditContext(r)
	payload["entity_type"] = "program"
	payload["entity_id"] = program.ID
	payload["station_id"] = program.StationID
	a.publish(events.EventAuditProgramDelete, payload)

	w.WriteHeader(http.StatusNoContent)
}

// writeScheduleError maps schedule validation errors to 422 codes.
func writeScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidTimeFormat):
		writeError(w, http.StatusUnprocessableEntity, "invalid_time_format")
	case errors.Is(err, schedule.ErrInvalidDay):
		writeError(w, http.StatusUnprocessableEntity, "invalid_day")
	case errors.Is(err, schedule.ErrInvalidDuration):
		writeError(w, http.StatusUnprocessableEntity, "invalid_duration")
	default:
		writeError(w, http.StatusUnprocessableEntity, "invalid_schedule")
	}
}
