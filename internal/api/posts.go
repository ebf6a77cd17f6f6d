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

	"github.com/friendsincode/bragi_cms/internal/auth"
	"github.com/friendsincode/bragi_cms/internal/events"
	"github.com/friendsincode/bragi_cms/internal/models"
)

type postRequest struct {
	StationID string  `json:"station_id"`
	ProgramID *string `json:"program_id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Excerpt   string  `json:"excerpt"`
}

func (a *API) handlePostsList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	query := a.db.WithContext(r.Context()).Model(&models.Post{})

	if stationID := r.URL.Query().Get("station_id"); stationID != "" {
		query = query.Where("station_id = ?", stationID)
	}
	if programID := r.URL.Query().Get("program_id"); programID != "" {
		query = query.Where("program_id = ?", programID)
	}
	switch r.URL.Query().Get("published") {
	case "true":
		query = query.Where("published = ?", true)
	case "false":
		query = query.Where("published = ?", false)
	}

	var posts []models.Post
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (a *API) handlePostsCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "title_required")
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
	if req.ProgramID != nil {
		var program models.Program
		if err := a.db.WithContext(r.Context()).First(&program, "id = ?", *req.ProgramID).Error; err != nil {
			writeError(w, http.StatusBadRequest, "program_not_found")
			return
		}
		if program.StationID != req.StationID {
			writeError(w, http.StatusBadRequest, "program_station_mismatch")
			return
		}
	}

	post := models.Post{
		ID:        uuid.NewString(),
		StationID: req.StationID,
		ProgramID: req.ProgramID,
		AuthorID:  claims.UserID,
		Title:     title,
		Slug:      models.Slugify(title),
		Body:      req.Body,
		Excerpt:   req.Excerpt,
	}

	if err := a.db.WithContext(r.Context()).Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "slug_taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (a *API) handlePostsGet(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	var post models.Post
	if err := a.db.WithContext(r.Context()).
		Preload("Station").
		Preload("Program").
		Preload("Author").
		First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (a *API) handlePostsUpdate(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	var post models.Post
	if err := a.db.WithContext(r.Context()).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	// DJs can only edit their own posts; editors and admins edit any.
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		if claims.Role == string(models.RoleDJ) && post.AuthorID != claims.UserID {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		post.Title = title
		post.Slug = models.Slugify(title)
	}
	if req.Body != "" {
		post.Body = req.Body
	}
	if req.Excerpt != "" {
		post.Excerpt = req.Excerpt
	}
	if req.ProgramID != nil {
		if *req.ProgramID == "" {
			post.ProgramID = nil
		} else {
			var program models.Program
			if err := a.db.WithContext(r.Context()).First(&program, "id = ?", *req.ProgramID).Error; err != nil {
				writeError(w, http.StatusBadRequest, "program_not_found")
				return
			}
			if program.StationID != post.StationID {
				writeError(w, http.StatusBadRequest, "program_station_mismatch")
				return
			}
			post.ProgramID = req.ProgramID
		}
	}

	if err := a.db.WithContext(r.Context()).Save(&post).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (a *API) handlePostsDelete(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	result := a.db.WithContext(r.Context()).Delete(&models.Post{}, "id = ?", postID)
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handlePostsPublish(w http.ResponseWriter, r *http.Request) {
	a.setPostPublished(w, r, true)
}

func (a *API) handlePostsUnpublish(w http.ResponseWriter, r *http.Request) {
	a.setPostPublished(w, r, false)
}

func (a *API) setPostPublished(w http.ResponseWriter, r *http.Request, published bool) {
	postID := chi.URLParam(r, "postID")

	var post models.Post
	if err := a.db.WithContext(r.Context()).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	if post.Published == published {
		writeJSON(w, http.StatusOK, post)
		return
	}

	post.Published = published
	if published {
		now := time.Now()
		post.PublishedAt = &now
	} else {
		post.PublishedAt = nil
	}

	if err := a.db.WithContext(r.Context()).Save(&post).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	eventType := events.EventPostPublished
	if !published {
		eventType = events.EventPostUnpublished
	}
	a.publish(eventType, events.Payload{
		"post_id":    post.ID,
		"station_id": post.StationID,
	})

	writeJSON(w, http.StatusOK, post)
}
