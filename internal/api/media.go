/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/events"
	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

// allowedUploadTypes maps accepted content types to their canonical
// extension.
var allowedUploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"audio/mpeg": ".mp3",
	"audio/ogg":  ".ogg",
	"audio/wav":  ".wav",
	"audio/flac": ".flac",
}

type mediaResponse struct {
	models.MediaItem
	URL string `json:"url"`
}

func (a *API) mediaView(item models.MediaItem) mediaResponse {
	resp := mediaResponse{MediaItem: item}
	if a.media != nil {
		resp.URL = a.media.URL(item.StorageKey)
	}
	return resp
}

func (a *API) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.media == nil {
		writeError(w, http.StatusServiceUnavailable, "media_disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	if err := r.ParseMultipartForm(a.maxUpload); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large")
		return
	}

	stationID := r.FormValue("station_id")
	if stationID == "" {
		writeError(w, http.StatusBadRequest, "station_id_required")
		return
	}
	var station models.Station
	if err := a.db.WithContext(r.Context()).First(&station, "id = ?", stationID).Error; err != nil {
		writeError(w, http.StatusBadRequest, "station_not_found")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file_required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	extension, ok := allowedUploadTypes[contentType]
	if !ok {
		// Fall back to the filename extension for clients that send a
		// generic content type.
		extension = strings.ToLower(filepath.Ext(header.Filename))
		contentType, ok = contentTypeForExtension(extension)
		if !ok {
			writeError(w, http.StatusBadRequest, "unsupported_media_type")
			return
		}
	}

	kind := models.MediaImage
	if strings.HasPrefix(contentType, "audio/") {
		kind = models.MediaAudio
	}

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	mediaID := uuid.NewString()
	storageKey, err := a.media.Store(r.Context(), stationID, mediaID, extension, file)
	if err != nil {
		a.logger.Error().Err(err).Str("station_id", stationID).Msg("media store failed")
		writeError(w, http.StatusInternalServerError, "storage_error")
		return
	}

	item := models.MediaItem{
		ID:          mediaID,
		StationID:   stationID,
		Title:       title,
		Kind:        kind,
		StorageKey:  storageKey,
		ContentType: contentType,
		SizeBytes:   header.Size,
	}

	if err := a.db.WithContext(r.Context()).Create(&item).Error; err != nil {
		// Roll the stored bytes back so the backend does not accumulate
		// rows-less files.
		_ = a.media.Delete(r.Context(), storageKey)
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	telemetry.MediaUploadBytes.Add(float64(header.Size))
	a.publish(events.EventMediaUploaded, events.Payload{
		"media_id":   item.ID,
		"station_id": stationID,
		"kind":       string(kind),
	})

	writeJSON(w, http.StatusCreated, a.mediaView(item))
}

func (a *API) handleMediaList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	query := a.db.WithContext(r.Context()).Model(&models.MediaItem{})
	if stationID := r.URL.Query().Get("station_id"); stationID != "" {
		query = query.Where("station_id = ?", stationID)
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var items []models.MediaItem
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	views := make([]mediaResponse, 0, len(items))
	for _, item := range items {
		views = append(views, a.mediaView(item))
	}

	writeJSON(w, http.StatusOK, views)
}

func (a *API) handleMediaGet(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaID")

	var item models.MediaItem
	if err := a.db.WithContext(r.Context()).First(&item, "id = ?", mediaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, a.mediaView(item))
}

func (a *API) handleMediaDelete(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaID")

	var item models.MediaItem
	if err := a.db.WithContext(r.Context()).First(&item, "id = ?", mediaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	if err := a.db.WithContext(r.Context()).Delete(&item).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	if a.media != nil {
		if err := a.media.Delete(r.Context(), item.StorageKey); err != nil {
			// The row is gone; the orphan scanner will surface the leftover
			// file.
			a.logger.Warn().Err(err).Str("media_id", item.ID).Msg("delete stored media failed")
		}
	}

	a.publish(events.EventMediaDeleted, events.Payload{
		"media_id":   item.ID,
		"station_id": item.StationID,
	})

	w.WriteHeader(http.StatusNoContent)
}

func contentTypeForExtension(extension string) (string, bool) {
	for contentType, ext := range allowedUploadTypes {
		if ext == extension {
			return contentType, true
		}
	}
	if extension == ".jpeg" {
		return "image/jpeg", true
	}
	return "", false
}
