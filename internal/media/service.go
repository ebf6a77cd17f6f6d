/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package media manages stored files for posts and program artwork.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/bragi_cms/internal/config"
	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

// Storage interface abstracts file storage operations. Keys returned by
// Store are opaque and stored on the MediaItem record.
type Storage interface {
	Store(ctx context.Context, stationID, mediaID, extension string, file io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
	CheckAccess(ctx context.Context) error
}

// Service manages media file storage.
type Service struct {
	storage Storage
	backend string
	logger  zerolog.Logger
}

// NewService creates a media service using the configured storage backend.
func NewService(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	var storage Storage
	backend := string(cfg.MediaBackend)

	switch cfg.MediaBackend {
	case config.MediaBackendS3:
		s3cfg := S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicBaseURL,
			UsePathStyle:    cfg.S3UsePathStyle,
		}

		if s3cfg.AccessKeyID == "" || s3cfg.SecretAccessKey == "" {
			logger.Warn().Msg("S3 credentials not configured, relying on default credential chain")
		}

		s3Storage, err := NewS3Storage(ctx, s3cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize S3 storage: %w", err)
		}
		storage = s3Storage
	default:
		storage = NewFilesystemStorage(cfg.MediaRoot, logger)
	}

	return &Service{
		storage: storage,
		backend: backend,
		logger:  logger.With().Str("component", "media").Logger(),
	}, nil
}

// Store saves an uploaded file and returns the storage key.
func (s *Service) Store(ctx context.Context, stationID, mediaID, extension string, file io.Reader) (string, error) {
	key, err := s.storage.Store(ctx, stationID, mediaID, extension, file)
	if err != nil {
		telemetry.MediaUploadsTotal.WithLabelValues(s.backend, "error").Inc()
		s.logger.Error().Err(err).
			Str("station_id", stationID).
			Str("media_id", mediaID).
			Msg("media store failed")
		return "", fmt.Errorf("store media: %w", err)
	}

	telemetry.MediaUploadsTotal.WithLabelValues(s.backend, "ok").Inc()
	s.logger.Info().
		Str("station_id", stationID).
		Str("media_id", mediaID).
		Str("key", key).
		Msg("media stored")

	return key, nil
}

// Delete removes a media file from storage.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("media delete failed")
		return fmt.Errorf("delete media: %w", err)
	}

	s.logger.Info().Str("key", key).Msg("media deleted")
	return nil
}

// URL returns the accessible URL for a stored media file.
func (s *Service) URL(key string) string {
	return s.storage.URL(key)
}

// CheckStorageAccess verifies that the storage backend is accessible.
func (s *Service) CheckStorageAccess() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.storage.CheckAccess(ctx)
}

// buildMediaKey constructs a hierarchical storage key for a media file.
// Structure: station_id/media_id[0:2]/media_id[2:4]/media_id.ext, which
// keeps any one directory from accumulating too many entries.
func buildMediaKey(stationID, mediaID, extension string) string {
	if len(mediaID) < 4 {
		return filepath.ToSlash(filepath.Join(stationID, mediaID+extension))
	}
	return filepath.ToSlash(filepath.Join(stationID, mediaID[0:2], mediaID[2:4], mediaID+extension))
}
