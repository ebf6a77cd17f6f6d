/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/models"
)

// ScanResult summarizes an orphan scan.
type ScanResult struct {
	TotalFiles int           `json:"total_files"`
	Orphans    []string      `json:"orphans"`
	Errors     int           `json:"errors"`
	TotalSize  int64         `json:"total_size"`
	Duration   time.Duration `json:"duration"`
}

// OrphanScanner walks the media root looking for files no media_items
// row references. Only meaningful for the filesystem backend.
type OrphanScanner struct {
	db        *gorm.DB
	mediaRoot string
	logger    zerolog.Logger
}

// NewOrphanScanner creates a new orphan scanner.
func NewOrphanScanner(db *gorm.DB, mediaRoot string, logger zerolog.Logger) *OrphanScanner {
	return &OrphanScanner{
		db:        db,
		mediaRoot: mediaRoot,
		logger:    logger.With().Str("component", "orphan_scanner").Logger(),
	}
}

// ScanForOrphans walks the media directory and reports files not present
// in the database. Nothing is deleted; the report is advisory.
func (s *OrphanScanner) ScanForOrphans(ctx context.Context) (*ScanResult, error) {
	startTime := time.Now()
	result := &ScanResult{}

	s.logger.Info().Str("media_root", s.mediaRoot).Msg("starting orphan scan")

	knownKeys, err := s.getKnownStorageKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("get known storage keys: %w", err)
	}

	err = filepath.Walk(s.mediaRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("error accessing path")
			result.Errors++
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}

		result.TotalFiles++

		relPath, err := filepath.Rel(s.mediaRoot, path)
		if err != nil {
			result.Errors++
			return nil
		}
		key := filepath.ToSlash(relPath)

		if _, known := knownKeys[key]; known {
			return nil
		}

		result.Orphans = append(result.Orphans, key)
		result.TotalSize += info.Size()
		return nil
	})
	if err != nil && err != context.Canceled {
		return nil, fmt.Errorf("walk media directory: %w", err)
	}

	result.Duration = time.Since(startTime)

	s.logger.Info().
		Int("total_files", result.TotalFiles).
		Int("orphans", len(result.Orphans)).
		Int("errors", result.Errors).
		Dur("duration", result.Duration).
		Msg("orphan scan complete")

	return result, nil
}

func (s *OrphanScanner) getKnownStorageKeys(ctx context.Context) (map[string]struct{}, error) {
	var keys []string
	if err := s.db.WithContext(ctx).
		Model(&models.MediaItem{}).
		Pluck("storage_key", &keys).Error; err != nil {
		return nil, err
	}

	result := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			result[k] = struct{}{}
		}
	}
	return result, nil
}
