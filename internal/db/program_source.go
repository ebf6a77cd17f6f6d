/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/models"
)

// ProgramSource serves active programs from the database for the schedule
// service. An empty stationID means all stations.
type ProgramSource struct {
	db *gorm.DB
}

// NewProgramSource creates a gorm-backed program source.
func NewProgramSource(db *gorm.DB) *ProgramSource {
	return &ProgramSource{db: db}
}

// ActivePrograms returns active programs, optionally filtered by station.
func (s *ProgramSource) ActivePrograms(ctx context.Context, stationID string) ([]models.Program, error) {
	query := s.db.WithContext(ctx).Where("active = ?", true)
	if stationID != "" {
		query = query.Where("station_id = ?", stationID)
	}

	var programs []models.Program
	if err := query.Order("name ASC").Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}
