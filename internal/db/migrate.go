/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/schedule"
)

// Migrate applies database schema migrations using GORM auto-migrate.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(
		&models.User{},
		&models.Station{},
		&models.Program{},
		&models.Post{},
		&models.MediaItem{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if err := normalizeLegacyRoles(database); err != nil {
		return err
	}
	if err := backfillProgramDurations(database); err != nil {
		return err
	}

	return nil
}

func normalizeLegacyRoles(database *gorm.DB) error {
	if err := database.Exec("UPDATE users SET role = ? WHERE LOWER(TRIM(role)) IN ?", models.RoleAdmin, []string{"admin", "administrator", "owner"}).Error; err != nil {
		return fmt.Errorf("normalize legacy admin role: %w", err)
	}
	if err := database.Exec("UPDATE users SET role = ? WHERE LOWER(TRIM(role)) IN ?", models.RoleDJ, []string{"dj", "host", "presenter"}).Error; err != nil {
		return fmt.Errorf("normalize legacy dj role: %w", err)
	}
	return nil
}

// backfillProgramDurations recomputes duration_minutes for rows written
// before the column existed. Rows with unparseable times are left alone;
// the schedule service skips them at read time.
func backfillProgramDurations(database *gorm.DB) error {
	var rows []models.Program
	if err := database.
		Select("id, start_time, end_time").
		Where("duration_minutes = 0 AND start_time != end_time").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("backfill program durations query: %w", err)
	}

	for _, r := range rows {
		start, err := schedule.ParseClock(r.StartTime)
		if err != nil {
			continue
		}
		end, err := schedule.ParseClock(r.EndTime)
		if err != nil {
			continue
		}
		duration := ((end - start) + schedule.MinutesPerDay) % schedule.MinutesPerDay
		if duration == 0 {
			continue
		}
		if err := database.Model(&models.Program{}).
			Where("id = ?", r.ID).
			Update("duration_minutes", duration).Error; err != nil {
			return fmt.Errorf("backfill program %s duration: %w", r.ID, err)
		}
	}

	return nil
}
