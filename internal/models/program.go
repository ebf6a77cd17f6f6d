/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// Program is a recurring weekly on-air slot. Days holds weekday numbers
// (Sunday=0 through Saturday=6); StartTime and EndTime are 24-hour "HH:MM"
// strings in the station's operating timezone. DurationMinutes is derived
// by the schedule engine on every write and never supplied by clients.
type Program struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	StationID   string  `gorm:"type:uuid;index:idx_programs_station;not null"`
	Name        string  `gorm:"type:varchar(255);not null"`
	Slug        string  `gorm:"uniqueIndex"`
	Description string  `gorm:"type:text"`
	Days        []int   `gorm:"type:jsonb;serializer:json"`
	StartTime   string  `gorm:"type:varchar(5)"`
	EndTime     string  `gorm:"type:varchar(5)"`
	// DurationMinutes is (end - start) mod 1440; 0 marks the legacy
	// start == end rows that predate duration validation.
	DurationMinutes int
	HostUserID      *string `gorm:"type:uuid;index:idx_programs_host"`
	ImageID         *string `gorm:"type:uuid"`
	// No default tag: gorm skips zero-valued fields carrying one on
	// Create, which would silently flip explicit false back to true.
	Active          bool `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Station *Station   `gorm:"foreignKey:StationID" json:"station,omitempty"`
	Host    *User      `gorm:"foreignKey:HostUserID" json:"host,omitempty"`
	Image   *MediaItem `gorm:"foreignKey:ImageID" json:"image,omitempty"`
}

// TableName returns the table name for GORM.
func (Program) TableName() string {
	return "programs"
}
