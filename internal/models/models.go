/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// RoleName enumerates the RBAC roles.
type RoleName string

const (
	RoleAdmin  RoleName = "admin"
	RoleEditor RoleName = "editor"
	RoleDJ     RoleName = "dj"
)

// User represents an authenticated account.
type User struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Email       string `gorm:"uniqueIndex"`
	Password    string `json:"-"`
	DisplayName string
	Role        RoleName `gorm:"type:varchar(16)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Station is one outlet of the radio network. Programs, posts, and media
// all hang off a station.
type Station struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"uniqueIndex"`
	Slug        string `gorm:"uniqueIndex"`
	Description string `gorm:"type:text"`
	Frequency   string `gorm:"type:varchar(32)"` // display string, e.g. "101.5 FM"
	Timezone    string `gorm:"type:varchar(64)"` // IANA name of the operating timezone
	// No default tag: gorm skips zero-valued fields carrying one on
	// Create, which would silently flip explicit false back to true.
	Public      bool `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Post is an article published under a station, optionally tied to a
// program.
type Post struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	StationID   string  `gorm:"type:uuid;index:idx_posts_station"`
	ProgramID   *string `gorm:"type:uuid;index:idx_posts_program"`
	AuthorID    string  `gorm:"type:uuid;index:idx_posts_author"`
	Title       string  `gorm:"type:varchar(255);not null"`
	Slug        string  `gorm:"uniqueIndex"`
	Body        string  `gorm:"type:text"`
	Excerpt     string  `gorm:"type:text"`
	Published   bool    `gorm:"not null;default:false"`
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Station *Station `gorm:"foreignKey:StationID" json:"station,omitempty"`
	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	Author  *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// MediaKind distinguishes stored media assets.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
)

// MediaItem is an uploaded asset (program artwork, post images, audio
// snippets). The bytes live in the configured storage backend; the row
// records where.
type MediaItem struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	StationID   string    `gorm:"type:uuid;index:idx_media_station"`
	Title       string    `gorm:"index"`
	Kind        MediaKind `gorm:"type:varchar(16)"`
	StorageKey  string    `gorm:"type:varchar(512)"`
	ContentType string    `gorm:"type:varchar(128)"`
	SizeBytes   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuditLog records who changed what. Rows are written by the audit service
// from bus events, never directly by handlers.
type AuditLog struct {
	ID         string         `gorm:"type:uuid;primaryKey"`
	UserID     string         `gorm:"type:uuid;index:idx_audit_user"`
	Action     string         `gorm:"type:varchar(64);index:idx_audit_action"`
	EntityType string         `gorm:"type:varchar(64)"`
	EntityID   string         `gorm:"type:uuid"`
	Details    map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt  time.Time
}
