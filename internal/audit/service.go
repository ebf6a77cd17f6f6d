/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package audit turns bus events into persistent audit log rows.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/events"
	"github.com/friendsincode/bragi_cms/internal/eventbus"
	"github.com/friendsincode/bragi_cms/internal/models"
)

// Service handles audit logging by subscribing to events and storing audit entries.
type Service struct {
	db     *gorm.DB
	bus    eventbus.Bus
	logger zerolog.Logger
}

// NewService creates a new audit service.
func NewService(db *gorm.DB, bus eventbus.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		bus:    bus,
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// Start subscribes to audit events and logs them until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	s.logger.Info().Msg("audit service starting")

	userCreate := s.bus.Subscribe(events.EventAuditUserCreate)
	userUpdate := s.bus.Subscribe(events.EventAuditUserUpdate)
	login := s.bus.Subscribe(events.EventAuditLogin)
	loginFailed := s.bus.Subscribe(events.EventAuditLoginFailed)
	programCreate := s.bus.Subscribe(events.EventAuditProgramCreate)
	programUpdate := s.bus.Subscribe(events.EventAuditProgramUpdate)
	programDelete := s.bus.Subscribe(events.EventAuditProgramDelete)

	defer func() {
		s.bus.Unsubscribe(events.EventAuditUserCreate, userCreate)
		s.bus.Unsubscribe(events.EventAuditUserUpdate, userUpdate)
		s.bus.Unsubscribe(events.EventAuditLogin, login)
		s.bus.Unsubscribe(events.EventAuditLoginFailed, loginFailed)
		s.bus.Unsubscribe(events.EventAuditProgramCreate, programCreate)
		s.bus.Unsubscribe(events.EventAuditProgramUpdate, programUpdate)
		s.bus.Unsubscribe(events.EventAuditProgramDelete, programDelete)
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("audit service stopping")
			return

		case payload := <-userCreate:
			s.logAuditEntry(ctx, "user.create", payload)
		case payload := <-userUpdate:
			s.logAuditEntry(ctx, "user.update", payload)
		case payload := <-login:
			s.logAuditEntry(ctx, "login", payload)
		case payload := <-loginFailed:
			s.logAuditEntry(ctx, "login.failed", payload)
		case payload := <-programCreate:
			s.logAuditEntry(ctx, "program.create", payload)
		case payload := <-programUpdate:
			s.logAuditEntry(ctx, "program.update", payload)
		case payload := <-programDelete:
			s.logAuditEntry(ctx, "program.delete", payload)
		}
	}
}

// logAuditEntry creates an audit log entry from an event payload.
func (s *Service) logAuditEntry(ctx context.Context, action string, payload events.Payload) {
	entry := &models.AuditLog{
		ID:      uuid.NewString(),
		Action:  action,
		Details: make(map[string]any),
	}

	if userID, ok := payload["user_id"].(string); ok {
		entry.UserID = userID
	}
	if entityType, ok := payload["entity_type"].(string); ok {
		entry.EntityType = entityType
	}
	if entityID, ok := payload["entity_id"].(string); ok {
		entry.EntityID = entityID
	}

	for k, v := range payload {
		switch k {
		case "user_id", "entity_type", "entity_id":
		default:
			entry.Details[k] = v
		}
	}

	if err := s.Log(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("action", action).
			Msg("failed to log audit entry")
	}
}

// Log records an audit entry directly (for non-event-bus actions).
func (s *Service) Log(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Details == nil {
		entry.Details = make(map[string]any)
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}

	s.logger.Debug().
		Str("action", entry.Action).
		Str("id", entry.ID).
		Msg("audit entry logged")

	return nil
}

// QueryFilters defines filters for querying audit logs.
type QueryFilters struct {
	UserID     *string
	Action     *string
	EntityType *string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Offset     int
}

// Query retrieves audit logs with filters, most recent first.
func (s *Service) Query(ctx context.Context, filters QueryFilters) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	query := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Action != nil {
		query = query.Where("action = ?", *filters.Action)
	}
	if filters.EntityType != nil {
		query = query.Where("entity_type = ?", *filters.EntityType)
	}
	if filters.StartTime != nil {
		query = query.Where("created_at >= ?", *filters.StartTime)
	}
	if filters.EndTime != nil {
		query = query.Where("created_at <= ?", *filters.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	} else {
		query = query.Limit(100)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
