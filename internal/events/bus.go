/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import (
	"sync"

	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

// EventType enumerates event categories.
type EventType string

const (
	EventStationCreated EventType = "station.created"
	EventStationUpdated EventType = "station.updated"
	EventStationDeleted EventType = "station.deleted"

	EventProgramCreated EventType = "program.created"
	EventProgramUpdated EventType = "program.updated"
	EventProgramDeleted EventType = "program.deleted"

	EventPostPublished   EventType = "post.published"
	EventPostUnpublished EventType = "post.unpublished"

	EventMediaUploaded EventType = "media.uploaded"
	EventMediaDeleted  EventType = "media.deleted"

	// Audit events (for operations that need explicit audit logging)
	EventAuditUserCreate    EventType = "audit.user.create"
	EventAuditUserUpdate    EventType = "audit.user.update"
	EventAuditLogin         EventType = "audit.login"
	EventAuditLoginFailed   EventType = "audit.login_failed"
	EventAuditProgramCreate EventType = "audit.program.create"
	EventAuditProgramUpdate EventType = "audit.program.update"
	EventAuditProgramDelete EventType = "audit.program.delete"
)

// Payload generic event payload.
type Payload map[string]any

// Subscriber receives event payloads.
type Subscriber chan Payload

// Bus implements a simple in-process pubsub.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Subscriber
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventType][]Subscriber)}
}

// Subscribe registers a subscriber for event type.
func (b *Bus) Subscribe(eventType EventType) Subscriber {
	ch := make(Subscriber, 8)
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], ch)
	b.mu.Unlock()
	return ch
}

// Publish sends payload to subscribers. Slow subscribers drop events
// rather than block the publisher. The distributed backends all route
// local delivery through here, so each publish is counted exactly once.
func (b *Bus) Publish(eventType EventType, payload Payload) {
	telemetry.EventsPublishedTotal.WithLabelValues(string(eventType)).Inc()

	b.mu.RLock()
	subs := append([]Subscriber(nil), b.subs[eventType]...)
	b.mu.RUnlock()
	for _, sub := range subs {
		select {
		case sub <- payload:
		default:
		}
	}
}

// Unsubscribe removes the subscriber.
func (b *Bus) Unsubscribe(eventType EventType, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[eventType]
	for i, candidate := range subs {
		if candidate == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	b.subs[eventType] = subs
	close(sub)
}
