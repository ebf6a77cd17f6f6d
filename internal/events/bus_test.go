/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventProgramUpdated)

	bus.Publish(EventProgramUpdated, Payload{"program_id": "p1"})

	select {
	case got := <-sub:
		if got["program_id"] != "p1" {
			t.Errorf("payload = %v, want program_id p1", got)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestBusIgnoresOtherEventTypes(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventProgramUpdated)

	bus.Publish(EventStationUpdated, Payload{"station_id": "st1"})

	select {
	case got := <-sub:
		t.Fatalf("unexpected delivery: %v", got)
	default:
	}
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventMediaUploaded)

	for i := 0; i < 20; i++ {
		bus.Publish(EventMediaUploaded, Payload{"seq": i})
	}

	// Buffer is bounded; publishing never blocks and the excess is dropped.
	if len(sub) != cap(sub) {
		t.Errorf("buffered = %d, want full buffer of %d", len(sub), cap(sub))
	}
}

func TestBusPublishCountsEvents(t *testing.T) {
	counter := telemetry.EventsPublishedTotal.WithLabelValues(string(EventStationCreated))
	before := testutil.ToFloat64(counter)

	bus := NewBus()
	bus.Publish(EventStationCreated, Payload{"station_id": "st1"})
	bus.Publish(EventStationCreated, Payload{"station_id": "st2"})

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("published counter delta = %v, want 2", got)
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventPostPublished)

	bus.Unsubscribe(EventPostPublished, sub)

	if _, ok := <-sub; ok {
		t.Error("expected closed channel after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(EventPostPublished, Payload{})
}
