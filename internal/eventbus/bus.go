/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package eventbus provides distributed event delivery on top of the
// in-process events.Bus, with Redis and NATS backends.
package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/friendsincode/bragi_cms/internal/config"
	"github.com/friendsincode/bragi_cms/internal/events"
)

// Bus is the delivery contract shared by all backends.
type Bus interface {
	Subscribe(eventType events.EventType) events.Subscriber
	Publish(eventType events.EventType, payload events.Payload)
	Unsubscribe(eventType events.EventType, sub events.Subscriber)
	Close() error
}

// memoryBus adapts the in-process bus to the Bus interface.
type memoryBus struct {
	*events.Bus
}

func (memoryBus) Close() error { return nil }

// New builds the configured event bus backend.
func New(cfg *config.Config, nodeID string, logger zerolog.Logger) (Bus, error) {
	switch cfg.EventBusBackend {
	case config.EventBusMemory:
		return memoryBus{events.NewBus()}, nil
	case config.EventBusRedis:
		redisCfg := DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPassword
		redisCfg.DB = cfg.RedisDB
		return NewRedisBus(redisCfg, nodeID, logger)
	case config.EventBusNATS:
		return NewNATSBus(cfg.NATSURL, nodeID, logger)
	default:
		return nil, fmt.Errorf("unknown event bus backend: %s", cfg.EventBusBackend)
	}
}
