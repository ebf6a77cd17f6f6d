/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package cache provides a Redis-based caching layer for public schedule
// views and station lists.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/schedule"
	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

// Default TTL values for different cache types
const (
	DefaultStationListTTL = 5 * time.Minute
	DefaultScheduleTTL    = 2 * time.Minute
	DefaultNowTTL         = 30 * time.Second
)

// Key prefixes for Redis cache
const (
	KeyStationList = "bragi:cache:stations"
	KeyDaySchedule = "bragi:cache:schedule:day:"  // + station_id:day
	KeyWeek        = "bragi:cache:schedule:week:" // + station_id
	KeyNow         = "bragi:cache:schedule:now:"  // + station_id
)

// Config contains cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// TTL overrides
	StationListTTL time.Duration
	ScheduleTTL    time.Duration
	NowTTL         time.Duration

	// Fallback behavior
	DisableOnError bool // If true, disable caching on Redis errors
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr:      "localhost:6379",
		StationListTTL: DefaultStationListTTL,
		ScheduleTTL:    DefaultScheduleTTL,
		NowTTL:         DefaultNowTTL,
		DisableOnError: true,
	}
}

// Cache provides Redis-backed caching with graceful fallback. Every reader
// must tolerate a miss; the database remains the source of truth.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
	config Config

	mu       sync.RWMutex
	disabled bool // Circuit breaker state
}

// New creates a new cache instance.
func New(cfg Config, logger zerolog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Redis cache unavailable, running without caching")
		return &Cache{
			logger:   logger.With().Str("component", "cache").Logger(),
			config:   cfg,
			disabled: true,
		}, nil
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis cache initialized")

	return &Cache{
		client: client,
		logger: logger.With().Str("component", "cache").Logger(),
		config: cfg,
	}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAvailable returns true if the cache is operational.
func (c *Cache) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

// handleError handles Redis errors with circuit breaker logic.
func (c *Cache) handleError(err error, operation string) {
	if err == nil || err == redis.Nil {
		return
	}

	telemetry.ScheduleCacheHitsTotal.WithLabelValues("error").Inc()
	c.logger.Debug().Err(err).Str("operation", operation).Msg("cache operation failed")

	if c.config.DisableOnError {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Warn().Msg("disabling cache due to Redis error")
	}
}

// get retrieves a value from cache and unmarshals it.
func (c *Cache) get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.IsAvailable() {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		telemetry.ScheduleCacheHitsTotal.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		c.handleError(err, "get")
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
		return false, nil
	}

	telemetry.ScheduleCacheHitsTotal.WithLabelValues("hit").Inc()
	return true, nil
}

// set stores a value in cache with TTL.
func (c *Cache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.IsAvailable() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.handleError(err, "set")
		return err
	}

	return nil
}

// delete removes a key from cache.
func (c *Cache) delete(ctx context.Context, key string) error {
	if !c.IsAvailable() {
		return nil
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.handleError(err, "delete")
		return err
	}

	return nil
}

// deletePattern deletes all keys matching a pattern using SCAN.
func (c *Cache) deletePattern(ctx context.Context, pattern string) error {
	if !c.IsAvailable() {
		return nil
	}

	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.handleError(err, "scan")
			return err
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.handleError(err, "delete_batch")
				return err
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

// Station caching methods

// CachedStation represents a cached public station record.
type CachedStation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Timezone    string `json:"timezone"`
}

// GetStationList retrieves the cached list of public stations.
func (c *Cache) GetStationList(ctx context.Context) ([]CachedStation, bool) {
	var stations []CachedStation
	found, err := c.get(ctx, KeyStationList, &stations)
	if err != nil || !found {
		return nil, false
	}
	c.logger.Debug().Int("count", len(stations)).Msg("station list cache hit")
	return stations, true
}

// SetStationList caches the list of public stations.
func (c *Cache) SetStationList(ctx context.Context, stations []CachedStation) error {
	return c.set(ctx, KeyStationList, stations, c.config.StationListTTL)
}

// InvalidateStationList removes the station list from cache.
func (c *Cache) InvalidateStationList(ctx context.Context) error {
	return c.delete(ctx, KeyStationList)
}

// Schedule view caching methods

func dayKey(stationID string, day int) string {
	return KeyDaySchedule + stationID + ":" + strconv.Itoa(day)
}

// GetDaySchedule retrieves a cached day schedule for a station.
func (c *Cache) GetDaySchedule(ctx context.Context, stationID string, day int) ([]models.Program, bool) {
	var programs []models.Program
	found, err := c.get(ctx, dayKey(stationID, day), &programs)
	if err != nil || !found {
		return nil, false
	}
	c.logger.Debug().Str("station_id", stationID).Int("day", day).Msg("day schedule cache hit")
	return programs, true
}

// SetDaySchedule caches a day schedule for a station.
func (c *Cache) SetDaySchedule(ctx context.Context, stationID string, day int, programs []models.Program) error {
	return c.set(ctx, dayKey(stationID, day), programs, c.config.ScheduleTTL)
}

// GetWeeklySchedule retrieves a cached weekly schedule for a station.
func (c *Cache) GetWeeklySchedule(ctx context.Context, stationID string) ([]schedule.DayPrograms, bool) {
	var week []schedule.DayPrograms
	found, err := c.get(ctx, KeyWeek+stationID, &week)
	if err != nil || !found {
		return nil, false
	}
	c.logger.Debug().Str("station_id", stationID).Msg("weekly schedule cache hit")
	return week, true
}

// SetWeeklySchedule caches a weekly schedule for a station.
func (c *Cache) SetWeeklySchedule(ctx context.Context, stationID string, week []schedule.DayPrograms) error {
	return c.set(ctx, KeyWeek+stationID, week, c.config.ScheduleTTL)
}

// GetCurrentlyAiring retrieves the cached on-air programs for a station.
func (c *Cache) GetCurrentlyAiring(ctx context.Context, stationID string) ([]models.Program, bool) {
	var programs []models.Program
	found, err := c.get(ctx, KeyNow+stationID, &programs)
	if err != nil || !found {
		return nil, false
	}
	return programs, true
}

// SetCurrentlyAiring caches the on-air programs for a station. The TTL is
// short so the view tracks the clock.
func (c *Cache) SetCurrentlyAiring(ctx context.Context, stationID string, programs []models.Program) error {
	return c.set(ctx, KeyNow+stationID, programs, c.config.NowTTL)
}

// InvalidateSchedules removes all cached schedule views for a station.
// Called whenever a program changes.
func (c *Cache) InvalidateSchedules(ctx context.Context, stationID string) error {
	c.logger.Debug().Str("station_id", stationID).Msg("invalidating schedule caches")

	if err := c.deletePattern(ctx, KeyDaySchedule+stationID+":*"); err != nil {
		return err
	}
	if err := c.delete(ctx, KeyWeek+stationID); err != nil {
		return err
	}
	return c.delete(ctx, KeyNow+stationID)
}

// FlushAll removes all cached data (use sparingly).
func (c *Cache) FlushAll(ctx context.Context) error {
	c.logger.Warn().Msg("flushing all cache data")
	return c.deletePattern(ctx, "bragi:cache:*")
}
