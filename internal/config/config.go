/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Event bus backend selection.
type EventBusBackend string

const (
	EventBusMemory EventBusBackend = "memory"
	EventBusRedis  EventBusBackend = "redis"
	EventBusNATS   EventBusBackend = "nats"
)

// Media storage backend selection.
type MediaBackend string

const (
	MediaBackendFilesystem MediaBackend = "fs"
	MediaBackendS3         MediaBackend = "s3"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	BaseURL     string // Public base URL (e.g., https://cms.example.com)
	DBBackend   DatabaseBackend
	DBDSN       string

	// Timezone is the network's single operating timezone. All schedule
	// times are wall clock in this zone.
	Timezone string

	JWTSigningKey string
	JWTTTLHours   int

	MetricsBind string

	MaxUploadSizeMB int

	// Media storage
	MediaBackend MediaBackend
	MediaRoot    string // filesystem backend root

	// S3 media storage (MediaBackend == "s3")
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string // For S3-compatible services (MinIO, Spaces, etc.)
	S3PublicBaseURL   string // Optional CDN URL
	S3UsePathStyle    bool   // Required for MinIO

	// Schedule view cache
	CacheEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Distributed event fan-out
	EventBusBackend EventBusBackend
	NATSURL         string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("BRAGI_ENV", "development"),
		HTTPBind:    getEnv("BRAGI_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("BRAGI_HTTP_PORT", 8080),
		BaseURL:     getEnv("BRAGI_BASE_URL", ""),
		DBBackend:   DatabaseBackend(getEnv("BRAGI_DB_BACKEND", string(DatabasePostgres))),
		DBDSN:       getEnv("BRAGI_DB_DSN", ""),
		Timezone:    getEnv("BRAGI_TIMEZONE", "UTC"),

		JWTSigningKey: getEnv("BRAGI_JWT_SIGNING_KEY", ""),
		JWTTTLHours:   getEnvInt("BRAGI_JWT_TTL_HOURS", 72),

		MetricsBind: getEnv("BRAGI_METRICS_BIND", "127.0.0.1:9000"),

		MaxUploadSizeMB: getEnvInt("BRAGI_MAX_UPLOAD_SIZE_MB", 32),

		MediaBackend: MediaBackend(getEnv("BRAGI_MEDIA_BACKEND", string(MediaBackendFilesystem))),
		MediaRoot:    getEnv("BRAGI_MEDIA_ROOT", "./media"),

		S3AccessKeyID:     getEnv("BRAGI_S3_ACCESS_KEY_ID", os.Getenv("AWS_ACCESS_KEY_ID")),
		S3SecretAccessKey: getEnv("BRAGI_S3_SECRET_ACCESS_KEY", os.Getenv("AWS_SECRET_ACCESS_KEY")),
		S3Region:          getEnv("BRAGI_S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("BRAGI_S3_BUCKET", ""),
		S3Endpoint:        getEnv("BRAGI_S3_ENDPOINT", ""),
		S3PublicBaseURL:   getEnv("BRAGI_S3_PUBLIC_BASE_URL", ""),
		S3UsePathStyle:    getEnvBool("BRAGI_S3_USE_PATH_STYLE", false),

		CacheEnabled:  getEnvBool("BRAGI_CACHE_ENABLED", false),
		RedisAddr:     getEnv("BRAGI_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("BRAGI_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("BRAGI_REDIS_DB", 0),

		EventBusBackend: EventBusBackend(getEnv("BRAGI_EVENT_BUS", string(EventBusMemory))),
		NATSURL:         getEnv("BRAGI_NATS_URL", "nats://localhost:4222"),

		TracingEnabled:    getEnvBool("BRAGI_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("BRAGI_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("BRAGI_TRACING_SAMPLE_RATE", 1.0),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("BRAGI_DB_DSN must be provided")
	}

	if cfg.JWTSigningKey == "" {
		return nil, fmt.Errorf("BRAGI_JWT_SIGNING_KEY must be provided")
	}

	if cfg.MediaBackend != MediaBackendFilesystem && cfg.MediaBackend != MediaBackendS3 {
		return nil, fmt.Errorf("unsupported media backend %q", cfg.MediaBackend)
	}

	if cfg.MediaBackend == MediaBackendS3 && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("BRAGI_S3_BUCKET must be provided when the S3 media backend is selected")
	}

	switch cfg.EventBusBackend {
	case EventBusMemory, EventBusRedis, EventBusNATS:
	default:
		return nil, fmt.Errorf("unsupported event bus backend %q", cfg.EventBusBackend)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid BRAGI_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	if strings.EqualFold(cfg.Environment, "production") && len(cfg.JWTSigningKey) < 32 {
		return nil, fmt.Errorf("BRAGI_JWT_SIGNING_KEY must be at least 32 bytes in production")
	}

	return cfg, nil
}

// Location returns the parsed operating timezone. Load validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MaxUploadSizeBytes returns the configured upload limit in bytes.
func (c *Config) MaxUploadSizeBytes() int64 {
	if c == nil || c.MaxUploadSizeMB <= 0 {
		return 0
	}
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}
