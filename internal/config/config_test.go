package config

import "testing"

func TestLoadReadsCriticalEnvKeys(t *testing.T) {
	t.Setenv("BRAGI_DB_DSN", "host=localhost user=test dbname=test sslmode=disable")
	t.Setenv("BRAGI_JWT_SIGNING_KEY", "supersecret")
	t.Setenv("BRAGI_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBDSN == "" {
		t.Fatal("expected DB DSN to be set")
	}
	if cfg.JWTSigningKey != "supersecret" {
		t.Fatalf("unexpected jwt signing key: %q", cfg.JWTSigningKey)
	}
	if cfg.DBBackend != DatabasePostgres {
		t.Fatalf("unexpected default db backend: %q", cfg.DBBackend)
	}
}

func TestLoadRejectsMissingDSN(t *testing.T) {
	t.Setenv("BRAGI_DB_DSN", "")
	t.Setenv("BRAGI_JWT_SIGNING_KEY", "supersecret")

	if _, err := Load(); err == nil {
		t.Fatal("expected config load to fail without a DSN")
	}
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	t.Setenv("BRAGI_DB_DSN", "file::memory:")
	t.Setenv("BRAGI_JWT_SIGNING_KEY", "supersecret")
	t.Setenv("BRAGI_DB_BACKEND", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected config load to fail for unknown db backend")
	}

	t.Setenv("BRAGI_DB_BACKEND", "sqlite")
	t.Setenv("BRAGI_EVENT_BUS", "kafka")
	if _, err := Load(); err == nil {
		t.Fatal("expected config load to fail for unknown event bus backend")
	}
}

func TestLoadRejectsInvalidTimezone(t *testing.T) {
	t.Setenv("BRAGI_DB_DSN", "file::memory:")
	t.Setenv("BRAGI_JWT_SIGNING_KEY", "supersecret")
	t.Setenv("BRAGI_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Fatal("expected config load to fail for invalid timezone")
	}
}

func TestLoadRequiresBucketForS3(t *testing.T) {
	t.Setenv("BRAGI_DB_DSN", "file::memory:")
	t.Setenv("BRAGI_JWT_SIGNING_KEY", "supersecret")
	t.Setenv("BRAGI_MEDIA_BACKEND", "s3")
	t.Setenv("BRAGI_S3_BUCKET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected config load to fail without an S3 bucket")
	}

	t.Setenv("BRAGI_S3_BUCKET", "bragi-media")
	if _, err := Load(); err != nil {
		t.Fatalf("expected config load with bucket to succeed: %v", err)
	}
}

func TestLoadProductionRequiresStrongSigningKey(t *testing.T) {
	t.Setenv("BRAGI_DB_DSN", "file::memory:")
	t.Setenv("BRAGI_JWT_SIGNING_KEY", "short")
	t.Setenv("BRAGI_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected production config load to fail with a short signing key")
	}

	t.Setenv("BRAGI_JWT_SIGNING_KEY", "0123456789abcdef0123456789abcdef")
	if _, err := Load(); err != nil {
		t.Fatalf("expected production config load with long key to succeed: %v", err)
	}
}
