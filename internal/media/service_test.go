package media

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/bragi_cms/internal/config"
)

func TestNewServicePicksBackend(t *testing.T) {
	logger := zerolog.Nop()

	cfg := &config.Config{
		MediaBackend: config.MediaBackendFilesystem,
		MediaRoot:    t.TempDir(),
	}

	svc, err := NewService(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	if _, ok := svc.storage.(*FilesystemStorage); !ok {
		t.Errorf("NewService() storage type = %T, want *FilesystemStorage", svc.storage)
	}
}

func TestBuildMediaKey(t *testing.T) {
	tests := []struct {
		name      string
		stationID string
		mediaID   string
		extension string
		expected  string
	}{
		{
			name:      "standard key",
			stationID: "station1",
			mediaID:   "abcd1234efgh5678",
			extension: ".png",
			expected:  "station1/ab/cd/abcd1234efgh5678.png",
		},
		{
			name:      "short mediaID",
			stationID: "station2",
			mediaID:   "abc",
			extension: ".jpg",
			expected:  "station2/abc.jpg",
		},
		{
			name:      "exactly 4 chars",
			stationID: "station3",
			mediaID:   "abcd",
			extension: ".mp3",
			expected:  "station3/ab/cd/abcd.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildMediaKey(tt.stationID, tt.mediaID, tt.extension)
			if result != tt.expected {
				t.Errorf("buildMediaKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestFilesystemStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	fs := NewFilesystemStorage(root, zerolog.Nop())

	key, err := fs.Store(context.Background(), "st1", "abcd1234", ".png", bytes.NewReader([]byte("image-bytes")))
	if err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	if key != "st1/ab/cd/abcd1234.png" {
		t.Errorf("Store() key = %q", key)
	}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("stored content = %q", data)
	}

	if err := fs.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(key))); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}

	// Deleting again must be a no-op.
	if err := fs.Delete(context.Background(), key); err != nil {
		t.Errorf("Delete() of missing file: %v", err)
	}
}

func TestStorageURL(t *testing.T) {
	t.Run("filesystem", func(t *testing.T) {
		fs := NewFilesystemStorage("/var/lib/bragi/media", zerolog.Nop())
		if got := fs.URL("st1/ab/cd/file.png"); got != "/media/st1/ab/cd/file.png" {
			t.Errorf("FilesystemStorage.URL() = %v", got)
		}
	})

	t.Run("s3 with endpoint", func(t *testing.T) {
		s3 := &S3Storage{config: S3Config{
			Endpoint: "https://s3.example.com",
			Bucket:   "bragi-media",
		}}
		got := s3.URL("st1/ab/cd/file.png")
		want := "https://s3.example.com/bragi-media/st1/ab/cd/file.png"
		if got != want {
			t.Errorf("S3Storage.URL() = %v, want %v", got, want)
		}
	})

	t.Run("s3 with public base url", func(t *testing.T) {
		s3 := &S3Storage{config: S3Config{
			PublicBaseURL: "https://cdn.example.com/",
			Bucket:        "bragi-media",
		}}
		got := s3.URL("st1/ab/cd/file.png")
		want := "https://cdn.example.com/st1/ab/cd/file.png"
		if got != want {
			t.Errorf("S3Storage.URL() = %v, want %v", got, want)
		}
	})
}
