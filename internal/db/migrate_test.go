package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/friendsincode/bragi_cms/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestBackfillProgramDurations(t *testing.T) {
	gdb := newTestDB(t)

	legacy := []models.Program{
		{ID: "p1", StationID: "s1", Name: "Morning", Slug: "morning", Days: []int{1}, StartTime: "06:00", EndTime: "09:00", Active: true},
		{ID: "p2", StationID: "s1", Name: "Overnight", Slug: "overnight", Days: []int{5}, StartTime: "23:00", EndTime: "02:00", Active: true},
		{ID: "p3", StationID: "s1", Name: "Garbled", Slug: "garbled", Days: []int{2}, StartTime: "26:00", EndTime: "09:00", Active: true},
	}
	for _, p := range legacy {
		if err := gdb.Create(&p).Error; err != nil {
			t.Fatalf("seed program: %v", err)
		}
	}

	if err := backfillProgramDurations(gdb); err != nil {
		t.Fatalf("backfill: %v", err)
	}

	want := map[string]int{"p1": 180, "p2": 180, "p3": 0}
	for id, minutes := range want {
		var p models.Program
		if err := gdb.First(&p, "id = ?", id).Error; err != nil {
			t.Fatalf("reload %s: %v", id, err)
		}
		if p.DurationMinutes != minutes {
			t.Errorf("%s DurationMinutes = %d, want %d", id, p.DurationMinutes, minutes)
		}
	}
}
