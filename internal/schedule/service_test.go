/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/friendsincode/bragi_cms/internal/models"
)

// fakeSource serves a fixed program list, honoring the station filter the
// way the gorm-backed source does.
type fakeSource struct {
	programs []models.Program
	err      error
}

func (f *fakeSource) ActivePrograms(_ context.Context, stationID string) ([]models.Program, error) {
	if f.err != nil {
		return nil, f.err
	}
	if stationID == "" {
		return f.programs, nil
	}
	var out []models.Program
	for _, p := range f.programs {
		if p.StationID == stationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func testPrograms() []models.Program {
	return []models.Program{
		{ID: "p1", StationID: "st1", Name: "Morning Drive", Days: []int{1, 2, 3, 4, 5}, StartTime: "06:00", EndTime: "09:00", Active: true},
		{ID: "p2", StationID: "st1", Name: "Lunch Hour", Days: []int{1, 3}, StartTime: "12:00", EndTime: "13:00", Active: true},
		{ID: "p3", StationID: "st1", Name: "Night Owls", Days: []int{5, 6}, StartTime: "23:00", EndTime: "02:00", Active: true},
		{ID: "p4", StationID: "st2", Name: "Other Station Morning", Days: []int{1}, StartTime: "07:00", EndTime: "10:00", Active: true},
	}
}

func newTestService(programs []models.Program) *Service {
	return NewService(&fakeSource{programs: programs}, zerolog.Nop())
}

func TestDayScheduleSorted(t *testing.T) {
	svc := newTestService(testPrograms())

	got, err := svc.DaySchedule(context.Background(), Monday, "st1")
	if err != nil {
		t.Fatalf("DaySchedule() unexpected error: %v", err)
	}

	wantOrder := []string{"p1", "p2"}
	if len(got) != len(wantOrder) {
		t.Fatalf("DaySchedule() = %d programs, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("DaySchedule()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestDayScheduleStationFilter(t *testing.T) {
	svc := newTestService(testPrograms())

	got, err := svc.DaySchedule(context.Background(), Monday, "")
	if err != nil {
		t.Fatalf("DaySchedule() unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("DaySchedule(all stations) = %d programs, want 3", len(got))
	}

	got, err = svc.DaySchedule(context.Background(), Monday, "st2")
	if err != nil {
		t.Fatalf("DaySchedule() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p4" {
		t.Errorf("DaySchedule(st2) = %v, want [p4]", got)
	}
}

func TestDayScheduleInvalidDay(t *testing.T) {
	svc := newTestService(testPrograms())

	if _, err := svc.DaySchedule(context.Background(), 7, ""); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("DaySchedule(7) error = %v, want ErrInvalidDay", err)
	}
}

func TestDayScheduleSkipsInvalidRows(t *testing.T) {
	programs := append(testPrograms(), models.Program{
		ID: "broken", StationID: "st1", Name: "Broken", Days: []int{1}, StartTime: "26:00", EndTime: "09:00", Active: true,
	})
	svc := newTestService(programs)

	got, err := svc.DaySchedule(context.Background(), Monday, "st1")
	if err != nil {
		t.Fatalf("DaySchedule() unexpected error: %v", err)
	}
	for _, p := range got {
		if p.ID == "broken" {
			t.Error("DaySchedule() returned program with invalid schedule")
		}
	}
}

func TestWeeklyScheduleExpandsMultiDayPrograms(t *testing.T) {
	svc := newTestService(testPrograms())

	week, err := svc.WeeklySchedule(context.Background(), "st1")
	if err != nil {
		t.Fatalf("WeeklySchedule() unexpected error: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("WeeklySchedule() = %d buckets, want 7", len(week))
	}

	counts := map[int]int{}
	for _, bucket := range week {
		if bucket.Day < 0 || bucket.Day > 6 {
			t.Fatalf("bucket day %d outside 0-6", bucket.Day)
		}
		for _, p := range bucket.Programs {
			if p.ID == "p1" {
				counts[bucket.Day]++
			}
		}
	}
	// p1 airs Monday through Friday: five appearances, one per day.
	if len(counts) != 5 {
		t.Errorf("p1 appears on %d days, want 5", len(counts))
	}

	if week[Monday].DayName != "monday" {
		t.Errorf("DayName = %q, want monday", week[Monday].DayName)
	}
	if len(week[Monday].Programs) != 2 || week[Monday].Programs[0].ID != "p1" {
		t.Errorf("monday bucket = %v, want [p1 p2] sorted by start", week[Monday].Programs)
	}
}

func TestCurrentlyAiring(t *testing.T) {
	svc := newTestService(testPrograms())

	// 2026-01-05 is a Monday.
	monday7am := time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC)
	got, err := svc.CurrentlyAiring(context.Background(), monday7am, "st1")
	if err != nil {
		t.Fatalf("CurrentlyAiring() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("CurrentlyAiring(monday 07:00) = %v, want [p1]", got)
	}

	// Saturday 01:00 falls inside Night Owls' overnight window via the
	// saturday day bit.
	saturday1am := time.Date(2026, 1, 10, 1, 0, 0, 0, time.UTC)
	got, err = svc.CurrentlyAiring(context.Background(), saturday1am, "st1")
	if err != nil {
		t.Fatalf("CurrentlyAiring() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p3" {
		t.Errorf("CurrentlyAiring(saturday 01:00) = %v, want [p3]", got)
	}

	monday3am := time.Date(2026, 1, 5, 3, 0, 0, 0, time.UTC)
	got, err = svc.CurrentlyAiring(context.Background(), monday3am, "st1")
	if err != nil {
		t.Fatalf("CurrentlyAiring() unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("CurrentlyAiring(monday 03:00) = %v, want none", got)
	}
}

func TestServiceConflicts(t *testing.T) {
	programs := append(testPrograms(), models.Program{
		ID: "p5", StationID: "st1", Name: "Overlapper", Days: []int{3}, StartTime: "12:30", EndTime: "14:00", Active: true,
	})
	svc := newTestService(programs)

	conflicts, err := svc.Conflicts(context.Background(), "st1")
	if err != nil {
		t.Fatalf("Conflicts() unexpected error: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("Conflicts() = %d, want 1", len(conflicts))
	}
	pair := map[string]bool{conflicts[0].A.ProgramID: true, conflicts[0].B.ProgramID: true}
	if !pair["p2"] || !pair["p5"] {
		t.Errorf("conflict pair = %v, want p2/p5", pair)
	}
}

func TestServiceQueriesEmitSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	svc := newTestService(testPrograms())

	if _, err := svc.DaySchedule(context.Background(), Monday, "st1"); err != nil {
		t.Fatalf("DaySchedule() unexpected error: %v", err)
	}
	if _, err := svc.Conflicts(context.Background(), "st1"); err != nil {
		t.Fatalf("Conflicts() unexpected error: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}
	if spans[0].Name() != "schedule.day" || spans[1].Name() != "schedule.conflicts" {
		t.Errorf("span names = %q, %q", spans[0].Name(), spans[1].Name())
	}

	found := false
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "station_id" && attr.Value.AsString() == "st1" {
			found = true
		}
	}
	if !found {
		t.Error("day span missing station_id attribute")
	}
}

func TestServiceSourceError(t *testing.T) {
	srcErr := errors.New("connection refused")
	svc := NewService(&fakeSource{err: srcErr}, zerolog.Nop())

	if _, err := svc.DaySchedule(context.Background(), Monday, ""); !errors.Is(err, srcErr) {
		t.Errorf("DaySchedule() error = %v, want wrapped source error", err)
	}
}
