/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/telemetry"
)

const tracerName = "schedule"

// ProgramSource is the read-only persistence handle the query service works
// against. Implementations return active programs only, optionally scoped
// to one station (empty stationID means all stations).
type ProgramSource interface {
	ActivePrograms(ctx context.Context, stationID string) ([]models.Program, error)
}

// Service answers schedule queries over whatever is currently active.
// All methods are pure reads; there is no internal state beyond the source
// handle, so a single Service is safe for concurrent callers.
type Service struct {
	source ProgramSource
	logger zerolog.Logger
}

// NewService creates a schedule query service over the given source.
func NewService(source ProgramSource, logger zerolog.Logger) *Service {
	return &Service{
		source: source,
		logger: logger.With().Str("component", "schedule").Logger(),
	}
}

// DayPrograms is one weekday bucket of a weekly schedule render.
type DayPrograms struct {
	Day      int              `json:"day"`
	DayName  string           `json:"day_name"`
	Programs []models.Program `json:"programs"`
}

// SpecFor builds the validated Spec for a stored program. Stored rows were
// validated on write, but rows imported from older systems can carry bad
// data; the error is surfaced rather than panicking mid-query.
func SpecFor(p models.Program) (Spec, error) {
	spec, err := NewSpec(p.Days, p.StartTime, p.EndTime)
	if err != nil {
		return Spec{}, fmt.Errorf("program %s: %w", p.ID, err)
	}
	return spec, nil
}

// DaySchedule returns active programs airing on the given day, ascending by
// start time. stationID narrows to one station when non-empty.
func (s *Service) DaySchedule(ctx context.Context, day int, stationID string) ([]models.Program, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "schedule.day")
	defer span.End()
	telemetry.AddSpanAttributes(span, map[string]any{"day": day, "station_id": stationID})

	if day < Sunday || day > Saturday {
		err := fmt.Errorf("%w: %d is outside 0-6", ErrInvalidDay, day)
		telemetry.RecordError(span, err)
		return nil, err
	}

	programs, err := s.source.ActivePrograms(ctx, stationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	matched := make([]models.Program, 0, len(programs))
	for _, p := range programs {
		spec, err := SpecFor(p)
		if err != nil {
			s.logger.Warn().Err(err).Str("program_id", p.ID).Msg("skipping program with invalid schedule")
			continue
		}
		if spec.Days.Contains(day) {
			matched = append(matched, p)
		}
	}

	sortByStart(matched)
	return matched, nil
}

// WeeklySchedule returns seven day buckets, Sunday first, each sorted by
// start time. A program occupying multiple days appears once per day.
func (s *Service) WeeklySchedule(ctx context.Context, stationID string) ([]DayPrograms, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "schedule.week")
	defer span.End()
	telemetry.AddSpanAttributes(span, map[string]any{"station_id": stationID})

	programs, err := s.source.ActivePrograms(ctx, stationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	week := make([]DayPrograms, 7)
	for d := Sunday; d <= Saturday; d++ {
		name, _ := DayName(d)
		week[d] = DayPrograms{Day: d, DayName: name, Programs: []models.Program{}}
	}

	for _, p := range programs {
		spec, err := SpecFor(p)
		if err != nil {
			s.logger.Warn().Err(err).Str("program_id", p.ID).Msg("skipping program with invalid schedule")
			continue
		}
		for _, d := range spec.Days.Days() {
			week[d].Programs = append(week[d].Programs, p)
		}
	}

	for d := range week {
		sortByStart(week[d].Programs)
	}
	return week, nil
}

// CurrentlyAiring returns active programs on air at the given instant.
// The caller supplies now in the network's operating timezone; no timezone
// conversion happens here.
func (s *Service) CurrentlyAiring(ctx context.Context, now time.Time, stationID string) ([]models.Program, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "schedule.now")
	defer span.End()
	telemetry.AddSpanAttributes(span, map[string]any{"station_id": stationID, "at": now.Format(time.RFC3339)})

	programs, err := s.source.ActivePrograms(ctx, stationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	weekday := int(now.Weekday())
	minutes := now.Hour()*60 + now.Minute()

	airing := make([]models.Program, 0, 4)
	for _, p := range programs {
		spec, err := SpecFor(p)
		if err != nil {
			s.logger.Warn().Err(err).Str("program_id", p.ID).Msg("skipping program with invalid schedule")
			continue
		}
		if spec.OnAirAt(weekday, minutes) {
			airing = append(airing, p)
		}
	}

	sortByStart(airing)
	return airing, nil
}

// Conflicts scans active programs for overlapping schedules. stationID
// narrows the scan; programs on different stations never conflict either way.
func (s *Service) Conflicts(ctx context.Context, stationID string) ([]Conflict, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "schedule.conflicts")
	defer span.End()
	telemetry.AddSpanAttributes(span, map[string]any{"station_id": stationID})

	programs, err := s.source.ActivePrograms(ctx, stationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	entries := make([]Entry, 0, len(programs))
	for _, p := range programs {
		spec, err := SpecFor(p)
		if err != nil {
			s.logger.Warn().Err(err).Str("program_id", p.ID).Msg("skipping program with invalid schedule")
			continue
		}
		entries = append(entries, Entry{
			ProgramID:   p.ID,
			ProgramName: p.Name,
			StationID:   p.StationID,
			Spec:        spec,
		})
	}

	conflicts := FindConflicts(entries)
	telemetry.AddSpanAttributes(span, map[string]any{"conflict_count": len(conflicts)})
	return conflicts, nil
}

func sortByStart(programs []models.Program) {
	sort.SliceStable(programs, func(i, j int) bool {
		a, errA := ParseClock(programs[i].StartTime)
		b, errB := ParseClock(programs[j].StartTime)
		if errA != nil || errB != nil {
			return programs[i].StartTime < programs[j].StartTime
		}
		if a != b {
			return a < b
		}
		return programs[i].Name < programs[j].Name
	})
}
