/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/bragi_cms/internal/models"
)

// icalByDay maps weekday numbers to RFC 5545 BYDAY codes.
var icalByDay = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ExportService renders a station's weekly schedule as iCal.
type ExportService struct {
	service *Service
	logger  zerolog.Logger
}

// NewExportService creates an iCal export service over the query service.
func NewExportService(service *Service, logger zerolog.Logger) *ExportService {
	return &ExportService{
		service: service,
		logger:  logger.With().Str("component", "schedule_export").Logger(),
	}
}

// ExportICalResult contains the iCal export data.
type ExportICalResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ExportToICal renders the station's recurring weekly schedule as a
// VCALENDAR with one weekly-recurring VEVENT per program. anchor fixes the
// week the DTSTART values land in (its most recent Sunday is day 0).
func (s *ExportService) ExportToICal(ctx context.Context, station models.Station, anchor time.Time) (*ExportICalResult, error) {
	week, err := s.service.WeeklySchedule(ctx, station.ID)
	if err != nil {
		return nil, fmt.Errorf("load weekly schedule: %w", err)
	}

	weekStart := anchor.AddDate(0, 0, -int(anchor.Weekday()))
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, anchor.Location())

	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	buf.WriteString("VERSION:2.0\r\n")
	buf.WriteString("PRODID:-//Bragi CMS//Schedule Export//EN\r\n")
	buf.WriteString(fmt.Sprintf("X-WR-CALNAME:%s Schedule\r\n", escapeICalText(station.Name)))
	buf.WriteString("CALSCALE:GREGORIAN\r\n")
	buf.WriteString("METHOD:PUBLISH\r\n")

	seen := make(map[string]bool)
	for _, bucket := range week {
		for _, p := range bucket.Programs {
			// A multi-day program appears in several buckets but gets a
			// single VEVENT carrying the full BYDAY list.
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true

			spec, err := SpecFor(p)
			if err != nil {
				continue
			}

			firstDay := spec.Days.Days()[0]
			starts := weekStart.AddDate(0, 0, firstDay).Add(time.Duration(spec.StartMinutes()) * time.Minute)
			ends := starts.Add(time.Duration(spec.DurationMinutes()) * time.Minute)

			byDay := make([]string, 0, 7)
			for _, d := range spec.Days.Days() {
				byDay = append(byDay, icalByDay[d])
			}

			buf.WriteString("BEGIN:VEVENT\r\n")
			buf.WriteString(fmt.Sprintf("UID:%s@bragi\r\n", p.ID))
			buf.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICalTime(time.Now())))
			buf.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICalTime(starts)))
			buf.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICalTime(ends)))
			buf.WriteString(fmt.Sprintf("RRULE:FREQ=WEEKLY;BYDAY=%s\r\n", strings.Join(byDay, ",")))
			buf.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICalText(p.Name)))
			if p.Description != "" {
				buf.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICalText(p.Description)))
			}
			buf.WriteString("END:VEVENT\r\n")
		}
	}

	buf.WriteString("END:VCALENDAR\r\n")

	filename := fmt.Sprintf("%s-weekly-schedule.ics", models.Slugify(station.Name))

	return &ExportICalResult{
		Data:        buf.Bytes(),
		Filename:    filename,
		ContentType: "text/calendar; charset=utf-8",
	}, nil
}

// escapeICalText escapes text per RFC 5545.
func escapeICalText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// formatICalTime formats a time in UTC iCal basic format.
func formatICalTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}
