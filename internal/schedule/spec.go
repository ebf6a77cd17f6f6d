/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"fmt"
)

// Spec is a validated weekly schedule: the days a program airs plus its
// start and end clock times, with the slot duration derived at construction.
// Specs are immutable values and safe for concurrent use.
type Spec struct {
	Days         DaySet
	StartTime    string
	EndTime      string
	startMinutes int
	endMinutes   int
}

// NewSpec validates days and clock times and derives the duration.
// Duration is (end - start) mod 1440, so a slot ending at or before its
// start wraps past midnight. start == end derives duration 0; see Validate.
func NewSpec(days []int, startTime, endTime string) (Spec, error) {
	set, err := NewDaySet(days)
	if err != nil {
		return Spec{}, err
	}

	start, err := ParseClock(startTime)
	if err != nil {
		return Spec{}, fmt.Errorf("start time: %w", err)
	}

	end, err := ParseClock(endTime)
	if err != nil {
		return Spec{}, fmt.Errorf("end time: %w", err)
	}

	return Spec{
		Days:         set,
		StartTime:    FormatClock(start),
		EndTime:      FormatClock(end),
		startMinutes: start,
		endMinutes:   end,
	}, nil
}

// StartMinutes returns the start time as minutes since midnight.
func (s Spec) StartMinutes() int { return s.startMinutes }

// EndMinutes returns the end time as minutes since midnight.
func (s Spec) EndMinutes() int { return s.endMinutes }

// DurationMinutes returns the derived slot length in minutes [0,1439].
// A zero duration marks the start == end edge case, not a full-day slot.
func (s Spec) DurationMinutes() int {
	return ((s.endMinutes - s.startMinutes) + MinutesPerDay) % MinutesPerDay
}

// Overnight reports whether the slot crosses midnight.
func (s Spec) Overnight() bool {
	return s.startMinutes > s.endMinutes
}

// OnAirAt reports whether the slot covers the given weekday and
// minutes-since-midnight. Both boundary minutes are inclusive: a slot
// ending at 10:00 is still on air at exactly 10:00.
func (s Spec) OnAirAt(weekday, minutes int) bool {
	if !s.Days.Contains(weekday) {
		return false
	}
	if !s.Overnight() {
		return minutes >= s.startMinutes && minutes <= s.endMinutes
	}
	return minutes >= s.startMinutes || minutes <= s.endMinutes
}

// Validate reports ErrInvalidDuration when the derived duration is zero.
// Stored schedules with start == end are legal historical data; new writes
// should surface this to the operator rather than persist silently.
func (s Spec) Validate() error {
	if s.DurationMinutes() == 0 {
		return fmt.Errorf("%w: start and end time are both %s", ErrInvalidDuration, s.StartTime)
	}
	return nil
}

// TimeSlotLabel renders the slot as "HH:MM - HH:MM" for display.
func (s Spec) TimeSlotLabel() string {
	return s.StartTime + " - " + s.EndTime
}

// FormattedDuration renders the duration as "2 hr", "45 min", or
// "1 hr 30 min".
func (s Spec) FormattedDuration() string {
	d := s.DurationMinutes()
	hours := d / 60
	minutes := d % 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d hr", hours)
	default:
		return fmt.Sprintf("%d min", minutes)
	}
}
