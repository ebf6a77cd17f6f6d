/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"fmt"
	"strings"
)

// Weekday numbering is Sunday=0 through Saturday=6.
const (
	Sunday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// DaySet is a fixed 7-bit set of weekdays. Bit n set means day n is a
// member. Membership and intersection are O(1).
type DaySet uint8

// NewDaySet builds a DaySet from day numbers. Duplicates collapse. An empty
// input or any member outside 0-6 fails with ErrInvalidDay.
func NewDaySet(days []int) (DaySet, error) {
	if len(days) == 0 {
		return 0, fmt.Errorf("%w: day set must not be empty", ErrInvalidDay)
	}

	var set DaySet
	for _, d := range days {
		if d < Sunday || d > Saturday {
			return 0, fmt.Errorf("%w: %d is outside 0-6", ErrInvalidDay, d)
		}
		set |= 1 << uint(d)
	}
	return set, nil
}

// Contains reports whether day is a member.
func (s DaySet) Contains(day int) bool {
	if day < Sunday || day > Saturday {
		return false
	}
	return s&(1<<uint(day)) != 0
}

// Intersects reports whether both sets share at least one day.
func (s DaySet) Intersects(other DaySet) bool {
	return s&other != 0
}

// Days returns the member day numbers in ascending order.
func (s DaySet) Days() []int {
	days := make([]int, 0, 7)
	for d := Sunday; d <= Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Count returns the number of member days.
func (s DaySet) Count() int {
	n := 0
	for d := Sunday; d <= Saturday; d++ {
		if s.Contains(d) {
			n++
		}
	}
	return n
}

// String renders the set as comma-separated day names.
func (s DaySet) String() string {
	names := make([]string, 0, 7)
	for d := Sunday; d <= Saturday; d++ {
		if s.Contains(d) {
			names = append(names, dayNames[d])
		}
	}
	return strings.Join(names, ",")
}

// ResolveDay accepts a case-insensitive weekday name ("sunday".."saturday")
// or a decimal day number 0-6 and returns the day number.
func ResolveDay(input string) (int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	for d, name := range dayNames {
		if trimmed == name {
			return d, nil
		}
	}
	if len(trimmed) == 1 && trimmed[0] >= '0' && trimmed[0] <= '6' {
		return int(trimmed[0] - '0'), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, input)
}

// DayName returns the lowercase English name for a day number.
func DayName(day int) (string, error) {
	if day < Sunday || day > Saturday {
		return "", fmt.Errorf("%w: %d is outside 0-6", ErrInvalidDay, day)
	}
	return dayNames[day], nil
}
