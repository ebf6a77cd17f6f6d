/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"fmt"
	"regexp"
)

// MinutesPerDay is the length of the scheduling ring in minutes.
const MinutesPerDay = 24 * 60

// clockPattern accepts 24-hour "HH:MM" with an optional leading zero on the
// hour ("9:30" and "09:30" both parse).
var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock converts an "HH:MM" string to minutes since midnight [0,1439].
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	var hours, minutes int
	fmt.Sscanf(m[1], "%d", &hours)
	fmt.Sscanf(m[2], "%d", &minutes)

	return hours*60 + minutes, nil
}

// FormatClock is the inverse of ParseClock, always zero-padded to two digits
// on each side of the colon. FormatClock(ParseClock(s)) normalizes s.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
