/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package schedule implements the weekly program scheduling engine:
// clock-time parsing, schedule validation, on-air evaluation, and
// pairwise conflict detection across programs sharing a station.
package schedule

import "errors"

var (
	// ErrInvalidTimeFormat reports a clock time outside the "HH:MM" grammar.
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

	// ErrInvalidDay reports an unrecognized weekday name, a day number
	// outside 0-6, or an empty day set.
	ErrInvalidDay = errors.New("invalid day")

	// ErrInvalidDuration reports a derived slot duration outside 1-1440
	// minutes. Zero-length slots (start == end) trip this; callers decide
	// whether to treat it as fatal or as a data-quality warning.
	ErrInvalidDuration = errors.New("invalid schedule duration")
)
