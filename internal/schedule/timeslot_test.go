/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"9:00", 540, false},
		{"23:59", 1439, false},
		{"12:30", 750, false},
		{"24:00", 0, true},
		{"23:60", 0, true},
		{"9", 0, true},
		{"09-00", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
		{" 09:00", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTimeFormat) {
				t.Errorf("ParseClock(%q) error = %v, want ErrInvalidTimeFormat", tt.input, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{540, "09:00"},
		{1439, "23:59"},
		{750, "12:30"},
		{60, "01:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	// format(parse(s)) == s for all zero-padded valid inputs.
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 7 {
			s := FormatClock(h*60 + m)
			parsed, err := ParseClock(s)
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", s, err)
			}
			if FormatClock(parsed) != s {
				t.Fatalf("round trip broke for %q: got %q", s, FormatClock(parsed))
			}
		}
	}

	// Single-digit hours normalize to zero-padded form.
	parsed, err := ParseClock("9:05")
	if err != nil {
		t.Fatalf("ParseClock(9:05) unexpected error: %v", err)
	}
	if got := FormatClock(parsed); got != "09:05" {
		t.Errorf("FormatClock(ParseClock(9:05)) = %q, want 09:05", got)
	}
}
