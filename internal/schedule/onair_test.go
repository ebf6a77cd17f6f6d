/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import "testing"

func TestOnAirAtBoundariesInclusive(t *testing.T) {
	spec, err := NewSpec([]int{Monday}, "09:00", "10:00")
	if err != nil {
		t.Fatalf("NewSpec() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		weekday int
		minutes int
		want    bool
	}{
		{"at start boundary", Monday, 540, true},
		{"at end boundary", Monday, 600, true},
		{"mid slot", Monday, 570, true},
		{"one minute after end", Monday, 601, false},
		{"one minute before start", Monday, 539, false},
		{"right time wrong day", Sunday, 570, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spec.OnAirAt(tt.weekday, tt.minutes); got != tt.want {
				t.Errorf("OnAirAt(%d, %d) = %v, want %v", tt.weekday, tt.minutes, got, tt.want)
			}
		})
	}
}

func TestOnAirAtOvernight(t *testing.T) {
	spec, err := NewSpec([]int{Friday}, "23:00", "02:00")
	if err != nil {
		t.Fatalf("NewSpec() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		weekday int
		minutes int
		want    bool
	}{
		{"before midnight", Friday, 23 * 60, true},
		{"late evening", Friday, 23*60 + 30, true},
		{"after midnight", Friday, 60, true},
		{"at wrapped end", Friday, 120, true},
		{"past wrapped end", Friday, 121, false},
		{"afternoon gap", Friday, 15 * 60, false},
		{"wrong day", Thursday, 23*60 + 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spec.OnAirAt(tt.weekday, tt.minutes); got != tt.want {
				t.Errorf("OnAirAt(%d, %d) = %v, want %v", tt.weekday, tt.minutes, got, tt.want)
			}
		})
	}
}

func TestOnAirAtMultiDay(t *testing.T) {
	spec, err := NewSpec([]int{Monday, Wednesday, Friday}, "06:00", "08:00")
	if err != nil {
		t.Fatalf("NewSpec() unexpected error: %v", err)
	}

	for _, day := range []int{Monday, Wednesday, Friday} {
		if !spec.OnAirAt(day, 7*60) {
			t.Errorf("OnAirAt(%d, 07:00) = false, want true", day)
		}
	}
	for _, day := range []int{Sunday, Tuesday, Thursday, Saturday} {
		if spec.OnAirAt(day, 7*60) {
			t.Errorf("OnAirAt(%d, 07:00) = true, want false", day)
		}
	}
}
