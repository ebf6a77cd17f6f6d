/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewDaySet(t *testing.T) {
	tests := []struct {
		name    string
		days    []int
		want    []int
		wantErr bool
	}{
		{"single day", []int{1}, []int{1}, false},
		{"all days", []int{0, 1, 2, 3, 4, 5, 6}, []int{0, 1, 2, 3, 4, 5, 6}, false},
		{"duplicates collapse", []int{2, 2, 5}, []int{2, 5}, false},
		{"unordered input", []int{6, 0, 3}, []int{0, 3, 6}, false},
		{"empty", []int{}, nil, true},
		{"negative day", []int{-1}, nil, true},
		{"day too large", []int{7}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewDaySet(tt.days)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewDaySet(%v) error = %v, wantErr %v", tt.days, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDay) {
					t.Errorf("error = %v, want ErrInvalidDay", err)
				}
				return
			}
			if got := set.Days(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Days() = %v, want %v", got, tt.want)
			}
			if set.Count() != len(tt.want) {
				t.Errorf("Count() = %d, want %d", set.Count(), len(tt.want))
			}
		})
	}
}

func TestDaySetIntersects(t *testing.T) {
	weekdays, _ := NewDaySet([]int{1, 2, 3, 4, 5})
	weekend, _ := NewDaySet([]int{0, 6})
	friSat, _ := NewDaySet([]int{5, 6})

	if weekdays.Intersects(weekend) {
		t.Error("weekdays should not intersect weekend")
	}
	if !weekdays.Intersects(friSat) {
		t.Error("weekdays should intersect fri/sat on friday")
	}
	if !weekend.Intersects(friSat) {
		t.Error("weekend should intersect fri/sat on saturday")
	}
}

func TestResolveDay(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"sunday", 0, false},
		{"monday", 1, false},
		{"Monday", 1, false},
		{"SATURDAY", 6, false},
		{" tuesday ", 2, false},
		{"0", 0, false},
		{"1", 1, false},
		{"6", 6, false},
		{"7", 0, true},
		{"-1", 0, true},
		{"funday", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ResolveDay(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDay) {
				t.Errorf("ResolveDay(%q) error = %v, want ErrInvalidDay", tt.input, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveDay(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestDayName(t *testing.T) {
	name, err := DayName(3)
	if err != nil || name != "wednesday" {
		t.Errorf("DayName(3) = %q, %v; want wednesday", name, err)
	}
	if _, err := DayName(7); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("DayName(7) error = %v, want ErrInvalidDay", err)
	}
}
