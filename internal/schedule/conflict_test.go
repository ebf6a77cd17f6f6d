/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import "testing"

func mustEntry(t *testing.T, id, station string, days []int, start, end string) Entry {
	t.Helper()
	spec, err := NewSpec(days, start, end)
	if err != nil {
		t.Fatalf("NewSpec(%s) unexpected error: %v", id, err)
	}
	return Entry{ProgramID: id, ProgramName: "Program " + id, StationID: station, Spec: spec}
}

func TestFindConflictsSharedDayOverlap(t *testing.T) {
	a := mustEntry(t, "a", "st1", []int{1, 2}, "09:00", "10:00")
	b := mustEntry(t, "b", "st1", []int{2, 3}, "09:30", "10:30")

	conflicts := FindConflicts([]Entry{a, b})
	if len(conflicts) != 1 {
		t.Fatalf("FindConflicts() = %d conflicts, want 1", len(conflicts))
	}

	c := conflicts[0]
	if c.A.ProgramID != "a" || c.B.ProgramID != "b" {
		t.Errorf("conflict pair = (%s, %s), want (a, b)", c.A.ProgramID, c.B.ProgramID)
	}
	if len(c.SharedDays) != 1 || c.SharedDays[0] != 2 {
		t.Errorf("SharedDays = %v, want [2]", c.SharedDays)
	}
	if c.OverlapFrom != "09:30" || c.OverlapTo != "10:00" {
		t.Errorf("overlap = %s-%s, want 09:30-10:00", c.OverlapFrom, c.OverlapTo)
	}
}

func TestFindConflictsDifferentStations(t *testing.T) {
	a := mustEntry(t, "a", "st1", []int{1, 2}, "09:00", "10:00")
	b := mustEntry(t, "b", "st2", []int{2, 3}, "09:30", "10:30")

	if conflicts := FindConflicts([]Entry{a, b}); len(conflicts) != 0 {
		t.Errorf("FindConflicts() across stations = %d conflicts, want 0", len(conflicts))
	}
}

func TestFindConflictsDisjointDays(t *testing.T) {
	a := mustEntry(t, "a", "st1", []int{1}, "09:00", "10:00")
	b := mustEntry(t, "b", "st1", []int{2}, "09:00", "10:00")

	if conflicts := FindConflicts([]Entry{a, b}); len(conflicts) != 0 {
		t.Errorf("FindConflicts() with disjoint days = %d conflicts, want 0", len(conflicts))
	}
}

func TestFindConflictsAdjacentSlots(t *testing.T) {
	// Back-to-back slots share a boundary minute but do not overlap under
	// the half-open interval test.
	a := mustEntry(t, "a", "st1", []int{1}, "09:00", "10:00")
	b := mustEntry(t, "b", "st1", []int{1}, "10:00", "11:00")

	if conflicts := FindConflicts([]Entry{a, b}); len(conflicts) != 0 {
		t.Errorf("FindConflicts() for adjacent slots = %d conflicts, want 0", len(conflicts))
	}
}

func TestFindConflictsSymmetric(t *testing.T) {
	a := mustEntry(t, "a", "st1", []int{4}, "18:00", "20:00")
	b := mustEntry(t, "b", "st1", []int{4}, "19:00", "21:00")

	forward := FindConflicts([]Entry{a, b})
	reverse := FindConflicts([]Entry{b, a})

	if len(forward) != 1 || len(reverse) != 1 {
		t.Fatalf("conflict counts = %d forward, %d reverse, want 1 each", len(forward), len(reverse))
	}

	// Same unordered pair either way, reported exactly once.
	pair := map[string]bool{forward[0].A.ProgramID: true, forward[0].B.ProgramID: true}
	if !pair[reverse[0].A.ProgramID] || !pair[reverse[0].B.ProgramID] {
		t.Errorf("forward and reverse scans reported different pairs")
	}
}

func TestFindConflictsBatchReportsEachPairOnce(t *testing.T) {
	// Three mutually overlapping programs yield exactly C(3,2) = 3 pairs.
	entries := []Entry{
		mustEntry(t, "a", "st1", []int{1}, "09:00", "12:00"),
		mustEntry(t, "b", "st1", []int{1}, "10:00", "13:00"),
		mustEntry(t, "c", "st1", []int{1}, "11:00", "14:00"),
	}

	conflicts := FindConflicts(entries)
	if len(conflicts) != 3 {
		t.Fatalf("FindConflicts() = %d conflicts, want 3", len(conflicts))
	}

	seen := map[string]int{}
	for _, c := range conflicts {
		key := c.A.ProgramID + "|" + c.B.ProgramID
		seen[key]++
	}
	for key, n := range seen {
		if n != 1 {
			t.Errorf("pair %s reported %d times, want 1", key, n)
		}
	}
}

func TestFindStationConflicts(t *testing.T) {
	entries := []Entry{
		mustEntry(t, "a", "st1", []int{1}, "09:00", "11:00"),
		mustEntry(t, "b", "st1", []int{1}, "10:00", "12:00"),
		mustEntry(t, "c", "st2", []int{1}, "09:00", "11:00"),
		mustEntry(t, "d", "st2", []int{1}, "10:00", "12:00"),
	}

	conflicts := FindStationConflicts(entries, "st2")
	if len(conflicts) != 1 {
		t.Fatalf("FindStationConflicts(st2) = %d conflicts, want 1", len(conflicts))
	}
	if conflicts[0].A.StationID != "st2" {
		t.Errorf("conflict station = %s, want st2", conflicts[0].A.StationID)
	}
}
