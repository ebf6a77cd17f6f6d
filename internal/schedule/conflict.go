/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

// Entry tags a Spec with its owning program and station for conflict scans.
type Entry struct {
	ProgramID   string
	ProgramName string
	StationID   string
	Spec        Spec
}

// Conflict is one unordered pair of entries that share a station, share at
// least one weekday, and overlap in time.
type Conflict struct {
	A           Entry
	B           Entry
	SharedDays  []int
	OverlapFrom string
	OverlapTo   string
}

// FindConflicts scans every unordered pair of entries and reports each
// conflicting pair exactly once. Entries on different stations never
// conflict. The overlap test runs on raw start/end minutes
// (startA < endB && endA > startB) without renormalizing overnight slots
// onto a two-day ring, so overnight-vs-overnight overlaps are best effort.
// An empty result means no conflicts, not an error.
func FindConflicts(entries []Entry) []Conflict {
	var conflicts []Conflict

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if a.StationID != b.StationID {
				continue
			}
			if !a.Spec.Days.Intersects(b.Spec.Days) {
				continue
			}
			if !minutesOverlap(a.Spec, b.Spec) {
				continue
			}

			overlapStart := maxMinute(a.Spec.StartMinutes(), b.Spec.StartMinutes())
			overlapEnd := minMinute(a.Spec.EndMinutes(), b.Spec.EndMinutes())

			conflicts = append(conflicts, Conflict{
				A:           a,
				B:           b,
				SharedDays:  (a.Spec.Days & b.Spec.Days).Days(),
				OverlapFrom: FormatClock(overlapStart),
				OverlapTo:   FormatClock(overlapEnd),
			})
		}
	}

	return conflicts
}

// FindStationConflicts restricts the scan to entries on one station.
func FindStationConflicts(entries []Entry, stationID string) []Conflict {
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.StationID == stationID {
			filtered = append(filtered, e)
		}
	}
	return FindConflicts(filtered)
}

// minutesOverlap is the half-open interval test on raw minute values.
func minutesOverlap(a, b Spec) bool {
	return a.StartMinutes() < b.EndMinutes() && a.EndMinutes() > b.StartMinutes()
}

func maxMinute(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minMinute(a, b int) int {
	if a < b {
		return a
	}
	return b
}
