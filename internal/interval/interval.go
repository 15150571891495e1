// Package interval splits a trailing date window into bounded sub-ranges so
// that each hh.ru query stays under the provider's per-query result cap.
package interval

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned when the requested window cannot produce at
// least one interval.
var ErrInvalidWindow = errors.New("invalid search window")

// Interval is one half-open [Start, End) sub-range of the search window.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Plan splits the windowDays-long window ending at windowEnd into chunkDays
// sized intervals. Consecutive intervals tile the window with no gap or
// overlap, and the final interval ends exactly at windowEnd. The result is
// materialized up front: the engine needs the total count for progress
// percentages.
func Plan(windowEnd time.Time, windowDays, chunkDays int) ([]Interval, error) {
	if chunkDays < 1 {
		return nil, fmt.Errorf("%w: chunk of %d days", ErrInvalidWindow, chunkDays)
	}

	start := windowEnd.AddDate(0, 0, -windowDays)
	if !start.Before(windowEnd) {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidWindow, windowDays)
	}

	intervals := make([]Interval, 0, (windowDays+chunkDays-1)/chunkDays)
	for current := start; current.Before(windowEnd); {
		next := current.AddDate(0, 0, chunkDays)
		if next.After(windowEnd) {
			next = windowEnd
		}
		intervals = append(intervals, Interval{Start: current, End: next})
		current = next
	}
	return intervals, nil
}
