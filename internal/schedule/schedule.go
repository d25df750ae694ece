// Package schedule contains the pure date arithmetic behind maintenance
// scheduling: computing the next maintenance date from an interval, and
// classifying a schedule against an evaluation instant.
package schedule

import "time"

// DefaultUpcomingWindowDays is the lookahead window for the "upcoming"
// classification when no override is configured.
const DefaultUpcomingWindowDays = 7

// Status classifies one machine's schedule at an evaluation instant.
type Status string

const (
	StatusOverdue  Status = "overdue"
	StatusUpcoming Status = "upcoming"
	StatusNone     Status = "none"
)

// Next computes the next maintenance date as a calendar-day offset from the
// reference date. Interval validation happens at the API boundary; callers
// here are expected to pass a positive interval.
func Next(ref time.Time, intervalDays int) time.Time {
	return ref.AddDate(0, 0, intervalDays)
}

// Classify buckets a schedule's next maintenance date into exactly one of
// overdue, upcoming or none. A nil next date is always StatusNone. The result
// is a pure function of (next, now, windowDays).
func Classify(next *time.Time, now time.Time, windowDays int) Status {
	if next == nil {
		return StatusNone
	}
	if next.Before(now) {
		return StatusOverdue
	}
	if !next.After(now.AddDate(0, 0, windowDays)) {
		return StatusUpcoming
	}
	return StatusNone
}
