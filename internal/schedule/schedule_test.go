package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNext(t *testing.T) {
	testCases := []struct {
		name     string
		ref      time.Time
		interval int
		expected time.Time
	}{
		{"thirty days", date(2024, 1, 1), 30, date(2024, 1, 31)},
		{"crosses month boundary", date(2024, 2, 5), 30, date(2024, 3, 6)},
		{"crosses year boundary", date(2023, 12, 20), 15, date(2024, 1, 4)},
		{"leap day", date(2024, 2, 28), 1, date(2024, 2, 29)},
		{"single day", date(2024, 6, 1), 1, date(2024, 6, 2)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Next(tc.ref, tc.interval))
		})
	}
}

func TestNextIsAssociativeUnderRescheduling(t *testing.T) {
	// Scheduling from event d1 and then from d2 must land on the same next
	// date as a single computation from d2: recency overwrites.
	d1 := date(2024, 1, 1)
	d2 := date(2024, 2, 5)

	_ = Next(d1, 30) // Intermediate value is discarded by a reschedule.
	fromSequence := Next(d2, 30)
	fromSingle := Next(d2, 30)

	assert.Equal(t, fromSingle, fromSequence)
}

func TestClassify(t *testing.T) {
	now := date(2024, 2, 5)

	overdue := date(2024, 1, 31)
	dueToday := now
	withinWindow := date(2024, 2, 10)
	windowEdge := date(2024, 2, 12) // exactly now + 7 days
	beyondWindow := date(2024, 3, 6)

	testCases := []struct {
		name     string
		next     *time.Time
		expected Status
	}{
		{"no schedule date", nil, StatusNone},
		{"past date is overdue", &overdue, StatusOverdue},
		{"due at this instant is upcoming", &dueToday, StatusUpcoming},
		{"within window is upcoming", &withinWindow, StatusUpcoming},
		{"window edge is upcoming", &windowEdge, StatusUpcoming},
		{"beyond window is none", &beyondWindow, StatusNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.next, now, DefaultUpcomingWindowDays))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	now := date(2024, 2, 5)
	next := date(2024, 2, 8)

	first := Classify(&next, now, DefaultUpcomingWindowDays)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(&next, now, DefaultUpcomingWindowDays))
	}
}
