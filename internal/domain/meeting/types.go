package meeting

import "time"

// CalendarEvent is a single entry from the calendar feed. It only lives for
// the duration of one sync run; Start/End are canonical UTC (see NormalizeUTC).
type CalendarEvent struct {
	ExternalID string
	Title      string
	Start      time.Time
	End        time.Time
}

// Meeting is the persisted record backing a calendar event.
type Meeting struct {
	ID         int64
	ExternalID string
	Title      string
	Start      time.Time
	End        time.Time

	// IsTaken and TakenBy change together: TakenBy is non-empty exactly
	// when IsTaken is true.
	IsTaken bool
	TakenBy string

	// IsTechnical is computed from the title at creation and recomputed on
	// reschedule. Claiming and releasing never touch it.
	IsTechnical bool
}
