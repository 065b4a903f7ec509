package jobs

import (
	"context"
	"time"

	"github.com/example/meetingbot/internal/domain/meeting"
)

// Store is the slice of meeting storage the jobs need. Implemented by
// internal/store, faked in tests.
type Store interface {
	FindByExternalID(ctx context.Context, externalID string) (meeting.Meeting, error)
	Insert(ctx context.Context, m meeting.Meeting) error
	Reschedule(ctx context.Context, externalID, title string, start, end time.Time, technical bool) error
	Delete(ctx context.Context, externalID string) error
	ListByLocalDate(ctx context.Context, day time.Time) ([]meeting.Meeting, error)
	ListWithinRange(ctx context.Context, from, to time.Time) ([]meeting.Meeting, error)
	DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx runs fn with a Store whose calls share one transaction; an
	// error from fn rolls back everything written during the run.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// Calendar fetches raw events for a local-time range.
type Calendar interface {
	FetchEvents(ctx context.Context, startLocal, endLocal time.Time) ([]meeting.CalendarEvent, error)
}
