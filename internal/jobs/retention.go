package jobs

import (
	"context"
	"log"
	"time"

	"github.com/example/meetingbot/internal/domain/meeting"
)

// retentionDays is how long finished meetings stay around before the sweep
// removes them.
const retentionDays = 60

// Retention deletes meetings that ended more than retentionDays ago.
type Retention struct {
	Store Store
}

// Sweep is idempotent: a second run right after the first deletes nothing.
func (j *Retention) Sweep(ctx context.Context, now time.Time) (int64, error) {
	cutoff := meeting.NormalizeUTC(now.AddDate(0, 0, -retentionDays))
	n, err := j.Store.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Printf("retention: deleted %d meetings ended before %s", n, cutoff.Format(time.RFC3339))
	return n, nil
}
