package store

import (
	"context"
	"time"

	"github.com/example/meetingbot/internal/db"
	"github.com/example/meetingbot/internal/domain/meeting"
	"github.com/example/meetingbot/internal/jobs"
)

const meetingCols = `id, external_id, title, start_time, end_time, is_taken, taken_by, is_technical`

// Meetings is the Postgres repository for persisted meetings. Times go in
// and come out in canonical UTC; local-date queries convert through loc.
type Meetings struct {
	q   db.Querier
	loc *time.Location
}

func NewMeetings(d *db.DB, loc *time.Location) *Meetings {
	return &Meetings{q: d, loc: loc}
}

// WithTx runs fn with a repository whose statements share one transaction;
// an error from fn rolls all of them back. Called on a repository already
// inside a transaction, fn simply joins it.
func (r *Meetings) WithTx(ctx context.Context, fn func(jobs.Store) error) error {
	d, ok := r.q.(*db.DB)
	if !ok {
		return fn(r)
	}
	return d.WithTx(ctx, func(q db.Querier) error {
		return fn(&Meetings{q: q, loc: r.loc})
	})
}

func (r *Meetings) FindByExternalID(ctx context.Context, externalID string) (meeting.Meeting, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+meetingCols+` FROM meetings WHERE external_id=$1`, externalID)
	m, err := scanMeeting(row)
	if err != nil {
		return meeting.Meeting{}, db.WrapNotFound(err)
	}
	return m, nil
}

func (r *Meetings) Insert(ctx context.Context, m meeting.Meeting) error {
	return r.q.Exec(ctx, `
INSERT INTO meetings(external_id, title, start_time, end_time, is_technical)
VALUES ($1,$2,$3,$4,$5)`,
		m.ExternalID, m.Title, meeting.NormalizeUTC(m.Start), meeting.NormalizeUTC(m.End), m.IsTechnical)
}

// Reschedule updates title, times and classification. Claim state is
// deliberately untouched.
func (r *Meetings) Reschedule(ctx context.Context, externalID, title string, start, end time.Time, technical bool) error {
	return r.q.Exec(ctx, `
UPDATE meetings
SET title=$2, start_time=$3, end_time=$4, is_technical=$5, updated_at=now()
WHERE external_id=$1`,
		externalID, title, meeting.NormalizeUTC(start), meeting.NormalizeUTC(end), technical)
}

func (r *Meetings) Delete(ctx context.Context, externalID string) error {
	return r.q.Exec(ctx, `DELETE FROM meetings WHERE external_id=$1`, externalID)
}

// ListByLocalDate returns meetings whose start falls on the given local
// calendar day. day may be any instant within that day.
func (r *Meetings) ListByLocalDate(ctx context.Context, day time.Time) ([]meeting.Meeting, error) {
	local := day.In(r.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.loc)
	to := from.AddDate(0, 0, 1)
	return r.list(ctx, `
SELECT `+meetingCols+` FROM meetings
WHERE start_time >= $1 AND start_time < $2
ORDER BY start_time ASC`, from.UTC(), to.UTC())
}

// ListWithinRange returns meetings fully contained in [from, to]:
// start >= from and end <= to. Bounds are expected in canonical UTC.
func (r *Meetings) ListWithinRange(ctx context.Context, from, to time.Time) ([]meeting.Meeting, error) {
	return r.list(ctx, `
SELECT `+meetingCols+` FROM meetings
WHERE start_time >= $1 AND end_time <= $2
ORDER BY start_time ASC`, from, to)
}

func (r *Meetings) ListAll(ctx context.Context) ([]meeting.Meeting, error) {
	return r.list(ctx, `SELECT `+meetingCols+` FROM meetings ORDER BY start_time ASC`)
}

// DeleteEndedBefore removes meetings whose end is older than cutoff and
// reports how many rows went away. Safe to re-run.
func (r *Meetings) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.ExecRows(ctx, `DELETE FROM meetings WHERE end_time < $1`, cutoff)
}

// TryClaim atomically flips an open meeting to taken. The WHERE clause is
// the whole race: of two concurrent claims exactly one matches a row.
func (r *Meetings) TryClaim(ctx context.Context, externalID, claimant string) (bool, error) {
	n, err := r.q.ExecRows(ctx, `
UPDATE meetings
SET is_taken=TRUE, taken_by=$2, updated_at=now()
WHERE external_id=$1 AND is_taken=FALSE`,
		externalID, claimant)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Release flips a taken meeting back to open, but only for its current
// claimant.
func (r *Meetings) Release(ctx context.Context, externalID, claimant string) (bool, error) {
	n, err := r.q.ExecRows(ctx, `
UPDATE meetings
SET is_taken=FALSE, taken_by=NULL, updated_at=now()
WHERE external_id=$1 AND is_taken=TRUE AND taken_by=$2`,
		externalID, claimant)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Meetings) list(ctx context.Context, sql string, args ...any) ([]meeting.Meeting, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []meeting.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMeeting(row db.Row) (meeting.Meeting, error) {
	var m meeting.Meeting
	var takenBy *string
	if err := row.Scan(&m.ID, &m.ExternalID, &m.Title, &m.Start, &m.End, &m.IsTaken, &takenBy, &m.IsTechnical); err != nil {
		return meeting.Meeting{}, err
	}
	if takenBy != nil {
		m.TakenBy = *takenBy
	}
	m.Start = meeting.NormalizeUTC(m.Start)
	m.End = meeting.NormalizeUTC(m.End)
	return m, nil
}
