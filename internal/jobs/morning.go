package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/meetingbot/internal/db"
	"github.com/example/meetingbot/internal/domain/meeting"
	"github.com/example/meetingbot/internal/notify"
)

// Morning is the daily agenda report: it announces every meeting of the
// day and stores the ones not seen before. Creation here is unconditional,
// the morning run is the day's full agenda rather than a change feed.
type Morning struct {
	Store    Store
	Calendar Calendar
	Notifier notify.Notifier
	Render   notify.Renderer
	ChatID   int64
	Loc      *time.Location
}

func (j *Morning) Run(ctx context.Context, now time.Time) error {
	local := now.In(j.Loc)
	runID := uuid.NewString()[:8]
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, j.Loc)
	dayEnd := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 0, 0, j.Loc)

	raw, err := j.Calendar.FetchEvents(ctx, dayStart, dayEnd)
	if err != nil {
		log.Printf("morning[%s]: calendar fetch failed, skipping run: %v", runID, err)
		return err
	}
	agenda := FilterAgenda(raw, now, j.Loc)
	log.Printf("morning[%s]: %d events for today after exclusion", runID, len(agenda))

	snd := &sender{n: j.Notifier, chatID: j.ChatID}
	if len(agenda) == 0 {
		snd.send(ctx, j.Render.NoMeetingsToday())
		return nil
	}

	// Announcements show the feed's values; drift reconciliation stays with
	// the cycle job. Storage only learns about events it has not seen,
	// inside one transaction for the run.
	var anns []notify.Message
	err = j.Store.WithTx(ctx, func(s Store) error {
		for _, e := range agenda {
			shown := meeting.Meeting{
				ExternalID:  e.ExternalID,
				Title:       e.Title,
				Start:       e.Start,
				End:         e.End,
				IsTechnical: meeting.IsTechnical(e.Title),
			}

			stored, err := s.FindByExternalID(ctx, e.ExternalID)
			switch {
			case db.IsNotFound(err):
				if err := s.Insert(ctx, shown); err != nil {
					return err
				}
				log.Printf("morning[%s]: stored %s (%s)", runID, shown.ExternalID, shown.Title)
			case err != nil:
				return err
			default:
				shown.IsTaken = stored.IsTaken
				shown.TakenBy = stored.TakenBy
			}

			anns = append(anns, j.Render.Announcement(shown))
		}
		return nil
	})
	if err != nil {
		return err
	}

	snd.send(ctx, j.Render.MorningGreeting(len(agenda)))
	for _, msg := range anns {
		snd.send(ctx, msg)
	}
	return nil
}
