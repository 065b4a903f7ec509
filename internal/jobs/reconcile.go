package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/meetingbot/internal/domain/meeting"
	"github.com/example/meetingbot/internal/notify"
)

// Active window of the organization: the cycle is a no-op outside
// 07:00-20:00 local.
const (
	activeHourFrom = 7
	activeHourTo   = 20
)

// Reconciler is the periodic sync cycle: fetch today's feed, diff it
// against storage and apply creates, reschedules and cancellations, each
// with its notification.
type Reconciler struct {
	Store    Store
	Calendar Calendar
	Notifier notify.Notifier
	Render   notify.Renderer
	ChatID   int64
	Loc      *time.Location
}

func (r *Reconciler) Run(ctx context.Context, now time.Time) error {
	local := now.In(r.Loc)
	if local.Hour() < activeHourFrom || local.Hour() >= activeHourTo {
		log.Printf("reconcile: outside %02d:00-%02d:00 local, skipping", activeHourFrom, activeHourTo)
		return nil
	}

	runID := uuid.NewString()[:8]
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.Loc)
	dayEnd := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 0, 0, r.Loc)

	raw, err := r.Calendar.FetchEvents(ctx, dayStart, dayEnd)
	if err != nil {
		log.Printf("reconcile[%s]: calendar fetch failed, skipping cycle: %v", runID, err)
		return err
	}
	agenda := FilterAgenda(raw, now, r.Loc)

	// All storage work of the run shares one transaction: a failure rolls
	// the whole cycle back, and nothing is announced for it.
	var queued []notify.Message
	err = r.Store.WithTx(ctx, func(s Store) error {
		stored, err := s.ListByLocalDate(ctx, dayStart)
		if err != nil {
			return err
		}

		plan := PlanCycle(now, agenda, stored)
		log.Printf("reconcile[%s]: %d fetched, %d stored, %d planned actions",
			runID, len(agenda), len(stored), len(plan))

		for _, a := range plan {
			switch a.Kind {
			case ActionCreate:
				m := meeting.Meeting{
					ExternalID:  a.Event.ExternalID,
					Title:       a.Event.Title,
					Start:       a.Event.Start,
					End:         a.Event.End,
					IsTechnical: meeting.IsTechnical(a.Event.Title),
				}
				if err := s.Insert(ctx, m); err != nil {
					return err
				}
				log.Printf("reconcile[%s]: created %s (%s)", runID, m.ExternalID, m.Title)
				queued = append(queued, r.Render.UrgentCreated(m))

			case ActionReschedule:
				technical := meeting.IsTechnical(a.Event.Title)
				if err := s.Reschedule(ctx, a.Event.ExternalID, a.Event.Title, a.Event.Start, a.Event.End, technical); err != nil {
					return err
				}
				updated := a.Meeting
				updated.Title = a.Event.Title
				updated.Start = a.Event.Start
				updated.End = a.Event.End
				updated.IsTechnical = technical
				log.Printf("reconcile[%s]: rescheduled %s (%s)", runID, updated.ExternalID, updated.Title)
				queued = append(queued, r.Render.Rescheduled(updated))

			case ActionCancel:
				if err := s.Delete(ctx, a.Meeting.ExternalID); err != nil {
					return err
				}
				log.Printf("reconcile[%s]: canceled %s (%s)", runID, a.Meeting.ExternalID, a.Meeting.Title)
				queued = append(queued, r.Render.Canceled(a.Meeting.Title))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	snd := &sender{n: r.Notifier, chatID: r.ChatID}
	for _, msg := range queued {
		snd.send(ctx, msg)
	}
	return nil
}

// sender delivers notifications on a best-effort basis. The first failure
// disables the remaining sends of the run; storage work is unaffected and
// the next cycle retries against fresh state.
type sender struct {
	n      notify.Notifier
	chatID int64
	broken bool
}

func (s *sender) send(ctx context.Context, msg notify.Message) {
	if s.broken {
		return
	}
	if err := s.n.Send(ctx, s.chatID, msg); err != nil {
		log.Printf("notify: send failed, dropping remaining sends this run: %v", err)
		s.broken = true
	}
}
