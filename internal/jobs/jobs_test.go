package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/example/meetingbot/internal/db"
	"github.com/example/meetingbot/internal/domain/meeting"
	"github.com/example/meetingbot/internal/notify"
)

// Shared fakes for the job tests.

var msk = time.FixedZone("MSK", 3*60*60)

type memStore struct {
	loc      *time.Location
	meetings map[string]meeting.Meeting

	// failInsertID makes Insert of that external ID fail, for exercising
	// mid-run storage failures.
	failInsertID string
}

func newMemStore(loc *time.Location, ms ...meeting.Meeting) *memStore {
	s := &memStore{loc: loc, meetings: make(map[string]meeting.Meeting)}
	for _, m := range ms {
		s.meetings[m.ExternalID] = m
	}
	return s
}

func (s *memStore) FindByExternalID(_ context.Context, id string) (meeting.Meeting, error) {
	m, ok := s.meetings[id]
	if !ok {
		return meeting.Meeting{}, db.ErrNotFound
	}
	return m, nil
}

func (s *memStore) Insert(_ context.Context, m meeting.Meeting) error {
	if s.failInsertID != "" && m.ExternalID == s.failInsertID {
		return errors.New("insert rejected")
	}
	m.Start = meeting.NormalizeUTC(m.Start)
	m.End = meeting.NormalizeUTC(m.End)
	s.meetings[m.ExternalID] = m
	return nil
}

// WithTx mirrors the transactional repository: an error from fn restores
// the state from before the call.
func (s *memStore) WithTx(_ context.Context, fn func(Store) error) error {
	snap := make(map[string]meeting.Meeting, len(s.meetings))
	for k, v := range s.meetings {
		snap[k] = v
	}
	if err := fn(s); err != nil {
		s.meetings = snap
		return err
	}
	return nil
}

func (s *memStore) Reschedule(_ context.Context, id, title string, start, end time.Time, technical bool) error {
	m, ok := s.meetings[id]
	if !ok {
		return db.ErrNotFound
	}
	m.Title = title
	m.Start = meeting.NormalizeUTC(start)
	m.End = meeting.NormalizeUTC(end)
	m.IsTechnical = technical
	s.meetings[id] = m
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	delete(s.meetings, id)
	return nil
}

func (s *memStore) ListByLocalDate(_ context.Context, day time.Time) ([]meeting.Meeting, error) {
	local := day.In(s.loc)
	var out []meeting.Meeting
	for _, m := range s.meetings {
		ls := m.Start.In(s.loc)
		if ls.Year() == local.Year() && ls.YearDay() == local.YearDay() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) ListWithinRange(_ context.Context, from, to time.Time) ([]meeting.Meeting, error) {
	var out []meeting.Meeting
	for _, m := range s.meetings {
		if !m.Start.Before(from) && !m.End.After(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) DeleteEndedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, m := range s.meetings {
		if m.End.Before(cutoff) {
			delete(s.meetings, id)
			n++
		}
	}
	return n, nil
}

type memCalendar struct {
	events []meeting.CalendarEvent
	err    error
}

func (c *memCalendar) FetchEvents(context.Context, time.Time, time.Time) ([]meeting.CalendarEvent, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.events, nil
}

// recNotifier records sent messages; failOn makes the n-th send (1-based)
// fail.
type recNotifier struct {
	sent   []notify.Message
	failOn int
	calls  int
}

func (n *recNotifier) Send(_ context.Context, _ int64, msg notify.Message) error {
	n.calls++
	if n.failOn > 0 && n.calls == n.failOn {
		return errors.New("chat transport down")
	}
	n.sent = append(n.sent, msg)
	return nil
}
