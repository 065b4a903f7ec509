package jobs

import (
	"time"

	"github.com/example/meetingbot/internal/domain/meeting"
)

// ActionKind is the outcome of reconciling one fetched event or one stored
// meeting.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCreate
	ActionReschedule
	ActionCancel
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionReschedule:
		return "reschedule"
	case ActionCancel:
		return "cancel"
	default:
		return "none"
	}
}

// Action is one step of a reconciliation plan. Event is set for Create,
// Reschedule and None; Meeting for Reschedule, Cancel and None.
type Action struct {
	Kind    ActionKind
	Event   meeting.CalendarEvent
	Meeting meeting.Meeting
}

// FilterAgenda normalizes fetched events and keeps those starting on now's
// local date, dropping the excluded recurring planning meetings.
func FilterAgenda(events []meeting.CalendarEvent, now time.Time, loc *time.Location) []meeting.CalendarEvent {
	today := now.In(loc)
	var out []meeting.CalendarEvent
	for _, e := range events {
		e.Start = meeting.NormalizeUTC(e.Start)
		e.End = meeting.NormalizeUTC(e.End)
		localStart := e.Start.In(loc)
		if localStart.Year() != today.Year() || localStart.YearDay() != today.YearDay() {
			continue
		}
		if meeting.IsExcludedPlanning(e.Title) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// PlanCycle diffs today's fetched agenda against today's stored meetings
// and returns the actions that bring storage in line with the feed.
//
//   - unknown event, end still in the future: Create
//   - known event whose start or end drifted by at least the tolerance:
//     Reschedule (claim state stays, classification is recomputed upstream)
//   - known event within tolerance: None
//   - stored meeting absent from the feed with its end still in the
//     future: Cancel; already-finished ones are left alone, a finished
//     meeting disappearing from the source is not an anomaly
func PlanCycle(now time.Time, fetched []meeting.CalendarEvent, stored []meeting.Meeting) []Action {
	byID := make(map[string]meeting.Meeting, len(stored))
	for _, m := range stored {
		byID[m.ExternalID] = m
	}

	var plan []Action
	seen := make(map[string]bool, len(fetched))
	for _, e := range fetched {
		seen[e.ExternalID] = true

		m, ok := byID[e.ExternalID]
		if !ok {
			if e.End.After(now) {
				plan = append(plan, Action{Kind: ActionCreate, Event: e})
			}
			continue
		}

		if meeting.TimesDifferEnough(m.Start, e.Start) || meeting.TimesDifferEnough(m.End, e.End) {
			plan = append(plan, Action{Kind: ActionReschedule, Event: e, Meeting: m})
		} else {
			plan = append(plan, Action{Kind: ActionNone, Event: e, Meeting: m})
		}
	}

	for _, m := range stored {
		if seen[m.ExternalID] {
			continue
		}
		if m.End.After(now) {
			plan = append(plan, Action{Kind: ActionCancel, Meeting: m})
		}
	}
	return plan
}
