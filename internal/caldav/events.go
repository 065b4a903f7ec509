package caldav

import (
	"errors"
	"log"
	"time"

	"github.com/emersion/go-ical"

	"github.com/example/meetingbot/internal/domain/meeting"
)

// eventsFromCalendar converts every VEVENT of a fetched calendar into
// domain events, expanding recurrences into the [from, to] range. Events
// that cannot be interpreted are logged and skipped so one broken entry
// does not sink the whole fetch.
func eventsFromCalendar(cal *ical.Calendar, from, to time.Time) []meeting.CalendarEvent {
	var out []meeting.CalendarEvent
	for _, ev := range cal.Events() {
		events, err := expandEvent(ev, from, to)
		if err != nil {
			log.Printf("caldav: skipping unparsable VEVENT: %v", err)
			continue
		}
		out = append(out, events...)
	}
	return out
}

func expandEvent(ev ical.Event, from, to time.Time) ([]meeting.CalendarEvent, error) {
	uidProp := ev.Props.Get(ical.PropUID)
	if uidProp == nil || uidProp.Value == "" {
		return nil, errMissingUID
	}
	uid := uidProp.Value

	var title string
	if p := ev.Props.Get(ical.PropSummary); p != nil {
		title = p.Value
	}

	start, err := ev.DateTimeStart(time.UTC)
	if err != nil {
		return nil, err
	}
	end, err := ev.DateTimeEnd(time.UTC)
	if err != nil {
		return nil, err
	}
	start = meeting.NormalizeUTC(start)
	end = meeting.NormalizeUTC(end)

	set, err := ev.RecurrenceSet(time.UTC)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return []meeting.CalendarEvent{{
			ExternalID: uid,
			Title:      title,
			Start:      start,
			End:        end,
		}}, nil
	}

	// Recurring: one instance per occurrence in range. Instances share the
	// VEVENT UID, so the occurrence date is folded in to keep identifiers
	// stable and unique across fetches.
	duration := end.Sub(start)
	var out []meeting.CalendarEvent
	for _, inst := range set.Between(from, to, true) {
		inst = meeting.NormalizeUTC(inst)
		out = append(out, meeting.CalendarEvent{
			ExternalID: uid + "-" + inst.Format("20060102"),
			Title:      title,
			Start:      inst,
			End:        inst.Add(duration),
		})
	}
	return out, nil
}

var errMissingUID = errors.New("VEVENT without UID")
