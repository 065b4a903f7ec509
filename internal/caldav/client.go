package caldav

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"github.com/example/meetingbot/internal/domain/meeting"
)

// Client reads events from a single CalDAV calendar collection with HTTP
// basic auth. The endpoint is the direct calendar URL, not the principal
// root.
type Client struct {
	c    *caldav.Client
	path string
}

func New(endpoint, username, password string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("caldav endpoint: %w", err)
	}

	hc := webdav.HTTPClientWithBasicAuth(&http.Client{Timeout: 15 * time.Second}, username, password)
	c, err := caldav.NewClient(hc, endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{c: c, path: u.Path}, nil
}

// FetchEvents runs a calendar-query REPORT for [startLocal, endLocal] and
// returns events normalized to canonical UTC. Recurring events are expanded
// into per-day instances within the range.
func (cl *Client) FetchEvents(ctx context.Context, startLocal, endLocal time.Time) ([]meeting.CalendarEvent, error) {
	from := meeting.NormalizeUTC(startLocal)
	to := meeting.NormalizeUTC(endLocal)

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Comps: []caldav.CalendarCompRequest{{Name: "VEVENT", AllProps: true}},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: from,
				End:   to,
			}},
		},
	}

	objs, err := cl.c.QueryCalendar(ctx, cl.path, query)
	if err != nil {
		return nil, fmt.Errorf("caldav query: %w", err)
	}

	var out []meeting.CalendarEvent
	for _, obj := range objs {
		if obj.Data == nil {
			continue
		}
		out = append(out, eventsFromCalendar(obj.Data, from, to)...)
	}
	return out, nil
}
