package jobs

import (
	"context"
	"log"
	"time"

	"github.com/example/meetingbot/internal/domain/meeting"
	"github.com/example/meetingbot/internal/notify"
)

// Stats produces the end-of-month claim summary for the support chat.
type Stats struct {
	Store    Store
	Notifier notify.Notifier
	Render   notify.Renderer
	ChatID   int64
	Loc      *time.Location
}

func (j *Stats) Run(ctx context.Context, now time.Time) error {
	local := now.In(j.Loc)
	from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, j.Loc)
	to := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, j.Loc)

	ms, err := j.Store.ListWithinRange(ctx, meeting.NormalizeUTC(from), meeting.NormalizeUTC(to))
	if err != nil {
		return err
	}

	total, perUser := Summarize(ms)
	log.Printf("stats: %d meetings in range, %d taken", len(ms), total)

	snd := &sender{n: j.Notifier, chatID: j.ChatID}
	snd.send(ctx, j.Render.MonthlyReport(total, perUser))
	return nil
}

// Summarize counts taken meetings and the technical subset per claimant.
// Only meetings with a claimant contribute.
func Summarize(ms []meeting.Meeting) (int, []notify.ClaimStats) {
	total := 0
	idx := make(map[string]int)
	var perUser []notify.ClaimStats
	for _, m := range ms {
		if !m.IsTaken || m.TakenBy == "" {
			continue
		}
		total++
		i, ok := idx[m.TakenBy]
		if !ok {
			i = len(perUser)
			idx[m.TakenBy] = i
			perUser = append(perUser, notify.ClaimStats{Claimant: m.TakenBy})
		}
		perUser[i].Count++
		if m.IsTechnical {
			perUser[i].Technical++
		}
	}
	return total, perUser
}
