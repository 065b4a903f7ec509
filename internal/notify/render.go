package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/meetingbot/internal/domain/meeting"
)

const (
	technicalWarning = "\n‼️ Внимание это тех.встреча!!"
	overlapWarning   = "\n‼️ Внимание встреча пересекается с планеркой отдела тех.поддержки, перенесите встречу!!!"
)

// Renderer builds the chat texts. All times are shown in the organization's
// local zone.
type Renderer struct {
	Loc *time.Location
}

func (r Renderer) span(m meeting.Meeting) string {
	return fmt.Sprintf("%s - %s",
		m.Start.In(r.Loc).Format("15:04"),
		m.End.In(r.Loc).Format("15:04"))
}

func (r Renderer) localInterval(m meeting.Meeting) (time.Time, time.Time) {
	return m.Start.In(r.Loc), m.End.In(r.Loc)
}

func (r Renderer) MorningGreeting(count int) Message {
	return Message{Text: fmt.Sprintf("Доброе утро!\nНа сегодня назначено %d встреч.", count)}
}

func (r Renderer) NoMeetingsToday() Message {
	return Message{Text: "Доброе утро!\nНа сегодня встреч нет (или только планёрки)."}
}

// Announcement is the per-meeting morning message. The claim button is
// withheld when the meeting collides with a maintenance window.
func (r Renderer) Announcement(m meeting.Meeting) Message {
	text := fmt.Sprintf("Встреча на сегодня!\n%s\n%s", m.Title, r.span(m))
	return r.withWarnings(text, m)
}

// UrgentCreated announces a meeting that appeared same-day during the
// reconciliation cycle. Distinct phrasing from Announcement on purpose.
func (r Renderer) UrgentCreated(m meeting.Meeting) Message {
	text := fmt.Sprintf("‼️‼️ ВНИМАНИЕ! Встреча назначена день в день!\n%s\n%s", m.Title, r.span(m))
	return r.withWarnings(text, m)
}

func (r Renderer) Rescheduled(m meeting.Meeting) Message {
	text := fmt.Sprintf("Встреча перенесена:\n%s\nНовое время: %s", m.Title, r.span(m))
	if m.IsTechnical {
		text += "\n(Тех.встреча)"
	}
	ls, le := r.localInterval(m)
	if meeting.OverlapsMaintenance(ls, le) {
		text += overlapWarning
	}
	return Message{Text: text}
}

func (r Renderer) Canceled(title string) Message {
	return Message{Text: fmt.Sprintf("Встреча отменена:\n%s", title)}
}

// Claimed renders the post-claim state with the inverse control attached.
func (r Renderer) Claimed(m meeting.Meeting) Message {
	return Message{
		Text:   fmt.Sprintf("Встреча: %s\nВремя: %s\nВзял(а): @%s", m.Title, r.span(m), m.TakenBy),
		Action: &Action{Kind: ActionRelease, MeetingID: m.ExternalID},
	}
}

// Released renders the post-release state with the claim control restored.
func (r Renderer) Released(m meeting.Meeting) Message {
	return Message{
		Text:   fmt.Sprintf("Встреча: %s\nВремя: %s\nВстреча снова доступна для взятия.", m.Title, r.span(m)),
		Action: &Action{Kind: ActionClaim, MeetingID: m.ExternalID},
	}
}

func (r Renderer) withWarnings(text string, m meeting.Meeting) Message {
	if m.IsTechnical {
		text += technicalWarning
	}
	ls, le := r.localInterval(m)
	if meeting.OverlapsMaintenance(ls, le) {
		// No claim button: the meeting must be moved, not taken.
		return Message{Text: text + overlapWarning}
	}
	return Message{
		Text:   text,
		Action: &Action{Kind: ActionClaim, MeetingID: m.ExternalID},
	}
}

// ClaimStats is the per-claimant slice of the monthly report.
type ClaimStats struct {
	Claimant  string
	Count     int
	Technical int
}

// MonthlyReport renders the month summary. perUser is sorted by claimant
// for deterministic output.
func (r Renderer) MonthlyReport(total int, perUser []ClaimStats) Message {
	lines := []string{
		"Итоги месяца:",
		fmt.Sprintf("Всего взятых встреч: %d", total),
	}
	if len(perUser) > 0 {
		sorted := make([]ClaimStats, len(perUser))
		copy(sorted, perUser)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Claimant < sorted[j].Claimant })

		lines = append(lines, "", "По сотрудникам:")
		for _, s := range sorted {
			lines = append(lines, fmt.Sprintf("%s — %d встреч(и), из них тех.встреч: %d",
				s.Claimant, s.Count, s.Technical))
		}
	} else {
		lines = append(lines, "", "(Нет взятых встреч за этот период)")
	}
	return Message{Text: strings.Join(lines, "\n")}
}
